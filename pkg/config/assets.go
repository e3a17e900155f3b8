package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/obproject/obproject/pkg/model"
	toml "github.com/pelletier/go-toml"
	"github.com/spf13/afero"
)

// AssetConfig mirrors an asset_config.toml file
type AssetConfig struct {
	Name string `toml:"name"`
	Kind string `toml:"kind,omitempty"`
}

// DeclaredAsset is an asset declared by an asset_config.toml file under
// the project tree
type DeclaredAsset struct {
	Name string
	Kind model.Kind
	Dir  string
}

// DeclaredAssets scans the data/ and models/ trees under the project root
// for asset_config.toml files. The kind defaults from the tree an asset
// lives in; a declared kind contradicting its tree is an error.
func DeclaredAssets(fs afero.Fs, root string) ([]DeclaredAsset, error) {
	var declared []DeclaredAsset
	for _, tree := range []struct {
		dir  string
		kind model.Kind
	}{
		{dir: DataDir, kind: model.KindData},
		{dir: ModelsDir, kind: model.KindModel},
	} {
		assets, err := scanAssetTree(fs, filepath.Join(root, tree.dir), tree.kind)
		if err != nil {
			return nil, err
		}
		declared = append(declared, assets...)
	}
	sort.Slice(declared, func(i, j int) bool {
		if declared[i].Kind != declared[j].Kind {
			return declared[i].Kind < declared[j].Kind
		}
		return declared[i].Name < declared[j].Name
	})
	return declared, nil
}

func scanAssetTree(fs afero.Fs, tree string, kind model.Kind) ([]DeclaredAsset, error) {
	entries, err := afero.ReadDir(fs, tree)
	if err != nil {
		// a project does not need to have both trees
		return nil, nil
	}
	var declared []DeclaredAsset
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(tree, entry.Name())
		cfgPath := filepath.Join(dir, AssetCfgFile)
		found, err := afero.Exists(fs, cfgPath)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		asset, err := loadAssetConfig(fs, cfgPath, entry.Name(), kind)
		if err != nil {
			return nil, err
		}
		declared = append(declared, asset)
	}
	return declared, nil
}

func loadAssetConfig(fs afero.Fs, cfgPath, dirName string, kind model.Kind) (DeclaredAsset, error) {
	b, err := afero.ReadFile(fs, cfgPath)
	if err != nil {
		return DeclaredAsset{}, err
	}
	var cfg AssetConfig
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return DeclaredAsset{}, ErrInvalidConfig.Wrap(fmt.Errorf("%s: %v", cfgPath, err))
	}
	if cfg.Name == "" {
		cfg.Name = dirName
	}
	if err := model.ValidateAssetName(cfg.Name); err != nil {
		return DeclaredAsset{}, ErrInvalidConfig.Wrap(fmt.Errorf("%s: %v", cfgPath, err))
	}
	if cfg.Kind != "" {
		declaredKind, err := model.ParseKind(cfg.Kind)
		if err != nil {
			return DeclaredAsset{}, ErrInvalidConfig.Wrap(fmt.Errorf("%s: %v", cfgPath, err))
		}
		if declaredKind != kind {
			return DeclaredAsset{}, ErrInvalidConfig.Wrap(
				fmt.Errorf("%s: declares kind %q but lives in the %q tree", cfgPath, declaredKind, kind))
		}
	}
	return DeclaredAsset{Name: cfg.Name, Kind: kind, Dir: filepath.Dir(cfgPath)}, nil
}
