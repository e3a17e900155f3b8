package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/obproject/obproject/pkg/model"
	"gopkg.in/yaml.v2"
)

const (
	testProject   = "myproject"
	testBranch    = "main"
	testVersionID = "1Jbb3SicFGoKB7JQJZdCCwdBQwE"
)

var testPayloadDigest = model.NewDigest([]byte("sixteentons")).String()

type testReadCloserWithErr struct {
}

func (testReadCloserWithErr) Read(_ []byte) (int, error) {
	return 0, errors.New("io error")
}
func (testReadCloserWithErr) Close() error {
	return nil
}

func fakeHeadPath(kind model.Kind, name string) string {
	return model.GetArchivePathToHead(testProject, testBranch, kind, name)
}

func extractComponents(pth string) model.ArchivePathComponents {
	comp, err := model.GetArchivePathComponents(pth)
	if err != nil {
		panic(fmt.Sprintf("test config error: %v", err))
	}
	return comp
}

func fakeAD(kind model.Kind, name, versionID string) model.AssetDescriptor {
	return model.AssetDescriptor{
		ID:          versionID,
		Name:        name,
		Kind:        kind,
		Branch:      testBranch,
		Digest:      testPayloadDigest,
		Size:        42,
		Contributor: model.Contributor{Email: "test@example.com"},
	}
}

func fakeHD(versionID string) model.HeadDescriptor {
	return model.HeadDescriptor{
		VersionID: versionID,
		Digest:    testPayloadDigest,
	}
}

func buildAssetYaml(kind model.Kind, name, versionID string) string {
	ad := fakeAD(kind, name, versionID)
	asYaml, _ := yaml.Marshal(ad)
	return string(asYaml)
}

func buildHeadYaml(versionID string) string {
	hd := fakeHD(versionID)
	asYaml, _ := yaml.Marshal(hd)
	return string(asYaml)
}

func garbleYaml(in string) string {
	return in + `
>>>> # this line intentionally invalid YAML
	`
}

func goodHasFunc(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func goodKeysFunc(_ context.Context) ([]string, error) {
	return nil, nil
}

func goodKeysPrefixFunc(names ...string) func(context.Context, string, string, string, int) ([]string, string, error) {
	return func(_ context.Context, _ string, _ string, _ string, _ int) ([]string, string, error) {
		keys := make([]string, 0, len(names))
		for _, name := range names {
			keys = append(keys, fakeHeadPath(model.KindData, name))
		}
		return keys, "", nil
	}
}

// goodWindowKeysPrefixFunc pages through a key fixture, the page token
// being the last key of the previous page
func goodWindowKeysPrefixFunc(keysBatchFixture []string) func(context.Context, string, string, string, int) ([]string, string, error) {
	return func(_ context.Context, next string, _ string, _ string, count int) ([]string, string, error) {
		index := 0
		window := minInt(count, len(keysBatchFixture))

		if next != "" {
			for i, key := range keysBatchFixture {
				if key == next {
					index = i + 1
					break
				}
			}
		}
		last := minInt(index+window, len(keysBatchFixture))
		var following string
		if last < len(keysBatchFixture) {
			following = keysBatchFixture[last-1]
		}
		return keysBatchFixture[index:last], following, nil
	}
}

func breakAfterFourBatches(keysBatchFixture []string) func(context.Context, string, string, string, int) ([]string, string, error) {
	return func(_ context.Context, next string, _ string, _ string, count int) ([]string, string, error) {
		// returns an error somewhere within the key scan
		index := 0
		window := minInt(count, len(keysBatchFixture))

		if next != "" {
			for i, key := range keysBatchFixture {
				if key == next {
					index = i + 1
					break
				}
			}
		}

		if index > 4*testBatchSize {
			return nil, "", errors.New("test key fetch error")
		}

		last := minInt(index+window, len(keysBatchFixture))
		var following string
		if last < len(keysBatchFixture) {
			following = keysBatchFixture[last-1]
		}
		return keysBatchFixture[index:last], following, nil
	}
}

func goodGetHeadFunc(_ context.Context, pth string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(buildHeadYaml(testVersionID))), nil
}

func goodGetVersionFunc(_ context.Context, pth string) (io.ReadCloser, error) {
	comp := extractComponents(pth)
	return io.NopCloser(strings.NewReader(buildAssetYaml(comp.Kind, comp.Name, comp.VersionID))), nil
}

func breakAfterFiveVersionsGetFunc(_ context.Context, pth string) (io.ReadCloser, error) {
	// returns an error somewhere within the batch
	comp := extractComponents(pth)
	index := 0
	for i, key := range headKeysBatchFixture {
		if strings.Contains(key, "/"+comp.Name+"/") {
			index = i
			break
		}
	}
	if index > 5*testBatchSize {
		return nil, errors.New("test version fetch error")
	}
	return io.NopCloser(strings.NewReader(buildAssetYaml(comp.Kind, comp.Name, comp.VersionID))), nil
}
