package project

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry"
	"go.uber.org/zap"
)

// RegisterData registers a new version of a data asset on the write
// branch of the project scope
func (p *Project) RegisterData(ctx context.Context, name string, payload []byte, annotations map[string]string) (model.AssetDescriptor, error) {
	return p.register(ctx, model.KindData, name, payload, annotations)
}

// RegisterModel registers a new version of a model asset on the write
// branch of the project scope
func (p *Project) RegisterModel(ctx context.Context, name string, payload []byte, annotations map[string]string) (model.AssetDescriptor, error) {
	return p.register(ctx, model.KindModel, name, payload, annotations)
}

// GetData retrieves the payload and descriptor of a data asset from the
// read branch of the project scope
func (p *Project) GetData(ctx context.Context, name string) ([]byte, model.AssetDescriptor, error) {
	return p.get(ctx, model.KindData, name)
}

// GetModel retrieves the payload and descriptor of a model asset from
// the read branch of the project scope
func (p *Project) GetModel(ctx context.Context, name string) ([]byte, model.AssetDescriptor, error) {
	return p.get(ctx, model.KindModel, name)
}

func (p *Project) register(ctx context.Context, kind model.Kind, name string, payload []byte, annotations map[string]string) (model.AssetDescriptor, error) {
	if err := p.checkDeclared(kind, name); err != nil {
		return model.AssetDescriptor{}, err
	}
	opts := make([]registry.RegisterOption, 0, 2)
	if len(annotations) > 0 {
		opts = append(opts, registry.WithAnnotations(annotations))
	}
	if p.workflow != (model.WorkflowRef{}) {
		opts = append(opts, registry.WithWorkflow(p.workflow))
	}
	if kind == model.KindModel {
		return p.registry.RegisterModel(ctx, name, bytes.NewReader(payload), opts...)
	}
	return p.registry.RegisterData(ctx, name, bytes.NewReader(payload), opts...)
}

func (p *Project) get(ctx context.Context, kind model.Kind, name string) ([]byte, model.AssetDescriptor, error) {
	var (
		rdr io.ReadCloser
		ad  model.AssetDescriptor
		err error
	)
	if kind == model.KindModel {
		rdr, ad, err = p.registry.GetModel(ctx, name)
	} else {
		rdr, ad, err = p.registry.GetData(ctx, name)
	}
	if err != nil {
		return nil, ad, err
	}
	b, err := io.ReadAll(rdr)
	if cerr := rdr.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, ad, err
	}
	return b, ad, nil
}

// checkDeclared warns about registrations missing from the declared
// asset catalog. Without a catalog, or with an empty one, anything goes.
func (p *Project) checkDeclared(kind model.Kind, name string) error {
	if len(p.declared) == 0 {
		return nil
	}
	if _, ok := p.declared[kind][name]; ok {
		return nil
	}
	if p.strict {
		return ErrUndeclaredAsset.Wrap(fmt.Errorf("%v %q has no asset_config.toml", kind, name))
	}
	p.l.Warn("registering an asset not declared in the project tree",
		zap.Stringer("kind", kind),
		zap.String("name", name),
	)
	return nil
}
