// Package project exposes the handle workflow code programs against.
//
// A Project binds the settings from obproject.toml, the deployment
// context and a set of object stores into one value with byte level
// register and get operations. The branch namespaces all operations
// resolve to are fixed once at construction (see model.ResolveScope):
// flows and scripts never pass branch names around.
package project

import (
	"fmt"
	"os"
	"os/user"

	"github.com/obproject/obproject/pkg/config"
	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrUndeclaredAsset indicates a registration for an asset name missing
// from the asset_config.toml catalog, with strict checking enabled
var ErrUndeclaredAsset = errors.New("asset is not declared in the project tree")

// Project is the handle for asset operations scoped to one project
type Project struct {
	cfg         *config.ProjectConfig
	spec        *model.DeploymentSpec
	st          stores.Stores
	scope       model.Scope
	registry    *registry.Registry
	declared    map[model.Kind]map[string]struct{}
	strict      bool
	user        string
	contributor model.Contributor
	workflow    model.WorkflowRef
	metrics     bool
	l           *zap.Logger
}

// Option is a functor to configure a project handle
type Option func(*Project)

// Config sets the project configuration. Required.
func Config(cfg *config.ProjectConfig) Option {
	return func(p *Project) {
		p.cfg = cfg
	}
}

// Deployment sets the deployment context. A nil spec means local
// development.
func Deployment(spec *model.DeploymentSpec) Option {
	return func(p *Project) {
		p.spec = spec
	}
}

// Stores sets the object stores backing the registry. Required.
func Stores(st stores.Stores) Option {
	return func(p *Project) {
		p.st = st
	}
}

// User sets the user name the local development write branch derives
// from. Defaults to the current OS user.
func User(name string) Option {
	return func(p *Project) {
		p.user = name
	}
}

// ContributedBy sets the contributor stamped on descriptors. Defaults to
// the user name.
func ContributedBy(c model.Contributor) Option {
	return func(p *Project) {
		p.contributor = c
	}
}

// Declared registers the asset catalog scanned from the project tree
func Declared(assets []config.DeclaredAsset) Option {
	return func(p *Project) {
		for _, a := range assets {
			if p.declared[a.Kind] == nil {
				p.declared[a.Kind] = make(map[string]struct{})
			}
			p.declared[a.Kind][a.Name] = struct{}{}
		}
	}
}

// WithStrictAssets makes registrations of undeclared asset names fail
// with ErrUndeclaredAsset instead of logging a warning
func WithStrictAssets(strict bool) Option {
	return func(p *Project) {
		p.strict = strict
	}
}

// WithMetrics toggles usage metrics collection on the underlying registry
func WithMetrics(enabled bool) Option {
	return func(p *Project) {
		p.metrics = enabled
	}
}

// Logger sets the logger for this handle and its registry
func Logger(l *zap.Logger) Option {
	return func(p *Project) {
		if l != nil {
			p.l = l
		}
	}
}

// New builds a project handle from its options
func New(opts ...Option) (*Project, error) {
	p := &Project{
		declared: make(map[model.Kind]map[string]struct{}),
		l:        zap.NewNop(),
	}
	for _, apply := range opts {
		apply(p)
	}
	if p.cfg == nil {
		return nil, fmt.Errorf("a project configuration is required")
	}
	if p.st == nil {
		return nil, fmt.Errorf("a set of stores is required")
	}
	if p.user == "" {
		p.user = currentUser()
	}
	if p.contributor.Name == "" && p.contributor.Email == "" {
		p.contributor = model.Contributor{Name: p.user}
	}
	p.scope = model.ResolveScope(p.cfg.Project, p.cfg.DevAssets.Branch, p.spec, p.user)
	p.registry = registry.New(
		registry.Scope(p.scope),
		registry.Stores(p.st),
		registry.ContributedBy(p.contributor),
		registry.Logger(p.l),
		registry.WithMetrics(p.metrics),
	)
	p.l.Debug("resolved project scope", zap.Stringer("scope", p.scope))
	return p, nil
}

// Open builds a project handle from the obproject.toml found in dir or
// any of its parents, scanning the tree for declared assets and picking
// up the deployment spec from the environment. Stores still come in
// through options.
func Open(fs afero.Fs, dir string, opts ...Option) (*Project, error) {
	cfg, root, err := config.LoadProjectFromDir(fs, dir)
	if err != nil {
		return nil, err
	}
	declared, err := config.DeclaredAssets(fs, root)
	if err != nil {
		return nil, err
	}
	spec, err := config.LoadDeploymentSpec(fs)
	if err != nil {
		return nil, err
	}
	merged := append([]Option{Config(cfg), Deployment(spec), Declared(declared)}, opts...)
	return New(merged...)
}

// Name yields the project name
func (p *Project) Name() string {
	return p.cfg.Project
}

// Scope yields the resolved branch scope of this handle
func (p *Project) Scope() model.Scope {
	return p.scope
}

// Contributor yields the contributor stamped on descriptors
func (p *Project) Contributor() model.Contributor {
	return p.contributor
}

// Registry exposes the underlying registry for listing and maintenance
// operations not covered by the byte level surface
func (p *Project) Registry() *registry.Registry {
	return p.registry
}

// Bound returns a copy of the handle whose registrations carry the given
// workflow reference
func (p *Project) Bound(ref model.WorkflowRef) *Project {
	bound := *p
	bound.workflow = ref
	return &bound
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "unknown"
}
