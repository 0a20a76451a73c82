package lnb

import "github.com/n0roo/navkit/internal/route"

// Origin tells where a menu came from
type Origin string

const (
	OriginDatabase Origin = "database"
	OriginFile     Origin = "file"
	OriginDefault  Origin = "default"
)

// Provider returns the menu of a tenant/module. Nodes stored in the
// database win; otherwise the static menu file, then the built-in default.
type Provider struct {
	store  *Service
	static *FileSource
}

// NewProvider creates a provider. Either argument may be nil.
func NewProvider(store *Service, static *FileSource) *Provider {
	return &Provider{store: store, static: static}
}

// Menu returns nested nodes and their origin
func (p *Provider) Menu(tenantID string, module route.Module) ([]Config, Origin, error) {
	if p.store != nil && tenantID != "" {
		tree, err := p.store.Tree(tenantID, module)
		if err != nil {
			return nil, "", err
		}
		if len(tree) > 0 {
			return tree, OriginDatabase, nil
		}
	}

	if p.static != nil {
		f, err := p.static.Load()
		if err != nil {
			return nil, "", err
		}
		return f.Menu(module), OriginFile, nil
	}

	f, err := DefaultMenu()
	if err != nil {
		return nil, "", err
	}
	return f.Menu(module), OriginDefault, nil
}

// StaticPath returns the menu file path, or "" when none is configured
func (p *Provider) StaticPath() string {
	if p.static == nil {
		return ""
	}
	return p.static.Path()
}
