package hooks

import (
	"github.com/specialistvlad/envforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the lint/format hook generator with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator(&Generator{})
}
