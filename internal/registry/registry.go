// Package registry provides the central "glue" for the generator system.
//
// The Registry stores the mapping between the fragment kinds used in
// environment definitions (e.g. "ci", "hooks") and the compiled Go
// generators that implement them. During application startup the registry
// is populated and then validated against the loaded definition, so a
// fragment block with no backing generator fails before any realization
// starts rather than midway through one.
package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/envforge/internal/ctxlog"
	"github.com/specialistvlad/envforge/internal/envdef"
	"github.com/specialistvlad/envforge/internal/fragment"
)

// Module is the interface all generator modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered fragment generators for one application
// instance.
type Registry struct {
	generators map[fragment.Kind]fragment.Generator
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		generators: make(map[fragment.Kind]fragment.Generator),
	}
}

// RegisterGenerator registers a generator for its kind. Registering two
// generators for the same kind is a programmer error and panics.
func (r *Registry) RegisterGenerator(g fragment.Generator) {
	if _, exists := r.generators[g.Kind()]; exists {
		panic(fmt.Sprintf("generator for kind '%s' already registered", g.Kind()))
	}
	r.generators[g.Kind()] = g
}

// Generator returns the generator registered for kind, or nil.
func (r *Registry) Generator(kind fragment.Kind) fragment.Generator {
	return r.generators[kind]
}

// Validate checks that every fragment block in the definition has a
// registered generator. Registered generators with no blocks are fine; a
// block with no generator is not.
func (r *Registry) Validate(ctx context.Context, def *envdef.Definition) error {
	logger := ctxlog.FromContext(ctx)
	for _, block := range def.Fragments {
		if _, ok := r.generators[block.Kind]; !ok {
			return fmt.Errorf("fragment %q.%q (declared in %s) has no registered generator", block.Kind, block.Name, block.File)
		}
	}
	logger.Debug("Registry validation passed.", "generators", len(r.generators), "fragments", len(def.Fragments))
	return nil
}
