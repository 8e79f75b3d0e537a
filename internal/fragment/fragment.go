// Package fragment defines the unit of generated configuration and the
// contract every generator implements.
//
// A Fragment is one generator's contribution to the composed environment:
// file artifacts, environment variables, tool identifiers, and init-script
// statements. Fragments are plain values, immutable once returned, and
// generators never write files themselves; rendering to disk is the
// caller's concern.
package fragment

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/envforge/internal/manifest"
	"github.com/specialistvlad/envforge/internal/plan"
	"github.com/specialistvlad/envforge/internal/toolchain"
	"github.com/zclconf/go-cty/cty"
)

// Kind identifies which generator family a fragment belongs to.
type Kind string

const (
	KindCI     Kind = "ci"
	KindDocs   Kind = "docs"
	KindHooks  Kind = "hooks"
	KindRecipe Kind = "recipe"
)

// KnownKinds lists every kind a fragment block may declare.
var KnownKinds = []Kind{KindCI, KindDocs, KindHooks, KindRecipe}

// Fragment is one generator's contribution to the composed environment.
type Fragment struct {
	Kind Kind
	Name string

	// Files maps repository-relative target paths to rendered content.
	Files map[string]string

	// Env holds environment variable contributions for the dev shell.
	Env map[string]string

	// Tools lists tool identifiers to make available on PATH, either bare
	// names or pinned "name@version" identifiers.
	Tools []string

	// Script holds init-script statements, executed once per session in
	// the order given here.
	Script []string
}

// ID returns the fragment's diagnostic identifier, used in conflict errors.
func (f *Fragment) ID() string {
	return string(f.Kind) + "." + f.Name
}

// Context carries everything a generator may consume for one realization.
// It is built per platform; generators for distinct platforms never share
// one.
type Context struct {
	Manifest  *manifest.Manifest
	Toolchain *toolchain.Spec
	Platform  plan.Platform

	// Settings is the undecoded body of the fragment's HCL block. Each
	// generator decodes its own schema from it via DecodeSettings.
	Settings hcl.Body

	// EvalContext exposes package, platform, and toolchain values to
	// expressions inside the fragment block.
	EvalContext *hcl.EvalContext
}

// DecodeSettings decodes the fragment block body into target, evaluating
// expressions against the context's EvalContext.
func (fc *Context) DecodeSettings(target any) error {
	if fc.Settings == nil {
		return nil
	}
	if diags := gohcl.DecodeBody(fc.Settings, fc.EvalContext, target); diags.HasErrors() {
		return diags
	}
	return nil
}

// Generator is the polymorphic contract all fragment generators implement.
// Produce must be pure: no file writes, no hidden state, output fully
// determined by the context.
type Generator interface {
	Kind() Kind
	Produce(ctx context.Context, fc *Context) (*Fragment, error)
}

// NewEvalContext builds the expression scope shared by all fragment blocks
// of one realization.
func NewEvalContext(m *manifest.Manifest, spec *toolchain.Spec, platform plan.Platform) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"package": cty.ObjectVal(map[string]cty.Value{
				"name":    cty.StringVal(m.Name),
				"version": cty.StringVal(m.Version),
			}),
			"platform": cty.ObjectVal(map[string]cty.Value{
				"os":   cty.StringVal(platform.OS),
				"arch": cty.StringVal(platform.Arch),
			}),
			"toolchain": cty.ObjectVal(map[string]cty.Value{
				"release": cty.StringVal(spec.Release),
			}),
		},
	}
}

// ApplyExtras folds block-level env and tool declarations into a generated
// fragment. A block-level key that collides with a generator-produced key
// at a different value is an error; one fragment must not be internally
// inconsistent.
func ApplyExtras(f *Fragment, env map[string]string, tools []string) error {
	if len(env) > 0 && f.Env == nil {
		f.Env = make(map[string]string, len(env))
	}
	for k, v := range env {
		if existing, exists := f.Env[k]; exists && existing != v {
			return fmt.Errorf("block-level env %q=%q contradicts generated value %q", k, v, existing)
		}
		f.Env[k] = v
	}
	f.Tools = append(f.Tools, tools...)
	return nil
}
