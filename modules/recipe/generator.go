// Package recipe generates the packaging recipe fragment: a derivation
// description file an external builder consumes, mirroring the build plan
// for the same platform. It also makes the pinned toolchain available in
// the dev shell, since a shell that can't run the same toolchain the
// recipe pins is a trap.
package recipe

import (
	"context"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/zclconf/go-cty/cty"
)

// defaultOutput is where the derivation description lands unless the block
// overrides it.
const defaultOutput = "derivation.hcl"

// Settings is the schema of a `fragment "recipe" ...` block.
type Settings struct {
	Output string            `hcl:"output,optional"`
	Env    map[string]string `hcl:"env,optional"`
	Tools  []string          `hcl:"tools,optional"`
}

// Generator produces the packaging recipe fragment.
type Generator struct{}

// Kind implements fragment.Generator.
func (g *Generator) Kind() fragment.Kind {
	return fragment.KindRecipe
}

// Produce implements fragment.Generator.
func (g *Generator) Produce(ctx context.Context, fc *fragment.Context) (*fragment.Fragment, error) {
	var settings Settings
	if err := fc.DecodeSettings(&settings); err != nil {
		return nil, err
	}
	output := settings.Output
	if output == "" {
		output = defaultOutput
	}

	f := &fragment.Fragment{
		Files: map[string]string{output: renderDerivation(fc)},
		Env:   map[string]string{"ENVFORGE_TOOLCHAIN": fc.Toolchain.Release},
		Tools: []string{"toolchain@" + fc.Toolchain.Release},
	}
	if err := fragment.ApplyExtras(f, settings.Env, settings.Tools); err != nil {
		return nil, err
	}
	return f, nil
}

// renderDerivation emits the derivation description in HCL form, the same
// configuration language the rest of the system speaks.
func renderDerivation(fc *fragment.Context) string {
	file := hclwrite.NewEmptyFile()
	body := file.Body().AppendNewBlock("derivation", []string{fc.Manifest.Name}).Body()

	body.SetAttributeValue("version", cty.StringVal(fc.Manifest.Version))
	body.SetAttributeValue("toolchain", cty.StringVal(fc.Toolchain.Release))
	body.SetAttributeValue("platform", cty.StringVal(fc.Platform.String()))
	body.SetAttributeValue("native_inputs", stringList(fc.Manifest.NativeInputs))
	body.SetAttributeValue("components", stringList(fc.Toolchain.Components))

	return string(file.Bytes())
}

// stringList converts a Go slice into a cty list value, handling empty.
func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	values := make([]cty.Value, len(items))
	for i, item := range items {
		values[i] = cty.StringVal(item)
	}
	return cty.ListVal(values)
}
