package registry_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/envforge/internal/envdef"
	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/specialistvlad/envforge/internal/registry"
	"github.com/specialistvlad/envforge/modules/ci"
	"github.com/specialistvlad/envforge/modules/hooks"
	"github.com/stretchr/testify/require"
)

func TestRegisterGenerator_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&ci.Module{}).Register(r)

	require.Panics(t, func() {
		(&ci.Module{}).Register(r)
	})
}

func TestGenerator_Lookup(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&ci.Module{}).Register(r)
	(&hooks.Module{}).Register(r)

	require.NotNil(t, r.Generator(fragment.KindCI))
	require.NotNil(t, r.Generator(fragment.KindHooks))
	require.Nil(t, r.Generator(fragment.KindDocs))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	r := registry.New()
	(&ci.Module{}).Register(r)

	def := &envdef.Definition{
		Fragments: []envdef.Block{
			{Kind: fragment.KindCI, Name: "workflows", File: "env.hcl"},
		},
	}
	require.NoError(t, r.Validate(context.Background(), def))

	def.Fragments = append(def.Fragments, envdef.Block{
		Kind: fragment.KindHooks, Name: "precommit", File: "env.hcl",
	})
	err := r.Validate(context.Background(), def)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"hooks"."precommit"`)
}
