package fragment_test

import (
	"testing"

	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/specialistvlad/envforge/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Fragment settings may interpolate package, platform, and toolchain values.
func TestDecodeSettings_Interpolation(t *testing.T) {
	t.Parallel()

	fc := testutil.Context(t, `
		greeting = "${package.name} ${package.version} on ${platform.os}/${platform.arch}"
		release  = toolchain.release
	`)

	var settings struct {
		Greeting string `hcl:"greeting"`
		Release  string `hcl:"release"`
	}
	require.NoError(t, fc.DecodeSettings(&settings))
	require.Equal(t, "demo 0.1.0 on linux/amd64", settings.Greeting)
	require.Equal(t, "nightly-2025-01-15", settings.Release)
}

func TestDecodeSettings_NilBody(t *testing.T) {
	t.Parallel()

	fc := &fragment.Context{}
	var settings struct {
		Anything string `hcl:"anything,optional"`
	}
	require.NoError(t, fc.DecodeSettings(&settings))
}

func TestApplyExtras(t *testing.T) {
	t.Parallel()

	f := &fragment.Fragment{
		Kind:  fragment.KindCI,
		Name:  "workflows",
		Env:   map[string]string{"A": "1"},
		Tools: []string{"fmt"},
	}

	err := fragment.ApplyExtras(f, map[string]string{"B": "2", "A": "1"}, []string{"lint"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, f.Env)
	require.Equal(t, []string{"fmt", "lint"}, f.Tools)
}

// A block-level env value contradicting the generator's own value must not
// silently win.
func TestApplyExtras_Contradiction(t *testing.T) {
	t.Parallel()

	f := &fragment.Fragment{
		Kind: fragment.KindCI,
		Name: "workflows",
		Env:  map[string]string{"A": "1"},
	}

	err := fragment.ApplyExtras(f, map[string]string{"A": "2"}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"A"`)
}

func TestFragmentID(t *testing.T) {
	t.Parallel()

	f := &fragment.Fragment{Kind: fragment.KindHooks, Name: "precommit"}
	require.Equal(t, "hooks.precommit", f.ID())
}
