package hooks

import (
	"context"
	"testing"

	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/specialistvlad/envforge/internal/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestProduce_Defaults(t *testing.T) {
	t.Parallel()

	fc := testutil.Context(t, ``)

	f, err := (&Generator{}).Produce(context.Background(), fc)
	require.NoError(t, err)

	// Both config files are emitted.
	require.Contains(t, f.Files, hookConfigPath)
	require.Contains(t, f.Files, defaultFormatterConfig)

	var cfg hookConfig
	require.NoError(t, yaml.Unmarshal([]byte(f.Files[hookConfigPath]), &cfg))
	require.Len(t, cfg.Repos, 1)
	require.Len(t, cfg.Repos[0].Hooks, 2)
	require.Equal(t, "fmt", cfg.Repos[0].Hooks[0].ID)
	require.Equal(t, "lint", cfg.Repos[0].Hooks[1].ID)

	// The shell needs the hook runner and both hook tools on PATH, and the
	// env var pointing at the formatter config.
	require.Equal(t, []string{"pre-commit", "fmt", "lint"}, f.Tools)
	require.Equal(t, defaultFormatterConfig, f.Env["FMT_CONFIG"])

	// Hook installation runs after the config files exist.
	require.Equal(t, []string{"pre-commit install --install-hooks"}, f.Script)
}

func TestProduce_CustomFormatterConfigPath(t *testing.T) {
	t.Parallel()

	fc := testutil.Context(t, `formatter_config = "config/fmt.toml"`)

	f, err := (&Generator{}).Produce(context.Background(), fc)
	require.NoError(t, err)
	require.Contains(t, f.Files, "config/fmt.toml")
	require.Equal(t, "config/fmt.toml", f.Env["FMT_CONFIG"])
}

func TestProduce_SubsetOfHooks(t *testing.T) {
	t.Parallel()

	fc := testutil.Context(t, `hooks = ["fmt"]`)

	f, err := (&Generator{}).Produce(context.Background(), fc)
	require.NoError(t, err)

	var cfg hookConfig
	require.NoError(t, yaml.Unmarshal([]byte(f.Files[hookConfigPath]), &cfg))
	require.Len(t, cfg.Repos[0].Hooks, 1)
	require.Equal(t, "fmt", cfg.Repos[0].Hooks[0].ID)
	require.Equal(t, []string{"pre-commit", "fmt"}, f.Tools)
}

func TestProduce_UnknownHook(t *testing.T) {
	t.Parallel()

	fc := testutil.Context(t, `hooks = ["spellcheck"]`)

	_, err := (&Generator{}).Produce(context.Background(), fc)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown hook "spellcheck"`)
}

func TestGeneratorKind(t *testing.T) {
	t.Parallel()

	require.Equal(t, fragment.KindHooks, (&Generator{}).Kind())
}
