// Package testutil provides shared helpers for package tests: parsing
// inline HCL snippets and assembling generator contexts without going
// through the full app startup.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/envforge/internal/fragment"
	"github.com/specialistvlad/envforge/internal/manifest"
	"github.com/specialistvlad/envforge/internal/plan"
	"github.com/specialistvlad/envforge/internal/toolchain"
	"github.com/stretchr/testify/require"
)

// ParseBody parses an inline HCL snippet and returns its body. The snippet
// stands in for the body of a fragment block.
func ParseBody(t *testing.T, src string) hcl.Body {
	t.Helper()
	file, diags := hclparse.NewParser().ParseHCL([]byte(src), t.Name()+".hcl")
	require.False(t, diags.HasErrors(), "test HCL must parse: %s", diags)
	return file.Body
}

// WriteFiles materializes a map of relative paths to contents under a fresh
// temp directory and returns its root.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		target := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte(content), 0o600))
	}
	return root
}

// Context assembles a generator context for the given settings snippet,
// with a fixed manifest, pinned toolchain, and platform.
func Context(t *testing.T, settings string) *fragment.Context {
	t.Helper()
	m := &manifest.Manifest{
		Name:         "demo",
		Version:      "0.1.0",
		NativeInputs: []string{"openssl", "pkg-config"},
	}
	spec, err := toolchain.Select(toolchain.Policy{
		Channel:    "nightly-2025-01-15",
		Components: []string{toolchain.ComponentSource, toolchain.ComponentAnalyzer},
	})
	require.NoError(t, err)
	platform := plan.Platform{OS: "linux", Arch: "amd64"}

	return &fragment.Context{
		Manifest:    m,
		Toolchain:   spec,
		Platform:    platform,
		Settings:    ParseBody(t, settings),
		EvalContext: fragment.NewEvalContext(m, spec, platform),
	}
}
