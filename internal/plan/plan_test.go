package plan

import (
	"testing"

	"github.com/specialistvlad/envforge/internal/manifest"
	"github.com/specialistvlad/envforge/internal/toolchain"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  Platform
	}{
		{"linux/amd64", Platform{OS: "linux", Arch: "amd64"}},
		{"darwin/arm64", Platform{OS: "darwin", Arch: "arm64"}},
		{"x86_64-linux", Platform{OS: "linux", Arch: "amd64"}},
		{"aarch64-darwin", Platform{OS: "darwin", Arch: "arm64"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePlatform(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParsePlatform_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "linux", "linux/", "/amd64", "-linux"} {
		input := input
		t.Run("input_"+input, func(t *testing.T) {
			t.Parallel()

			_, err := ParsePlatform(input)
			require.Error(t, err)
		})
	}
}

// Manifest name and version must land in the plan verbatim.
func TestGenerate_PreservesManifestFields(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Name: "demo", Version: "0.1.0", NativeInputs: []string{"openssl"}}
	spec, err := toolchain.Select(toolchain.Policy{Channel: "nightly-2025-01-15", Components: []string{"source"}})
	require.NoError(t, err)
	platform := Platform{OS: "linux", Arch: "amd64"}

	p := Generate(m, spec, "Cargo.lock", ".", platform)

	require.Equal(t, "demo", p.Package)
	require.Equal(t, "0.1.0", p.Version)
	require.Equal(t, "nightly-2025-01-15", p.Toolchain)
	require.Equal(t, []string{"source"}, p.Components)
	require.Equal(t, []string{"openssl"}, p.NativeInputs)
	require.Equal(t, "Cargo.lock", p.LockfileRef)
	require.Equal(t, ".", p.SourceRef)
	require.Equal(t, platform, p.Platform)
	require.NotEmpty(t, p.ID)
}

// Each generated plan gets its own identifier.
func TestGenerate_UniqueIDs(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Name: "demo", Version: "0.1.0"}
	spec := &toolchain.Spec{Release: "1.82.0"}

	first := Generate(m, spec, "", "", Platform{OS: "linux", Arch: "amd64"})
	second := Generate(m, spec, "", "", Platform{OS: "linux", Arch: "amd64"})
	require.NotEqual(t, first.ID, second.ID)
}
