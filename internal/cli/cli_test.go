package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_EnvPathFromFlag(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"-env", "environments/dev"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "environments/dev", config.EnvPath)
	require.Equal(t, "manifest.hcl", config.ManifestPath)
}

func TestParse_EnvPathPositional(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"env.hcl"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "env.hcl", config.EnvPath)
}

func TestParse_Shorthand(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, _, err := Parse([]string{"-e", "env.hcl"}, out)
	require.NoError(t, err)
	require.Equal(t, "env.hcl", config.EnvPath)
}

func TestParse_Platforms(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, _, err := Parse([]string{"-platform", "linux/amd64, darwin/arm64", "env.hcl"}, out)
	require.NoError(t, err)
	require.Equal(t, []string{"linux/amd64", "darwin/arm64"}, config.Platforms)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, config)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidLogSettings(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"-log-format", "xml", "env.hcl"}},
		{"bad level", []string{"-log-level", "verbose", "env.hcl"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)
			require.Error(t, err)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected *ExitError, got %T", err)
			require.Equal(t, 2, exitErr.Code)
		})
	}
}
