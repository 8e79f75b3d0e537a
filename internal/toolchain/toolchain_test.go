package toolchain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Rolling aliases must never resolve; only dated releases and exact
// versions pin to one concrete build.
func TestSelect_RejectsRollingAliases(t *testing.T) {
	t.Parallel()

	for _, channel := range []string{"latest", "nightly", "beta", "stable", "Latest", "NIGHTLY"} {
		channel := channel
		t.Run(channel, func(t *testing.T) {
			t.Parallel()

			_, err := Select(Policy{Channel: channel})
			require.Error(t, err)

			var uErr *UnresolvableError
			require.True(t, errors.As(err, &uErr))
			require.Equal(t, channel, uErr.Channel)
			require.Contains(t, uErr.Reason, "rolling alias")
		})
	}
}

func TestSelect_RejectsMalformedChannels(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		channel string
	}{
		{"empty", ""},
		{"garbage", "whatever"},
		{"partial date", "nightly-2025-01"},
		{"impossible date", "nightly-2025-13-40"},
		{"unknown channel kind", "canary-2025-01-15"},
		{"partial version", "1.82"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Select(Policy{Channel: tc.channel})
			var uErr *UnresolvableError
			require.True(t, errors.As(err, &uErr), "expected *UnresolvableError, got %v", err)
		})
	}
}

func TestSelect_AcceptsPinnedChannels(t *testing.T) {
	t.Parallel()

	for _, channel := range []string{"nightly-2025-01-15", "beta-2024-12-01", "stable-2025-03-14", "1.82.0"} {
		channel := channel
		t.Run(channel, func(t *testing.T) {
			t.Parallel()

			spec, err := Select(Policy{Channel: channel})
			require.NoError(t, err)
			require.Equal(t, channel, spec.Release)
		})
	}
}

func TestSelect_ResolvesComponents(t *testing.T) {
	t.Parallel()

	spec, err := Select(Policy{
		Channel:    "nightly-2025-01-15",
		Components: []string{ComponentDocs, ComponentSource, ComponentSource, ComponentCodegenBackend},
	})
	require.NoError(t, err)

	// Duplicates collapse and the set comes back sorted.
	require.Equal(t, []string{ComponentCodegenBackend, ComponentDocs, ComponentSource}, spec.Components)
}

func TestSelect_UnknownComponent(t *testing.T) {
	t.Parallel()

	_, err := Select(Policy{Channel: "nightly-2025-01-15", Components: []string{"debugger"}})
	require.Error(t, err)

	var uErr *UnresolvableError
	require.True(t, errors.As(err, &uErr))
	require.Equal(t, "debugger", uErr.Component)
}

// The codegen backend only ships on nightly channels, so requesting it on
// stable has no concrete build to resolve to.
func TestSelect_CodegenBackendIsNightlyOnly(t *testing.T) {
	t.Parallel()

	_, err := Select(Policy{Channel: "stable-2025-03-14", Components: []string{ComponentCodegenBackend}})
	require.Error(t, err)

	var uErr *UnresolvableError
	require.True(t, errors.As(err, &uErr))
	require.Equal(t, ComponentCodegenBackend, uErr.Component)

	_, err = Select(Policy{Channel: "nightly-2025-01-15", Components: []string{ComponentCodegenBackend}})
	require.NoError(t, err)
}
