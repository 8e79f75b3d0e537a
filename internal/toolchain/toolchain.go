// Package toolchain resolves a channel policy into a pinned toolchain.
//
// The central rule here is pinning: rolling aliases like "latest" or a bare
// "nightly" are rejected outright, because the set of optional components
// available on a rolling channel varies from day to day. A policy must name
// either a dated release ("nightly-2025-01-15") or an exact version
// ("1.82.0"), so that resolution always lands on exactly one concrete build.
package toolchain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Policy is the user's requested channel plus optional components, decoded
// from a `toolchain` block in the environment definition.
type Policy struct {
	Channel    string   `hcl:"channel"`
	Components []string `hcl:"components,optional"`
}

// Spec is a fully pinned toolchain: a concrete release identifier and the
// resolved component set. Nothing downstream needs to resolve it further.
type Spec struct {
	Release    string
	Components []string
}

// UnresolvableError reports a policy that cannot be pinned to exactly one
// concrete toolchain build.
type UnresolvableError struct {
	Channel   string
	Component string
	Reason    string
}

// Error implements the error interface.
func (e *UnresolvableError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("unresolvable toolchain: channel %q, component %q: %s", e.Channel, e.Component, e.Reason)
	}
	return fmt.Sprintf("unresolvable toolchain: channel %q: %s", e.Channel, e.Reason)
}

// Component names accepted in a policy. The codegen backend only ships on
// nightly channels; the availability table below encodes that.
const (
	ComponentSource         = "source"
	ComponentAnalyzer       = "analyzer"
	ComponentDocs           = "docs"
	ComponentCodegenBackend = "codegen-backend"
)

// componentChannels maps each known component to the channel kinds it is
// published for.
var componentChannels = map[string]map[string]bool{
	ComponentSource:         {"nightly": true, "beta": true, "stable": true, "version": true},
	ComponentAnalyzer:       {"nightly": true, "beta": true, "stable": true, "version": true},
	ComponentDocs:           {"nightly": true, "beta": true, "stable": true, "version": true},
	ComponentCodegenBackend: {"nightly": true},
}

var (
	datedRelease = regexp.MustCompile(`^(nightly|beta|stable)-(\d{4}-\d{2}-\d{2})$`)
	exactVersion = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// Select resolves a channel policy into a pinned Spec. It returns an
// *UnresolvableError if the channel is a rolling alias, the date is not a
// real calendar date, or a requested component is unknown or not published
// for the channel kind.
func Select(policy Policy) (*Spec, error) {
	kind, err := channelKind(policy.Channel)
	if err != nil {
		return nil, err
	}

	components := make([]string, 0, len(policy.Components))
	seen := make(map[string]bool, len(policy.Components))
	for _, comp := range policy.Components {
		channels, known := componentChannels[comp]
		if !known {
			return nil, &UnresolvableError{Channel: policy.Channel, Component: comp, Reason: "unknown component"}
		}
		if !channels[kind] {
			return nil, &UnresolvableError{
				Channel:   policy.Channel,
				Component: comp,
				Reason:    fmt.Sprintf("not published for %s channels", kind),
			}
		}
		if seen[comp] {
			continue
		}
		seen[comp] = true
		components = append(components, comp)
	}
	sort.Strings(components)

	return &Spec{Release: policy.Channel, Components: components}, nil
}

// channelKind classifies a channel string, rejecting anything that does not
// pin to exactly one concrete build.
func channelKind(channel string) (string, error) {
	if channel == "" {
		return "", &UnresolvableError{Channel: channel, Reason: "channel must not be empty"}
	}

	switch strings.ToLower(channel) {
	case "latest", "nightly", "beta", "stable":
		return "", &UnresolvableError{
			Channel: channel,
			Reason:  "rolling alias is forbidden, pin a dated release or an exact version",
		}
	}

	if m := datedRelease.FindStringSubmatch(channel); m != nil {
		if _, err := time.Parse("2006-01-02", m[2]); err != nil {
			return "", &UnresolvableError{Channel: channel, Reason: "release date is not a valid calendar date"}
		}
		return m[1], nil
	}

	if exactVersion.MatchString(channel) {
		return "version", nil
	}

	return "", &UnresolvableError{Channel: channel, Reason: "not a dated release or an exact version"}
}
