// Package plan defines the target platform identifier and the packaging
// build plan handed to an external builder. Generating a plan is a pure
// function of its inputs; this system never executes the build.
package plan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/envforge/internal/manifest"
	"github.com/specialistvlad/envforge/internal/toolchain"
)

// Platform identifies one realization target.
type Platform struct {
	OS   string
	Arch string
}

// String renders the canonical "os/arch" form.
func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// archAliases normalizes the doubled "arch-os" spelling some package
// ecosystems use (e.g. "x86_64-linux") onto Go-style names.
var archAliases = map[string]string{
	"x86_64":  "amd64",
	"aarch64": "arm64",
}

// ParsePlatform accepts either "os/arch" ("linux/amd64") or the doubled
// "arch-os" form ("x86_64-linux") and returns a normalized Platform.
func ParsePlatform(s string) (Platform, error) {
	if os, arch, ok := strings.Cut(s, "/"); ok {
		if os == "" || arch == "" {
			return Platform{}, fmt.Errorf("invalid platform %q: both os and arch are required", s)
		}
		return Platform{OS: os, Arch: arch}, nil
	}
	if arch, os, ok := strings.Cut(s, "-"); ok {
		if os == "" || arch == "" {
			return Platform{}, fmt.Errorf("invalid platform %q: both os and arch are required", s)
		}
		if normalized, known := archAliases[arch]; known {
			arch = normalized
		}
		return Platform{OS: os, Arch: arch}, nil
	}
	return Platform{}, fmt.Errorf("invalid platform %q: expected \"os/arch\" or \"arch-os\"", s)
}

// BuildPlan is the packaging recipe consumed by an external builder.
type BuildPlan struct {
	ID           string
	Package      string
	Version      string
	Toolchain    string
	Components   []string
	NativeInputs []string
	LockfileRef  string
	SourceRef    string
	Platform     Platform
}

// Generate assembles a BuildPlan. Manifest name and version are carried
// verbatim. The lockfile and source references are opaque handles; whether
// they point at anything real is the external builder's concern.
func Generate(m *manifest.Manifest, spec *toolchain.Spec, lockfileRef, sourceRef string, platform Platform) *BuildPlan {
	return &BuildPlan{
		ID:           uuid.NewString(),
		Package:      m.Name,
		Version:      m.Version,
		Toolchain:    spec.Release,
		Components:   append([]string(nil), spec.Components...),
		NativeInputs: append([]string(nil), m.NativeInputs...),
		LockfileRef:  lockfileRef,
		SourceRef:    sourceRef,
		Platform:     platform,
	}
}
