// Package readme generates repository metadata artifacts: a status badge
// block and a last-supported-version marker, rendered as a markdown file
// meant to be included at the top of a README.
package readme

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/envforge/internal/fragment"
)

// badgePath is the target file the fragment contributes.
const badgePath = "README.badges.md"

// Settings is the schema of a `fragment "docs" ...` block.
type Settings struct {
	Badges []string          `hcl:"badges"`
	Repo   string            `hcl:"repo,optional"`
	MSRV   string            `hcl:"msrv,optional"`
	Env    map[string]string `hcl:"env,optional"`
	Tools  []string          `hcl:"tools,optional"`
}

// Generator produces the README badge fragment.
type Generator struct{}

// Kind implements fragment.Generator.
func (g *Generator) Kind() fragment.Kind {
	return fragment.KindDocs
}

// Produce implements fragment.Generator.
func (g *Generator) Produce(ctx context.Context, fc *fragment.Context) (*fragment.Fragment, error) {
	var settings Settings
	if err := fc.DecodeSettings(&settings); err != nil {
		return nil, err
	}
	if len(settings.Badges) == 0 {
		return nil, fmt.Errorf("at least one badge is required")
	}

	var lines []string
	for _, badge := range settings.Badges {
		line, err := renderBadge(badge, &settings, fc)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", fmt.Sprintf("Last supported toolchain: `%s`", fc.Toolchain.Release))

	f := &fragment.Fragment{
		Files: map[string]string{badgePath: strings.Join(lines, "\n") + "\n"},
	}
	if err := fragment.ApplyExtras(f, settings.Env, settings.Tools); err != nil {
		return nil, err
	}
	return f, nil
}

// renderBadge renders one markdown badge line.
func renderBadge(badge string, settings *Settings, fc *fragment.Context) (string, error) {
	switch badge {
	case "ci":
		if settings.Repo == "" {
			return "", fmt.Errorf("badge %q requires the repo setting", badge)
		}
		return fmt.Sprintf("[![CI](https://github.com/%s/actions/workflows/ci.yml/badge.svg)](https://github.com/%s/actions/workflows/ci.yml)",
			settings.Repo, settings.Repo), nil
	case "msrv":
		msrv := settings.MSRV
		if msrv == "" {
			msrv = fc.Toolchain.Release
		}
		return fmt.Sprintf("![MSRV](https://img.shields.io/badge/msrv-%s-blue)", msrv), nil
	case "version":
		return fmt.Sprintf("![Version](https://img.shields.io/badge/version-%s-informational)", fc.Manifest.Version), nil
	default:
		return "", fmt.Errorf("unknown badge %q", badge)
	}
}
