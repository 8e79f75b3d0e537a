// Package ci generates the continuous-integration workflow fragment: one
// test job per declared source language, plus a minimum-supported-version
// job when an msrv marker is set.
package ci

import (
	"context"
	"fmt"

	"github.com/specialistvlad/envforge/internal/fragment"
	"gopkg.in/yaml.v3"
)

// workflowPath is the target file the fragment contributes.
const workflowPath = ".github/workflows/ci.yml"

// Settings is the schema of a `fragment "ci" ...` block.
type Settings struct {
	Languages []string          `hcl:"languages"`
	MSRV      string            `hcl:"msrv,optional"`
	Env       map[string]string `hcl:"env,optional"`
	Tools     []string          `hcl:"tools,optional"`
}

// workflow mirrors the emitted CI configuration file.
type workflow struct {
	Name string         `yaml:"name"`
	On   map[string]any `yaml:"on"`
	Jobs map[string]job `yaml:"jobs"`
}

type job struct {
	Name   string `yaml:"name"`
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type step struct {
	Name string `yaml:"name,omitempty"`
	Uses string `yaml:"uses,omitempty"`
	Run  string `yaml:"run,omitempty"`
}

// testCommands maps a declared source language to its test invocation.
var testCommands = map[string]string{
	"rust":  "cargo test --workspace",
	"nix":   "nix flake check",
	"go":    "go test ./...",
	"shell": "shellcheck **/*.sh",
}

// Generator produces the CI workflow fragment.
type Generator struct{}

// Kind implements fragment.Generator.
func (g *Generator) Kind() fragment.Kind {
	return fragment.KindCI
}

// Produce implements fragment.Generator.
func (g *Generator) Produce(ctx context.Context, fc *fragment.Context) (*fragment.Fragment, error) {
	var settings Settings
	if err := fc.DecodeSettings(&settings); err != nil {
		return nil, err
	}
	if len(settings.Languages) == 0 {
		return nil, fmt.Errorf("at least one source language is required")
	}

	jobs := make(map[string]job, len(settings.Languages)+1)
	for _, lang := range settings.Languages {
		run, known := testCommands[lang]
		if !known {
			return nil, fmt.Errorf("unsupported source language %q", lang)
		}
		jobs["test-"+lang] = job{
			Name:   fmt.Sprintf("Test (%s)", lang),
			RunsOn: "ubuntu-latest",
			Steps: []step{
				{Uses: "actions/checkout@v4"},
				{Name: "Install pinned toolchain", Run: "toolup install " + fc.Toolchain.Release},
				{Name: "Run tests", Run: run},
			},
		}
	}
	if settings.MSRV != "" {
		jobs["msrv"] = job{
			Name:   fmt.Sprintf("MSRV (%s)", settings.MSRV),
			RunsOn: "ubuntu-latest",
			Steps: []step{
				{Uses: "actions/checkout@v4"},
				{Name: "Install MSRV toolchain", Run: "toolup install " + settings.MSRV},
				{Name: "Build on MSRV", Run: "cargo build --workspace"},
			},
		}
	}

	wf := workflow{
		Name: fc.Manifest.Name,
		On: map[string]any{
			"push":         map[string]any{"branches": []string{"main"}},
			"pull_request": nil,
		},
		Jobs: jobs,
	}
	rendered, err := yaml.Marshal(&wf)
	if err != nil {
		return nil, fmt.Errorf("failed to render workflow: %w", err)
	}

	f := &fragment.Fragment{
		Files: map[string]string{workflowPath: string(rendered)},
	}
	if err := fragment.ApplyExtras(f, settings.Env, settings.Tools); err != nil {
		return nil, err
	}
	return f, nil
}
