// Package hooks generates the lint/format hook fragment: a pre-commit hook
// configuration plus the formatter configuration file the hooks reference.
//
// The fragment's init script installs the hooks and therefore assumes the
// rendered config files already exist; the combiner preserves statement
// order across fragments, which is what makes that assumption safe.
package hooks

import (
	"context"
	"fmt"

	"github.com/specialistvlad/envforge/internal/fragment"
	"gopkg.in/yaml.v3"
)

// hookConfigPath is the pre-commit configuration target path.
const hookConfigPath = ".pre-commit-config.yaml"

// defaultFormatterConfig is where the formatter config lands unless the
// block overrides it.
const defaultFormatterConfig = "fmt.toml"

// Settings is the schema of a `fragment "hooks" ...` block.
type Settings struct {
	Hooks           []string          `hcl:"hooks,optional"`
	FormatterConfig string            `hcl:"formatter_config,optional"`
	Env             map[string]string `hcl:"env,optional"`
	Tools           []string          `hcl:"tools,optional"`
}

// hookConfig mirrors the emitted pre-commit configuration file.
type hookConfig struct {
	Repos []hookRepo `yaml:"repos"`
}

type hookRepo struct {
	Repo  string      `yaml:"repo"`
	Hooks []hookEntry `yaml:"hooks"`
}

type hookEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Entry    string `yaml:"entry"`
	Language string `yaml:"language"`
}

// knownHooks maps a hook identifier to the command the hook runs.
var knownHooks = map[string]string{
	"fmt":  "fmt --check",
	"lint": "lint --all-targets",
}

// Generator produces the hook fragment.
type Generator struct{}

// Kind implements fragment.Generator.
func (g *Generator) Kind() fragment.Kind {
	return fragment.KindHooks
}

// Produce implements fragment.Generator.
func (g *Generator) Produce(ctx context.Context, fc *fragment.Context) (*fragment.Fragment, error) {
	var settings Settings
	if err := fc.DecodeSettings(&settings); err != nil {
		return nil, err
	}

	hookIDs := settings.Hooks
	if len(hookIDs) == 0 {
		hookIDs = []string{"fmt", "lint"}
	}
	configPath := settings.FormatterConfig
	if configPath == "" {
		configPath = defaultFormatterConfig
	}

	entries := make([]hookEntry, 0, len(hookIDs))
	tools := []string{"pre-commit"}
	for _, id := range hookIDs {
		entry, known := knownHooks[id]
		if !known {
			return nil, fmt.Errorf("unknown hook %q", id)
		}
		entries = append(entries, hookEntry{
			ID:       id,
			Name:     fmt.Sprintf("%s (%s)", id, fc.Manifest.Name),
			Entry:    entry,
			Language: "system",
		})
		tools = append(tools, id)
	}

	rendered, err := yaml.Marshal(&hookConfig{
		Repos: []hookRepo{{Repo: "local", Hooks: entries}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render hook config: %w", err)
	}

	f := &fragment.Fragment{
		Files: map[string]string{
			hookConfigPath: string(rendered),
			configPath:     formatterConfig(),
		},
		Env:   map[string]string{"FMT_CONFIG": configPath},
		Tools: tools,
		// The install step runs after the config files above have been
		// rendered to the work tree.
		Script: []string{"pre-commit install --install-hooks"},
	}
	if err := fragment.ApplyExtras(f, settings.Env, settings.Tools); err != nil {
		return nil, err
	}
	return f, nil
}

// formatterConfig renders the formatter configuration file.
func formatterConfig() string {
	return "max_width = 100\nhard_tabs = true\nedition = \"2021\"\n"
}
