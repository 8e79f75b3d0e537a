package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // package manifest (.hcl)
	EnvPath      string // environment definition file or directory

	// Platforms overrides the definition's platform list when non-empty.
	Platforms []string

	// OutputDir is where realized artifacts are written. Empty means dry
	// run: realize and summarize, write nothing.
	OutputDir string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.EnvPath == "" {
		return nil, errors.New("EnvPath is a required configuration field and cannot be empty")
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = "manifest.hcl"
	}
	return &cfg, nil
}
