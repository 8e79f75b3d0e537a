// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/envforge/internal/ctxlog"
	"github.com/specialistvlad/envforge/internal/envdef"
	"github.com/specialistvlad/envforge/internal/manifest"
	"github.com/specialistvlad/envforge/internal/plan"
	"github.com/specialistvlad/envforge/internal/realize"
	"github.com/specialistvlad/envforge/internal/registry"
	"github.com/specialistvlad/envforge/modules/ci"
	"github.com/specialistvlad/envforge/modules/hooks"
	"github.com/specialistvlad/envforge/modules/readme"
	"github.com/specialistvlad/envforge/modules/recipe"
)

// coreModules are the generator modules registered by default.
var coreModules = []registry.Module{
	&ci.Module{},
	&readme.Module{},
	&hooks.Module{},
	&recipe.Module{},
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	manifest *manifest.Manifest
	def      *envdef.Definition
	realizer *realize.Realizer
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. A
// manifest or definition that cannot be loaded is a fatal startup error and
// panics; the entrypoint recovers it into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	m, err := manifest.Load(ctx, appConfig.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load manifest: %w", err))
	}

	def, err := envdef.Load(ctx, appConfig.EnvPath)
	if err != nil {
		panic(fmt.Errorf("failed to load environment definition: %w", err))
	}

	reg := registry.New()
	mods := modules
	if len(mods) == 0 {
		mods = coreModules
	}
	for _, mod := range mods {
		mod.Register(reg)
	}
	logger.Debug("All generator modules registered.", "count", len(mods))

	if err := reg.Validate(ctx, def); err != nil {
		// A fragment block with no backing generator is a mismatch between
		// config and code, so we fail startup rather than realization.
		panic(err)
	}

	realizer, err := realize.New(m, def, reg)
	if err != nil {
		panic(fmt.Errorf("failed to resolve toolchain: %w", err))
	}
	logger.Debug("Toolchain pinned.", "release", realizer.Toolchain().Release)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		manifest: m,
		def:      def,
		realizer: realizer,
	}
}

// Run realizes every target platform, writes artifacts when an output
// directory is configured, and prints a per-platform summary.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	platformStrs := a.config.Platforms
	if len(platformStrs) == 0 {
		platformStrs = a.def.Platforms
	}
	platforms := make([]plan.Platform, 0, len(platformStrs))
	for _, s := range platformStrs {
		p, err := plan.ParsePlatform(s)
		if err != nil {
			return err
		}
		platforms = append(platforms, p)
	}

	results, err := a.realizer.RealizeAll(ctx, platforms)
	if err != nil {
		return err
	}

	if a.config.OutputDir != "" {
		for _, result := range results {
			if err := a.writeArtifacts(ctx, result); err != nil {
				return err
			}
		}
	}

	a.printSummary(results)
	return nil
}

// Realizer returns the app's realizer. This is primarily for testing.
func (a *App) Realizer() *realize.Realizer {
	return a.realizer
}
