package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/envforge/internal/ctxlog"
	"github.com/specialistvlad/envforge/internal/realize"
)

// writeArtifacts renders one platform's realized outputs under
// <OutputDir>/<os>-<arch>/: every fragment file plus a devshell.sh that an
// external session initializer can source.
func (a *App) writeArtifacts(ctx context.Context, result *realize.Result) error {
	logger := ctxlog.FromContext(ctx)
	platformDir := filepath.Join(a.config.OutputDir, result.Platform.OS+"-"+result.Platform.Arch)

	for path, content := range result.Env.Files {
		target := filepath.Join(platformDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory: %w", err)
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write artifact %s: %w", target, err)
		}
		logger.Debug("Artifact written.", "path", target)
	}

	shellPath := filepath.Join(platformDir, "devshell.sh")
	if err := os.WriteFile(shellPath, []byte(renderDevShell(result)), 0o755); err != nil {
		return fmt.Errorf("failed to write dev shell script: %w", err)
	}
	logger.Info("Artifacts written.", "platform", result.Platform.String(), "dir", platformDir, "files", len(result.Env.Files)+1)
	return nil
}

// renderDevShell assembles the session initialization script: exported
// environment variables first, then every fragment's init statements in
// merge order.
func renderDevShell(result *realize.Result) string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env sh\n")
	b.WriteString(fmt.Sprintf("# dev shell for %s %s (%s)\n", result.Plan.Package, result.Plan.Version, result.Platform))

	keys := make([]string, 0, len(result.Env.Env))
	for k := range result.Env.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("export %s=%q\n", k, result.Env.Env[k]))
	}

	if len(result.Env.Script) > 0 {
		b.WriteString("\n")
		for _, stmt := range result.Env.Script {
			b.WriteString(stmt + "\n")
		}
	}
	return b.String()
}
