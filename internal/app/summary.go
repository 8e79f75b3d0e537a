package app

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/specialistvlad/envforge/internal/realize"
)

// printSummary renders a human-readable per-platform report to the app's
// output writer.
func (a *App) printSummary(results []*realize.Result) {
	header := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)

	header.Fprintf(a.outW, "%s %s: %d platform(s) realized\n",
		a.manifest.Name, a.manifest.Version, len(results))

	for _, result := range results {
		ok.Fprintf(a.outW, "✔ %s\n", result.Platform)
		fmt.Fprintf(a.outW, "    plan      %s (toolchain %s)\n", result.Plan.ID, result.Plan.Toolchain)
		fmt.Fprintf(a.outW, "    tools     %s\n", strings.Join(result.Env.Tools, ", "))
		fmt.Fprintf(a.outW, "    env vars  %d\n", len(result.Env.Env))
		fmt.Fprintf(a.outW, "    files     %d\n", len(result.Env.Files))
	}
}
