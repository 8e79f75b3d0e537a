// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/envforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("envforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
envforge - a reproducible build-environment composer.

Usage:
  envforge [options] [ENV_PATH]

Arguments:
  ENV_PATH
    Path to a single .hcl environment definition or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	envFlag := flagSet.String("env", "", "Path to the environment definition file or directory.")
	eFlag := flagSet.String("e", "", "Path to the environment definition file or directory (shorthand).")
	manifestFlag := flagSet.String("manifest", "manifest.hcl", "Path to the package manifest.")
	platformFlag := flagSet.String("platform", "", "Comma-separated target platforms, overriding the definition (e.g. 'linux/amd64,darwin/arm64').")
	outFlag := flagSet.String("out", "", "Directory to write realized artifacts to. Empty performs a dry run.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *envFlag != "" {
		path = *envFlag
	} else if *eFlag != "" {
		path = *eFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var platforms []string
	if *platformFlag != "" {
		for _, p := range strings.Split(*platformFlag, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				platforms = append(platforms, trimmed)
			}
		}
	}

	config, err := app.NewConfig(app.Config{
		ManifestPath: *manifestFlag,
		EnvPath:      path,
		Platforms:    platforms,
		OutputDir:    *outFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
