package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/scaffoldgo/scaffoldgo/internal/app"
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

// stringSlice is a repeatable string flag.
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// kvMap is a repeatable key=value flag.
type kvMap map[string]string

func (m kvMap) String() string {
	pairs := make([]string, 0, len(m))
	for key, value := range m {
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, ",")
}

func (m kvMap) Set(value string) error {
	key, val, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	m[key] = val
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("scaffoldgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ScaffoldGo - A blueprint-driven project scaffolding engine.

Usage:
  scaffoldgo [options] [CATALOG_PATH]

Arguments:
  CATALOG_PATH
    Path to a blueprint manifest (.hcl, .yaml, .yml) or a directory of manifests.

Options:
`)
		flagSet.PrintDefaults()
	}

	catalogFlag := flagSet.String("catalog", "", "Path to the blueprint manifest file or directory.")
	cFlag := flagSet.String("c", "", "Path to the blueprint manifest file or directory (shorthand).")
	projectFlag := flagSet.String("project", ".", "Project root directory the blueprints are applied to.")
	nameFlag := flagSet.String("name", "", "Project name. Defaults to the project directory name.")
	frameworkFlag := flagSet.String("framework", "", "Project framework exposed as project.framework.")
	authorFlag := flagSet.String("author", "", "Project author exposed as project.author.")
	envFileFlag := flagSet.String("env-file", "", "Dotenv file merged into the execution context. Defaults to <project>/.env.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Resolve and stage all actions but discard instead of writing to disk.")
	continueFlag := flagSet.Bool("continue-on-error", true, "Keep executing remaining actions after one fails.")
	commitPartialFlag := flagSet.Bool("commit-partial", true, "Commit staged files even when some actions failed.")

	blueprintFlags := stringSlice{}
	flagSet.Var(&blueprintFlags, "blueprint", "Blueprint ID to run; repeatable. Runs the whole catalog when omitted.")
	paramFlags := kvMap{}
	flagSet.Var(paramFlags, "param", "Module parameter as key=value; repeatable. Exposed as params.<key>.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *catalogFlag != "" {
		path = *catalogFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Catalog path determined.", "path", path)

	if path == "" {
		slog.Debug("No catalog path provided, printing usage and exiting.")
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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		CatalogPath:     path,
		ProjectRoot:     *projectFlag,
		ProjectName:     *nameFlag,
		Framework:       *frameworkFlag,
		Author:          *authorFlag,
		EnvFile:         *envFileFlag,
		Blueprints:      blueprintFlags,
		Params:          paramFlags,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		DryRun:          *dryRunFlag,
		ContinueOnError: *continueFlag,
		CommitPartial:   *commitPartialFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
