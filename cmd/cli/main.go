package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/scaffoldgo/scaffoldgo/internal/app"
	"github.com/scaffoldgo/scaffoldgo/internal/catalog"
	"github.com/scaffoldgo/scaffoldgo/internal/cli"
)

// main is the entrypoint for the scaffoldgo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here to turn
	// the panic into a clean error with a proper exit code.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	loader := catalog.NewLoader()
	scaffoldApp := app.NewApp(outW, appConfig, loader)

	return scaffoldApp.Run(context.Background())
}
