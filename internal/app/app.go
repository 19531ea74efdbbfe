// Package app wires the catalog, the modifier registry, and the execution
// engine into a runnable application instance.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/catalog"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
	"github.com/scaffoldgo/scaffoldgo/internal/executor"
	"github.com/scaffoldgo/scaffoldgo/internal/modifier"
	"github.com/scaffoldgo/scaffoldgo/internal/shellexec"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *modifier.Registry
	blueprints []*blueprint.Blueprint
}

// NewApp constructs a fully initialized App with its own isolated logger and
// modifier registry. A catalog that fails to load is a fatal startup error.
func NewApp(outW io.Writer, cfg *Config, loader catalog.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	blueprints, err := loader.Load(ctx, cfg.CatalogPath)
	if err != nil {
		panic(fmt.Errorf("failed to load blueprint catalog: %w", err))
	}
	logger.Debug("Blueprint catalog loaded.", "count", len(blueprints))

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		registry:   modifier.Default(),
		blueprints: blueprints,
	}
}

// Blueprints returns the loaded catalog. This is primarily for testing.
func (a *App) Blueprints() []*blueprint.Blueprint {
	return a.blueprints
}

// Run executes the selected blueprints in catalog order and reports each
// run's outcome to the configured writer. It returns an error when any run
// failed.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	selected, err := a.selectBlueprints()
	if err != nil {
		return err
	}

	bctx, err := a.buildContext()
	if err != nil {
		return err
	}

	opts := executor.Options{
		ContinueOnError: a.config.ContinueOnError,
		CommitPartial:   a.config.CommitPartial,
		DryRun:          a.config.DryRun,
	}
	orchestrator := executor.NewOrchestrator(a.registry, shellexec.NewLocal())
	exec := executor.New(orchestrator, opts)

	failed := 0
	for _, bp := range selected {
		result := exec.Run(ctx, bp, bctx)
		a.report(result)
		if !result.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d blueprint runs failed", failed, len(selected))
	}
	return nil
}

func (a *App) selectBlueprints() ([]*blueprint.Blueprint, error) {
	if len(a.config.Blueprints) == 0 {
		return a.blueprints, nil
	}
	byID := make(map[string]*blueprint.Blueprint, len(a.blueprints))
	for _, bp := range a.blueprints {
		byID[bp.ID] = bp
	}
	selected := make([]*blueprint.Blueprint, 0, len(a.config.Blueprints))
	for _, id := range a.config.Blueprints {
		bp, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("blueprint %q not found in catalog", id)
		}
		selected = append(selected, bp)
	}
	return selected, nil
}

// buildContext assembles the immutable execution context: project metadata
// from configuration, module parameters from the CLI, and environment values
// from the process environment overlaid with the project's dotenv file.
func (a *App) buildContext() (*blueprint.Context, error) {
	root, err := filepath.Abs(a.config.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	name := a.config.ProjectName
	if name == "" {
		name = filepath.Base(root)
	}

	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, found := strings.Cut(kv, "="); found {
			env[key] = value
		}
	}
	envFile := a.config.EnvFile
	if envFile == "" {
		envFile = filepath.Join(root, blueprint.WellKnownEnvFile)
	}
	if fileEnv, err := godotenv.Read(envFile); err == nil {
		for key, value := range fileEnv {
			env[key] = value
		}
		a.logger.Debug("Merged dotenv file into execution context.", "file", envFile)
	}

	params := make(map[string]any, len(a.config.Params))
	for key, value := range a.config.Params {
		params[key] = value
	}

	return &blueprint.Context{
		Project: blueprint.Project{
			Name:      name,
			Path:      root,
			Framework: a.config.Framework,
			Author:    a.config.Author,
		},
		Params: params,
		Env:    env,
	}, nil
}

func (a *App) report(result *executor.Result) {
	status := "ok"
	if !result.Success {
		status = "failed"
	}
	fmt.Fprintf(a.outW, "blueprint %s: %s (%d files, %d warnings, %d errors)\n",
		result.BlueprintID, status, len(result.Files), len(result.Warnings), len(result.Errors))
	for _, warning := range result.Warnings {
		fmt.Fprintf(a.outW, "  warning: %s\n", warning)
	}
	for _, errRecord := range result.Errors {
		fmt.Fprintf(a.outW, "  error: %s\n", errRecord.Error())
	}
	if result.Preview != "" {
		fmt.Fprintf(a.outW, "%s", result.Preview)
	}
}
