package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
	"github.com/scaffoldgo/scaffoldgo/internal/exprs"
	"github.com/scaffoldgo/scaffoldgo/internal/modifier"
	"github.com/scaffoldgo/scaffoldgo/internal/render"
	"github.com/scaffoldgo/scaffoldgo/internal/shellexec"
	"github.com/scaffoldgo/scaffoldgo/internal/workspace"
)

// Outcome is what one action execution reports back to the sequencer.
type Outcome struct {
	Skipped  bool
	Touched  []string
	Warnings []string
}

type handlerFunc func(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error)

// Orchestrator maps each action kind to the workspace primitives and
// modifier invocations that realize it.
type Orchestrator struct {
	registry *modifier.Registry
	runner   shellexec.CommandRunner
	handlers map[blueprint.ActionKind]handlerFunc
}

// NewOrchestrator builds the dispatch table. Every declared action kind must
// have a handler; a gap is a programmer error caught at construction.
func NewOrchestrator(registry *modifier.Registry, runner shellexec.CommandRunner) *Orchestrator {
	o := &Orchestrator{registry: registry, runner: runner}
	o.handlers = map[blueprint.ActionKind]handlerFunc{
		blueprint.KindCreateFile:      o.createFile,
		blueprint.KindAppendToFile:    o.appendToFile,
		blueprint.KindPrependToFile:   o.prependToFile,
		blueprint.KindInstallPackages: o.installPackages,
		blueprint.KindAddScript:       o.addScript,
		blueprint.KindAddEnvVar:       o.addEnvVar,
		blueprint.KindRunCommand:      o.runCommand,
		blueprint.KindEnhanceFile:     o.enhanceFile,
	}
	for _, kind := range blueprint.Kinds() {
		if _, ok := o.handlers[kind]; !ok {
			panic(fmt.Sprintf("no handler registered for action kind %s", kind))
		}
	}
	return o
}

// Execute runs a single action against the workspace. The action value is
// copied and resolved; the caller's blueprint stays untouched. A condition
// that evaluates to false yields a skipped outcome with no side effects.
func (o *Orchestrator) Execute(ctx context.Context, action blueprint.Action, evalCtx *hcl.EvalContext, ws *workspace.Workspace) (*Outcome, error) {
	logger := ctxlog.With(ctx, "kind", action.Kind)

	if action.Condition != "" {
		keep, err := exprs.EvalBool(action.Condition, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("evaluating condition: %w", err)
		}
		if !keep {
			logger.Debug("Condition false, skipping action.", "condition", action.Condition)
			return &Outcome{Skipped: true}, nil
		}
	}

	if err := resolveAction(&action, evalCtx); err != nil {
		return nil, fmt.Errorf("resolving templates: %w", err)
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}

	handler := o.handlers[action.Kind]
	return handler(ctx, &action, ws)
}

// resolveAction substitutes template placeholders in every string-valued
// field of the action. Conditional text blocks inside content strings are
// resolved first by the render package.
func resolveAction(action *blueprint.Action, evalCtx *hcl.EvalContext) error {
	fields := []*string{
		&action.Path, &action.Content, &action.Name, &action.Command,
		&action.WorkDir, &action.Key, &action.Value,
	}
	for _, field := range fields {
		if *field == "" {
			continue
		}
		resolved, err := render.Resolve(*field, evalCtx)
		if err != nil {
			return err
		}
		*field = resolved
	}
	packages, err := render.ResolveAll(action.Packages, evalCtx)
	if err != nil {
		return err
	}
	action.Packages = packages
	params, err := render.ResolveParams(action.Params, evalCtx)
	if err != nil {
		return err
	}
	action.Params = params
	return nil
}

func (o *Orchestrator) createFile(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	if err := ws.Write(ctx, action.Path, action.Content, workspace.ModeCreate, action.Overwrite); err != nil {
		return nil, err
	}
	return &Outcome{Touched: []string{action.Path}}, nil
}

func (o *Orchestrator) appendToFile(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	if err := ws.Write(ctx, action.Path, action.Content, workspace.ModeAppend, false); err != nil {
		return nil, err
	}
	return &Outcome{Touched: []string{action.Path}}, nil
}

func (o *Orchestrator) prependToFile(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	if err := ws.Write(ctx, action.Path, action.Content, workspace.ModePrepend, false); err != nil {
		return nil, err
	}
	return &Outcome{Touched: []string{action.Path}}, nil
}

func (o *Orchestrator) installPackages(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	section := "dependencies"
	if action.Dev {
		section = "devDependencies"
	}
	deps := make(map[string]any, len(action.Packages))
	for _, spec := range action.Packages {
		name, version := splitPackageSpec(spec)
		deps[name] = version
	}
	payload := map[string]any{section: deps}
	return o.applyModifier(ctx, ws, "manifest-merge", blueprint.WellKnownManifest, payload, blueprint.FallbackCreate)
}

func (o *Orchestrator) addScript(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	payload := map[string]any{"scripts": map[string]any{action.Name: action.Command}}
	return o.applyModifier(ctx, ws, "manifest-merge", blueprint.WellKnownManifest, payload, blueprint.FallbackCreate)
}

func (o *Orchestrator) addEnvVar(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	payload := map[string]any{"key": action.Key, "value": action.Value}
	return o.applyModifier(ctx, ws, "env-merge", blueprint.WellKnownEnvFile, payload, blueprint.FallbackCreate)
}

func (o *Orchestrator) runCommand(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	if o.runner == nil {
		return nil, fmt.Errorf("no command runner configured for %s", action.Kind)
	}
	workDir := ws.Root()
	if action.WorkDir != "" && !filepath.IsAbs(action.WorkDir) {
		workDir = filepath.Join(ws.Root(), action.WorkDir)
	} else if action.WorkDir != "" {
		workDir = action.WorkDir
	}

	exitCode, output, err := o.runner.Run(ctx, action.Command, workDir)
	if err != nil {
		return nil, fmt.Errorf("running command: %w", err)
	}
	if exitCode != 0 {
		return nil, fmt.Errorf("command exited with code %d: %s", exitCode, firstLines(output, 5))
	}
	return &Outcome{}, nil
}

func (o *Orchestrator) enhanceFile(ctx context.Context, action *blueprint.Action, ws *workspace.Workspace) (*Outcome, error) {
	return o.applyModifier(ctx, ws, action.Modifier, action.Path, action.Params, action.FallbackOrDefault())
}

// applyModifier reads the target through the workspace, hands it to the
// named modifier, and writes the result back. The fallback policy decides
// what happens when the target exists nowhere yet.
func (o *Orchestrator) applyModifier(ctx context.Context, ws *workspace.Workspace, name, path string, params map[string]any, fallback blueprint.FallbackPolicy) (*Outcome, error) {
	mod, ok := o.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown modifier %q", name)
	}
	if err := mod.ValidateParams(params); err != nil {
		return nil, fmt.Errorf("modifier %q: %w", name, err)
	}

	existing, exists, err := ws.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	var input *string
	if exists {
		input = &existing
	} else {
		switch fallback {
		case blueprint.FallbackSkip:
			warning := fmt.Sprintf("target %q does not exist; skipped per fallback policy", path)
			ctxlog.With(ctx, "path", path, "modifier", name).Warn("Enhancement target absent, skipping.")
			return &Outcome{Warnings: []string{warning}}, nil
		case blueprint.FallbackError:
			return nil, fmt.Errorf("target %q does not exist and fallback policy is %q", path, fallback)
		case blueprint.FallbackCreate:
			// Transform against an absent input below.
		}
	}

	transformed, err := mod.Transform(input, params)
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", name, err)
	}
	if err := ws.Write(ctx, path, transformed, workspace.ModeOverwrite, false); err != nil {
		return nil, err
	}
	return &Outcome{Touched: []string{path}}, nil
}

// splitPackageSpec separates "name@version" into its parts, defaulting the
// version to "latest". The "@" of a scope prefix is not a separator.
func splitPackageSpec(spec string) (string, string) {
	at := strings.LastIndex(spec, "@")
	if at <= 0 {
		return spec, "latest"
	}
	return spec[:at], spec[at+1:]
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
