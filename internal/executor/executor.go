package executor

import (
	"context"
	"fmt"

	"github.com/scaffoldgo/scaffoldgo/internal/analyzer"
	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
	"github.com/scaffoldgo/scaffoldgo/internal/exprs"
	"github.com/scaffoldgo/scaffoldgo/internal/workspace"
)

// runState tracks where a blueprint run is in its lifecycle. Transitions are
// strictly forward: Idle → Analyzing → Preloading → Executing → Committing →
// Committed or Discarded.
type runState int

const (
	stateIdle runState = iota
	stateAnalyzing
	statePreloading
	stateExecuting
	stateCommitting
	stateCommitted
	stateDiscarded
)

func (s runState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAnalyzing:
		return "analyzing"
	case statePreloading:
		return "preloading"
	case stateExecuting:
		return "executing"
	case stateCommitting:
		return "committing"
	case stateCommitted:
		return "committed"
	case stateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Executor sequences whole blueprint runs.
type Executor struct {
	orchestrator *Orchestrator
	opts         Options
}

// New creates an executor with the given orchestrator and run options.
func New(orchestrator *Orchestrator, opts Options) *Executor {
	return &Executor{orchestrator: orchestrator, opts: opts}
}

// Run executes one blueprint against a fresh workspace and reports the
// structured result. Per-action errors are aggregated rather than fatal;
// only a commit failure aborts mid-flush.
func (e *Executor) Run(ctx context.Context, bp *blueprint.Blueprint, bctx *blueprint.Context) *Result {
	result := &Result{BlueprintID: bp.ID}
	logger := ctxlog.With(ctx, "blueprint", bp.ID)
	state := stateIdle
	advance := func(next runState) {
		logger.Debug("Run state transition.", "from", state.String(), "to", next.String())
		state = next
	}

	evalCtx, err := exprs.BuildEvalContext(bctx)
	if err != nil {
		result.recordError(-1, nil, err)
		return result
	}

	advance(stateAnalyzing)
	report := analyzer.Analyze(bp)

	ws := workspace.New(bctx.Project.Path)
	logger = logger.With("workspace", ws.ID())

	advance(statePreloading)
	if err := ws.Preload(ctx, report.Paths()); err != nil {
		result.recordError(-1, nil, fmt.Errorf("preloading workspace: %w", err))
		ws.Discard(ctx)
		advance(stateDiscarded)
		return result
	}

	advance(stateExecuting)
	for i := range bp.Actions {
		action := &bp.Actions[i]
		out, err := e.orchestrator.Execute(ctx, *action, evalCtx, ws)
		if err != nil {
			logger.Error("Action failed.", "index", i, "kind", action.Kind, "error", err)
			result.recordError(i, action, err)
			if !e.opts.ContinueOnError {
				break
			}
			continue
		}
		if out.Skipped {
			logger.Debug("Action skipped by condition.", "index", i, "kind", action.Kind)
			continue
		}
		result.Warnings = append(result.Warnings, out.Warnings...)
	}

	result.Success = len(result.Errors) == 0

	advance(stateCommitting)
	switch {
	case e.opts.DryRun:
		preview, err := ws.Diff(ctx)
		if err != nil {
			result.recordError(-1, nil, fmt.Errorf("rendering dry-run preview: %w", err))
			result.Success = false
		}
		result.Preview = preview
		result.Files = ws.Touched()
		ws.Discard(ctx)
		advance(stateDiscarded)
	case !result.Success && !e.opts.CommitPartial:
		ws.Discard(ctx)
		advance(stateDiscarded)
	default:
		written, err := ws.Commit(ctx)
		result.Files = written
		if err != nil {
			// Commit errors are fatal for the run: remaining writes were
			// abandoned, and the paths already on disk are reported as-is.
			result.recordError(-1, nil, fmt.Errorf("committing workspace: %w", err))
			result.Success = false
		}
		advance(stateCommitted)
	}

	logger.Info("Blueprint run finished.",
		"success", result.Success,
		"files", len(result.Files),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
	)
	return result
}
