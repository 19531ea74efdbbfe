package executor

import (
	"fmt"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
)

// ErrorRecord describes one failed action with enough context to fix the
// source blueprint without reading engine internals.
type ErrorRecord struct {
	ActionIndex int
	Kind        blueprint.ActionKind
	Path        string
	Message     string
}

// Error implements the error interface.
func (e ErrorRecord) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("action %d (%s, %s): %s", e.ActionIndex, e.Kind, e.Path, e.Message)
	}
	return fmt.Sprintf("action %d (%s): %s", e.ActionIndex, e.Kind, e.Message)
}

// Result is the sole structured output of one blueprint run.
type Result struct {
	// BlueprintID names the blueprint that produced this result.
	BlueprintID string
	// Success is true when no error was recorded.
	Success bool
	// Files lists the paths written to disk, or the paths that would have
	// been written on a dry run.
	Files []string
	// Errors aggregates every per-action and commit error.
	Errors []ErrorRecord
	// Warnings lists non-fatal observations such as skipped fallbacks.
	Warnings []string
	// Preview carries the pending-change diff on dry runs.
	Preview string
}

func (r *Result) recordError(index int, action *blueprint.Action, err error) {
	record := ErrorRecord{ActionIndex: index, Message: err.Error()}
	if action != nil {
		record.Kind = action.Kind
		record.Path = action.Path
	}
	r.Errors = append(r.Errors, record)
}
