// Package analyzer statically scans a blueprint's action list to find the
// on-disk files the run will need to read or modify, so the workspace can be
// pre-populated before any action executes.
package analyzer

import (
	"sort"
	"strings"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
)

// Report is the outcome of analyzing one blueprint.
type Report struct {
	// RequiredFiles are read/modify targets derived from the actions
	// themselves, including the well-known manifests implied by package,
	// script, and env-var actions.
	RequiredFiles map[string]struct{}
	// ContextualFiles are the paths the blueprint author declared up front.
	ContextualFiles map[string]struct{}
}

// Paths returns the union of both sets in sorted order, ready for
// workspace preloading.
func (r *Report) Paths() []string {
	out := make([]string, 0, len(r.RequiredFiles)+len(r.ContextualFiles))
	for p := range r.RequiredFiles {
		out = append(out, p)
	}
	for p := range r.ContextualFiles {
		if _, dup := r.RequiredFiles[p]; !dup {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Analyze is a pure function over the blueprint. Paths containing template
// placeholders cannot be known statically and are left out; the workspace's
// lazy read-through covers them at execution time. Under-analysis only costs
// a later disk read, never data.
func Analyze(bp *blueprint.Blueprint) *Report {
	report := &Report{
		RequiredFiles:   make(map[string]struct{}),
		ContextualFiles: make(map[string]struct{}),
	}
	if bp == nil {
		return report
	}

	for i := range bp.Actions {
		action := &bp.Actions[i]
		switch action.Kind {
		case blueprint.KindAppendToFile, blueprint.KindPrependToFile, blueprint.KindEnhanceFile:
			addStatic(report.RequiredFiles, action.Path)
		case blueprint.KindInstallPackages, blueprint.KindAddScript:
			addStatic(report.RequiredFiles, blueprint.WellKnownManifest)
		case blueprint.KindAddEnvVar:
			addStatic(report.RequiredFiles, blueprint.WellKnownEnvFile)
		}
	}

	for _, p := range bp.ContextualFiles {
		addStatic(report.ContextualFiles, p)
	}
	return report
}

func addStatic(set map[string]struct{}, path string) {
	if path == "" || strings.Contains(path, "{{") {
		return
	}
	set[path] = struct{}{}
}
