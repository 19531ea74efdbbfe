// Package render resolves template placeholders inside action content.
//
// Resolution happens in two passes: conditional blocks of the form
// {{#if expr}}...{{/if}} are evaluated first (the guarded text is kept or
// dropped wholesale), then remaining {{expr}} placeholders are substituted
// with the stringified result of evaluating expr against the execution
// context.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/scaffoldgo/scaffoldgo/internal/exprs"
)

var (
	ifBlockRe     = regexp.MustCompile(`(?s)\{\{#if\s+([^}]+)\}\}(.*?)\{\{/if\}\}`)
	placeholderRe = regexp.MustCompile(`\{\{\s*([^#/{}][^{}]*?)\s*\}\}`)
)

// Resolve applies both template passes to s. Evaluation is strict: an
// expression that fails to parse or references an unknown variable is an
// error, not a silent passthrough.
func Resolve(s string, evalCtx *hcl.EvalContext) (string, error) {
	resolved, err := resolveIfBlocks(s, evalCtx)
	if err != nil {
		return "", err
	}
	return resolvePlaceholders(resolved, evalCtx)
}

// ResolveAll resolves each string in place and returns the results in the
// same order.
func ResolveAll(values []string, evalCtx *hcl.EvalContext) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		resolved, err := Resolve(v, evalCtx)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// ResolveParams walks a parameter object and resolves every string leaf.
// Non-string leaves pass through untouched.
func ResolveParams(params map[string]any, evalCtx *hcl.EvalContext) (map[string]any, error) {
	if params == nil {
		return nil, nil
	}
	resolved, err := resolveValue(params, evalCtx)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]any), nil
}

func resolveValue(v any, evalCtx *hcl.EvalContext) (any, error) {
	switch val := v.(type) {
	case string:
		return Resolve(val, evalCtx)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			resolved, err := resolveValue(item, evalCtx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			resolved, err := resolveValue(item, evalCtx)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

func resolveIfBlocks(s string, evalCtx *hcl.EvalContext) (string, error) {
	var firstErr error
	out := ifBlockRe.ReplaceAllStringFunc(s, func(block string) string {
		if firstErr != nil {
			return block
		}
		groups := ifBlockRe.FindStringSubmatch(block)
		keep, err := exprs.EvalBool(strings.TrimSpace(groups[1]), evalCtx)
		if err != nil {
			firstErr = err
			return block
		}
		if keep {
			return groups[2]
		}
		return ""
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func resolvePlaceholders(s string, evalCtx *hcl.EvalContext) (string, error) {
	var firstErr error
	out := placeholderRe.ReplaceAllStringFunc(s, func(placeholder string) string {
		if firstErr != nil {
			return placeholder
		}
		inner := strings.TrimSpace(placeholder[2 : len(placeholder)-2])
		val, err := exprs.Eval(inner, evalCtx)
		if err != nil {
			firstErr = err
			return placeholder
		}
		text, err := exprs.StringifyCtyValue(val)
		if err != nil {
			firstErr = fmt.Errorf("placeholder %q: %w", inner, err)
			return placeholder
		}
		return text
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
