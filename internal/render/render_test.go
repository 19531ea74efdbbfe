package render

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/exprs"
)

func demoEvalContext(t *testing.T) *hcl.EvalContext {
	t.Helper()
	evalCtx, err := exprs.BuildEvalContext(&blueprint.Context{
		Project: blueprint.Project{Name: "my-app", Framework: "react"},
		Params: map[string]any{
			"typescript": true,
			"strict":     false,
			"port":       3000,
		},
		Env: map[string]string{"NODE_ENV": "test"},
	})
	require.NoError(t, err)
	return evalCtx
}

func TestResolve_Placeholders(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	out, err := Resolve("// {{project.name}} on port {{ params.port }}", evalCtx)
	require.NoError(t, err)
	assert.Equal(t, "// my-app on port 3000", out)
}

func TestResolve_IfBlocks(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	src := "base\n{{#if params.typescript}}lang: ts\n{{/if}}{{#if params.strict}}strict: on\n{{/if}}tail\n"
	out, err := Resolve(src, evalCtx)
	require.NoError(t, err)
	assert.Equal(t, "base\nlang: ts\ntail\n", out)
}

func TestResolve_IfBlockWithInnerPlaceholder(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	// Guards resolve before placeholders, so guarded text may itself contain
	// placeholders.
	out, err := Resolve("{{#if params.typescript}}name={{project.name}}{{/if}}", evalCtx)
	require.NoError(t, err)
	assert.Equal(t, "name=my-app", out)
}

func TestResolve_UnknownReferenceFails(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	_, err := Resolve("{{params.missing}}", evalCtx)
	require.Error(t, err)

	_, err = Resolve("{{#if params.missing}}x{{/if}}", evalCtx)
	require.Error(t, err)
}

func TestResolve_PlainTextUntouched(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	src := "const style = { color: 'red' }\n"
	out, err := Resolve(src, evalCtx)
	require.NoError(t, err)
	assert.Equal(t, src, out, "single braces are not template syntax")
}

func TestResolveAll(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	out, err := ResolveAll([]string{"{{project.framework}}-router", "eslint"}, evalCtx)
	require.NoError(t, err)
	assert.Equal(t, []string{"react-router", "eslint"}, out)

	out, err = ResolveAll(nil, evalCtx)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestResolveParams_StringLeavesOnly(t *testing.T) {
	t.Parallel()
	evalCtx := demoEvalContext(t)

	params := map[string]any{
		"statements": []any{"app.use('{{project.name}}')"},
		"count":      2,
		"nested":     map[string]any{"key": "{{env.NODE_ENV}}"},
	}
	out, err := ResolveParams(params, evalCtx)
	require.NoError(t, err)
	assert.Equal(t, []any{"app.use('my-app')"}, out["statements"])
	assert.Equal(t, 2, out["count"], "non-string leaves pass through untouched")
	assert.Equal(t, map[string]any{"key": "test"}, out["nested"])
}
