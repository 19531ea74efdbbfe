package exprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
)

func demoContext() *blueprint.Context {
	return &blueprint.Context{
		Project: blueprint.Project{
			Name:      "my-app",
			Path:      "/tmp/my-app",
			Framework: "react",
			Author:    "dev",
		},
		Params: map[string]any{
			"typescript": true,
			"port":       3000,
			"plugins":    []any{"router", "query"},
		},
		Env: map[string]string{"NODE_ENV": "development"},
	}
}

func TestEval_ProjectAndParams(t *testing.T) {
	t.Parallel()
	evalCtx, err := BuildEvalContext(demoContext())
	require.NoError(t, err)

	val, err := Eval("project.name", evalCtx)
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("my-app"), val)

	val, err = Eval("params.port", evalCtx)
	require.NoError(t, err)
	got, err := FromCtyValue(val)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), got)
}

func TestEval_UnknownReferenceIsError(t *testing.T) {
	t.Parallel()
	evalCtx, err := BuildEvalContext(demoContext())
	require.NoError(t, err)

	_, err = Eval("params.nope", evalCtx)
	require.Error(t, err, "unknown parameter references must not pass silently")
}

func TestEvalBool(t *testing.T) {
	t.Parallel()
	evalCtx, err := BuildEvalContext(demoContext())
	require.NoError(t, err)

	keep, err := EvalBool("params.typescript", evalCtx)
	require.NoError(t, err)
	assert.True(t, keep)

	keep, err = EvalBool(`project.framework == "vue"`, evalCtx)
	require.NoError(t, err)
	assert.False(t, keep)

	_, err = EvalBool("project.name", evalCtx)
	require.Error(t, err, "a non-boolean condition result is an error")
}

func TestStringifyCtyValue(t *testing.T) {
	t.Parallel()

	text, err := StringifyCtyValue(cty.StringVal("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	text, err = StringifyCtyValue(cty.NumberIntVal(42))
	require.NoError(t, err)
	assert.Equal(t, "42", text)

	text, err = StringifyCtyValue(cty.True)
	require.NoError(t, err)
	assert.Equal(t, "true", text)
}

func TestConvert_RoundTrip(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"name":  "demo",
		"count": 2,
		"flags": []any{"a", "b"},
		"nested": map[string]any{
			"enabled": true,
		},
	}
	val, err := ToCtyValue(in)
	require.NoError(t, err)

	back, err := FromCtyValue(val)
	require.NoError(t, err)

	out, ok := back.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", out["name"])
	assert.Equal(t, int64(2), out["count"])
	assert.Equal(t, []any{"a", "b"}, out["flags"])
	assert.Equal(t, map[string]any{"enabled": true}, out["nested"])
}
