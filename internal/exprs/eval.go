package exprs

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
)

// BuildEvalContext projects an execution context into the variable space
// expressions evaluate against. The same context serves action conditions,
// {{#if}} guards, and {{...}} placeholders.
func BuildEvalContext(bctx *blueprint.Context) (*hcl.EvalContext, error) {
	params, err := ToCtyValue(bctx.Params)
	if err != nil {
		return nil, fmt.Errorf("projecting module parameters: %w", err)
	}
	env, err := ToCtyValue(bctx.Env)
	if err != nil {
		return nil, fmt.Errorf("projecting environment values: %w", err)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"project": cty.ObjectVal(map[string]cty.Value{
				"name":      cty.StringVal(bctx.Project.Name),
				"path":      cty.StringVal(bctx.Project.Path),
				"framework": cty.StringVal(bctx.Project.Framework),
				"author":    cty.StringVal(bctx.Project.Author),
			}),
			"params": params,
			"env":    env,
		},
	}, nil
}

// Eval parses src as an HCL expression and evaluates it.
func Eval(src string, evalCtx *hcl.EvalContext) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<expr>", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("parsing expression %q: %w", src, diags)
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating expression %q: %w", src, diags)
	}
	return val, nil
}

// EvalBool evaluates src and requires a boolean result. A null value is
// treated as false so that conditions over optional parameters read
// naturally.
func EvalBool(src string, evalCtx *hcl.EvalContext) (bool, error) {
	val, err := Eval(src, evalCtx)
	if err != nil {
		return false, err
	}
	if val.IsNull() {
		return false, nil
	}
	if val.Type() != cty.Bool {
		return false, fmt.Errorf("expression %q produced %s, want bool", src, val.Type().FriendlyName())
	}
	return val.True(), nil
}
