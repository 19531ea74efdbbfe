package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
	"github.com/scaffoldgo/scaffoldgo/internal/exprs"
)

// HCLLoader decodes .hcl blueprint manifests.
//
// A manifest holds one or more blueprint blocks:
//
//	blueprint "tailwind" {
//	  name             = "Tailwind CSS"
//	  contextual_files = ["src/index.css"]
//
//	  action "install_packages" {
//	    packages = ["tailwindcss"]
//	    dev      = true
//	  }
//	}
type HCLLoader struct {
	parser *hclparse.Parser
}

// NewHCLLoader creates an HCL blueprint loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{parser: hclparse.NewParser()}
}

type hclFileRoot struct {
	Blueprints []*hclBlueprint `hcl:"blueprint,block"`
	Remain     hcl.Body        `hcl:",remain"`
}

type hclBlueprint struct {
	ID              string       `hcl:"id,label"`
	Name            *string      `hcl:"name,optional"`
	ContextualFiles []string     `hcl:"contextual_files,optional"`
	Actions         []*hclAction `hcl:"action,block"`
}

type hclAction struct {
	Kind      string         `hcl:"kind,label"`
	Condition *string        `hcl:"condition,optional"`
	Path      *string        `hcl:"path,optional"`
	Content   *string        `hcl:"content,optional"`
	Overwrite *bool          `hcl:"overwrite,optional"`
	Packages  []string       `hcl:"packages,optional"`
	Dev       *bool          `hcl:"dev,optional"`
	Name      *string        `hcl:"name,optional"`
	Command   *string        `hcl:"command,optional"`
	WorkDir   *string        `hcl:"workdir,optional"`
	Key       *string        `hcl:"key,optional"`
	Value     *string        `hcl:"value,optional"`
	Modifier  *string        `hcl:"modifier,optional"`
	Fallback  *string        `hcl:"fallback,optional"`
	Params    hcl.Expression `hcl:"params,optional"`
}

// LoadFile decodes every blueprint block in one manifest file.
func (l *HCLLoader) LoadFile(ctx context.Context, path string) ([]*blueprint.Blueprint, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL blueprint manifest.", "file", path)

	hclFile, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var root hclFileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	blueprints := make([]*blueprint.Blueprint, 0, len(root.Blueprints))
	for _, raw := range root.Blueprints {
		bp, err := translateHCLBlueprint(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := bp.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		blueprints = append(blueprints, bp)
	}
	return blueprints, nil
}

func translateHCLBlueprint(raw *hclBlueprint) (*blueprint.Blueprint, error) {
	bp := &blueprint.Blueprint{
		ID:              raw.ID,
		Name:            stringOr(raw.Name, raw.ID),
		ContextualFiles: raw.ContextualFiles,
	}
	for i, rawAction := range raw.Actions {
		action, err := translateHCLAction(rawAction)
		if err != nil {
			return nil, fmt.Errorf("blueprint %q action %d: %w", raw.ID, i, err)
		}
		bp.Actions = append(bp.Actions, *action)
	}
	return bp, nil
}

func translateHCLAction(raw *hclAction) (*blueprint.Action, error) {
	kind, err := blueprint.ParseKind(raw.Kind)
	if err != nil {
		return nil, err
	}
	action := &blueprint.Action{
		Kind:      kind,
		Condition: stringOr(raw.Condition, ""),
		Path:      stringOr(raw.Path, ""),
		Content:   stringOr(raw.Content, ""),
		Overwrite: boolOr(raw.Overwrite),
		Packages:  raw.Packages,
		Dev:       boolOr(raw.Dev),
		Name:      stringOr(raw.Name, ""),
		Command:   stringOr(raw.Command, ""),
		WorkDir:   stringOr(raw.WorkDir, ""),
		Key:       stringOr(raw.Key, ""),
		Value:     stringOr(raw.Value, ""),
		Modifier:  stringOr(raw.Modifier, ""),
		Fallback:  blueprint.FallbackPolicy(stringOr(raw.Fallback, "")),
	}

	// params is a literal object; manifests have no variables in scope.
	if raw.Params != nil {
		val, diags := raw.Params.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating params: %w", diags)
		}
		if !val.IsNull() {
			converted, err := exprs.FromCtyValue(val)
			if err != nil {
				return nil, fmt.Errorf("translating params: %w", err)
			}
			params, ok := converted.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("params must be an object, got %T", converted)
			}
			action.Params = params
		}
	}
	return action, nil
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func boolOr(b *bool) bool {
	return b != nil && *b
}
