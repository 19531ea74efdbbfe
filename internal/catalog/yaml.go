package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
)

// YAMLLoader decodes .yaml/.yml blueprint manifests. One document per
// blueprint; multi-document files hold several blueprints.
type YAMLLoader struct{}

// NewYAMLLoader creates a YAML blueprint loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlBlueprint struct {
	ID              string       `yaml:"id"`
	Name            string       `yaml:"name"`
	ContextualFiles []string     `yaml:"contextual_files"`
	Actions         []yamlAction `yaml:"actions"`
}

type yamlAction struct {
	Kind      string         `yaml:"kind"`
	Condition string         `yaml:"condition"`
	Path      string         `yaml:"path"`
	Content   string         `yaml:"content"`
	Overwrite bool           `yaml:"overwrite"`
	Packages  []string       `yaml:"packages"`
	Dev       bool           `yaml:"dev"`
	Name      string         `yaml:"name"`
	Command   string         `yaml:"command"`
	WorkDir   string         `yaml:"workdir"`
	Key       string         `yaml:"key"`
	Value     string         `yaml:"value"`
	Modifier  string         `yaml:"modifier"`
	Fallback  string         `yaml:"fallback"`
	Params    map[string]any `yaml:"params"`
}

// LoadFile decodes every blueprint document in one manifest file.
func (l *YAMLLoader) LoadFile(ctx context.Context, path string) ([]*blueprint.Blueprint, error) {
	ctxlog.FromContext(ctx).Debug("Parsing YAML blueprint manifest.", "file", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var blueprints []*blueprint.Blueprint
	decoder := yaml.NewDecoder(f)
	for {
		var raw yamlBlueprint
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		bp, err := translateYAMLBlueprint(&raw)
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

func translateYAMLBlueprint(raw *yamlBlueprint) (*blueprint.Blueprint, error) {
	name := raw.Name
	if name == "" {
		name = raw.ID
	}
	bp := &blueprint.Blueprint{
		ID:              raw.ID,
		Name:            name,
		ContextualFiles: raw.ContextualFiles,
	}
	for i, rawAction := range raw.Actions {
		kind, err := blueprint.ParseKind(rawAction.Kind)
		if err != nil {
			return nil, fmt.Errorf("blueprint %q action %d: %w", raw.ID, i, err)
		}
		bp.Actions = append(bp.Actions, blueprint.Action{
			Kind:      kind,
			Condition: rawAction.Condition,
			Path:      rawAction.Path,
			Content:   rawAction.Content,
			Overwrite: rawAction.Overwrite,
			Packages:  rawAction.Packages,
			Dev:       rawAction.Dev,
			Name:      rawAction.Name,
			Command:   rawAction.Command,
			WorkDir:   rawAction.WorkDir,
			Key:       rawAction.Key,
			Value:     rawAction.Value,
			Modifier:  rawAction.Modifier,
			Fallback:  blueprint.FallbackPolicy(rawAction.Fallback),
			Params:    rawAction.Params,
		})
	}
	return bp, nil
}
