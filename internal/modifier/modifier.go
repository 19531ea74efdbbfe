package modifier

import (
	"fmt"
	"log/slog"
)

// Modifier transforms file content. Existing is nil when the target file is
// absent from both the workspace and disk, letting a modifier produce a
// from-scratch rendition under the "create" fallback policy.
type Modifier interface {
	// Name is the identifier ENHANCE_FILE actions reference.
	Name() string
	// ValidateParams rejects a malformed parameter object before any
	// transformation is attempted.
	ValidateParams(params map[string]any) error
	// Transform combines the parameter payload with the existing content.
	Transform(existing *string, params map[string]any) (string, error)
}

// Registry maps modifier names to implementations for one process.
type Registry struct {
	modifiers map[string]Modifier
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modifiers: make(map[string]Modifier)}
}

// Register adds a modifier. A duplicate name is a programmer error.
func (r *Registry) Register(m Modifier) {
	if _, exists := r.modifiers[m.Name()]; exists {
		panic(fmt.Sprintf("modifier %q already registered", m.Name()))
	}
	slog.Debug("Registering modifier.", "name", m.Name())
	r.modifiers[m.Name()] = m
}

// Get looks up a modifier by name.
func (r *Registry) Get(name string) (Modifier, bool) {
	m, ok := r.modifiers[name]
	return m, ok
}

// Default returns a registry populated with every built-in modifier family.
func Default() *Registry {
	r := NewRegistry()
	r.Register(&ManifestMerge{})
	r.Register(&ConfigMerge{})
	r.Register(&ModuleEnhancer{})
	r.Register(&EnvMerge{})
	r.Register(&TextAppend{})
	r.Register(&TextPrepend{})
	return r
}

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringSliceParam(params map[string]any, key string) ([]string, error) {
	v, ok := params[key]
	if !ok {
		return nil, nil
	}
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q must contain only strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q must be a list of strings, got %T", key, v)
	}
}
