package modifier

import (
	"errors"
	"fmt"
	"strings"
)

// EnvMerge performs a line-oriented merge into a KEY=VALUE environment file.
// A key that already exists gets its value replaced in place; a new key is
// appended. Comment and blank lines are preserved where they are.
type EnvMerge struct{}

// Name implements Modifier.
func (m *EnvMerge) Name() string { return "env-merge" }

// ValidateParams implements Modifier. Params carry "key" and "value".
func (m *EnvMerge) ValidateParams(params map[string]any) error {
	key, ok := stringParam(params, "key")
	if !ok || key == "" {
		return errors.New("env-merge requires a non-empty string parameter \"key\"")
	}
	if _, ok := params["value"]; ok {
		if _, isString := stringParam(params, "value"); !isString {
			return errors.New("env-merge parameter \"value\" must be a string")
		}
	}
	return nil
}

// Transform implements Modifier.
func (m *EnvMerge) Transform(existing *string, params map[string]any) (string, error) {
	if err := m.ValidateParams(params); err != nil {
		return "", err
	}
	key, _ := stringParam(params, "key")
	value, _ := stringParam(params, "value")
	line := fmt.Sprintf("%s=%s", key, value)

	if existing == nil || *existing == "" {
		return line + "\n", nil
	}

	content := *existing
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	replaced := false
	for i, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		name, _, found := strings.Cut(trimmed, "=")
		if found && strings.TrimSpace(name) == key {
			lines[i] = line
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, line)
	}

	out := strings.Join(lines, "\n")
	if trailingNewline || !replaced {
		out += "\n"
	}
	return out, nil
}
