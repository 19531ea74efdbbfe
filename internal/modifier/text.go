package modifier

import "errors"

// TextAppend concatenates text verbatim at the end of a file. No parsing.
type TextAppend struct{}

// Name implements Modifier.
func (m *TextAppend) Name() string { return "append" }

// ValidateParams implements Modifier.
func (m *TextAppend) ValidateParams(params map[string]any) error {
	return requireContent("append", params)
}

// Transform implements Modifier.
func (m *TextAppend) Transform(existing *string, params map[string]any) (string, error) {
	if err := m.ValidateParams(params); err != nil {
		return "", err
	}
	content, _ := stringParam(params, "content")
	if existing == nil {
		return content, nil
	}
	return *existing + content, nil
}

// TextPrepend concatenates text verbatim at the start of a file. No parsing.
type TextPrepend struct{}

// Name implements Modifier.
func (m *TextPrepend) Name() string { return "prepend" }

// ValidateParams implements Modifier.
func (m *TextPrepend) ValidateParams(params map[string]any) error {
	return requireContent("prepend", params)
}

// Transform implements Modifier.
func (m *TextPrepend) Transform(existing *string, params map[string]any) (string, error) {
	if err := m.ValidateParams(params); err != nil {
		return "", err
	}
	content, _ := stringParam(params, "content")
	if existing == nil {
		return content, nil
	}
	return content + *existing, nil
}

func requireContent(name string, params map[string]any) error {
	content, ok := stringParam(params, "content")
	if !ok || content == "" {
		return errors.New(name + " requires a non-empty string parameter \"content\"")
	}
	return nil
}
