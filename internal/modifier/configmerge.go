package modifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ConfigMerge merges a configuration object's top-level keys into a named
// configuration expression inside a source module, recursing on nested
// object literals and leaving unrelated code untouched.
//
// The target is the first call of the named expression (default
// "defineConfig") whose sole argument is an object literal, the shape build
// tools conventionally export:
//
//	export default defineConfig({ ... })
type ConfigMerge struct{}

// Name implements Modifier.
func (m *ConfigMerge) Name() string { return "config-merge" }

// ValidateParams implements Modifier. Recognized parameters:
//
//	config:     object to merge (required)
//	expression: call expression name, default "defineConfig"
func (m *ConfigMerge) ValidateParams(params map[string]any) error {
	raw, ok := params["config"]
	if !ok {
		return errors.New("config-merge requires a \"config\" object")
	}
	payload, ok := raw.(map[string]any)
	if !ok || len(payload) == 0 {
		return errors.New("config-merge parameter \"config\" must be a non-empty object")
	}
	if raw, ok := params["expression"]; ok {
		if s, isString := raw.(string); !isString || s == "" {
			return errors.New("config-merge parameter \"expression\" must be a non-empty string")
		}
	}
	return nil
}

// Transform implements Modifier.
func (m *ConfigMerge) Transform(existing *string, params map[string]any) (string, error) {
	if err := m.ValidateParams(params); err != nil {
		return "", err
	}
	payload := params["config"].(map[string]any)
	expression := "defineConfig"
	if s, ok := stringParam(params, "expression"); ok && s != "" {
		expression = s
	}

	if existing == nil {
		literal, err := renderObjectLiteral(payload, "  ")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("export default %s(%s)\n", expression, literal), nil
	}

	src := *existing
	callIdx := strings.Index(src, expression+"(")
	if callIdx < 0 {
		return "", fmt.Errorf("no %s(...) expression found in target module", expression)
	}

	open := strings.Index(src[callIdx:], "(") + callIdx
	argStart := skipWhitespace(src, open+1)
	if argStart >= len(src) || src[argStart] != '{' {
		return "", fmt.Errorf("%s(...) argument is not an object literal", expression)
	}
	argEnd, err := matchBrace(src, argStart)
	if err != nil {
		return "", fmt.Errorf("parsing %s(...) argument: %w", expression, err)
	}

	edits, err := mergeObjectLiteral(src, argStart, argEnd, payload, "  ")
	if err != nil {
		return "", err
	}
	return applyEdits(src, edits), nil
}

// edit is a single splice into the source text. Edits never overlap.
type edit struct {
	start, end  int
	replacement string
}

func applyEdits(src string, edits []edit) string {
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	out := src
	for _, e := range edits {
		out = out[:e.start] + e.replacement + out[e.end:]
	}
	return out
}

// mergeObjectLiteral computes the edits that fold payload into the object
// literal spanning src[open..close] (both braces inclusive). Existing keys
// with object-literal values recurse; other existing keys are replaced;
// missing keys are inserted before the closing brace.
func mergeObjectLiteral(src string, open, close int, payload map[string]any, indent string) ([]edit, error) {
	entries, err := parseObjectEntries(src, open, close)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var edits []edit
	var missing []string
	for _, key := range keys {
		entry, found := entries[key]
		if !found {
			missing = append(missing, key)
			continue
		}
		incoming := payload[key]
		incomingMap, incomingIsMap := incoming.(map[string]any)
		valStart := skipWhitespace(src, entry.valStart)
		if incomingIsMap && valStart < len(src) && src[valStart] == '{' {
			valEnd, err := matchBrace(src, valStart)
			if err != nil {
				return nil, err
			}
			nested, err := mergeObjectLiteral(src, valStart, valEnd, incomingMap, indent+"  ")
			if err != nil {
				return nil, err
			}
			edits = append(edits, nested...)
			continue
		}
		rendered, err := renderValue(incoming, indent)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit{start: entry.valStart, end: entry.valEnd, replacement: rendered})
	}

	if len(missing) > 0 {
		var b strings.Builder
		for _, key := range missing {
			rendered, err := renderValue(payload[key], indent)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, ",\n%s%s: %s", indent, key, rendered)
		}
		insertAt := close
		// An empty literal gets no leading comma.
		if len(entries) == 0 {
			text := strings.TrimPrefix(b.String(), ",")
			edits = append(edits, edit{start: insertAt, end: insertAt, replacement: text + "\n"})
		} else {
			// Insert after the last entry, before any trailing whitespace.
			lastEnd := open
			for _, entry := range entries {
				if entry.valEnd > lastEnd {
					lastEnd = entry.valEnd
				}
			}
			edits = append(edits, edit{start: lastEnd, end: lastEnd, replacement: b.String()})
		}
	}
	return edits, nil
}

// objEntry records the value span of one top-level key in an object literal.
type objEntry struct {
	valStart, valEnd int
}

// parseObjectEntries scans the object literal spanning src[open..close] and
// returns its top-level keys with their raw value spans.
func parseObjectEntries(src string, open, close int) (map[string]objEntry, error) {
	entries := make(map[string]objEntry)
	i := open + 1
	for i < close {
		i = skipWhitespace(src, i)
		if i >= close {
			break
		}
		if src[i] == ',' {
			i++
			continue
		}

		keyStart := i
		for i < close && src[i] != ':' && src[i] != ',' {
			i++
		}
		if i >= close || src[i] != ':' {
			return nil, fmt.Errorf("malformed object entry near offset %d", keyStart)
		}
		key := strings.Trim(strings.TrimSpace(src[keyStart:i]), `'"`)
		i++ // past ':'

		valStart := skipWhitespace(src, i)
		valEnd, err := scanValue(src, valStart, close)
		if err != nil {
			return nil, err
		}
		entries[key] = objEntry{valStart: valStart, valEnd: valEnd}
		i = valEnd
	}
	return entries, nil
}

// scanValue returns the exclusive end offset of the value starting at start,
// stopping at a top-level comma or the enclosing close offset.
func scanValue(src string, start, limit int) (int, error) {
	depth := 0
	i := start
	for i < limit {
		c := src[i]
		switch c {
		case '\'', '"', '`':
			end, err := skipString(src, i)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				return trimSpanEnd(src, start, i), nil
			}
		}
		i++
	}
	return trimSpanEnd(src, start, limit), nil
}

func trimSpanEnd(src string, start, end int) int {
	for end > start && isSpace(src[end-1]) {
		end--
	}
	return end
}

// matchBrace returns the offset of the '}' balancing the '{' at open.
func matchBrace(src string, open int) (int, error) {
	depth := 0
	i := open
	for i < len(src) {
		switch src[i] {
		case '\'', '"', '`':
			end, err := skipString(src, i)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
		i++
	}
	return 0, errors.New("unbalanced braces")
}

func skipString(src string, start int) (int, error) {
	quote := src[start]
	i := start + 1
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1, nil
		}
		i++
	}
	return 0, errors.New("unterminated string literal")
}

func skipWhitespace(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// renderValue encodes a payload value as source text. JSON is valid inside
// an object literal, so scalars and arrays use the JSON encoding; nested
// objects are rendered as indented literals.
func renderValue(v any, indent string) (string, error) {
	if obj, ok := v.(map[string]any); ok {
		return renderObjectLiteral(obj, indent+"  ")
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding config value: %w", err)
	}
	return string(out), nil
}

func renderObjectLiteral(obj map[string]any, indent string) (string, error) {
	if len(obj) == 0 {
		return "{}", nil
	}
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{\n")
	for i, key := range keys {
		rendered, err := renderValue(obj[key], indent)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s%s: %s", indent, key, rendered)
		if i < len(keys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(" ", max(0, len(indent)-2)))
	b.WriteString("}")
	return b.String(), nil
}
