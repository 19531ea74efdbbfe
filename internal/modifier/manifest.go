package modifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ManifestMerge deep-merges a structured payload into a JSON manifest such
// as package.json. Object keys merge recursively, array values concatenate
// with duplicates removed by value identity, and scalar keys in the payload
// override existing ones. Keys present only in the existing manifest are
// never dropped.
type ManifestMerge struct{}

// Name implements Modifier.
func (m *ManifestMerge) Name() string { return "manifest-merge" }

// ValidateParams implements Modifier. The parameter object itself is the
// payload to merge.
func (m *ManifestMerge) ValidateParams(params map[string]any) error {
	if len(params) == 0 {
		return errors.New("manifest-merge requires a non-empty payload")
	}
	return nil
}

// Transform implements Modifier.
func (m *ManifestMerge) Transform(existing *string, params map[string]any) (string, error) {
	base := map[string]any{}
	if existing != nil && len(*existing) > 0 {
		if err := json.Unmarshal([]byte(*existing), &base); err != nil {
			return "", fmt.Errorf("parsing existing manifest: %w", err)
		}
	}

	merged := deepMerge(base, params)

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding merged manifest: %w", err)
	}
	return string(out) + "\n", nil
}

// deepMerge merges payload into base, returning base. Both maps may share
// structure with their inputs; callers own fresh copies.
func deepMerge(base map[string]any, payload map[string]any) map[string]any {
	for key, incoming := range payload {
		current, present := base[key]
		if !present {
			base[key] = incoming
			continue
		}
		currentMap, currentIsMap := current.(map[string]any)
		incomingMap, incomingIsMap := incoming.(map[string]any)
		if currentIsMap && incomingIsMap {
			base[key] = deepMerge(currentMap, incomingMap)
			continue
		}
		currentList, currentIsList := current.([]any)
		incomingList, incomingIsList := toAnySlice(incoming)
		if currentIsList && incomingIsList {
			base[key] = concatUnique(currentList, incomingList)
			continue
		}
		base[key] = incoming
	}
	return base
}

func toAnySlice(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func concatUnique(current, incoming []any) []any {
	out := append([]any{}, current...)
	for _, candidate := range incoming {
		seen := false
		for _, have := range out {
			if reflect.DeepEqual(have, candidate) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, candidate)
		}
	}
	return out
}
