package modifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestMerge_PreservesUnrelatedKeys(t *testing.T) {
	t.Parallel()
	m := &ManifestMerge{}

	existing := `{
  "name": "my-app",
  "version": "0.1.0",
  "dependencies": {
    "react": "^18.0.0"
  }
}`
	params := map[string]any{
		"dependencies": map[string]any{"left-pad": "latest"},
	}

	out, err := m.Transform(&existing, params)
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, "my-app", manifest["name"])
	assert.Equal(t, "0.1.0", manifest["version"])

	deps := manifest["dependencies"].(map[string]any)
	assert.Equal(t, "^18.0.0", deps["react"], "existing dependencies survive the merge")
	assert.Equal(t, "latest", deps["left-pad"])
}

func TestManifestMerge_ArraysConcatUnique(t *testing.T) {
	t.Parallel()
	m := &ManifestMerge{}

	existing := `{"keywords": ["cli", "tool"]}`
	params := map[string]any{"keywords": []any{"tool", "scaffold"}}

	out, err := m.Transform(&existing, params)
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, []any{"cli", "tool", "scaffold"}, manifest["keywords"])
}

func TestManifestMerge_ScalarOverride(t *testing.T) {
	t.Parallel()
	m := &ManifestMerge{}

	existing := `{"type": "commonjs"}`
	out, err := m.Transform(&existing, map[string]any{"type": "module"})
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, "module", manifest["type"])
}

func TestManifestMerge_AbsentInputCreatesManifest(t *testing.T) {
	t.Parallel()
	m := &ManifestMerge{}

	out, err := m.Transform(nil, map[string]any{
		"scripts": map[string]any{"dev": "vite"},
	})
	require.NoError(t, err)
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n', "output ends with a newline")

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &manifest))
	assert.Equal(t, map[string]any{"dev": "vite"}, manifest["scripts"])
}

func TestManifestMerge_MalformedInputFails(t *testing.T) {
	t.Parallel()
	m := &ManifestMerge{}

	existing := `{not json`
	_, err := m.Transform(&existing, map[string]any{"name": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing existing manifest")
}

func TestManifestMerge_ValidateParams(t *testing.T) {
	t.Parallel()
	m := &ManifestMerge{}
	require.Error(t, m.ValidateParams(nil))
	require.Error(t, m.ValidateParams(map[string]any{}))
	require.NoError(t, m.ValidateParams(map[string]any{"name": "x"}))
}
