package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestHCLLoader_FullBlueprint(t *testing.T) {
	t.Parallel()

	manifest := `
blueprint "tailwind" {
  name             = "Tailwind CSS"
  contextual_files = ["src/index.css"]

  action "install_packages" {
    packages = ["tailwindcss@3.4.0", "postcss"]
    dev      = true
  }

  action "create_file" {
    path      = "tailwind.config.js"
    content   = "module.exports = {}"
    overwrite = true
  }

  action "enhance_file" {
    path     = "vite.config.ts"
    modifier = "config-merge"
    fallback = "skip"
    params = {
      config = {
        css = {
          postcss = "./postcss.config.js"
        }
      }
    }
  }

  action "run_command" {
    condition = "params.install"
    command   = "npm install"
  }
}
`
	dir := t.TempDir()
	path := writeManifest(t, dir, "tailwind.hcl", manifest)

	blueprints, err := NewHCLLoader().LoadFile(testContext(), path)
	require.NoError(t, err)
	require.Len(t, blueprints, 1)

	bp := blueprints[0]
	assert.Equal(t, "tailwind", bp.ID)
	assert.Equal(t, "Tailwind CSS", bp.Name)
	assert.Equal(t, []string{"src/index.css"}, bp.ContextualFiles)
	require.Len(t, bp.Actions, 4)

	install := bp.Actions[0]
	assert.Equal(t, blueprint.KindInstallPackages, install.Kind)
	assert.Equal(t, []string{"tailwindcss@3.4.0", "postcss"}, install.Packages)
	assert.True(t, install.Dev)

	create := bp.Actions[1]
	assert.Equal(t, blueprint.KindCreateFile, create.Kind)
	assert.True(t, create.Overwrite)

	enhance := bp.Actions[2]
	assert.Equal(t, blueprint.KindEnhanceFile, enhance.Kind)
	assert.Equal(t, "config-merge", enhance.Modifier)
	assert.Equal(t, blueprint.FallbackSkip, enhance.Fallback)
	require.NotNil(t, enhance.Params)
	config := enhance.Params["config"].(map[string]any)
	css := config["css"].(map[string]any)
	assert.Equal(t, "./postcss.config.js", css["postcss"])

	run := bp.Actions[3]
	assert.Equal(t, "params.install", run.Condition,
		"conditions are stored as source text, not evaluated at load time")
}

func TestHCLLoader_UnknownKindFails(t *testing.T) {
	t.Parallel()

	manifest := `
blueprint "bad" {
  action "delete_file" {
    path = "x"
  }
}
`
	dir := t.TempDir()
	path := writeManifest(t, dir, "bad.hcl", manifest)

	_, err := NewHCLLoader().LoadFile(testContext(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action kind")
}

func TestYAMLLoader_MultiDocument(t *testing.T) {
	t.Parallel()

	manifest := `
id: eslint
name: ESLint
actions:
  - kind: install_packages
    packages: [eslint]
    dev: true
  - kind: add_script
    name: lint
    command: eslint .
---
id: prettier
actions:
  - kind: create_file
    path: .prettierrc
    content: "{}"
`
	dir := t.TempDir()
	path := writeManifest(t, dir, "lint.yaml", manifest)

	blueprints, err := NewYAMLLoader().LoadFile(testContext(), path)
	require.NoError(t, err)
	require.Len(t, blueprints, 2)

	assert.Equal(t, "eslint", blueprints[0].ID)
	assert.Equal(t, "ESLint", blueprints[0].Name)
	assert.Equal(t, blueprint.KindAddScript, blueprints[0].Actions[1].Kind)

	assert.Equal(t, "prettier", blueprints[1].ID)
	assert.Equal(t, "prettier", blueprints[1].Name, "name falls back to the id")
}

func TestYAMLLoader_InvalidBlueprintFails(t *testing.T) {
	t.Parallel()

	manifest := `
id: broken
actions:
  - kind: create_file
    content: "missing path"
`
	dir := t.TempDir()
	path := writeManifest(t, dir, "broken.yml", manifest)

	_, err := NewYAMLLoader().LoadFile(testContext(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a path")
}

func TestMultiLoader_MixedFormatsAndDuplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "a.hcl", `
blueprint "alpha" {
  action "run_command" {
    command = "true"
  }
}
`)
	writeManifest(t, dir, "b.yaml", `
id: beta
actions:
  - kind: run_command
    command: "true"
`)

	blueprints, err := NewLoader().Load(testContext(), dir)
	require.NoError(t, err)
	require.Len(t, blueprints, 2)

	ids := []string{blueprints[0].ID, blueprints[1].ID}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, ids)

	// A second definition of an existing ID is a load error.
	writeManifest(t, dir, "c.yml", `
id: alpha
actions:
  - kind: run_command
    command: "true"
`)
	_, err = NewLoader().Load(testContext(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `blueprint "alpha" defined in both`)
}
