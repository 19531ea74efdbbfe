package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scaffoldgo/scaffoldgo/internal/blueprint"
)

func TestAnalyze_CollectsModificationTargets(t *testing.T) {
	t.Parallel()

	bp := &blueprint.Blueprint{
		ID:              "tailwind",
		ContextualFiles: []string{"src/index.css", "vite.config.ts"},
		Actions: []blueprint.Action{
			{Kind: blueprint.KindCreateFile, Path: "tailwind.config.js", Content: "x"},
			{Kind: blueprint.KindAppendToFile, Path: "src/index.css", Content: "x"},
			{Kind: blueprint.KindInstallPackages, Packages: []string{"tailwindcss"}},
			{Kind: blueprint.KindAddScript, Name: "build", Command: "vite build"},
			{Kind: blueprint.KindAddEnvVar, Key: "API_URL"},
			{Kind: blueprint.KindEnhanceFile, Path: "vite.config.ts", Modifier: "config-merge"},
			{Kind: blueprint.KindRunCommand, Command: "npm install"},
		},
	}

	report := Analyze(bp)

	assert.Contains(t, report.RequiredFiles, "src/index.css")
	assert.Contains(t, report.RequiredFiles, "vite.config.ts")
	assert.Contains(t, report.RequiredFiles, blueprint.WellKnownManifest)
	assert.Contains(t, report.RequiredFiles, blueprint.WellKnownEnvFile)
	assert.NotContains(t, report.RequiredFiles, "tailwind.config.js",
		"CREATE_FILE targets are never read and need no preload")
}

func TestAnalyze_SkipsTemplatedPaths(t *testing.T) {
	t.Parallel()

	bp := &blueprint.Blueprint{
		ID: "dynamic",
		Actions: []blueprint.Action{
			{Kind: blueprint.KindAppendToFile, Path: "src/{{project.name}}.ts", Content: "x"},
		},
	}

	report := Analyze(bp)
	assert.Empty(t, report.RequiredFiles, "templated paths cannot be known statically")
}

func TestReport_PathsSortedUnion(t *testing.T) {
	t.Parallel()

	bp := &blueprint.Blueprint{
		ID:              "demo",
		ContextualFiles: []string{"b.txt", "a.txt"},
		Actions: []blueprint.Action{
			{Kind: blueprint.KindAppendToFile, Path: "b.txt", Content: "x"},
		},
	}

	report := Analyze(bp)
	assert.Equal(t, []string{"a.txt", "b.txt"}, report.Paths(), "duplicates collapse and order is sorted")
}

func TestAnalyze_NilBlueprint(t *testing.T) {
	t.Parallel()
	report := Analyze(nil)
	assert.Empty(t, report.Paths())
}
