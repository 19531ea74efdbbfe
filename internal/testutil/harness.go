// Package testutil provides shared helpers for integration tests: a
// thread-safe log buffer and a harness that assembles a temporary catalog
// plus project directory and runs the full application against them.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scaffoldgo/scaffoldgo/internal/app"
	"github.com/scaffoldgo/scaffoldgo/internal/catalog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output     string
	Err        error
	App        *app.App
	ProjectDir string
}

// HarnessOptions customizes one harness run.
type HarnessOptions struct {
	// CatalogFiles maps manifest file names (relative to the catalog
	// directory) to manifest source text.
	CatalogFiles map[string]string
	// ProjectFiles seeds the project directory before the run.
	ProjectFiles map[string]string
	// Mutate adjusts the app configuration before startup.
	Mutate func(cfg *app.Config)
}

// RunScaffoldTest provides a standardized harness for running the full
// application against a temporary catalog and project directory.
func RunScaffoldTest(t *testing.T, opts HarnessOptions) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-scaffold-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	catalogDir := filepath.Join(tmpDir, "catalog")
	projectDir := filepath.Join(tmpDir, "project")
	require.NoError(t, os.Mkdir(catalogDir, 0755))
	require.NoError(t, os.Mkdir(projectDir, 0755))

	for name, content := range opts.CatalogFiles {
		writeFile(t, filepath.Join(catalogDir, name), content)
	}
	for name, content := range opts.ProjectFiles {
		writeFile(t, filepath.Join(projectDir, name), content)
	}

	cfg := &app.Config{
		CatalogPath:     catalogDir,
		ProjectRoot:     projectDir,
		ProjectName:     "testproject",
		LogLevel:        "debug",
		LogFormat:       "text",
		ContinueOnError: true,
		CommitPartial:   true,
	}
	if opts.Mutate != nil {
		opts.Mutate(cfg)
	}

	outBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(outBuffer, cfg, catalog.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output:     outBuffer.String(),
			Err:        fmt.Errorf("application startup panicked | %v", panicErr),
			ProjectDir: projectDir,
		}
	}

	runErr := testApp.Run(context.Background())

	if os.Getenv("SCAFFOLDGO_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), outBuffer.String())
	}

	return &HarnessResult{
		Output:     outBuffer.String(),
		Err:        runErr,
		App:        testApp,
		ProjectDir: projectDir,
	}
}

// ReadProjectFile reads a file from the harness project directory and fails
// the test if it does not exist.
func ReadProjectFile(t *testing.T, result *HarnessResult, relPath string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(result.ProjectDir, relPath))
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
