package blueprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind("create_file")
	require.NoError(t, err)
	assert.Equal(t, KindCreateFile, kind)

	kind, err = ParseKind(" INSTALL_PACKAGES ")
	require.NoError(t, err)
	assert.Equal(t, KindInstallPackages, kind)

	_, err = ParseKind("delete_file")
	require.Error(t, err)
}

func TestActionValidate_PerKindContracts(t *testing.T) {
	t.Parallel()

	valid := []Action{
		{Kind: KindCreateFile, Path: "a.txt", Content: "x"},
		{Kind: KindAppendToFile, Path: "a.txt", Content: "x"},
		{Kind: KindPrependToFile, Path: "a.txt", Content: "x"},
		{Kind: KindInstallPackages, Packages: []string{"react"}},
		{Kind: KindAddScript, Name: "dev", Command: "vite"},
		{Kind: KindAddEnvVar, Key: "PORT"},
		{Kind: KindRunCommand, Command: "npm ci"},
		{Kind: KindEnhanceFile, Path: "a.ts", Modifier: "append", Fallback: FallbackSkip},
	}
	for i := range valid {
		assert.NoError(t, valid[i].Validate(), "action %d should be valid", i)
	}

	invalid := []Action{
		{Kind: KindCreateFile, Content: "x"},
		{Kind: KindCreateFile, Path: "a.txt"},
		{Kind: KindInstallPackages},
		{Kind: KindAddScript, Name: "dev"},
		{Kind: KindAddEnvVar},
		{Kind: KindRunCommand},
		{Kind: KindEnhanceFile, Path: "a.ts"},
		{Kind: KindEnhanceFile, Path: "a.ts", Modifier: "append", Fallback: "explode"},
		{Kind: "MYSTERY"},
	}
	for i := range invalid {
		assert.Error(t, invalid[i].Validate(), "action %d should be invalid", i)
	}
}

func TestFallbackOrDefault(t *testing.T) {
	t.Parallel()
	a := Action{Kind: KindEnhanceFile}
	assert.Equal(t, FallbackError, a.FallbackOrDefault(), "an absent target fails by default")
	a.Fallback = FallbackCreate
	assert.Equal(t, FallbackCreate, a.FallbackOrDefault())
}

func TestBlueprintValidate(t *testing.T) {
	t.Parallel()

	bp := &Blueprint{ID: "x", Actions: []Action{{Kind: KindRunCommand, Command: "ls"}}}
	require.NoError(t, bp.Validate())

	require.Error(t, (&Blueprint{Actions: []Action{{Kind: KindRunCommand, Command: "ls"}}}).Validate())
	require.Error(t, (&Blueprint{ID: "empty"}).Validate())

	bad := &Blueprint{ID: "bad", Actions: []Action{{Kind: KindCreateFile}}}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `blueprint "bad" action 0`)
}
