package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleEnhancer_ExtendsExistingImport(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}

	existing := "import { useState } from 'react'\n\nexport default function App() {}\n"
	out, err := m.Transform(&existing, map[string]any{
		"imports": []any{
			map[string]any{"from": "react", "named": []any{"useEffect", "useState"}},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "import { useState, useEffect } from 'react'")
	assert.Equal(t, 1, countOccurrences(out, "from 'react'"),
		"one specifier gets one import declaration")
}

func TestModuleEnhancer_InsertsNewImportAfterLastImport(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}

	existing := "import React from 'react'\nimport './index.css'\n\nconst x = 1\n"
	out, err := m.Transform(&existing, map[string]any{
		"imports": []any{
			map[string]any{"from": "left-pad", "default": "leftPad"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"import React from 'react'\nimport './index.css'\nimport leftPad from 'left-pad'\n\nconst x = 1\n",
		out)
}

func TestModuleEnhancer_SecondApplicationIsNoOp(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}
	params := map[string]any{
		"imports": []any{
			map[string]any{"from": "axios", "default": "axios"},
		},
		"statements": []any{"axios.defaults.timeout = 5000"},
		"exports":    []any{"export { client }"},
	}

	existing := "const client = {}\n"
	once, err := m.Transform(&existing, params)
	require.NoError(t, err)
	twice, err := m.Transform(&once, params)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestModuleEnhancer_NamespaceBlocksNamedMerge(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}

	// A pure namespace import already gives the caller every binding; the
	// named request is dropped rather than duplicated.
	existing := "import * as path from 'path'\n"
	out, err := m.Transform(&existing, map[string]any{
		"imports": []any{
			map[string]any{"from": "path", "named": []any{"join"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "import * as path from 'path'\n", out)
}

func TestModuleEnhancer_UpgradesBareImport(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}

	existing := "import 'dotenv/config'\n"
	out, err := m.Transform(&existing, map[string]any{
		"imports": []any{
			map[string]any{"from": "dotenv/config", "default": "config"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "import config from 'dotenv/config'")
}

func TestModuleEnhancer_AbsentInputCreatesModule(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}

	out, err := m.Transform(nil, map[string]any{
		"imports": []any{
			map[string]any{"from": "express", "default": "express"},
		},
		"statements": []any{"const app = express()"},
		"exports":    []any{"export default app"},
	})
	require.NoError(t, err)
	assert.Equal(t, "import express from 'express'\nconst app = express()\nexport default app\n", out)
}

func TestModuleEnhancer_ValidateParams(t *testing.T) {
	t.Parallel()
	m := &ModuleEnhancer{}

	require.Error(t, m.ValidateParams(map[string]any{}), "an empty payload enhances nothing")
	require.Error(t, m.ValidateParams(map[string]any{
		"imports": []any{map[string]any{"named": []any{"x"}}},
	}), "imports need a module specifier")
	require.Error(t, m.ValidateParams(map[string]any{
		"imports": []any{map[string]any{"from": "fs"}},
	}), "an import that binds nothing is rejected")
	require.Error(t, m.ValidateParams(map[string]any{
		"imports": []any{map[string]any{"from": "fs", "namespace": "fs", "named": []any{"readFile"}}},
	}), "namespace and named bindings cannot mix in one spec")
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
