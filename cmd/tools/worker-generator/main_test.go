package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/pkg/registry"
)

func TestGenerateStructFields(t *testing.T) {
	schema := map[string]interface{}{
		"properties": map[string]interface{}{
			"studentId": map[string]interface{}{"type": "string"},
			"limit":     map[string]interface{}{"type": "integer"},
			"colleges":  map[string]interface{}{"type": "array"},
		},
		"required": []interface{}{"studentId"},
	}

	got := generateStructFields(schema)
	assert.Equal(t,
		"\tColleges  []interface{} `json:\"colleges,omitempty\"`\n"+
			"\tLimit     int `json:\"limit,omitempty\"`\n"+
			"\tStudentId string `json:\"studentId\"`",
		got)
	assert.Empty(t, generateStructFields(map[string]interface{}{}))
}

func TestTimeoutLiteral(t *testing.T) {
	assert.Equal(t, "15 * time.Second", timeoutLiteral("15s"))
	assert.Equal(t, "30 * time.Second", timeoutLiteral("1m"))
	assert.Equal(t, "30 * time.Second", timeoutLiteral(""))
}

func TestMapCategoryToDirectory(t *testing.T) {
	assert.Equal(t, "mentoring", mapCategoryToDirectory("communication"))
	assert.Equal(t, "matching", mapCategoryToDirectory("matching"))
	assert.Equal(t, "planning", mapCategoryToDirectory("Planning"))
}

func TestGenerate(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	activity, ok := reg.FindByTaskType("categorize-colleges")
	require.True(t, ok)

	out := t.TempDir()
	dir, err := generate(activity, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "matching", "categorize-colleges"), dir)

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), "package categorizecolleges")
	assert.Contains(t, string(handler), `TaskType = "categorize-colleges"`)

	config, err := os.ReadFile(filepath.Join(dir, "config.go"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "15 * time.Second")

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "StudentProfile")
	assert.Contains(t, string(models), "Matches")

	_, err = generate(activity, out)
	assert.ErrorContains(t, err, "already exists")
}
