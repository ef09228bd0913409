package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/pkg/registry"
)

func newActivity(id string) registry.Activity {
	return registry.Activity{
		ID:          id,
		DisplayName: "Rank Scholarships",
		Category:    "matching",
		TaskType:    id,
		InputSchema: map[string]interface{}{"type": "object"},
	}
}

func TestAddActivity_CreatesRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "registry.json")

	require.NoError(t, addActivity(path, newActivity("rank-scholarships")))

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Activities, 1)
	assert.NotEmpty(t, reg.LastUpdated)

	err = addActivity(path, newActivity("rank-scholarships"))
	assert.ErrorContains(t, err, "already exists")
}

func TestUpdateActivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, addActivity(path, newActivity("rank-scholarships")))

	require.NoError(t, updateActivity(path, "rank-scholarships", "status", "implemented"))
	require.NoError(t, updateActivity(path, "rank-scholarships", "retries", "5"))

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	activity, ok := reg.FindByTaskType("rank-scholarships")
	require.True(t, ok)
	assert.Equal(t, "implemented", activity.ImplementationStatus)
	assert.Equal(t, 5, activity.Retries)

	assert.ErrorContains(t, updateActivity(path, "rank-scholarships", "retries", "many"), "invalid retries")
	assert.ErrorContains(t, updateActivity(path, "rank-scholarships", "owner", "x"), "unknown field")
	assert.ErrorContains(t, updateActivity(path, "missing", "status", "x"), "not found")
}

func TestValidateRegistry(t *testing.T) {
	n, err := validateRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	path := filepath.Join(t.TempDir(), "registry.json")
	bad := newActivity("broken")
	bad.InputSchema = map[string]interface{}{"type": 42}
	require.NoError(t, addActivity(path, bad))

	_, err = validateRegistry(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"activities":[]}`), 0o644))
	_, err = validateRegistry(path)
	assert.ErrorContains(t, err, "no activities")
}

func TestHelp_PrintsUsageOnce(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	help()
	os.Stdout = stdout
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "\nUsage: registry-updater"))
	assert.True(t, strings.HasSuffix(string(out), "more information about a command.\n"))
}
