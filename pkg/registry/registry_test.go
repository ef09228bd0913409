package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"calculate-match-score", "categorize-colleges", "send-booking-notification"} {
		activity, ok := reg.FindByTaskType(taskType)
		require.True(t, ok, taskType)
		assert.NotEmpty(t, activity.InputSchema)
	}

	_, ok := reg.FindByTaskType("validate-subscription")
	assert.False(t, ok)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{
		Version:    "1.0.0",
		Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "a", Category: "matching"}},
	}
	require.NoError(t, reg.Save(path))
	assert.NotEmpty(t, reg.LastUpdated)

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.LastUpdated, loaded.LastUpdated)
	assert.Len(t, loaded.Activities, 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		reg     ActivityRegistry
		wantErr string
	}{
		{"empty", ActivityRegistry{}, "no activities"},
		{"missing id", ActivityRegistry{Activities: []Activity{{DisplayName: "A"}}}, "ID"},
		{"duplicate", ActivityRegistry{Activities: []Activity{
			{ID: "a", DisplayName: "A", TaskType: "a", Category: "c"},
			{ID: "a", DisplayName: "A", TaskType: "a", Category: "c"},
		}}, "duplicate"},
		{"missing task type", ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", Category: "c"}}}, "TaskType"},
		{"missing category", ActivityRegistry{Activities: []Activity{{ID: "a", DisplayName: "A", TaskType: "a"}}}, "Category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.reg.Validate(), tt.wantErr)
		})
	}
}
