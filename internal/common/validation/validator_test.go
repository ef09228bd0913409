package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/models"
	"admissions-platform/pkg/registry"
)

func TestValidator_Struct(t *testing.T) {
	v := New()

	t.Run("valid request", func(t *testing.T) {
		err := v.Struct(models.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent})
		assert.NoError(t, err)
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := v.Struct(models.CreateUserRequest{Name: "   ", Email: "not-an-email"})
		require.Error(t, err)

		stdErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)

		byField := map[string]string{}
		for _, f := range stdErr.Fields {
			byField[f.Field] = f.Message
		}
		assert.Equal(t, "name cannot be blank", byField["name"])
		assert.Contains(t, byField, "email")
	})

	t.Run("nested items use their index", func(t *testing.T) {
		plan := models.ActionPlan{
			StudentID: "s1",
			Title:     "Fall",
			Items:     []models.ActionItem{{Title: "ok"}, {Title: ""}},
		}
		err := v.Struct(plan)
		require.Error(t, err)

		stdErr, _ := errors.As(err)
		require.Len(t, stdErr.Fields, 1)
		assert.Equal(t, "items[1].title", stdErr.Fields[0].Field)
	})

	t.Run("profile ranges", func(t *testing.T) {
		gpa := 5.5
		sat := 300
		err := v.Struct(models.StudentProfile{GPA: &gpa, SATScore: &sat})
		require.Error(t, err)

		stdErr, _ := errors.As(err)
		assert.Len(t, stdErr.Fields, 2)
	})
}

func TestSchemaValidator(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		ID:       "calculate-match-score",
		TaskType: "calculate-match-score",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"candidateType": map[string]interface{}{
					"type": "string",
					"enum": []interface{}{"college", "scholarship", "mentor"},
				},
			},
			"required": []interface{}{"candidateType"},
		},
	}}}

	sv, err := NewSchemaValidator(reg)
	require.NoError(t, err)
	assert.True(t, sv.Has("calculate-match-score"))
	assert.False(t, sv.Has("categorize-colleges"))

	assert.NoError(t, sv.Validate("calculate-match-score", map[string]interface{}{"candidateType": "college"}))
	assert.NoError(t, sv.Validate("categorize-colleges", map[string]interface{}{}))

	err = sv.Validate("calculate-match-score", map[string]interface{}{"candidateType": "dorm"})
	require.Error(t, err)
	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSchemaValidationError, stdErr.Code)

	var nilValidator *SchemaValidator
	assert.NoError(t, nilValidator.Validate("calculate-match-score", nil))
}

func TestSchemaValidator_LoadsShippedRegistry(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	sv, err := NewSchemaValidator(reg)
	require.NoError(t, err)

	for _, taskType := range []string{"calculate-match-score", "categorize-colleges", "send-booking-notification"} {
		assert.True(t, sv.Has(taskType), taskType)
	}

	err = sv.Validate("send-booking-notification", map[string]interface{}{})
	assert.Error(t, err)
}
