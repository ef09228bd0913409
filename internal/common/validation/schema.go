package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"admissions-platform/internal/common/errors"
	"admissions-platform/pkg/registry"
)

// SchemaValidator validates worker variables against the input schemas of the activity registry.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the input schema of every activity, keyed by task type.
func NewSchemaValidator(reg *registry.ActivityRegistry) (*SchemaValidator, error) {
	sv := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema)}
	if reg == nil {
		return sv, nil
	}

	for _, activity := range reg.Activities {
		if len(activity.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(activity.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", activity.TaskType, err)
		}
		sv.schemas[activity.TaskType] = schema
	}

	return sv, nil
}

// Validate returns nil when no schema is registered for taskType.
func (sv *SchemaValidator) Validate(taskType string, input map[string]interface{}) error {
	if sv == nil {
		return nil
	}
	schema, ok := sv.schemas[taskType]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return errors.NewSchemaValidationError(err.Error())
	}

	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return errors.NewSchemaValidationError(strings.Join(msgs, "; "))
	}

	return nil
}

// Has reports whether a schema is registered for taskType.
func (sv *SchemaValidator) Has(taskType string) bool {
	if sv == nil {
		return false
	}
	_, ok := sv.schemas[taskType]
	return ok
}
