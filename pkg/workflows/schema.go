package workflows

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/herreralegal/intake/pkg/models"
)

// workflowSchema is the JSON Schema every embedded definition must satisfy
// before it is accepted into the catalog. Structural invariants the schema
// cannot express (step ordering, subfield presence) are checked separately.
const workflowSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["slug", "name", "steps", "required_documents"],
	"properties": {
		"slug": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"steps": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["step", "title"],
				"properties": {
					"step": {"type": "integer", "minimum": 1},
					"title": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"type": {"enum": ["form", "documents", "review"]},
					"fields": {"type": "array", "items": {"$ref": "#/definitions/field"}}
				}
			}
		},
		"required_documents": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["key", "label", "required"],
				"properties": {
					"key": {"type": "string", "minLength": 1},
					"label": {"type": "string", "minLength": 1},
					"required": {"type": "boolean"},
					"category": {"type": "string"},
					"helper": {"type": "string"},
					"multiple": {"type": "boolean"}
				}
			}
		},
		"eligibility_questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "question", "type", "fail_message"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"question": {"type": "string", "minLength": 1},
					"type": {"enum": ["boolean", "select", "multi_select"]},
					"options": {"type": "array", "items": {"type": "string"}},
					"min_selections": {"type": "integer", "minimum": 1},
					"fail_message": {"type": "string", "minLength": 1}
				}
			}
		}
	},
	"definitions": {
		"field": {
			"type": "object",
			"required": ["key", "label", "type"],
			"properties": {
				"key": {"type": "string", "minLength": 1},
				"label": {"type": "string", "minLength": 1},
				"type": {"type": "string", "minLength": 1},
				"required": {"type": "boolean"},
				"options": {"type": "array", "items": {"type": "string"}},
				"helper": {"type": "string"},
				"conditional": {"type": "string"},
				"min_length": {"type": "integer", "minimum": 1},
				"min_selections": {"type": "integer", "minimum": 1},
				"subfields": {"type": "array", "items": {"$ref": "#/definitions/field"}},
				"multiple": {"type": "boolean"}
			}
		}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(workflowSchema)

// validateDefinition checks a raw definition against the workflow schema.
func validateDefinition(raw []byte) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var errs error
	for _, desc := range result.Errors() {
		errs = errors.Join(errs, fmt.Errorf("%s: %s", desc.Field(), desc.Description()))
	}

	return fmt.Errorf("invalid workflow definition: %w", errs)
}

// validateStructure enforces the invariants the JSON schema cannot: step
// ordinals strictly increasing, fields present exactly on form steps, and
// subfields present exactly on composite field types.
func validateStructure(workflow *models.ServiceWorkflow) error {
	lastOrdinal := 0

	for i := range workflow.Steps {
		step := &workflow.Steps[i]

		if step.Step <= lastOrdinal {
			return fmt.Errorf("step %q: ordinal %d is not increasing", step.Title, step.Step)
		}

		lastOrdinal = step.Step

		switch step.Kind() {
		case models.StepTypeForm:
			if !step.HasFields() {
				return fmt.Errorf("step %q: form steps must declare fields", step.Title)
			}
		case models.StepTypeDocuments, models.StepTypeReview:
			if step.HasFields() {
				return fmt.Errorf("step %q: %s steps must not declare fields", step.Title, step.Kind())
			}
		}

		if err := validateFields(step.Fields); err != nil {
			return fmt.Errorf("step %q: %w", step.Title, err)
		}
	}

	return nil
}

func validateFields(fields []models.WorkflowField) error {
	seen := make(map[string]bool, len(fields))

	for i := range fields {
		field := &fields[i]

		if seen[field.Key] {
			return fmt.Errorf("field %q: duplicate key", field.Key)
		}

		seen[field.Key] = true

		if field.IsComposite() != (len(field.Subfields) > 0) {
			return fmt.Errorf("field %q: subfields are required exactly for composite types", field.Key)
		}

		if err := validateFields(field.Subfields); err != nil {
			return fmt.Errorf("field %q: %w", field.Key, err)
		}
	}

	return nil
}
