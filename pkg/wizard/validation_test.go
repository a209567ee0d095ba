package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herreralegal/intake/pkg/models"
)

func fieldStep(fields ...models.WorkflowField) models.WorkflowStep {
	return models.WorkflowStep{Step: 1, Title: "Paso", Fields: fields}
}

func TestValidateStep_RequiredEmpty(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "full_name", Label: "Nombre completo", Type: models.FieldTypeText, Required: true},
	)

	tests := []struct {
		name     string
		formData map[string]any
	}{
		{name: "missing key", formData: map[string]any{}},
		{name: "nil value", formData: map[string]any{"full_name": nil}},
		{name: "empty string", formData: map[string]any{"full_name": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStep(step, tt.formData)
			require.Len(t, errs, 1)
			assert.Equal(t, "full_name", errs[0].Key)
			assert.Equal(t, "Nombre completo es obligatorio", errs[0].Message)
		})
	}
}

func TestValidateStep_RequiredEmptyProducesOnlyOneError(t *testing.T) {
	// A required long_text that is empty must not also fail min_length.
	step := fieldStep(
		models.WorkflowField{Key: "story", Label: "Su historia", Type: models.FieldTypeLongText, Required: true, MinLength: 50},
	)

	errs := ValidateStep(step, map[string]any{"story": ""})
	require.Len(t, errs, 1)
	assert.Equal(t, "Su historia es obligatorio", errs[0].Message)
}

func TestValidateStep_EmptyOptionalSkipsTypeChecks(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "story", Label: "Su historia", Type: models.FieldTypeLongText, MinLength: 50},
		models.WorkflowField{Key: "tags", Label: "Etiquetas", Type: models.FieldTypeMultiSelect, MinSelections: 2},
	)

	assert.Empty(t, ValidateStep(step, map[string]any{}))
	assert.Empty(t, ValidateStep(step, map[string]any{"story": "", "tags": []any{}}))
}

func TestValidateStep_MinLength(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "story", Label: "Su historia", Type: models.FieldTypeLongText, Required: true, MinLength: 10},
	)

	errs := ValidateStep(step, map[string]any{"story": "corta"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Su historia debe tener al menos 10 caracteres", errs[0].Message)

	// Rune count, not byte count.
	assert.Empty(t, ValidateStep(step, map[string]any{"story": "áéíóúñáéíó"}))
}

func TestValidateStep_MinSelections(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "tags", Label: "Etiquetas", Type: models.FieldTypeMultiSelect, Required: true, MinSelections: 2},
	)

	errs := ValidateStep(step, map[string]any{"tags": []any{"uno"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "Debe seleccionar al menos 2 opción(es)", errs[0].Message)

	assert.Empty(t, ValidateStep(step, map[string]any{"tags": []any{"uno", "dos"}}))
}

func TestValidateStep_ConditionalFieldSkipped(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "marital_status", Label: "Estado civil", Type: models.FieldTypeSelect, Required: true},
		models.WorkflowField{
			Key:         "spouse_name",
			Label:       "Nombre del cónyuge",
			Type:        models.FieldTypeText,
			Required:    true,
			Conditional: "marital_status === 'married'",
		},
	)

	// Hidden field contributes no errors even though it is required and empty.
	errs := ValidateStep(step, map[string]any{"marital_status": "single"})
	assert.Empty(t, errs)

	// Visible and empty: now it fails.
	errs = ValidateStep(step, map[string]any{"marital_status": "married"})
	require.Len(t, errs, 1)
	assert.Equal(t, "spouse_name", errs[0].Key)
}

func TestValidateStep_RepeatableGroupEntries(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{
			Key:      "children",
			Label:    "Hijos",
			Type:     models.FieldTypeRepeatableGroup,
			Required: true,
			Subfields: []models.WorkflowField{
				{Key: "name", Label: "Nombre", Type: models.FieldTypeText, Required: true},
				{Key: "birth_date", Label: "Fecha de nacimiento", Type: models.FieldTypeDate, Required: true},
				{Key: "notes", Label: "Notas", Type: models.FieldTypeText},
			},
		},
	)

	formData := map[string]any{
		"children": []any{
			map[string]any{"name": "Ana", "birth_date": "2015-02-01"},
			map[string]any{"name": "", "birth_date": nil},
		},
	}

	errs := ValidateStep(step, formData)
	require.Len(t, errs, 2)
	assert.Equal(t, "children[1].name", errs[0].Key)
	assert.Equal(t, "Nombre es obligatorio (entrada 2)", errs[0].Message)
	assert.Equal(t, "children[1].birth_date", errs[1].Key)
	assert.Equal(t, "Fecha de nacimiento es obligatorio (entrada 2)", errs[1].Message)
}

func TestValidateStep_SpouseFormSubfields(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{
			Key:      "spouse",
			Label:    "Cónyuge",
			Type:     models.FieldTypeSpouseForm,
			Required: true,
			Subfields: []models.WorkflowField{
				{Key: "full_name", Label: "Nombre completo", Type: models.FieldTypeText, Required: true},
				{Key: "nationality", Label: "Nacionalidad", Type: models.FieldTypeCountrySelect, Required: true},
			},
		},
	)

	formData := map[string]any{
		"spouse": map[string]any{"full_name": "María", "nationality": ""},
	}

	errs := ValidateStep(step, formData)
	require.Len(t, errs, 1)
	assert.Equal(t, "spouse.nationality", errs[0].Key)
	assert.Equal(t, "Nacionalidad es obligatorio", errs[0].Message)
}

func TestValidateStep_ErrorsInDeclarationOrder(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "b_field", Label: "B", Type: models.FieldTypeText, Required: true},
		models.WorkflowField{Key: "a_field", Label: "A", Type: models.FieldTypeText, Required: true},
	)

	errs := ValidateStep(step, map[string]any{})
	require.Len(t, errs, 2)
	assert.Equal(t, "b_field", errs[0].Key)
	assert.Equal(t, "a_field", errs[1].Key)
}

func TestIsStepComplete(t *testing.T) {
	step := fieldStep(
		models.WorkflowField{Key: "full_name", Label: "Nombre completo", Type: models.FieldTypeText, Required: true},
	)

	assert.False(t, IsStepComplete(step, map[string]any{}))
	assert.True(t, IsStepComplete(step, map[string]any{"full_name": "Juan"}))
}
