package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herreralegal/intake/pkg/models"
)

func TestFieldRegistry_UnknownTypeFallsBackToText(t *testing.T) {
	registry := NewFieldRegistry()

	strategy := registry.Lookup(models.FieldType("hologram"))
	require.NotNil(t, strategy.Zero)
	assert.Equal(t, "", strategy.Zero())
	assert.Nil(t, strategy.Validate)
	assert.False(t, strategy.Composite)
}

func TestFieldRegistry_RegisterCustomType(t *testing.T) {
	registry := NewFieldRegistry()

	registry.Register(models.FieldType("signature"), FieldStrategy{
		Validate: func(field models.WorkflowField, value any) []ValidationError {
			return []ValidationError{{Key: field.Key, Message: "firma inválida"}}
		},
		Zero: func() any { return nil },
	})

	step := fieldStep(models.WorkflowField{Key: "sig", Label: "Firma", Type: "signature", Required: true})

	errs := registry.ValidateStep(step, map[string]any{"sig": "scribble"})
	require.Len(t, errs, 1)
	assert.Equal(t, "firma inválida", errs[0].Message)
}

func TestFieldRegistry_ZeroValues(t *testing.T) {
	registry := NewFieldRegistry()

	assert.Equal(t, "", registry.Lookup(models.FieldTypeText).Zero())
	assert.Nil(t, registry.Lookup(models.FieldTypeBoolean).Zero())
	assert.Equal(t, []any{}, registry.Lookup(models.FieldTypeMultiSelect).Zero())
	assert.Equal(t, []any{}, registry.Lookup(models.FieldTypeRepeatableGroup).Zero())
	assert.Equal(t, map[string]any{}, registry.Lookup(models.FieldTypeMonthYear).Zero())
	assert.Equal(t, map[string]any{}, registry.Lookup(models.FieldTypeAddressGroup).Zero())
}

func TestFieldRegistry_CompositeMarking(t *testing.T) {
	registry := NewFieldRegistry()

	assert.True(t, registry.Lookup(models.FieldTypeAddressGroup).Composite)
	assert.True(t, registry.Lookup(models.FieldTypeSpouseForm).Composite)
	assert.True(t, registry.Lookup(models.FieldTypeRepeatableGroup).Composite)
	assert.False(t, registry.Lookup(models.FieldTypeText).Composite)
	assert.False(t, registry.Lookup(models.FieldTypeMultiSelect).Composite)
}

func TestAppendGroupEntry(t *testing.T) {
	field := models.WorkflowField{
		Key:  "children",
		Type: models.FieldTypeRepeatableGroup,
		Subfields: []models.WorkflowField{
			{Key: "name", Label: "Nombre", Type: models.FieldTypeText},
			{Key: "birth_date", Label: "Fecha", Type: models.FieldTypeDate},
		},
	}

	next := AppendGroupEntry(field, nil)
	require.Len(t, next, 1)

	entry, ok := next[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, entry, "name")
	assert.Contains(t, entry, "birth_date")
	assert.Nil(t, entry["name"])

	next = AppendGroupEntry(field, next)
	assert.Len(t, next, 2)
}

func TestRemoveGroupEntry(t *testing.T) {
	value := []any{
		map[string]any{"name": "Ana"},
		map[string]any{"name": "Luz"},
		map[string]any{"name": "Sol"},
	}

	next := RemoveGroupEntry(value, 1)
	require.Len(t, next, 2)
	assert.Equal(t, "Ana", next[0].(map[string]any)["name"])
	assert.Equal(t, "Sol", next[1].(map[string]any)["name"])

	// Out of range leaves the value unchanged.
	assert.Len(t, RemoveGroupEntry(value, 7), 3)
	assert.Len(t, RemoveGroupEntry(value, -1), 3)
}

func TestGroupEntries_NormalizesNonRecords(t *testing.T) {
	entries := GroupEntries([]any{map[string]any{"name": "Ana"}, "garbage", nil})
	require.Len(t, entries, 3)
	assert.Equal(t, "Ana", entries[0]["name"])
	assert.Empty(t, entries[1])
	assert.Empty(t, entries[2])

	assert.Nil(t, GroupEntries("not an array"))
}

func TestEmptiness(t *testing.T) {
	assert.True(t, isEmptyValue(nil))
	assert.True(t, isEmptyValue(""))
	assert.True(t, isEmptyValue([]any{}))
	assert.True(t, isEmptyValue([]string{}))
	assert.False(t, isEmptyValue(false))
	assert.False(t, isEmptyValue(0))
	assert.False(t, isEmptyValue(map[string]any{}))

	assert.True(t, isScalarEmpty(nil))
	assert.True(t, isScalarEmpty(""))
	assert.False(t, isScalarEmpty([]any{}))
}
