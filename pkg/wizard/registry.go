package wizard

import (
	"fmt"

	"github.com/herreralegal/intake/pkg/models"
)

// PresentSentinel is stored for a month_year_or_present field when the date
// range is still ongoing ("Presente" checkbox in the original intake forms).
const PresentSentinel = "Presente"

// ValidationError is one user-correctable constraint violation, scoped to a
// field key. Nested violations use compound keys: "field[2].sub" for
// repeatable-group entries and "field.sub" for composite records. Errors are
// recomputed on demand and never persisted.
type ValidationError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// FieldStrategy bundles the per-type capabilities the engine dispatches on:
// type-specific validation of a present value and the zero value a fresh
// editor starts from. Required/empty handling is common to all types and
// lives in ValidateStep, not here.
type FieldStrategy struct {
	// Validate runs type-specific checks on a non-empty value. May be nil
	// for types with no checks beyond required/empty.
	Validate func(field models.WorkflowField, value any) []ValidationError

	// Zero returns the value a newly rendered editor starts from.
	Zero func() any

	// Composite marks types whose value nests records keyed by subfields.
	Composite bool
}

// FieldRegistry maps field types to strategies. It is open for extension:
// adding a field type means one Register call, and unknown types resolve to
// the plain-text strategy instead of failing.
type FieldRegistry struct {
	strategies map[models.FieldType]FieldStrategy
	fallback   FieldStrategy
}

// NewFieldRegistry returns a registry with every built-in field type
// registered.
func NewFieldRegistry() *FieldRegistry {
	textStrategy := FieldStrategy{Zero: func() any { return "" }}

	r := &FieldRegistry{
		strategies: make(map[models.FieldType]FieldStrategy),
		fallback:   textStrategy,
	}

	for _, t := range []models.FieldType{
		models.FieldTypeText,
		models.FieldTypePhone,
		models.FieldTypeEmail,
		models.FieldTypeSelect,
		models.FieldTypeCountrySelect,
		models.FieldTypeUSStateSelect,
		models.FieldTypeDate,
		models.FieldTypeCurrency,
		models.FieldTypeNumber,
	} {
		r.Register(t, textStrategy)
	}

	r.Register(models.FieldTypeBoolean, FieldStrategy{Zero: func() any { return nil }})

	r.Register(models.FieldTypeLongText, FieldStrategy{
		Validate: validateMinLength,
		Zero:     func() any { return "" },
	})

	r.Register(models.FieldTypeMultiSelect, FieldStrategy{
		Validate: validateMinSelections,
		Zero:     func() any { return []any{} },
	})

	r.Register(models.FieldTypeTextArray, FieldStrategy{Zero: func() any { return []any{} }})

	r.Register(models.FieldTypeMonthYear, FieldStrategy{Zero: func() any { return map[string]any{} }})
	r.Register(models.FieldTypeMonthYearOrPresent, FieldStrategy{Zero: func() any { return map[string]any{} }})

	r.Register(models.FieldTypeAddressGroup, FieldStrategy{
		Zero:      func() any { return map[string]any{} },
		Composite: true,
	})

	r.Register(models.FieldTypeSpouseForm, FieldStrategy{
		Validate:  validateCompositeRecord,
		Zero:      func() any { return map[string]any{} },
		Composite: true,
	})

	r.Register(models.FieldTypeRepeatableGroup, FieldStrategy{
		Validate:  validateGroupEntries,
		Zero:      func() any { return []any{} },
		Composite: true,
	})

	return r
}

// Register adds or replaces the strategy for a field type.
func (r *FieldRegistry) Register(fieldType models.FieldType, strategy FieldStrategy) {
	r.strategies[fieldType] = strategy
}

// Lookup resolves the strategy for a field type, falling back to plain text
// for unknown types.
func (r *FieldRegistry) Lookup(fieldType models.FieldType) FieldStrategy {
	if strategy, ok := r.strategies[fieldType]; ok {
		return strategy
	}

	return r.fallback
}

func validateMinLength(field models.WorkflowField, value any) []ValidationError {
	if field.MinLength <= 0 {
		return nil
	}

	text, ok := value.(string)
	if !ok || len([]rune(text)) >= field.MinLength {
		return nil
	}

	return []ValidationError{{
		Key:     field.Key,
		Message: fmt.Sprintf("%s debe tener al menos %d caracteres", field.Label, field.MinLength),
	}}
}

func validateMinSelections(field models.WorkflowField, value any) []ValidationError {
	if field.MinSelections <= 0 {
		return nil
	}

	values, ok := asArray(value)
	if !ok || len(values) >= field.MinSelections {
		return nil
	}

	return []ValidationError{{
		Key:     field.Key,
		Message: fmt.Sprintf("Debe seleccionar al menos %d opción(es)", field.MinSelections),
	}}
}

// validateGroupEntries checks every required subfield of every entry of a
// repeatable group, emitting compound "field[i].sub" keys.
func validateGroupEntries(field models.WorkflowField, value any) []ValidationError {
	entries := GroupEntries(value)

	var errs []ValidationError

	for i, entry := range entries {
		for _, subfield := range field.Subfields {
			if !subfield.Required {
				continue
			}

			if isScalarEmpty(entry[subfield.Key]) {
				errs = append(errs, ValidationError{
					Key:     fmt.Sprintf("%s[%d].%s", field.Key, i, subfield.Key),
					Message: fmt.Sprintf("%s es obligatorio (entrada %d)", subfield.Label, i+1),
				})
			}
		}
	}

	return errs
}

// validateCompositeRecord checks the required subfields of a single nested
// record, emitting compound "field.sub" keys.
func validateCompositeRecord(field models.WorkflowField, value any) []ValidationError {
	record := RecordValue(value)
	if record == nil {
		return nil
	}

	var errs []ValidationError

	for _, subfield := range field.Subfields {
		if !subfield.Required {
			continue
		}

		if isScalarEmpty(record[subfield.Key]) {
			errs = append(errs, ValidationError{
				Key:     field.Key + "." + subfield.Key,
				Message: subfield.Label + " es obligatorio",
			})
		}
	}

	return errs
}

// RecordValue normalizes a composite field's value to a nested record.
// Returns nil when the value has a different shape.
func RecordValue(value any) map[string]any {
	record, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	return record
}

// GroupEntries normalizes a repeatable group's value to its ordered entries.
// Non-record elements are preserved as empty records so indices stay stable.
func GroupEntries(value any) []map[string]any {
	raw, ok := value.([]any)
	if !ok {
		return nil
	}

	entries := make([]map[string]any, len(raw))
	for i, element := range raw {
		if record, ok := element.(map[string]any); ok {
			entries[i] = record
		} else {
			entries[i] = map[string]any{}
		}
	}

	return entries
}

// AppendGroupEntry returns the group value with one new entry whose subfield
// keys are all present but unset.
func AppendGroupEntry(field models.WorkflowField, value any) []any {
	entry := make(map[string]any, len(field.Subfields))
	for _, subfield := range field.Subfields {
		entry[subfield.Key] = nil
	}

	raw, _ := value.([]any)

	next := make([]any, 0, len(raw)+1)
	next = append(next, raw...)
	next = append(next, entry)

	return next
}

// RemoveGroupEntry excises the entry at index, preserving the relative order
// of the rest. Out-of-range indices leave the value unchanged.
func RemoveGroupEntry(value any, index int) []any {
	raw, _ := value.([]any)
	if index < 0 || index >= len(raw) {
		return raw
	}

	next := make([]any, 0, len(raw)-1)
	next = append(next, raw[:index]...)
	next = append(next, raw[index+1:]...)

	return next
}

// isScalarEmpty is the emptiness test used for nested subfield values:
// absent, nil, or empty string.
func isScalarEmpty(value any) bool {
	if value == nil {
		return true
	}

	text, ok := value.(string)

	return ok && text == ""
}

// isEmptyValue is the emptiness test for top-level field values: absent,
// nil, empty string, or empty array.
func isEmptyValue(value any) bool {
	if isScalarEmpty(value) {
		return true
	}

	if values, ok := asArray(value); ok {
		return len(values) == 0
	}

	return false
}
