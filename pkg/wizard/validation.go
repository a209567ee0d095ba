package wizard

import (
	"github.com/herreralegal/intake/pkg/models"
)

// defaultRegistry serves the package-level validation entry points. Callers
// that register custom field types construct their own FieldRegistry and use
// its methods instead.
var defaultRegistry = NewFieldRegistry()

// ValidateStep checks a step's fields against the current form data and
// returns every constraint violation, in field declaration order (then
// entry/subfield order for nested types).
func ValidateStep(step models.WorkflowStep, formData map[string]any) []ValidationError {
	return defaultRegistry.ValidateStep(step, formData)
}

// IsStepComplete reports whether the step has no violations.
func IsStepComplete(step models.WorkflowStep, formData map[string]any) bool {
	return len(ValidateStep(step, formData)) == 0
}

// ValidateStep checks a step's fields using this registry's strategies.
//
// Per field: a field whose condition evaluates false is skipped entirely and
// can never produce an error. A required field with an empty value produces
// exactly one error and no further checks. An empty optional value skips
// type-specific checks; that short-circuit is load-bearing, optional empty
// fields must never fail min-length or min-selection rules.
func (r *FieldRegistry) ValidateStep(step models.WorkflowStep, formData map[string]any) []ValidationError {
	var errs []ValidationError

	for _, field := range step.Fields {
		if !EvaluateCondition(field.Conditional, formData) {
			continue
		}

		value := formData[field.Key]

		if isEmptyValue(value) {
			if field.Required {
				errs = append(errs, ValidationError{
					Key:     field.Key,
					Message: field.Label + " es obligatorio",
				})
			}

			continue
		}

		strategy := r.Lookup(field.Type)
		if strategy.Validate != nil {
			errs = append(errs, strategy.Validate(field, value)...)
		}
	}

	return errs
}

// IsStepComplete reports whether the step has no violations under this
// registry.
func (r *FieldRegistry) IsStepComplete(step models.WorkflowStep, formData map[string]any) bool {
	return len(r.ValidateStep(step, formData)) == 0
}
