package models

// FieldType enumerates the kinds of form fields a workflow step may declare.
// The wizard's field registry maps each kind to an editing and validation
// strategy; unknown kinds fall back to plain text.
type FieldType string

const (
	FieldTypeText               FieldType = "text"
	FieldTypeLongText           FieldType = "long_text"
	FieldTypeSelect             FieldType = "select"
	FieldTypeMultiSelect        FieldType = "multi_select"
	FieldTypeDate               FieldType = "date"
	FieldTypeBoolean            FieldType = "boolean"
	FieldTypePhone              FieldType = "phone"
	FieldTypeEmail              FieldType = "email"
	FieldTypeCountrySelect      FieldType = "country_select"
	FieldTypeUSStateSelect      FieldType = "us_state_select"
	FieldTypeCurrency           FieldType = "currency"
	FieldTypeNumber             FieldType = "number"
	FieldTypeTextArray          FieldType = "text_array"
	FieldTypeMonthYear          FieldType = "month_year"
	FieldTypeMonthYearOrPresent FieldType = "month_year_or_present"
	FieldTypeAddressGroup       FieldType = "address_group"
	FieldTypeRepeatableGroup    FieldType = "repeatable_group"
	FieldTypeSpouseForm         FieldType = "spouse_form"
)

// WorkflowField is one form field definition inside a workflow step. Fields
// are authored as static configuration and never mutated at runtime.
//
// Subfields is present exactly for the composite kinds (address_group,
// repeatable_group, spouse_form); the field's key doubles as the storage key
// in the case's form-data document.
type WorkflowField struct {
	Key           string          `json:"key"                      validate:"required"`
	Label         string          `json:"label"                    validate:"required"`
	Type          FieldType       `json:"type"                     validate:"required"`
	Required      bool            `json:"required,omitempty"`
	Options       []string        `json:"options,omitempty"`
	Helper        string          `json:"helper,omitempty"`
	Conditional   string          `json:"conditional,omitempty"`
	MinLength     int             `json:"min_length,omitempty"`
	MinSelections int             `json:"min_selections,omitempty"`
	Subfields     []WorkflowField `json:"subfields,omitempty"`
	Multiple      bool            `json:"multiple,omitempty"`
}

// IsComposite reports whether the field stores nested records keyed by its
// subfields rather than a scalar or scalar-array value.
func (f *WorkflowField) IsComposite() bool {
	switch f.Type {
	case FieldTypeAddressGroup, FieldTypeRepeatableGroup, FieldTypeSpouseForm:
		return true
	default:
		return false
	}
}
