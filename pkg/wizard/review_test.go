package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/testutil"
)

func TestFormatValue_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil", value: nil, expected: "—"},
		{name: "empty string", value: "", expected: "—"},
		{name: "true", value: true, expected: "Sí"},
		{name: "false", value: false, expected: "No"},
		{name: "plain string", value: "hola", expected: "hola"},
		{name: "Presente sentinel passes through", value: PresentSentinel, expected: "Presente"},
		{name: "float without trailing zeros", value: float64(1500), expected: "1500"},
		{name: "float with decimals", value: 12.5, expected: "12.5"},
		{name: "int", value: 7, expected: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value))
		})
	}
}

func TestFormatValue_ISODates(t *testing.T) {
	assert.Equal(t, "05/03/2021", FormatValue("2021-03-05T10:00:00.000Z"))
	assert.Equal(t, "05/03/2021", FormatValue("2021-03-05T10:00:00Z"))
	assert.Equal(t, "05/03/2021", FormatValue("2021-03-05T10:00"))

	// Date-only strings are not ISO date-times and pass through unchanged.
	assert.Equal(t, "2021-03-05", FormatValue("2021-03-05"))
}

func TestFormatValue_MonthYear(t *testing.T) {
	assert.Equal(t, "03/2021", FormatValue(map[string]any{"year": "2021", "month": "3"}))
	assert.Equal(t, "11/2019", FormatValue(map[string]any{"year": float64(2019), "month": float64(11)}))

	// Extra keys disqualify the month/year shape.
	assert.Equal(t,
		"day: 1, month: 3, year: 2021",
		FormatValue(map[string]any{"year": "2021", "month": "3", "day": "1"}))
}

func TestFormatValue_Arrays(t *testing.T) {
	assert.Equal(t, "uno, dos", FormatValue([]any{"uno", "dos"}))
	assert.Equal(t, "uno, dos", FormatValue([]string{"uno", "dos"}))
	assert.Equal(t, "—", FormatValue([]any{}))
	assert.Equal(t, "—", FormatValue([]string{}))

	records := []any{
		map[string]any{"name": "Ana", "age": float64(9)},
		map[string]any{"name": "Luz", "age": float64(4)},
	}
	assert.Equal(t, "[1] age: 9, name: Ana | [2] age: 4, name: Luz", FormatValue(records))
}

func TestFormatFieldValue_UsesSubfieldLabels(t *testing.T) {
	field := models.WorkflowField{
		Key:  "children",
		Type: models.FieldTypeRepeatableGroup,
		Subfields: []models.WorkflowField{
			{Key: "name", Label: "Nombre", Type: models.FieldTypeText},
			{Key: "birth_date", Label: "Nacimiento", Type: models.FieldTypeDate},
		},
	}

	value := []any{
		map[string]any{"name": "Ana", "birth_date": "2015-02-01"},
	}

	assert.Equal(t, "[1] Nombre: Ana, Nacimiento: 2015-02-01", FormatFieldValue(field, value))
	assert.Equal(t, "—", FormatFieldValue(field, []any{}))
}

func TestFormatFieldValue_AddressGroup(t *testing.T) {
	field := models.WorkflowField{
		Key:  "address",
		Type: models.FieldTypeAddressGroup,
		Subfields: []models.WorkflowField{
			{Key: "street", Label: "Calle", Type: models.FieldTypeText},
			{Key: "city", Label: "Ciudad", Type: models.FieldTypeText},
		},
	}

	value := map[string]any{"street": "Av. Juárez 10", "city": "Puebla"}

	assert.Equal(t, "Calle: Av. Juárez 10, Ciudad: Puebla", FormatFieldValue(field, value))
}

func TestSummary_SkipsHiddenAndEmptyFields(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(func(w *models.ServiceWorkflow) {
		w.Steps[0].Fields = append(w.Steps[0].Fields, models.WorkflowField{
			Key:         "spouse_name",
			Label:       "Nombre del cónyuge",
			Type:        models.FieldTypeText,
			Conditional: "marital_status === 'married'",
		})
	})

	formData := map[string]any{
		"full_name":      "Juan Pérez",
		"marital_status": "single",
		"spouse_name":    "no debería aparecer",
		"story":          "",
	}

	sections := Summary(workflow, formData)

	// Review step contributes no section; both form steps do.
	require.Len(t, sections, 2)

	first := sections[0]
	assert.Equal(t, 1, first.Step)
	require.Len(t, first.Fields, 2)
	assert.Equal(t, "Nombre completo", first.Fields[0].Label)
	assert.Equal(t, "Juan Pérez", first.Fields[0].Value)

	// Empty story is skipped entirely.
	assert.Empty(t, sections[1].Fields)
}

func TestSummary_MatchesAttestedDocument(t *testing.T) {
	// The same inputs must always produce the same rendering; the client
	// signs exactly this output.
	workflow := testutil.CreateTestWorkflow()
	formData := map[string]any{
		"full_name":      "Juan Pérez",
		"marital_status": "married",
		"story":          "Una historia suficientemente larga",
	}

	first := Summary(workflow, formData)
	second := Summary(workflow, formData)

	assert.Equal(t, first, second)
}
