package wizard

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/herreralegal/intake/pkg/models"
)

// EmptyPlaceholder is rendered for absent or empty values; the client never
// signs off on a blank cell.
const EmptyPlaceholder = "—"

var isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)

// SummaryField is one formatted label/value row of the review summary.
type SummaryField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SummarySection groups the formatted rows of one form step.
type SummarySection struct {
	Step   int            `json:"step"`
	Title  string         `json:"title"`
	Fields []SummaryField `json:"fields"`
}

// Summary flattens the form-data document into the read-only review the
// client attests to: every form step's visible, non-empty fields in
// declaration order.
//
// The review screen and any exported document representation must both go
// through this function; the client signs exactly what is later reproduced.
func Summary(workflow *models.ServiceWorkflow, formData map[string]any) []SummarySection {
	sections := make([]SummarySection, 0, len(workflow.Steps))

	for _, step := range workflow.Steps {
		if !step.HasFields() {
			continue
		}

		section := SummarySection{
			Step:   step.Step,
			Title:  step.Title,
			Fields: make([]SummaryField, 0, len(step.Fields)),
		}

		for _, field := range step.Fields {
			if !EvaluateCondition(field.Conditional, formData) {
				continue
			}

			value := formData[field.Key]
			if isScalarEmpty(value) {
				continue
			}

			section.Fields = append(section.Fields, SummaryField{
				Key:   field.Key,
				Label: field.Label,
				Value: FormatFieldValue(field, value),
			})
		}

		sections = append(sections, section)
	}

	return sections
}

// FormatFieldValue renders a field's value with the field's subfield labels
// substituted into nested records, keeping subfield declaration order.
func FormatFieldValue(field models.WorkflowField, value any) string {
	if len(field.Subfields) == 0 {
		return FormatValue(value)
	}

	switch field.Type {
	case models.FieldTypeRepeatableGroup:
		entries := GroupEntries(value)
		if len(entries) == 0 {
			return EmptyPlaceholder
		}

		parts := make([]string, len(entries))
		for i, entry := range entries {
			parts[i] = fmt.Sprintf("[%d] %s", i+1, formatRecord(entry, field.Subfields))
		}

		return strings.Join(parts, " | ")
	case models.FieldTypeAddressGroup, models.FieldTypeSpouseForm:
		record := RecordValue(value)
		if record == nil {
			return FormatValue(value)
		}

		return formatRecord(record, field.Subfields)
	default:
		return FormatValue(value)
	}
}

// FormatValue renders any form value shape as the human-readable text used
// on the review screen: booleans as Sí/No, ISO date-times as localized
// dates, {year, month} records as MM/YYYY, arrays of records as enumerated
// entries, scalar arrays comma-joined, and empty values as the placeholder.
func FormatValue(value any) string {
	if isScalarEmpty(value) {
		return EmptyPlaceholder
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "Sí"
		}

		return "No"
	case string:
		if isoDateTimePattern.MatchString(v) {
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t.Format("02/01/2006")
				}
			}
		}

		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []any:
		return formatArray(v)
	case []string:
		if len(v) == 0 {
			return EmptyPlaceholder
		}

		return strings.Join(v, ", ")
	case map[string]any:
		return formatBareRecord(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatArray(values []any) string {
	if len(values) == 0 {
		return EmptyPlaceholder
	}

	if _, ok := values[0].(map[string]any); ok {
		parts := make([]string, len(values))

		for i, element := range values {
			record, _ := element.(map[string]any)
			parts[i] = fmt.Sprintf("[%d] %s", i+1, formatBareRecord(record))
		}

		return strings.Join(parts, " | ")
	}

	parts := make([]string, len(values))
	for i, element := range values {
		parts[i] = FormatValue(element)
	}

	return strings.Join(parts, ", ")
}

// formatBareRecord renders a record with no schema at hand. A two-key
// {year, month} record is a month/year value; anything else flattens to
// sorted "key: value" pairs so output stays deterministic.
func formatBareRecord(record map[string]any) string {
	if monthYear, ok := formatMonthYear(record); ok {
		return monthYear
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ": " + FormatValue(record[k])
	}

	return strings.Join(pairs, ", ")
}

// formatRecord renders a record using the declared subfields for labels and
// ordering. Keys without a subfield declaration are omitted.
func formatRecord(record map[string]any, subfields []models.WorkflowField) string {
	if monthYear, ok := formatMonthYear(record); ok {
		return monthYear
	}

	pairs := make([]string, 0, len(subfields))
	for _, subfield := range subfields {
		pairs = append(pairs, subfield.Label+": "+FormatValue(record[subfield.Key]))
	}

	return strings.Join(pairs, ", ")
}

// formatMonthYear renders an exactly-two-key {year, month} record as
// "MM/YYYY" with a zero-padded month.
func formatMonthYear(record map[string]any) (string, bool) {
	if len(record) != 2 {
		return "", false
	}

	year, hasYear := record["year"]
	month, hasMonth := record["month"]

	if !hasYear || !hasMonth {
		return "", false
	}

	monthText := scalarText(month)
	if len(monthText) < 2 {
		monthText = strings.Repeat("0", 2-len(monthText)) + monthText
	}

	return monthText + "/" + scalarText(year), true
}

func scalarText(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
