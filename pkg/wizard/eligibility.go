package wizard

import "github.com/herreralegal/intake/pkg/models"

// CheckEligibility evaluates the answers to a workflow's pre-wizard gate and
// returns the fail messages of every unsatisfied question. An empty result
// means the client may open a case. Workflows without questions always pass.
func CheckEligibility(workflow *models.ServiceWorkflow, answers map[string]any) []string {
	var failures []string

	for _, q := range workflow.EligibilityQuestions {
		answer := answers[q.ID]

		switch q.Type {
		case models.FieldTypeBoolean:
			if q.RequiredAnswer != nil && !looseEqual(answer, q.RequiredAnswer) {
				failures = append(failures, q.FailMessage)
			}
		case models.FieldTypeSelect:
			if q.RequiredAnswer != nil && !looseEqual(answer, q.RequiredAnswer) {
				failures = append(failures, q.FailMessage)
			}
		case models.FieldTypeMultiSelect:
			if q.MinSelections > 0 {
				selections, ok := asArray(answer)
				if !ok || len(selections) < q.MinSelections {
					failures = append(failures, q.FailMessage)
				}
			}
		}
	}

	return failures
}
