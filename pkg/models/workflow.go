// Package models defines the core domain models for the client-intake platform:
// service workflow definitions, cases, documents, and case activity.
package models

// StepType distinguishes the three kinds of wizard pages.
type StepType string

const (
	StepTypeForm      StepType = "form"      // Collects field values
	StepTypeDocuments StepType = "documents" // Document upload page, no fields
	StepTypeReview    StepType = "review"    // Final review and attestation page
)

// WorkflowStep is one page of the intake wizard. The Step ordinal is 1-based
// and strictly increasing within a workflow. Only documents and review steps
// may omit Fields.
type WorkflowStep struct {
	Step        int             `json:"step"                  validate:"required,min=1"`
	Title       string          `json:"title"                 validate:"required"`
	Description string          `json:"description,omitempty"`
	Type        StepType        `json:"type,omitempty"`
	Fields      []WorkflowField `json:"fields,omitempty"`
}

// Kind returns the step type, defaulting to form when the definition omits it.
func (s *WorkflowStep) Kind() StepType {
	if s.Type == "" {
		return StepTypeForm
	}

	return s.Type
}

// HasFields reports whether the step collects form input.
func (s *WorkflowStep) HasFields() bool {
	return len(s.Fields) > 0
}

// RequiredDocument declares one document a service expects the client to
// upload. Multiple allows more than one upload against the same key.
type RequiredDocument struct {
	Key      string `json:"key"                validate:"required"`
	Label    string `json:"label"              validate:"required"`
	Required bool   `json:"required"`
	Category string `json:"category,omitempty"`
	Helper   string `json:"helper,omitempty"`
	Multiple bool   `json:"multiple,omitempty"`
}

// EligibilityQuestion is a pre-wizard gate question. A case is only opened
// once every question's answer satisfies its requirement.
type EligibilityQuestion struct {
	ID             string    `json:"id"                        validate:"required"`
	Question       string    `json:"question"                  validate:"required"`
	Type           FieldType `json:"type"                      validate:"required,oneof=boolean select multi_select"`
	Options        []string  `json:"options,omitempty"`
	RequiredAnswer any       `json:"required_answer,omitempty"`
	MinSelections  int       `json:"min_selections,omitempty"`
	FailMessage    string    `json:"fail_message"              validate:"required"`
}

// ServiceWorkflow is the full static definition of one service's intake:
// ordered wizard steps, declared document requirements, and the optional
// eligibility gate. Looked up by slug, never mutated at runtime.
type ServiceWorkflow struct {
	Slug                 string                `json:"slug"                            validate:"required"`
	Name                 string                `json:"name"                            validate:"required"`
	Steps                []WorkflowStep        `json:"steps"                           validate:"required,min=1,dive"`
	RequiredDocuments    []RequiredDocument    `json:"required_documents"              validate:"dive"`
	EligibilityQuestions []EligibilityQuestion `json:"eligibility_questions,omitempty" validate:"dive"`
}

// FormSteps returns the steps that collect field values, in order.
func (w *ServiceWorkflow) FormSteps() []WorkflowStep {
	steps := make([]WorkflowStep, 0, len(w.Steps))

	for _, step := range w.Steps {
		if step.HasFields() {
			steps = append(steps, step)
		}
	}

	return steps
}
