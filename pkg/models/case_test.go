package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntakeStatus_Editable(t *testing.T) {
	editable := []IntakeStatus{IntakeStatusInProgress, IntakeStatusNeedsCorrection}
	for _, s := range editable {
		assert.True(t, s.Editable(), string(s))
	}

	readOnly := []IntakeStatus{
		IntakeStatusPaymentPending,
		IntakeStatusSubmitted,
		IntakeStatusUnderReview,
		IntakeStatusApproved,
		IntakeStatusFiled,
		IntakeStatusCancelled,
	}
	for _, s := range readOnly {
		assert.False(t, s.Editable(), string(s))
	}
}

func TestIntakeStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    IntakeStatus
		to      IntakeStatus
		allowed bool
	}{
		{IntakeStatusSubmitted, IntakeStatusUnderReview, true},
		{IntakeStatusSubmitted, IntakeStatusNeedsCorrection, true},
		{IntakeStatusSubmitted, IntakeStatusApproved, true},
		{IntakeStatusSubmitted, IntakeStatusFiled, false},
		{IntakeStatusUnderReview, IntakeStatusNeedsCorrection, true},
		{IntakeStatusUnderReview, IntakeStatusApproved, true},
		{IntakeStatusUnderReview, IntakeStatusSubmitted, false},
		{IntakeStatusApproved, IntakeStatusFiled, true},
		{IntakeStatusApproved, IntakeStatusUnderReview, false},
		{IntakeStatusInProgress, IntakeStatusApproved, false},
		{IntakeStatusInProgress, IntakeStatusSubmitted, false}, // client path, not staff
		{IntakeStatusFiled, IntakeStatusUnderReview, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIntakeStatus_CancellationFromNonTerminalStates(t *testing.T) {
	cancellable := []IntakeStatus{
		IntakeStatusPaymentPending,
		IntakeStatusInProgress,
		IntakeStatusSubmitted,
		IntakeStatusUnderReview,
		IntakeStatusNeedsCorrection,
		IntakeStatusApproved,
	}
	for _, s := range cancellable {
		assert.True(t, s.CanTransitionTo(IntakeStatusCancelled), string(s))
	}

	assert.False(t, IntakeStatusFiled.CanTransitionTo(IntakeStatusCancelled))
	assert.False(t, IntakeStatusCancelled.CanTransitionTo(IntakeStatusCancelled))
}

func TestWorkflowStep_Kind(t *testing.T) {
	form := WorkflowStep{Step: 1, Title: "Datos"}
	assert.Equal(t, StepTypeForm, form.Kind())

	review := WorkflowStep{Step: 2, Title: "Revisión", Type: StepTypeReview}
	assert.Equal(t, StepTypeReview, review.Kind())
}

func TestServiceWorkflow_FormSteps(t *testing.T) {
	workflow := ServiceWorkflow{
		Slug: "s",
		Name: "S",
		Steps: []WorkflowStep{
			{Step: 1, Title: "A", Fields: []WorkflowField{{Key: "x", Label: "X", Type: FieldTypeText}}},
			{Step: 2, Title: "Docs", Type: StepTypeDocuments},
			{Step: 3, Title: "B", Fields: []WorkflowField{{Key: "y", Label: "Y", Type: FieldTypeText}}},
			{Step: 4, Title: "Revisión", Type: StepTypeReview},
		},
	}

	formSteps := workflow.FormSteps()
	assert.Len(t, formSteps, 2)
	assert.Equal(t, "A", formSteps[0].Title)
	assert.Equal(t, "B", formSteps[1].Title)
}

func TestWorkflowField_IsComposite(t *testing.T) {
	composite := []FieldType{FieldTypeAddressGroup, FieldTypeRepeatableGroup, FieldTypeSpouseForm}
	for _, ft := range composite {
		f := WorkflowField{Type: ft}
		assert.True(t, f.IsComposite(), string(ft))
	}

	f := WorkflowField{Type: FieldTypeMultiSelect}
	assert.False(t, f.IsComposite())
}
