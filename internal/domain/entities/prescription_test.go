package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

func TestPrescriptionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    entities.PrescriptionStatus
		to      entities.PrescriptionStatus
		allowed bool
	}{
		{entities.StatusGenerating, entities.StatusDraft, true},
		{entities.StatusDraft, entities.StatusReview, true},
		{entities.StatusReview, entities.StatusApproved, true},
		{entities.StatusApproved, entities.StatusSigned, true},
		{entities.StatusSigned, entities.StatusSent, true},
		{entities.StatusSent, entities.StatusDispensed, true},

		// cancellation is allowed from any non-terminal state
		{entities.StatusDraft, entities.StatusCancelled, true},
		{entities.StatusSigned, entities.StatusCancelled, true},

		// no skipping or reversing
		{entities.StatusDraft, entities.StatusApproved, false},
		{entities.StatusReview, entities.StatusDraft, false},

		// terminal states admit nothing
		{entities.StatusDispensed, entities.StatusCancelled, false},
		{entities.StatusCancelled, entities.StatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestPrescriptionStatus_IsTerminal(t *testing.T) {
	assert.True(t, entities.StatusDispensed.IsTerminal())
	assert.True(t, entities.StatusCancelled.IsTerminal())
	assert.False(t, entities.StatusDraft.IsTerminal())
}
