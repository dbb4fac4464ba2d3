package entities

import (
	"time"

	"github.com/google/uuid"
)

// PrescriptionStatus is a state in the prescription workflow.
type PrescriptionStatus string

const (
	StatusGenerating PrescriptionStatus = "generating"
	StatusDraft      PrescriptionStatus = "draft"
	StatusReview     PrescriptionStatus = "review"
	StatusApproved   PrescriptionStatus = "approved"
	StatusSigned     PrescriptionStatus = "signed"
	StatusSent       PrescriptionStatus = "sent"
	StatusDispensed  PrescriptionStatus = "dispensed"
	StatusCancelled  PrescriptionStatus = "cancelled"
)

// workflow is the forward edge set. Cancelled is additionally reachable from
// any non-terminal state.
var workflow = map[PrescriptionStatus]PrescriptionStatus{
	StatusGenerating: StatusDraft,
	StatusDraft:      StatusReview,
	StatusReview:     StatusApproved,
	StatusApproved:   StatusSigned,
	StatusSigned:     StatusSent,
	StatusSent:       StatusDispensed,
}

// IsTerminal reports whether no further transitions are allowed.
func (s PrescriptionStatus) IsTerminal() bool {
	return s == StatusDispensed || s == StatusCancelled
}

// CanTransitionTo reports whether moving to next is a valid workflow step.
func (s PrescriptionStatus) CanTransitionTo(next PrescriptionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return workflow[s] == next
}

// EditHistoryEntry is an immutable record of one workflow transition.
type EditHistoryEntry struct {
	ID         uuid.UUID          `json:"id" db:"id"`
	FromStatus PrescriptionStatus `json:"fromStatus" db:"from_status"`
	ToStatus   PrescriptionStatus `json:"toStatus" db:"to_status"`
	Actor      string             `json:"actor" db:"actor"`
	Reason     string             `json:"reason" db:"reason"`
	CreatedAt  time.Time          `json:"createdAt" db:"created_at"`
}

// Prescription is the persisted record wrapping an extraction outcome.
type Prescription struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	PatientID   string             `json:"patientId" db:"patient_id"`
	EncounterID string             `json:"encounterId" db:"encounter_id"`
	Status      PrescriptionStatus `json:"status" db:"status"`
	Outcome     ExtractionOutcome  `json:"outcome" db:"outcome"`
	EditHistory []EditHistoryEntry `json:"editHistory" db:"-"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" db:"updated_at"`
}

// PrescriptionEvent is published on each workflow transition.
type PrescriptionEvent struct {
	ID             uuid.UUID          `json:"id"`
	PrescriptionID uuid.UUID          `json:"prescriptionId"`
	FromStatus     PrescriptionStatus `json:"fromStatus"`
	ToStatus       PrescriptionStatus `json:"toStatus"`
	Actor          string             `json:"actor"`
	OccurredAt     time.Time          `json:"occurredAt"`
}
