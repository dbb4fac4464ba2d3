package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
	"github.com/carelinkhq/prescription-ai/internal/domain/repositories"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/observability"
	apperrors "github.com/carelinkhq/prescription-ai/pkg/errors"
)

// PrescriptionService owns the persisted prescription lifecycle: draft
// creation from an extraction outcome and the status workflow with its
// immutable edit history. Every transition is validated, recorded, and
// published on the event bus.
type PrescriptionService struct {
	repo repositories.PrescriptionRepository
	bus  providers.EventBus
}

// NewPrescriptionService creates a new prescription service. The event bus
// may be nil; transitions are then persisted without publication.
func NewPrescriptionService(repo repositories.PrescriptionRepository, bus providers.EventBus) *PrescriptionService {
	return &PrescriptionService{repo: repo, bus: bus}
}

// CreateDraft persists an extraction outcome as a draft prescription. The
// record passes through "generating" so the history shows the full
// workflow from the start.
func (s *PrescriptionService) CreateDraft(ctx context.Context, patientID, encounterID string, outcome *entities.ExtractionOutcome) (*entities.Prescription, error) {
	if patientID == "" {
		return nil, apperrors.NewValidationError("patient ID is required")
	}
	if outcome == nil {
		return nil, apperrors.NewValidationError("extraction outcome is required")
	}

	now := time.Now().UTC()
	prescription := &entities.Prescription{
		ID:          uuid.New(),
		PatientID:   patientID,
		EncounterID: encounterID,
		Status:      entities.StatusDraft,
		Outcome:     *outcome,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, err
	}

	entry := &entities.EditHistoryEntry{
		ID:         uuid.New(),
		FromStatus: entities.StatusGenerating,
		ToStatus:   entities.StatusDraft,
		Actor:      "system",
		Reason:     "extraction completed",
		CreatedAt:  now,
	}
	if err := s.repo.AppendHistory(ctx, prescription.ID, entry); err != nil {
		return nil, err
	}
	prescription.EditHistory = []entities.EditHistoryEntry{*entry}

	s.publish(ctx, prescription.ID, entities.StatusGenerating, entities.StatusDraft, "system")

	return prescription, nil
}

// Get loads a prescription with its edit history.
func (s *PrescriptionService) Get(ctx context.Context, id uuid.UUID) (*entities.Prescription, error) {
	prescription, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	prescription.EditHistory = history

	return prescription, nil
}

// Transition moves a prescription to the next workflow state. Invalid
// moves are rejected; valid ones append an immutable history entry with
// actor, timestamp, and reason.
func (s *PrescriptionService) Transition(ctx context.Context, id uuid.UUID, next entities.PrescriptionStatus, actor, reason string) (*entities.Prescription, error) {
	if actor == "" {
		return nil, apperrors.NewValidationError("actor is required")
	}

	prescription, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !prescription.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("cannot transition prescription from %s to %s", prescription.Status, next),
		)
	}

	from := prescription.Status
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	entry := &entities.EditHistoryEntry{
		ID:         uuid.New(),
		FromStatus: from,
		ToStatus:   next,
		Actor:      actor,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.AppendHistory(ctx, id, entry); err != nil {
		return nil, err
	}

	prescription.Status = next
	prescription.EditHistory = append(prescription.EditHistory, *entry)

	s.publish(ctx, id, from, next, actor)

	return prescription, nil
}

func (s *PrescriptionService) publish(ctx context.Context, id uuid.UUID, from, to entities.PrescriptionStatus, actor string) {
	if s.bus == nil {
		return
	}

	event := &entities.PrescriptionEvent{
		ID:             uuid.New(),
		PrescriptionID: id,
		FromStatus:     from,
		ToStatus:       to,
		Actor:          actor,
		OccurredAt:     time.Now().UTC(),
	}

	// Broadcast on the global updates channel and on the per-prescription
	// channel that event streams subscribe to.
	channels := []string{
		providers.EventChannelPrescriptionUpdates,
		providers.GetPrescriptionChannel(id.String()),
	}
	for _, channel := range channels {
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("prescription_id", id.String()).
				Str("channel", channel).
				Msg("failed to publish prescription event")
		}
	}
}
