package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
	apperrors "github.com/carelinkhq/prescription-ai/pkg/errors"
)

// memoryPrescriptionRepo is an in-memory PrescriptionRepository.
type memoryPrescriptionRepo struct {
	prescriptions map[uuid.UUID]*entities.Prescription
	history       map[uuid.UUID][]entities.EditHistoryEntry
}

func newMemoryPrescriptionRepo() *memoryPrescriptionRepo {
	return &memoryPrescriptionRepo{
		prescriptions: make(map[uuid.UUID]*entities.Prescription),
		history:       make(map[uuid.UUID][]entities.EditHistoryEntry),
	}
}

func (r *memoryPrescriptionRepo) Create(ctx context.Context, p *entities.Prescription) error {
	stored := *p
	r.prescriptions[p.ID] = &stored
	return nil
}

func (r *memoryPrescriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("prescription not found")
	}
	copied := *p
	return &copied, nil
}

func (r *memoryPrescriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PrescriptionStatus) error {
	p, ok := r.prescriptions[id]
	if !ok {
		return apperrors.NewNotFoundError("prescription not found")
	}
	p.Status = status
	return nil
}

func (r *memoryPrescriptionRepo) AppendHistory(ctx context.Context, id uuid.UUID, entry *entities.EditHistoryEntry) error {
	r.history[id] = append(r.history[id], *entry)
	return nil
}

func (r *memoryPrescriptionRepo) ListHistory(ctx context.Context, id uuid.UUID) ([]entities.EditHistoryEntry, error) {
	return r.history[id], nil
}

// recordingBus captures published events.
type recordingBus struct {
	channels []string
	events   []*entities.PrescriptionEvent
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.PrescriptionEvent) error {
	b.channels = append(b.channels, channel)
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.PrescriptionEvent, error) {
	return nil, nil
}

func (b *recordingBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *recordingBus) Close() error { return nil }

func TestPrescriptionService_CreateDraft(t *testing.T) {
	repo := newMemoryPrescriptionRepo()
	bus := &recordingBus{}
	service := services.NewPrescriptionService(repo, bus)

	outcome := &entities.ExtractionOutcome{OverallConfidence: 0.9}
	prescription, err := service.CreateDraft(context.Background(), "patient-1", "enc-1", outcome)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusDraft, prescription.Status)
	assert.Equal(t, "patient-1", prescription.PatientID)

	// history records the generating -> draft transition by the system
	require.Len(t, prescription.EditHistory, 1)
	assert.Equal(t, entities.StatusGenerating, prescription.EditHistory[0].FromStatus)
	assert.Equal(t, entities.StatusDraft, prescription.EditHistory[0].ToStatus)
	assert.Equal(t, "system", prescription.EditHistory[0].Actor)

	// each transition is broadcast on the global channel and the
	// prescription-specific channel
	require.Len(t, bus.events, 2)
	assert.Equal(t, prescription.ID, bus.events[0].PrescriptionID)
	assert.Equal(t, providers.EventChannelPrescriptionUpdates, bus.channels[0])
	assert.Equal(t, providers.GetPrescriptionChannel(prescription.ID.String()), bus.channels[1])
}

func TestPrescriptionService_CreateDraftValidation(t *testing.T) {
	service := services.NewPrescriptionService(newMemoryPrescriptionRepo(), nil)

	_, err := service.CreateDraft(context.Background(), "", "enc-1", &entities.ExtractionOutcome{})
	assert.Error(t, err)

	_, err = service.CreateDraft(context.Background(), "patient-1", "enc-1", nil)
	assert.Error(t, err)
}

func TestPrescriptionService_TransitionWorkflow(t *testing.T) {
	repo := newMemoryPrescriptionRepo()
	bus := &recordingBus{}
	service := services.NewPrescriptionService(repo, bus)

	prescription, err := service.CreateDraft(context.Background(), "patient-1", "", &entities.ExtractionOutcome{})
	require.NoError(t, err)

	updated, err := service.Transition(context.Background(), prescription.ID, entities.StatusReview, "dr-jones", "ready for review")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusReview, updated.Status)

	// history grew by one immutable entry
	history, err := repo.ListHistory(context.Background(), prescription.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "dr-jones", history[1].Actor)
	assert.Equal(t, "ready for review", history[1].Reason)

	// two transitions, each on two channels
	assert.Len(t, bus.events, 4)
}

func TestPrescriptionService_InvalidTransitionConflicts(t *testing.T) {
	repo := newMemoryPrescriptionRepo()
	service := services.NewPrescriptionService(repo, nil)

	prescription, err := service.CreateDraft(context.Background(), "patient-1", "", &entities.ExtractionOutcome{})
	require.NoError(t, err)

	// draft cannot jump straight to signed
	_, err = service.Transition(context.Background(), prescription.ID, entities.StatusSigned, "dr-jones", "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestPrescriptionService_CancelFromAnyNonTerminal(t *testing.T) {
	repo := newMemoryPrescriptionRepo()
	service := services.NewPrescriptionService(repo, nil)

	prescription, err := service.CreateDraft(context.Background(), "patient-1", "", &entities.ExtractionOutcome{})
	require.NoError(t, err)

	cancelled, err := service.Transition(context.Background(), prescription.ID, entities.StatusCancelled, "dr-jones", "duplicate entry")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCancelled, cancelled.Status)

	// terminal: nothing further is allowed
	_, err = service.Transition(context.Background(), prescription.ID, entities.StatusDraft, "dr-jones", "")
	assert.Error(t, err)
}

func TestPrescriptionService_TransitionRequiresActor(t *testing.T) {
	service := services.NewPrescriptionService(newMemoryPrescriptionRepo(), nil)

	_, err := service.Transition(context.Background(), uuid.New(), entities.StatusReview, "", "")
	assert.Error(t, err)
}

func TestPrescriptionService_GetIncludesHistory(t *testing.T) {
	repo := newMemoryPrescriptionRepo()
	service := services.NewPrescriptionService(repo, nil)

	prescription, err := service.CreateDraft(context.Background(), "patient-1", "", &entities.ExtractionOutcome{})
	require.NoError(t, err)

	loaded, err := service.Get(context.Background(), prescription.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.EditHistory, 1)

	_, err = service.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}
