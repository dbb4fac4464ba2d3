package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

// PrescriptionRepository defines the persistence collaborator for
// prescription records and their immutable edit history.
type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *entities.Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Prescription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PrescriptionStatus) error
	AppendHistory(ctx context.Context, id uuid.UUID, entry *entities.EditHistoryEntry) error
	ListHistory(ctx context.Context, id uuid.UUID) ([]entities.EditHistoryEntry, error)
}
