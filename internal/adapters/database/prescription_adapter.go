package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
	"github.com/carelinkhq/prescription-ai/internal/domain/repositories"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/clients/postgres"
	apperrors "github.com/carelinkhq/prescription-ai/pkg/errors"
)

const (
	prescriptionsTable = "prescriptions"
	historyTable       = "prescription_edit_history"
)

// PrescriptionAdapter implements prescription persistence in Postgres.
// The extraction outcome is stored as a JSONB document; the edit history
// is append-only.
type PrescriptionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPrescriptionAdapter creates a new prescription adapter.
func NewPrescriptionAdapter(client *postgres.Client) repositories.PrescriptionRepository {
	return &PrescriptionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a prescription record.
func (a *PrescriptionAdapter) Create(ctx context.Context, prescription *entities.Prescription) error {
	if prescription == nil {
		return apperrors.NewInternalError("prescription is nil", errors.New("prescription is nil"))
	}

	outcome, err := json.Marshal(prescription.Outcome)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal extraction outcome", err)
	}

	record := goqu.Record{
		"id":           prescription.ID,
		"patient_id":   prescription.PatientID,
		"encounter_id": sql.NullString{String: prescription.EncounterID, Valid: prescription.EncounterID != ""},
		"status":       string(prescription.Status),
		"outcome":      outcome,
		"created_at":   prescription.CreatedAt,
		"updated_at":   prescription.UpdatedAt,
	}

	query, args, err := a.db.Insert(prescriptionsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build prescription insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create prescription", err)
	}

	return nil
}

// GetByID loads a prescription without its history.
func (a *PrescriptionAdapter) GetByID(ctx context.Context, id uuid.UUID) (*entities.Prescription, error) {
	query, args, err := a.db.From(prescriptionsTable).
		Select("id", "patient_id", "encounter_id", "status", "outcome", "created_at", "updated_at").
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build prescription select query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)

	var (
		prescription entities.Prescription
		encounterID  sql.NullString
		status       string
		outcome      []byte
	)
	err = row.Scan(
		&prescription.ID,
		&prescription.PatientID,
		&encounterID,
		&status,
		&outcome,
		&prescription.CreatedAt,
		&prescription.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("prescription %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load prescription", err)
	}

	prescription.EncounterID = encounterID.String
	prescription.Status = entities.PrescriptionStatus(status)
	if err := json.Unmarshal(outcome, &prescription.Outcome); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal extraction outcome", err)
	}

	return &prescription, nil
}

// UpdateStatus moves a prescription to a new workflow state.
func (a *PrescriptionAdapter) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PrescriptionStatus) error {
	query, args, err := a.db.Update(prescriptionsTable).
		Set(goqu.Record{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build prescription update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update prescription status", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("prescription %s not found", id))
	}

	return nil
}

// AppendHistory inserts one immutable edit-history entry.
func (a *PrescriptionAdapter) AppendHistory(ctx context.Context, id uuid.UUID, entry *entities.EditHistoryEntry) error {
	if entry == nil {
		return apperrors.NewInternalError("history entry is nil", errors.New("history entry is nil"))
	}

	record := goqu.Record{
		"id":              entry.ID,
		"prescription_id": id,
		"from_status":     string(entry.FromStatus),
		"to_status":       string(entry.ToStatus),
		"actor":           entry.Actor,
		"reason":          sql.NullString{String: entry.Reason, Valid: entry.Reason != ""},
		"created_at":      entry.CreatedAt,
	}

	query, args, err := a.db.Insert(historyTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build history insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to append edit history", err)
	}

	return nil
}

// ListHistory returns the edit history oldest first.
func (a *PrescriptionAdapter) ListHistory(ctx context.Context, id uuid.UUID) ([]entities.EditHistoryEntry, error) {
	query, args, err := a.db.From(historyTable).
		Select("id", "from_status", "to_status", "actor", "reason", "created_at").
		Where(goqu.C("prescription_id").Eq(id)).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build history select query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load edit history", err)
	}
	defer rows.Close()

	var history []entities.EditHistoryEntry
	for rows.Next() {
		var (
			entry      entities.EditHistoryEntry
			fromStatus string
			toStatus   string
			reason     sql.NullString
		)
		if err := rows.Scan(&entry.ID, &fromStatus, &toStatus, &entry.Actor, &reason, &entry.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan edit history entry", err)
		}
		entry.FromStatus = entities.PrescriptionStatus(fromStatus)
		entry.ToStatus = entities.PrescriptionStatus(toStatus)
		entry.Reason = reason.String
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate edit history", err)
	}

	return history, nil
}
