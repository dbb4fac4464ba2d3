package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

// PrescriptionHandler handles prescription workflow HTTP requests
type PrescriptionHandler struct {
	prescriptionService *services.PrescriptionService
}

// NewPrescriptionHandler creates a new prescription handler
func NewPrescriptionHandler(prescriptionService *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionService: prescriptionService,
	}
}

// CreateRequest is the body for POST /api/v1/prescriptions
type CreateRequest struct {
	PatientID   string                     `json:"patientId"`
	EncounterID string                     `json:"encounterId"`
	Outcome     entities.ExtractionOutcome `json:"outcome"`
}

// TransitionRequest is the body for POST /api/v1/prescriptions/{id}/transitions
type TransitionRequest struct {
	ToStatus string `json:"toStatus"`
	Actor    string `json:"actor"`
	Reason   string `json:"reason"`
}

// Create handles POST /api/v1/prescriptions
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PatientID == "" {
		respondWithError(w, http.StatusBadRequest, "patientId is required")
		return
	}

	prescription, err := h.prescriptionService.CreateDraft(r.Context(), req.PatientID, req.EncounterID, &req.Outcome)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, prescription)
}

// Get handles GET /api/v1/prescriptions/{id}
func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid prescription ID")
		return
	}

	prescription, err := h.prescriptionService.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, prescription)
}

// Transition handles POST /api/v1/prescriptions/{id}/transitions
func (h *PrescriptionHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid prescription ID")
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ToStatus == "" {
		respondWithError(w, http.StatusBadRequest, "toStatus is required")
		return
	}
	if req.Actor == "" {
		respondWithError(w, http.StatusBadRequest, "actor is required")
		return
	}

	prescription, err := h.prescriptionService.Transition(r.Context(), id, entities.PrescriptionStatus(req.ToStatus), req.Actor, req.Reason)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, prescription)
}
