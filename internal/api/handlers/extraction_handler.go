package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/entities"
)

// maxClinicalTextBytes bounds the request body so a pasted document cannot
// blow past the model context window.
const maxClinicalTextBytes = 64 * 1024

// ExtractionHandler handles prescription extraction HTTP requests
type ExtractionHandler struct {
	extractionService *services.ExtractionService
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(extractionService *services.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{
		extractionService: extractionService,
	}
}

// ExtractRequest is the body for POST /api/v1/prescriptions/extract
type ExtractRequest struct {
	ClinicalText   string                  `json:"clinicalText"`
	PatientContext entities.PatientContext `json:"patientContext"`
}

// Extract handles POST /api/v1/prescriptions/extract
func (h *ExtractionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxClinicalTextBytes)

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.ClinicalText) == "" {
		respondWithError(w, http.StatusBadRequest, "clinicalText is required")
		return
	}

	outcome, err := h.extractionService.Extract(r.Context(), req.ClinicalText, req.PatientContext)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, outcome)
}
