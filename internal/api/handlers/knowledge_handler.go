package handlers

import (
	"net/http"
	"strings"

	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

// KnowledgeHandler serves the medication reference data backing the
// extraction pipeline.
type KnowledgeHandler struct {
	kb           *knowledge.Base
	interactions *knowledge.InteractionTable
}

// NewKnowledgeHandler creates a new knowledge handler
func NewKnowledgeHandler(kb *knowledge.Base, interactions *knowledge.InteractionTable) *KnowledgeHandler {
	return &KnowledgeHandler{
		kb:           kb,
		interactions: interactions,
	}
}

// GetMedication handles GET /api/v1/medications/{name}
func (h *KnowledgeHandler) GetMedication(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "medication name is required")
		return
	}

	entry, ok := h.kb.Lookup(name)
	if !ok {
		respondWithError(w, http.StatusNotFound, "medication not found")
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

// CheckInteraction handles GET /api/v1/interactions?drugs=a,b
func (h *KnowledgeHandler) CheckInteraction(w http.ResponseWriter, r *http.Request) {
	drugs := strings.Split(r.URL.Query().Get("drugs"), ",")
	if len(drugs) != 2 || strings.TrimSpace(drugs[0]) == "" || strings.TrimSpace(drugs[1]) == "" {
		respondWithError(w, http.StatusBadRequest, "drugs must name exactly two medications, comma separated")
		return
	}

	entry, ok := h.interactions.Find(strings.TrimSpace(drugs[0]), strings.TrimSpace(drugs[1]))
	if !ok {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"interaction": nil,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interaction":    entry,
		"recommendation": entry.RecommendationOrDefault(),
	})
}
