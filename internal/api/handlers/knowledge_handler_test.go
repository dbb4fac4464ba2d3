package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/api/handlers"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
)

func knowledgeTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	kb, err := knowledge.Parse([]byte(handlerKBJSON))
	require.NoError(t, err)
	table, err := knowledge.ParseInteractions([]byte(`[
	  {"medications": ["metoprolol", "verapamil"], "severity": "major", "description": "bradycardia risk"}
	]`))
	require.NoError(t, err)

	handler := handlers.NewKnowledgeHandler(kb, table)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/medications/{name}", handler.GetMedication)
	mux.HandleFunc("GET /api/v1/interactions", handler.CheckInteraction)
	return mux
}

func TestKnowledgeHandler_GetMedication(t *testing.T) {
	mux := knowledgeTestMux(t)

	t.Run("known medication", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/medications/Lopressor", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var entry knowledge.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Equal(t, "metoprolol", entry.GenericName)
	})

	t.Run("unknown medication", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/medications/unobtainium", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestKnowledgeHandler_CheckInteraction(t *testing.T) {
	mux := knowledgeTestMux(t)

	t.Run("known pair", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions?drugs=verapamil,metoprolol", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Interaction    *knowledge.InteractionEntry `json:"interaction"`
			Recommendation string                      `json:"recommendation"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.NotNil(t, payload.Interaction)
		assert.Equal(t, "Monitor closely", payload.Recommendation)
	})

	t.Run("unknown pair", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions?drugs=metoprolol,aspirin", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Interaction *knowledge.InteractionEntry `json:"interaction"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Nil(t, payload.Interaction)
	})

	t.Run("malformed query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions?drugs=metoprolol", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
