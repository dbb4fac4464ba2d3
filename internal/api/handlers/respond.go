package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/carelinkhq/prescription-ai/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error onto an HTTP status. Internal
// details never reach the client.
func respondWithAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if appErr, ok := err.(*apperrors.AppError); ok && status < http.StatusInternalServerError {
		respondWithError(w, status, appErr.Message)
		return
	}
	if status == http.StatusBadGateway {
		respondWithError(w, status, "upstream language model unavailable")
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
