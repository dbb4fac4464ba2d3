package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
)

// heartbeatInterval keeps intermediaries from closing idle streams.
const heartbeatInterval = 30 * time.Second

// EventsHandler streams prescription workflow events over Server-Sent Events
// so a reviewing clinician's screen follows status changes without polling.
type EventsHandler struct {
	eventBus providers.EventBus
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eventBus providers.EventBus) *EventsHandler {
	return &EventsHandler{eventBus: eventBus}
}

// StreamPrescriptionUpdates handles SSE connections for a single prescription.
// GET /api/v1/prescriptions/{id}/events
func (h *EventsHandler) StreamPrescriptionUpdates(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid prescription ID")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	channel := providers.GetPrescriptionChannel(id.String())
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to prescription events")
		respondWithError(w, http.StatusInternalServerError, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sendEvent(w, "connected", map[string]interface{}{
		"prescriptionId": id,
		"timestamp":      time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("prescription_id", id.String()).Msg("Client disconnected from event stream")
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, open := <-eventChan:
			if !open {
				// Bus shut down; end the stream so the client reconnects.
				return
			}
			if event == nil {
				continue
			}
			sendEvent(w, "statusChanged", event)
			flusher.Flush()
		}
	}
}

func sendEvent(w io.Writer, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to marshal stream event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
