package routes

import (
	"net/http"

	"github.com/carelinkhq/prescription-ai/internal/api/handlers"
	"github.com/carelinkhq/prescription-ai/internal/api/middleware"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	extractionHandler   *handlers.ExtractionHandler
	prescriptionHandler *handlers.PrescriptionHandler
	knowledgeHandler    *handlers.KnowledgeHandler
	eventsHandler       *handlers.EventsHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(
	extractionHandler *handlers.ExtractionHandler,
	prescriptionHandler *handlers.PrescriptionHandler,
	knowledgeHandler *handlers.KnowledgeHandler,
	eventsHandler *handlers.EventsHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		extractionHandler:   extractionHandler,
		prescriptionHandler: prescriptionHandler,
		knowledgeHandler:    knowledgeHandler,
		eventsHandler:       eventsHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Extraction endpoint

	r.mux.HandleFunc("POST /api/v1/prescriptions/extract", r.extractionHandler.Extract)

	// Prescription workflow endpoints

	if r.prescriptionHandler != nil {
		r.mux.HandleFunc("POST /api/v1/prescriptions", r.prescriptionHandler.Create)
		r.mux.HandleFunc("GET /api/v1/prescriptions/{id}", r.prescriptionHandler.Get)
		r.mux.HandleFunc("POST /api/v1/prescriptions/{id}/transitions", r.prescriptionHandler.Transition)
	}

	// Event stream endpoint (requires the event bus)

	if r.eventsHandler != nil {
		r.mux.HandleFunc("GET /api/v1/prescriptions/{id}/events", r.eventsHandler.StreamPrescriptionUpdates)
	}

	// Medication reference endpoints

	r.mux.HandleFunc("GET /api/v1/medications/{name}", r.knowledgeHandler.GetMedication)
	r.mux.HandleFunc("GET /api/v1/interactions", r.knowledgeHandler.CheckInteraction)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
