package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/api/middleware"
)

func TestResponseOptimization_CompressesReferenceRoutes(t *testing.T) {
	handler := middleware.ResponseOptimization(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"metoprolol"}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/medications/metoprolol", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
	assert.Equal(t, "public, max-age=600, must-revalidate", recorder.Header().Get("Cache-Control"))
	assert.NotEmpty(t, recorder.Header().Get("ETag"))

	reader, err := gzip.NewReader(recorder.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"metoprolol"}`, string(body))
}

func TestResponseOptimization_EventStreamBypassesBuffering(t *testing.T) {
	var canFlush bool
	handler := middleware.ResponseOptimization(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, canFlush = w.(http.Flusher)
		_, _ = w.Write([]byte("event: connected\n\n"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prescriptions/abc/events", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	// the stream writer must stay flushable and uncompressed
	assert.True(t, canFlush)
	assert.Empty(t, recorder.Header().Get("Content-Encoding"))
	assert.Empty(t, recorder.Header().Get("ETag"))
	assert.Equal(t, "event: connected\n\n", recorder.Body.String())
}

func TestETag_NotModified(t *testing.T) {
	handler := middleware.ETag(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stable body"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/interactions", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	etag := recorder.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/interactions", nil)
	req.Header.Set("If-None-Match", etag)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotModified, recorder.Code)
}
