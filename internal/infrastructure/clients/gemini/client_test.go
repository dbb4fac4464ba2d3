package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/clients/gemini"
	"github.com/carelinkhq/prescription-ai/pkg/config"
)

func newTestClient(t *testing.T, server *httptest.Server) *gemini.Client {
	t.Helper()

	client, err := gemini.NewClient(&config.GeminiConfig{
		APIKey: "test-key",
		Model:  "gemini-1.5-flash",
	})
	require.NoError(t, err)
	client.SetBaseURL(server.URL)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := gemini.NewClient(&config.GeminiConfig{})
	assert.Error(t, err)

	_, err = gemini.NewClient(nil)
	assert.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
		  "candidates": [
		    {"content": {"role": "model", "parts": [{"text": "{\"medications\": []}"}]}}
		  ]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	text, err := client.Generate(context.Background(), "extract this", providers.DefaultGenerationParams())
	require.NoError(t, err)
	assert.Equal(t, `{"medications": []}`, text)

	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)

	genConfig, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.1, genConfig["temperature"])
	assert.Equal(t, 0.8, genConfig["topP"])
	assert.Equal(t, 40.0, genConfig["topK"])
	assert.Equal(t, 2048.0, genConfig["maxOutputTokens"])
}

func TestClient_GenerateConcatenatesParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
		  "candidates": [
		    {"content": {"parts": [{"text": "first "}, {"text": "second"}]}}
		  ]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	text, err := client.Generate(context.Background(), "p", providers.DefaultGenerationParams())
	require.NoError(t, err)
	assert.Equal(t, "first second", text)
}

func TestClient_GenerateErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, server)
		_, err := client.Generate(context.Background(), "p", providers.DefaultGenerationParams())
		assert.ErrorIs(t, err, providers.ErrLanguageModelUnavailable)
	})

	t.Run("malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := newTestClient(t, server)
		_, err := client.Generate(context.Background(), "p", providers.DefaultGenerationParams())
		assert.ErrorIs(t, err, providers.ErrLanguageModelUnavailable)
	})

	t.Run("no candidate text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": []}`))
		}))
		defer server.Close()

		client := newTestClient(t, server)
		_, err := client.Generate(context.Background(), "p", providers.DefaultGenerationParams())
		assert.ErrorIs(t, err, providers.ErrLanguageModelUnavailable)
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestClient(t, server)
		_, err := client.Generate(context.Background(), "p", providers.DefaultGenerationParams())
		assert.ErrorIs(t, err, providers.ErrLanguageModelUnavailable)
	})
}
