package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(generateResponse{
			Response: "The answer is 42.",
			Done:     true,
		})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "test-model"})

	answer, err := svc.Generate(context.Background(), "What is the answer?", driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.1,
	})
	require.NoError(t, err)

	assert.Equal(t, "The answer is 42.", answer)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, "What is the answer?", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 512, gotReq.Options.NumPredict)
	assert.InDelta(t, 0.1, gotReq.Options.Temperature, 1e-9)
}

func TestGenerateOmitsOptionsWhenUnset(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Nil(t, gotReq.Options)
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestGenerateUnreachable(t *testing.T) {
	svc := NewLLMService(Config{BaseURL: "http://localhost:1"})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestDefaults(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
}
