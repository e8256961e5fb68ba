package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleInput() usecase.ListingInput {
	return usecase.ListingInput{
		Kind:       "rental",
		Title:      "Downtown loft",
		Address:    "5 Main St",
		Bedrooms:   1,
		Bathrooms:  1.5,
		SquareFeet: 800,
		Features:   []string{"rooftop", "gym"},
	}
}

func TestPrompt(t *testing.T) {
	prompt := Prompt(sampleInput())
	assert.Contains(t, prompt, "Write a rental listing.")
	assert.Contains(t, prompt, "Bathrooms: 1.5")
	assert.Contains(t, prompt, "Features: rooftop, gym")
	assert.Contains(t, prompt, "Tone: professional")
	assert.NotContains(t, prompt, "Price:")
}

func TestGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1714564800,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "  Bright loft in the heart of downtown.  "}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
		}`))
	}))
	defer server.Close()

	generator := NewGenerator(Config{APIKey: "sk-test", BaseURL: server.URL + "/"}, zap.NewNop())

	out, err := generator.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "Bright loft in the heart of downtown.", out.Text)
	assert.Equal(t, "gpt-4o-mini", out.Model)
}

func TestGenerator_ProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	defer server.Close()

	generator := NewGenerator(Config{APIKey: "sk-test", BaseURL: server.URL + "/"}, zap.NewNop())

	_, err := generator.Generate(context.Background(), sampleInput())
	assert.Error(t, err)
}
