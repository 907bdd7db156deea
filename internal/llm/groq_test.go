package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-diet-planner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroq(url string) StructuredGenerator {
	return NewGroqClient(&config.Config{
		GroqAPIKey: "groq_key",
		GroqAPIURL: url,
		GroqModel:  "test-model",
	})
}

func TestGroqGenerateStructured(t *testing.T) {
	arraySchema := &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}}

	t.Run("UnwrapsArraySchema", func(t *testing.T) {
		var got groqRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer groq_key", r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"choices": [{"message": {"content": "{\"items\": [\"a\", \"b\"]}"}}],
				"usage": {"prompt_tokens": 11, "completion_tokens": 7, "total_tokens": 18}
			}`)
		}))
		defer server.Close()

		resp, err := newTestGroq(server.URL).GenerateStructured(context.Background(), "make a list", arraySchema, 0.7)
		require.NoError(t, err)

		assert.JSONEq(t, `["a", "b"]`, resp.Content)
		assert.Equal(t, 11, resp.Usage.PromptTokens)
		assert.Equal(t, 7, resp.Usage.CompletionTokens)
		assert.Equal(t, "test-model", resp.Usage.Model)

		assert.Equal(t, "test-model", got.Model)
		assert.InDelta(t, 0.7, got.Temperature, 1e-6)
		assert.Equal(t, "json_object", got.ResponseFormat["type"])
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Contains(t, got.Messages[0].Content, `"items"`)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Equal(t, "make a list", got.Messages[1].Content)
	})

	t.Run("PassesThroughUnexpectedEnvelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{"choices": [{"message": {"content": "not json"}}]}`)
		}))
		defer server.Close()

		resp, err := newTestGroq(server.URL).GenerateStructured(context.Background(), "p", arraySchema, 0.7)
		require.NoError(t, err)
		assert.Equal(t, "not json", resp.Content)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": "rate limited"}`)
		}))
		defer server.Close()

		_, err := newTestGroq(server.URL).GenerateStructured(context.Background(), "p", arraySchema, 0.7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("NoChoices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices": []}`)
		}))
		defer server.Close()

		_, err := newTestGroq(server.URL).GenerateStructured(context.Background(), "p", nil, 0.7)
		assert.EqualError(t, err, "no content generated")
	})
}
