package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OllamaProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := OllamaEndpointConfig{BaseURL: srv.URL, Model: "test-model"}
	return NewOllamaProvider(cfg, cfg)
}

func TestEmbed(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var body struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, "2bhk in pune", body.Input)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{0.1, 0.2, 0.3}},
		})
	})

	vec, err := provider.Embed(context.Background(), "2bhk in pune")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbed_EmptyResponse(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float32{}})
	})

	_, err := provider.Embed(context.Background(), "q")
	assert.Error(t, err)
}

func TestEmbedBatch(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Input, 2)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{0.1}, {0.2}},
		})
	})

	vecs, err := provider.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	require.Len(t, vecs, 2)
}

func TestGenerate(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "summarize these records", body.Prompt)
		assert.False(t, body.Stream)

		json.NewEncoder(w).Encode(map[string]string{"response": `{"summary":"ok","cards":[]}`})
	})

	out, err := provider.Generate(context.Background(), "summarize these records")

	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok","cards":[]}`, out)
}

func TestGenerate_APIError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := provider.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestBearerTokenHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer srv.Close()

	cfg := OllamaEndpointConfig{BaseURL: srv.URL, Model: "m", Token: "secret"}
	provider := NewOllamaProvider(cfg, cfg)

	_, err := provider.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}
