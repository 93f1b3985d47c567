package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/docintel/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddingServer answers each input with [index, 1]. drop removes that
// many vectors from every response.
func embeddingServer(t *testing.T, drop int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		data := []map[string]any{}
		for i := 0; i < len(body.Input)-drop; i++ {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(i), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-embed",
			"data":   data,
		})
	}))
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	server := embeddingServer(t, 0)
	defer server.Close()

	embedder, err := NewEmbedder(ai.NewConfig(ai.WithHost(server.URL), ai.WithEmbeddingModel("test-embed")))
	require.NoError(t, err)

	t.Run("batch", func(t *testing.T) {
		vectors, err := embedder.EmbedTexts(context.Background(), []string{"install python", "deploy helm"})
		require.NoError(t, err)
		require.Len(t, vectors, 2)
		assert.Equal(t, []float32{0, 1}, vectors[0])
		assert.Equal(t, []float32{1, 1}, vectors[1])
	})

	t.Run("single", func(t *testing.T) {
		vector, err := embedder.EmbedText(context.Background(), "install python")
		require.NoError(t, err)
		assert.Equal(t, []float32{0, 1}, vector)
	})

	t.Run("empty batch skips the request", func(t *testing.T) {
		vectors, err := embedder.EmbedTexts(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
	})
}

func TestEmbedder_ShortResponse(t *testing.T) {
	server := embeddingServer(t, 1)
	defer server.Close()

	embedder, err := NewEmbedder(ai.NewConfig(ai.WithHost(server.URL)))
	require.NoError(t, err)

	_, err = embedder.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	assert.Error(t, err)
}

func TestNewEmbedder_InvalidConfig(t *testing.T) {
	_, err := NewEmbedder(ai.NewConfig(ai.WithEmbeddingModel("")))
	assert.Error(t, err)
}
