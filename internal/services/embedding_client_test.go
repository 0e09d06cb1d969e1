package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Test Setup
// ============================================================================

func newTestEmbeddingClient(serverURL string) *EmbeddingClient {
	return NewEmbeddingClient(EmbeddingClientConfig{
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
		Retries: 1,
		Model:   "all-MiniLM-L6-v2",
	})
}

func embeddingPayload(dim int, model string) EmbeddingResult {
	return EmbeddingResult{
		Embedding: make([]float32, dim),
		Dimension: dim,
		Model:     model,
	}
}

// ============================================================================
// Tests
// ============================================================================

func TestEmbedQuery_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/embed/query", r.URL.Path)

		var req embedQueryRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "where can I get food", req.Text)
		assert.NotNil(t, req.Model)
		assert.Equal(t, "all-MiniLM-L6-v2", *req.Model)

		json.NewEncoder(w).Encode(embeddingPayload(384, "all-MiniLM-L6-v2"))
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	result, err := client.EmbedQuery(context.Background(), "where can I get food")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Len(t, result.Embedding, 384)
	assert.Equal(t, "all-MiniLM-L6-v2", result.Model)
}

func TestEmbedQuery_EmptyVectorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EmbeddingResult{Embedding: []float32{}, Model: "all-MiniLM-L6-v2"})
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	result, err := client.EmbedQuery(context.Background(), "query")

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "empty vector")
}

func TestEmbedQuery_DeclaredDimensionMismatchIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := embeddingPayload(384, "all-MiniLM-L6-v2")
		payload.Dimension = 768 // declared dimension disagrees with the vector
		json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	_, err := client.EmbedQuery(context.Background(), "query")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed embedding")
}

func TestEmbedQuery_StoreDimensionMismatchIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingPayload(768, "all-MiniLM-L6-v2"))
	}))
	defer server.Close()

	client := NewEmbeddingClient(EmbeddingClientConfig{
		BaseURL:   server.URL,
		Timeout:   5 * time.Second,
		Retries:   1,
		Model:     "all-MiniLM-L6-v2",
		Dimension: 384,
	})
	_, err := client.EmbedQuery(context.Background(), "query")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestEmbedQuery_ModelMismatchIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingPayload(384, "some-other-model"))
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	_, err := client.EmbedQuery(context.Background(), "query")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model mismatch")
}

func TestEmbedQuery_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(embeddingPayload(384, "all-MiniLM-L6-v2"))
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	result, err := client.EmbedQuery(context.Background(), "query")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 2, attempts)
}

func TestEmbedQuery_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	_, err := client.EmbedQuery(context.Background(), "query")

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestEmbeddingHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestEmbeddingHealthCheck_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestEmbeddingClient(server.URL)
	assert.Error(t, client.HealthCheck(context.Background()))
}
