package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/poiesic/vecseed/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type requestLog struct {
	mu       sync.Mutex
	requests []embeddingRequest
}

func (l *requestLog) add(req embeddingRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, req)
}

func (l *requestLog) all() []embeddingRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]embeddingRequest(nil), l.requests...)
}

// newEmbeddingServer answers /v1/embeddings with one vector per input, dropping
// the last drop vectors.
func newEmbeddingServer(t *testing.T, drop int, log *requestLog) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.add(req)

		data := make([]embeddingData, 0, len(req.Input))
		for i := range req.Input[:len(req.Input)-drop] {
			data = append(data, embeddingData{Object: "embedding", Embedding: []float32{float32(i), 1}, Index: i})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestEmbedder(t *testing.T, host string) *Embedder {
	t.Helper()
	e, err := newEmbedder(ai.NewConfig(
		ai.WithEmbeddingHost(host),
		ai.WithEmbeddingModel("test-model"),
	))
	require.NoError(t, err)
	return e
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	var log requestLog
	srv := newEmbeddingServer(t, 0, &log)
	e := newTestEmbedder(t, srv.URL)

	vectors, err := e.EmbedTexts(context.Background(), []string{"first", "second", "third"})
	require.NoError(t, err)

	requests := log.all()
	require.Len(t, requests, 1, "one call is one request")
	assert.Equal(t, "test-model", requests[0].Model)
	assert.Equal(t, []string{"first", "second", "third"}, requests[0].Input)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {2, 1}}, vectors)
}

func TestEmbedder_EmbedText(t *testing.T) {
	var log requestLog
	srv := newEmbeddingServer(t, 0, &log)
	e := newTestEmbedder(t, srv.URL)

	vector, err := e.EmbedText(context.Background(), "only")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, vector)
}

func TestEmbedder_ShortResponseFails(t *testing.T) {
	var log requestLog
	srv := newEmbeddingServer(t, 1, &log)
	e := newTestEmbedder(t, srv.URL)

	vectors, err := e.EmbedTexts(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Nil(t, vectors)

	var perr *ai.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Inputs)
}

func TestEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()
	e := newTestEmbedder(t, srv.URL)

	_, err := e.EmbedTexts(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")

	var perr *ai.ProviderError
	assert.ErrorAs(t, err, &perr)
}
