package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresHandler(t *testing.T) {
	_, err := New(":0", nil, nil)
	assert.ErrorIs(t, err, ErrHandlerRequired)
}

func TestServer_Handler(t *testing.T) {
	h, err := NewHandler(&fakeRunner{})
	require.NoError(t, err)
	s, err := New(":0", h, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	h, err := NewHandler(&fakeRunner{})
	require.NoError(t, err)
	s, err := New("127.0.0.1:0", h, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
