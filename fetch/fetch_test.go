package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitmetrics.dev/analytics/fetch"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "zip-please", r.Header.Get("X-Custom"))
			w.Write([]byte("archive bytes"))
		}))
	defer server.Close()

	body, err := fetch.Get(context.Background(), server.URL, fetch.Options{
		Headers: map[string]string{"X-Custom": "zip-please"},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("archive bytes"), body)
}

func TestGetNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
	defer server.Close()

	_, err := fetch.Get(context.Background(), server.URL, fetch.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGetSizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write(make([]byte, 2048))
		}))
	defer server.Close()

	_, err := fetch.Get(context.Background(), server.URL, fetch.Options{MaxSize: 1024})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestGetCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("too late"))
		}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetch.Get(ctx, server.URL, fetch.Options{})
	require.Error(t, err)
}
