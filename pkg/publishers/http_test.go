package publishers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPublisher_Publish(t *testing.T) {
	t.Parallel()

	evt := ArticlesEvent(domain.ArticlesPage{Topic: "ai", Articles: json.RawMessage(`[{"id":1}]`)}, testLoadedAt)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "abc", r.Header.Get("X-Token"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var got Event
		assert.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, evt.ID, got.ID)
		assert.Equal(t, "ai", got.Topic())
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := PublisherConfig{
		ID:   "dash",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, Method: "put", Headers: map[string]string{"X-Token": "abc"}},
	}.normalized()

	pub, err := DefaultRegistry().PublisherFor(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "dash", pub.ID())
	assert.Equal(t, TypeHTTP, pub.Type())
	require.NoError(t, pub.Publish(context.Background(), evt))
	assert.NoError(t, pub.Close())
}

func TestHTTPPublisher_Non2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	cfg := PublisherConfig{ID: "dash", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: srv.URL}}.normalized()
	pub, err := newHTTPPublisher(context.Background(), cfg, nil)
	require.NoError(t, err)

	err = pub.Publish(context.Background(), TopicCountsEvent(domain.TopicCountsPage{}, testLoadedAt))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "maintenance")
}

func TestNewHTTPPublisher_MissingConfig(t *testing.T) {
	t.Parallel()

	_, err := newHTTPPublisher(context.Background(), PublisherConfig{ID: "x", Type: TypeHTTP}, nil)
	assert.ErrorContains(t, err, "missing http configuration")
}
