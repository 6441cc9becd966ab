package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/khobor-topics/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubPublisher struct {
	id        string
	err       error
	published int
	closed    bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return "stub" }
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func (s *stubPublisher) Publish(context.Context, Event) error {
	s.published++
	return s.err
}

func TestRegistry_PublisherFor(t *testing.T) {
	t.Parallel()

	built := &stubPublisher{id: "a"}
	reg := NewRegistry(map[string]Builder{
		" STUB ": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
	})
	reg.Register("", nil)

	pub, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "a", Type: "Stub"}, nil)
	require.NoError(t, err)
	assert.Same(t, built, pub)

	_, err = reg.PublisherFor(context.Background(), PublisherConfig{ID: "a"}, nil)
	assert.ErrorContains(t, err, "has no type configured")

	_, err = reg.PublisherFor(context.Background(), PublisherConfig{ID: "a", Type: "smoke-signal"}, nil)
	assert.ErrorContains(t, err, `no publisher registered for type "smoke-signal"`)
}

func TestBuildAll_ClosesOnFailure(t *testing.T) {
	t.Parallel()

	first := &stubPublisher{id: "first"}
	reg := NewRegistry(map[string]Builder{
		"ok":  func(context.Context, PublisherConfig, Logger) (Publisher, error) { return first, nil },
		"bad": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return nil, errors.New("no creds") },
	})

	_, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "ok"},
		{ID: "second", Type: "bad"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `build publisher "second": no creds`)
	assert.True(t, first.closed)

	pubs, err := BuildAll(context.Background(), reg, nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, pubs)
}

func TestPublishAll(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.FromZap(zap.New(core))

	ok := &stubPublisher{id: "ok"}
	bad := &stubPublisher{id: "bad", err: errors.New("queue full")}
	evt := climateEvent()

	err := PublishAll(context.Background(), []Publisher{bad, ok}, evt, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `publisher "bad": queue full`)
	assert.Equal(t, 1, ok.published)
	assert.Equal(t, 1, bad.published)

	assert.Equal(t, 1, logs.FilterField(zap.String("event", "publish_error")).Len())
	assert.Equal(t, 1, logs.FilterField(zap.String("event", "publish_success")).Len())

	require.NoError(t, CloseAll([]Publisher{ok, bad}))
	assert.True(t, ok.closed)
	assert.True(t, bad.closed)
}
