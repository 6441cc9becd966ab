package publishers

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
	"github.com/Adda-Baaj/khobor-topics/internal/logger"
)

// Page names carried in events and message attributes.
const (
	PageTopicCounts     = "topic_counts"
	PageArticlesByTopic = "articles_by_topic"
)

// Event is a loaded page relayed to downstream consumers.
type Event struct {
	ID       string            `json:"id"`
	Page     string            `json:"page"`
	Filters  map[string]string `json:"filters"`
	Data     json.RawMessage   `json:"data"`
	LoadedAt time.Time         `json:"loaded_at"`
}

// Topic returns the topic filter, if the event has one.
func (e Event) Topic() string { return e.Filters["topic"] }

// Publisher relays events to one sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Logger is the structured logger publishers write to.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger { return logger.Ensure(log) }

// TopicCountsEvent wraps a topic counts page.
func TopicCountsEvent(p domain.TopicCountsPage, at time.Time) Event {
	return newEvent(PageTopicCounts, map[string]string{
		"published_after":  string(p.PublishedAfter),
		"published_before": string(p.PublishedBefore),
		"medium":           p.Medium,
	}, p.TopicCounts, at)
}

// ArticlesEvent wraps an articles-by-topic page.
func ArticlesEvent(p domain.ArticlesPage, at time.Time) Event {
	return newEvent(PageArticlesByTopic, map[string]string{
		"topic":            p.Topic,
		"published_after":  string(p.PublishedAfter),
		"published_before": string(p.PublishedBefore),
		"medium":           p.Medium,
	}, p.Articles, at)
}

func newEvent(page string, filters map[string]string, data json.RawMessage, at time.Time) Event {
	at = at.UTC()
	return Event{
		ID:       eventID(page, filters, at),
		Page:     page,
		Filters:  filters,
		Data:     data,
		LoadedAt: at,
	}
}

// eventID is stable for the same page, filters and load instant.
func eventID(page string, filters map[string]string, at time.Time) string {
	q := url.Values{}
	for k, v := range filters {
		q.Set(k, v)
	}
	key := strings.Join([]string{page, q.Encode(), at.Format(time.RFC3339Nano)}, "|")
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// responseSnippet trims a response body for error messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
