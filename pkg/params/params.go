// Package params builds the query strings sent to the reporting backend.
package params

import (
	"net/url"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
)

// Query keys understood by the backend.
const (
	KeyTopic           = "topic"
	KeyMedium          = "medium"
	KeyPublishedAfter  = "published_after"
	KeyPublishedBefore = "published_before"
)

// TopicCounts builds the /topic-counts query. Both window bounds are always
// sent; medium only when present and non-empty; topic never.
func TopicCounts(window domain.DateRange, medium domain.Optional) url.Values {
	q := url.Values{}
	q.Set(KeyPublishedAfter, string(window.After))
	q.Set(KeyPublishedBefore, string(window.Before))
	setIfPresent(q, KeyMedium, medium)
	return q
}

// ArticlesByTopic builds the /articles-by-topic query. Topic is always sent,
// empty or not. Every other key is sent only when present and non-empty;
// nothing is defaulted.
func ArticlesByTopic(c domain.FilterCriteria) url.Values {
	q := url.Values{}
	q.Set(KeyTopic, c.Topic.OrEmpty())
	setIfPresent(q, KeyPublishedAfter, c.PublishedAfter)
	setIfPresent(q, KeyPublishedBefore, c.PublishedBefore)
	setIfPresent(q, KeyMedium, c.Medium)
	return q
}

// setIfPresent never sends an empty filter value: Some("") is treated as
// absent, the same way the date resolver treats it.
func setIfPresent(q url.Values, key string, opt domain.Optional) {
	if !opt.IsSet() || opt.OrEmpty() == "" {
		return
	}
	q.Set(key, opt.OrEmpty())
}
