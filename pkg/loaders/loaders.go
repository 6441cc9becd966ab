// Package loaders prepares the two report page views: topic counts over a
// date window, and the articles filed under one topic.
package loaders

import (
	"context"
	"net/url"

	"github.com/Adda-Baaj/khobor-topics/internal/dates"
	"github.com/Adda-Baaj/khobor-topics/internal/domain"
	"github.com/Adda-Baaj/khobor-topics/pkg/backend"
	"github.com/Adda-Baaj/khobor-topics/pkg/params"
)

// CriteriaFromQuery reads the optional filters from a request query string.
// Empty values are treated as absent.
func CriteriaFromQuery(q url.Values) domain.FilterCriteria {
	return domain.FilterCriteria{
		Medium:          domain.FromQuery(q.Get(params.KeyMedium)),
		PublishedAfter:  domain.FromQuery(q.Get(params.KeyPublishedAfter)),
		PublishedBefore: domain.FromQuery(q.Get(params.KeyPublishedBefore)),
	}
}

// TopicCountsLoader defaults the date window and fetches aggregate counts.
type TopicCountsLoader struct {
	fetcher backend.Fetcher
	dates   *dates.Resolver
}

// NewTopicCountsLoader builds the loader. A nil clock means time.Now.
func NewTopicCountsLoader(f backend.Fetcher, clock dates.Clock) *TopicCountsLoader {
	return &TopicCountsLoader{fetcher: f, dates: dates.NewResolver(clock)}
}

// Load resolves the window, fetches /topic-counts and echoes the resolved
// filters next to the payload. Any topic in c is ignored.
func (l *TopicCountsLoader) Load(ctx context.Context, c domain.FilterCriteria) (domain.TopicCountsPage, error) {
	window := l.dates.Resolve(c.PublishedAfter, c.PublishedBefore)

	raw, err := l.fetcher.FetchJSON(ctx, backend.PathTopicCounts, params.TopicCounts(window, c.Medium))
	if err != nil {
		return domain.TopicCountsPage{}, err
	}

	return domain.TopicCountsPage{
		TopicCounts:     raw,
		PublishedAfter:  window.After,
		PublishedBefore: window.Before,
		Medium:          c.Medium.OrEmpty(),
	}, nil
}

// LoadQuery is Load for a raw request query string.
func (l *TopicCountsLoader) LoadQuery(ctx context.Context, q url.Values) (domain.TopicCountsPage, error) {
	return l.Load(ctx, CriteriaFromQuery(q))
}

// ArticlesByTopicLoader fetches the articles for one topic. Nothing is
// defaulted.
type ArticlesByTopicLoader struct {
	fetcher backend.Fetcher
}

// NewArticlesByTopicLoader builds the loader.
func NewArticlesByTopicLoader(f backend.Fetcher) *ArticlesByTopicLoader {
	return &ArticlesByTopicLoader{fetcher: f}
}

// Load fetches /articles-by-topic. An empty topic is sent as is.
func (l *ArticlesByTopicLoader) Load(ctx context.Context, c domain.FilterCriteria) (domain.ArticlesPage, error) {
	raw, err := l.fetcher.FetchJSON(ctx, backend.PathArticlesByTopic, params.ArticlesByTopic(c))
	if err != nil {
		return domain.ArticlesPage{}, err
	}

	window := c.Window()
	return domain.ArticlesPage{
		Topic:           c.Topic.OrEmpty(),
		PublishedAfter:  window.After,
		PublishedBefore: window.Before,
		Medium:          c.Medium.OrEmpty(),
		Articles:        raw,
	}, nil
}

// LoadQuery is Load for a route topic plus a raw request query string.
func (l *ArticlesByTopicLoader) LoadQuery(ctx context.Context, topic string, q url.Values) (domain.ArticlesPage, error) {
	c := CriteriaFromQuery(q)
	c.Topic = domain.Some(topic)
	return l.Load(ctx, c)
}
