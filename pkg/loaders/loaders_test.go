package loaders_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
	"github.com/Adda-Baaj/khobor-topics/pkg/backend"
	"github.com/Adda-Baaj/khobor-topics/pkg/loaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	args := m.Called(ctx, path, query)
	var raw json.RawMessage
	if r := args.Get(0); r != nil {
		raw = r.(json.RawMessage)
	}
	return raw, args.Error(1)
}

var testNow = time.Date(2024, time.July, 15, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func TestTopicCountsLoader_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     url.Values
		wantQuery url.Values
		wantPage  domain.TopicCountsPage
	}{
		{
			name:  "default window",
			query: url.Values{},
			wantQuery: url.Values{
				"published_after":  {"2024-06-15"},
				"published_before": {"2024-07-15"},
			},
			wantPage: domain.TopicCountsPage{PublishedAfter: "2024-06-15", PublishedBefore: "2024-07-15"},
		},
		{
			name:  "after supplied, before defaulted",
			query: url.Values{"published_after": {"2024-01-01"}},
			wantQuery: url.Values{
				"published_after":  {"2024-01-01"},
				"published_before": {"2024-07-15"},
			},
			wantPage: domain.TopicCountsPage{PublishedAfter: "2024-01-01", PublishedBefore: "2024-07-15"},
		},
		{
			name:  "empty medium omitted",
			query: url.Values{"medium": {""}, "published_after": {"2024-05-01"}, "published_before": {"2024-05-31"}},
			wantQuery: url.Values{
				"published_after":  {"2024-05-01"},
				"published_before": {"2024-05-31"},
			},
			wantPage: domain.TopicCountsPage{PublishedAfter: "2024-05-01", PublishedBefore: "2024-05-31"},
		},
		{
			name:  "medium and stray topic",
			query: url.Values{"medium": {"print"}, "topic": {"ignored"}},
			wantQuery: url.Values{
				"published_after":  {"2024-06-15"},
				"published_before": {"2024-07-15"},
				"medium":           {"print"},
			},
			wantPage: domain.TopicCountsPage{PublishedAfter: "2024-06-15", PublishedBefore: "2024-07-15", Medium: "print"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := json.RawMessage(`[{"topic":"climate","count":4}]`)
			f := &mockFetcher{}
			f.On("FetchJSON", mock.Anything, backend.PathTopicCounts, tt.wantQuery).Return(payload, nil).Once()

			page, err := loaders.NewTopicCountsLoader(f, clock).LoadQuery(context.Background(), tt.query)
			require.NoError(t, err)

			want := tt.wantPage
			want.TopicCounts = payload
			assert.Equal(t, want, page)
			f.AssertExpectations(t)
		})
	}
}

func TestLoaders_ExplicitEmptyFiltersNotSent(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`[]`)
	f := &mockFetcher{}
	f.On("FetchJSON", mock.Anything, backend.PathTopicCounts, url.Values{
		"published_after":  {"2024-06-15"},
		"published_before": {"2024-07-15"},
	}).Return(payload, nil).Once()
	f.On("FetchJSON", mock.Anything, backend.PathArticlesByTopic, url.Values{
		"topic": {"climate"},
	}).Return(payload, nil).Once()

	empty := domain.FilterCriteria{
		Medium:          domain.Some(""),
		PublishedAfter:  domain.Some(""),
		PublishedBefore: domain.Some(""),
	}

	counts, err := loaders.NewTopicCountsLoader(f, clock).Load(context.Background(), empty)
	require.NoError(t, err)
	assert.Empty(t, counts.Medium)

	byTopic := empty
	byTopic.Topic = domain.Some("climate")
	_, err = loaders.NewArticlesByTopicLoader(f).Load(context.Background(), byTopic)
	require.NoError(t, err)

	f.AssertExpectations(t)
}

func TestArticlesByTopicLoader_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		topic     string
		query     url.Values
		wantQuery url.Values
		wantPage  domain.ArticlesPage
	}{
		{
			name:      "topic only",
			topic:     "ai",
			query:     url.Values{},
			wantQuery: url.Values{"topic": {"ai"}},
			wantPage:  domain.ArticlesPage{Topic: "ai"},
		},
		{
			name:  "partial filters",
			topic: "climate",
			query: url.Values{"published_after": {"2024-06-01"}, "published_before": {""}, "medium": {"podcast"}},
			wantQuery: url.Values{
				"topic":           {"climate"},
				"published_after": {"2024-06-01"},
				"medium":          {"podcast"},
			},
			wantPage: domain.ArticlesPage{Topic: "climate", PublishedAfter: "2024-06-01", Medium: "podcast"},
		},
		{
			name:      "empty topic still sent",
			topic:     "",
			query:     url.Values{},
			wantQuery: url.Values{"topic": {""}},
			wantPage:  domain.ArticlesPage{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := json.RawMessage(`[{"id":1}]`)
			f := &mockFetcher{}
			f.On("FetchJSON", mock.Anything, backend.PathArticlesByTopic, tt.wantQuery).Return(payload, nil).Once()

			page, err := loaders.NewArticlesByTopicLoader(f).LoadQuery(context.Background(), tt.topic, tt.query)
			require.NoError(t, err)

			want := tt.wantPage
			want.Articles = payload
			assert.Equal(t, want, page)
			f.AssertExpectations(t)
		})
	}
}

func TestLoaders_ErrorPassthrough(t *testing.T) {
	t.Parallel()

	netErr := errors.New("connection reset by peer")

	f := &mockFetcher{}
	f.On("FetchJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil, netErr).Twice()

	_, err := loaders.NewTopicCountsLoader(f, clock).Load(context.Background(), domain.FilterCriteria{})
	assert.Same(t, netErr, err)

	_, err = loaders.NewArticlesByTopicLoader(f).Load(context.Background(), domain.FilterCriteria{Topic: domain.Some("ai")})
	assert.Same(t, netErr, err)

	f.AssertExpectations(t)
}

func TestArticlesByTopicLoader_AgainstBackend(t *testing.T) {
	t.Parallel()

	const body = `[{"id":11,"medium":"podcast","topic":"climate"},{"id":12,"medium":"podcast","topic":"climate"}]`

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, backend.PathArticlesByTopic, r.URL.Path)
		assert.Equal(t, url.Values{
			"topic":           {"climate"},
			"published_after": {"2024-06-01"},
			"medium":          {"podcast"},
		}, r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	l := loaders.NewArticlesByTopicLoader(backend.NewClient(srv.URL, nil, nil))
	page, err := l.Load(context.Background(), domain.FilterCriteria{
		Topic:           domain.Some("climate"),
		PublishedAfter:  domain.FromQuery("2024-06-01"),
		PublishedBefore: domain.FromQuery(""),
		Medium:          domain.FromQuery("podcast"),
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "climate", page.Topic)
	assert.Equal(t, domain.IsoDate("2024-06-01"), page.PublishedAfter)
	assert.Equal(t, domain.IsoDate(""), page.PublishedBefore)
	assert.Equal(t, "podcast", page.Medium)
	assert.JSONEq(t, body, string(page.Articles))
}

func TestTopicCountsLoader_DecodeErrorPassthrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))
	defer srv.Close()

	_, err := loaders.NewTopicCountsLoader(backend.NewClient(srv.URL, nil, nil), clock).Load(context.Background(), domain.FilterCriteria{})
	require.Error(t, err)
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}
