package domain

import "encoding/json"

// Body block types emitted by the backend.
const (
	BlockParagraph   = "paragraph"
	BlockSubheadline = "subheadline"
)

// ArticleView is the fact-check article record served by /articles-by-topic.
// The loaders pass articles through untouched; this view exists for callers
// that want to inspect them. Timestamps are kept as sent since the backend
// emits them without a zone offset.
type ArticleView struct {
	ID                int         `json:"id"`
	URL               string      `json:"url"`
	Medium            string      `json:"medium"`
	Category          *string     `json:"category"`
	Author            *string     `json:"author"`
	Kicker            *string     `json:"kicker"`
	Headline          *string     `json:"headline"`
	Teaser            *string     `json:"teaser"`
	Body              []BodyBlock `json:"body"`
	ImageURL          *string     `json:"image_url"`
	PublishedAt       *string     `json:"published_at"`
	LLMGeneratedTopic *string     `json:"llm_generated_topic"`
	Topic             *string     `json:"topic"`
	LastUpdated       string      `json:"last_updated"`
}

// BodyBlock is one paragraph or subheadline of an article body.
type BodyBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Title returns the headline, falling back to the first subheadline of the
// body for articles scraped without one.
func (a ArticleView) Title() string {
	if a.Headline != nil && *a.Headline != "" {
		return *a.Headline
	}
	return a.firstBlock(BlockSubheadline)
}

// Lede returns the first paragraph of the body.
func (a ArticleView) Lede() string { return a.firstBlock(BlockParagraph) }

func (a ArticleView) firstBlock(typ string) string {
	for _, b := range a.Body {
		if b.Type == typ && b.Text != "" {
			return b.Text
		}
	}
	return ""
}

// DecodeArticles decodes a raw articles payload into typed views.
func DecodeArticles(raw json.RawMessage) ([]ArticleView, error) {
	var out []ArticleView
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
