// Package domain contains core models shared by the loaders and the backend client.
package domain

import "encoding/json"

// IsoDateLayout is the time layout of an IsoDate.
const IsoDateLayout = "2006-01-02"

// IsoDate is a calendar date in YYYY-MM-DD form. Values supplied by callers
// are never validated.
type IsoDate string

// DateRange is a published_after/published_before window.
type DateRange struct {
	After  IsoDate
	Before IsoDate
}

// FilterCriteria narrows a backend query. Absent fields are not sent.
type FilterCriteria struct {
	Topic           Optional
	Medium          Optional
	PublishedAfter  Optional
	PublishedBefore Optional
}

// Window returns the criteria dates as a range, empty where absent.
func (c FilterCriteria) Window() DateRange {
	return DateRange{
		After:  IsoDate(c.PublishedAfter.OrEmpty()),
		Before: IsoDate(c.PublishedBefore.OrEmpty()),
	}
}

// TopicCountsPage is what the topic counts view renders: the resolved filter
// values echoed back next to the backend payload.
type TopicCountsPage struct {
	TopicCounts     json.RawMessage `json:"topicCounts"`
	PublishedAfter  IsoDate         `json:"published_after"`
	PublishedBefore IsoDate         `json:"published_before"`
	Medium          string          `json:"medium"`
}

// ArticlesPage is what the per-topic view renders.
type ArticlesPage struct {
	Topic           string          `json:"topic"`
	PublishedAfter  IsoDate         `json:"published_after"`
	PublishedBefore IsoDate         `json:"published_before"`
	Medium          string          `json:"medium"`
	Articles        json.RawMessage `json:"articles"`
}
