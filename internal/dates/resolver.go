// Package dates resolves the default reporting window.
package dates

import (
	"time"

	"github.com/Adda-Baaj/khobor-topics/internal/domain"
)

// DefaultWindow is how far back published_after reaches when not supplied.
const DefaultWindow = 30 * 24 * time.Hour

// Clock returns the current time.
type Clock func() time.Time

// Resolver fills in missing window bounds relative to its clock.
type Resolver struct {
	now Clock
}

// NewResolver builds a Resolver. A nil clock falls back to time.Now.
func NewResolver(now Clock) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// Resolve defaults each bound independently: before to today, after to today
// minus DefaultWindow. Supplied values pass through as given.
func (r *Resolver) Resolve(after, before domain.Optional) domain.DateRange {
	now := r.now()

	out := domain.DateRange{
		After:  domain.IsoDate(after.OrEmpty()),
		Before: domain.IsoDate(before.OrEmpty()),
	}
	if out.Before == "" {
		out.Before = Format(now)
	}
	if out.After == "" {
		out.After = Format(now.Add(-DefaultWindow))
	}
	return out
}

// Format renders t as the UTC calendar date.
func Format(t time.Time) domain.IsoDate {
	return domain.IsoDate(t.UTC().Format(domain.IsoDateLayout))
}
