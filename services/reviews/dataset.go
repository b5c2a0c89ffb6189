package reviews

import (
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
)

// Dataset is the finalized result of one review fetch session. Reviews are
// already restricted to the requested window; deduplication is the caller's
// concern since datasets may be merged before analysis.
type Dataset struct {
	PluginSlug   string         `json:"pluginSlug"`
	FetchDate    time.Time      `json:"fetchDate"`
	MonthsBack   int            `json:"monthsBack"`
	CutoffDate   time.Time      `json:"cutoffDate"`
	TotalFetched int            `json:"totalReviewsFetched"`
	InRange      int            `json:"reviewsInRange"`
	PagesFetched int            `json:"pagesFetched"`
	Reviews      []wporg.Review `json:"reviews"`
}

// Deduplicate removes repeated reviews, keeping the first occurrence of each
// identity key in input order. Listing pages overlap when new reviews land
// mid-session, so duplicates across page boundaries are routine.
func Deduplicate(records []wporg.Review) []wporg.Review {
	seen := map[string]bool{}
	out := make([]wporg.Review, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// FilterByWindow keeps reviews dated within [cutoff, fetchDate]. Reviews
// whose date never parsed are dropped: without a date there is no way to
// place them in the window.
func FilterByWindow(records []wporg.Review, cutoff, fetchDate time.Time) []wporg.Review {
	out := make([]wporg.Review, 0, len(records))
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if r.Date.Before(cutoff) || r.Date.After(fetchDate) {
			continue
		}
		out = append(out, r)
	}
	return out
}
