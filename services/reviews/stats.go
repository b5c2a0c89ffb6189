package reviews

import (
	"math"
	"sort"
	"strings"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
)

// RatingStats summarizes the rating distribution of a review set. Reviews
// with a rating outside 1-5 (unrated listing themes parse as 0) are counted
// in Total but excluded from the distribution and the average.
type RatingStats struct {
	Total         int         `json:"total"`
	ByRating      map[int]int `json:"byRating"`
	AverageRating float64     `json:"averageRating"`
}

func Stats(records []wporg.Review) RatingStats {
	stats := RatingStats{
		Total:    len(records),
		ByRating: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	sum := 0
	valid := 0
	for _, r := range records {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		stats.ByRating[r.Rating]++
		sum += r.Rating
		valid++
	}
	if valid > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(valid)*100) / 100
	}
	return stats
}

// GroupByRating buckets reviews by their star rating, dropping invalid
// ratings.
func GroupByRating(records []wporg.Review) map[int][]wporg.Review {
	groups := map[int][]wporg.Review{}
	for _, r := range records {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		groups[r.Rating] = append(groups[r.Rating], r)
	}
	return groups
}

// Sentiment buckets the distribution into positive (4-5 star), mixed
// (3 star) and negative (1-2 star) shares.
type Sentiment struct {
	PositivePct float64 `json:"positivePct"`
	MixedPct    float64 `json:"mixedPct"`
	NegativePct float64 `json:"negativePct"`
	Overall     string  `json:"overall"`
}

func AnalyzeSentiment(stats RatingStats) Sentiment {
	s := Sentiment{}
	if stats.Total > 0 {
		total := float64(stats.Total)
		s.PositivePct = float64(stats.ByRating[4]+stats.ByRating[5]) / total * 100
		s.MixedPct = float64(stats.ByRating[3]) / total * 100
		s.NegativePct = float64(stats.ByRating[1]+stats.ByRating[2]) / total * 100
	}

	switch {
	case stats.AverageRating < 2.0:
		s.Overall = "extremely negative"
	case stats.AverageRating < 3.0:
		s.Overall = "negative"
	case stats.AverageRating < 4.0:
		s.Overall = "mixed"
	default:
		s.Overall = "positive"
	}
	return s
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// KeywordFrequency counts case-insensitive occurrences of each keyword
// across every review's title and content, sorted by count descending.
// Keywords that never occur are omitted.
func KeywordFrequency(records []wporg.Review, keywords []string) []KeywordCount {
	var out []KeywordCount
	for _, keyword := range keywords {
		needle := strings.ToLower(keyword)
		count := 0
		for _, r := range records {
			text := strings.ToLower(r.Title + " " + r.Content)
			count += strings.Count(text, needle)
		}
		if count > 0 {
			out = append(out, KeywordCount{Keyword: keyword, Count: count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// NegativeKeywords is the default complaint vocabulary scanned over 1-2
// star reviews.
var NegativeKeywords = []string{
	"crash", "crashed", "broken", "broke", "bug", "bugs", "error", "errors",
	"problem", "problems", "issue", "issues", "terrible", "worst", "avoid",
	"mess", "connection", "disconnect", "disappear",
	"unstable", "unreliable", "not working", "doesn't work", "didn't work",
	"failed", "fail", "fails",
}

// PainPoints condenses negative reviews into recurring complaint themes.
func PainPoints(negative []wporg.Review) []string {
	themes := []struct {
		keywords []string
		label    string
	}{
		{[]string{"crash", "broke", "broken", "unstable"}, "Site crashes and instability"},
		{[]string{"connection", "disconnect", "connect", "recognize"}, "Connection failures and authentication problems"},
		{[]string{"error", "errors"}, "Frequent errors with unclear messages"},
		{[]string{"update", "upgrade"}, "Problems with plugin updates"},
		{[]string{"support", "response"}, "Unresponsive or unhelpful support"},
	}

	var points []string
	for _, theme := range themes {
		for _, r := range negative {
			text := strings.ToLower(r.Title + " " + r.Content)
			matched := false
			for _, kw := range theme.keywords {
				if strings.Contains(text, kw) {
					matched = true
					break
				}
			}
			if matched {
				points = append(points, theme.label)
				break
			}
		}
	}

	if len(points) == 0 && len(negative) > 0 {
		points = append(points, "General dissatisfaction with plugin functionality")
	}
	return points
}
