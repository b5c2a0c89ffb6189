package reviews

import (
	"testing"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"github.com/stretchr/testify/require"
)

func ratedReviews(ratings ...int) []wporg.Review {
	out := make([]wporg.Review, len(ratings))
	for i, r := range ratings {
		out[i] = wporg.Review{Rating: r, Title: "t", Author: "a"}
	}
	return out
}

func TestStats(t *testing.T) {
	// one unrated entry counts toward the total but not the average
	stats := Stats(ratedReviews(5, 5, 4, 1, 0))

	require.Equal(t, 5, stats.Total)
	require.Equal(t, 2, stats.ByRating[5])
	require.Equal(t, 1, stats.ByRating[4])
	require.Equal(t, 1, stats.ByRating[1])
	require.Equal(t, 0, stats.ByRating[2])
	require.InDelta(t, 3.75, stats.AverageRating, 0.001)
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	require.Equal(t, 0, stats.Total)
	require.Equal(t, 0.0, stats.AverageRating)
}

func TestStatsRounding(t *testing.T) {
	// 5+4+4 over 3 = 4.333... rounds to two decimals
	stats := Stats(ratedReviews(5, 4, 4))
	require.Equal(t, 4.33, stats.AverageRating)
}

func TestAnalyzeSentiment(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		overall string
	}{
		{"extremely negative", []int{1, 1, 2}, "extremely negative"},
		{"negative", []int{2, 3, 2}, "negative"},
		{"mixed", []int{3, 4, 3}, "mixed"},
		{"positive", []int{5, 4, 5}, "positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := AnalyzeSentiment(Stats(ratedReviews(tc.ratings...)))
			require.Equal(t, tc.overall, s.Overall)
		})
	}
}

func TestAnalyzeSentimentShares(t *testing.T) {
	s := AnalyzeSentiment(Stats(ratedReviews(5, 4, 3, 1)))
	require.InDelta(t, 50.0, s.PositivePct, 0.001)
	require.InDelta(t, 25.0, s.MixedPct, 0.001)
	require.InDelta(t, 25.0, s.NegativePct, 0.001)
}

func TestKeywordFrequency(t *testing.T) {
	records := []wporg.Review{
		{Title: "Constant crashes", Content: "the plugin crashed twice, then crashed again"},
		{Title: "Broken", Content: "broken since the last update"},
		{Title: "Love it", Content: "works great"},
	}

	got := KeywordFrequency(records, []string{"crash", "broken", "refund"})
	require.Equal(t, []KeywordCount{
		{Keyword: "crash", Count: 3},
		{Keyword: "broken", Count: 2},
	}, got)
}

func TestPainPoints(t *testing.T) {
	negative := []wporg.Review{
		{Rating: 1, Title: "Crashes my site", Content: "whole site went down"},
		{Rating: 2, Title: "Bad support", Content: "no response in weeks"},
	}
	points := PainPoints(negative)
	require.Contains(t, points, "Site crashes and instability")
	require.Contains(t, points, "Unresponsive or unhelpful support")
}

func TestPainPointsFallback(t *testing.T) {
	negative := []wporg.Review{{Rating: 1, Title: "Meh", Content: "just bad"}}
	require.Equal(t, []string{"General dissatisfaction with plugin functionality"}, PainPoints(negative))
}

func TestGroupByRating(t *testing.T) {
	groups := GroupByRating(ratedReviews(5, 5, 1, 0))
	require.Len(t, groups[5], 2)
	require.Len(t, groups[1], 1)
	require.NotContains(t, groups, 0)
}
