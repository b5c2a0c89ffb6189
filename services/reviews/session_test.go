package reviews

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testReview(title string, date time.Time, rating int) wporg.Review {
	return wporg.Review{
		Rating:    rating,
		Title:     title,
		Author:    "someone",
		RawDate:   date.Format("January 2, 2006"),
		Date:      date,
		SourceUrl: "https://wordpress.org/support/topic/" + title + "/",
	}
}

type fakeSource struct {
	pages   map[int][]wporg.Review
	failOn  int
	fetched []int
}

func (f *fakeSource) ReviewsPage(ctx context.Context, slug string, page int) ([]wporg.Review, error) {
	if f.failOn != 0 && page == f.failOn {
		return nil, fmt.Errorf("http 503 fetching page %d", page)
	}
	f.fetched = append(f.fetched, page)
	return f.pages[page], nil
}

func newTestSession(source Source, opts Options) *Session {
	opts.Delay = time.Millisecond
	s := NewSession(source, "test-plugin", opts)
	s.Now = func() time.Time { return testNow }
	return s
}

func TestFetchAllStopsAtCutoff(t *testing.T) {
	// page 2 dips below the 12 month cutoff, page 3 must never be fetched
	source := &fakeSource{pages: map[int][]wporg.Review{
		1: {
			testReview("r1", testNow.AddDate(0, -1, 0), 5),
			testReview("r2", testNow.AddDate(0, -2, 0), 4),
		},
		2: {
			testReview("r3", testNow.AddDate(0, -6, 0), 3),
			testReview("r4", testNow.AddDate(0, -13, 0), 1),
		},
		3: {
			testReview("r5", testNow.AddDate(0, -14, 0), 1),
		},
	}}

	var stops []StopReason
	session := newTestSession(source, Options{})
	session.Events.OnStop = func(reason StopReason, page int) {
		stops = append(stops, reason)
	}

	data, err := session.FetchAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, []int{1, 2}, source.fetched)
	require.Equal(t, []StopReason{StopCutoff}, stops)
	require.Equal(t, 2, data.PagesFetched)
	// all four fetched records count, but the out-of-window one is filtered
	require.Equal(t, 4, data.TotalFetched)
	require.Equal(t, 3, data.InRange)
	require.Len(t, data.Reviews, 3)
	for _, r := range data.Reviews {
		require.False(t, r.Date.Before(data.CutoffDate))
		require.False(t, r.Date.After(data.FetchDate))
	}
}

func TestFetchAllStopsOnEmptyPage(t *testing.T) {
	source := &fakeSource{pages: map[int][]wporg.Review{
		1: {testReview("r1", testNow.AddDate(0, -1, 0), 5)},
	}}

	session := newTestSession(source, Options{})
	data, err := session.FetchAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, []int{1, 2}, source.fetched)
	require.Equal(t, 1, data.PagesFetched)
	require.Len(t, data.Reviews, 1)
}

func TestFetchAllStopsAtMaxPages(t *testing.T) {
	pages := map[int][]wporg.Review{}
	for p := 1; p <= 5; p++ {
		pages[p] = []wporg.Review{testReview(fmt.Sprintf("r%d", p), testNow.AddDate(0, 0, -p), 5)}
	}
	source := &fakeSource{pages: pages}

	session := newTestSession(source, Options{MaxPages: 3})
	data, err := session.FetchAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, []int{1, 2, 3}, source.fetched)
	require.Equal(t, 3, data.PagesFetched)
	require.Len(t, data.Reviews, 3)
}

func TestFetchAllKeepsPartialResultsOnError(t *testing.T) {
	source := &fakeSource{
		pages: map[int][]wporg.Review{
			1: {testReview("r1", testNow.AddDate(0, -1, 0), 5)},
			2: {testReview("r2", testNow.AddDate(0, -2, 0), 4)},
		},
		failOn: 3,
	}

	session := newTestSession(source, Options{})
	data, err := session.FetchAll(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "page 3")

	// pages fetched before the failure survive
	require.Equal(t, 2, data.PagesFetched)
	require.Len(t, data.Reviews, 2)
}

func TestFetchAllDropsUndatedReviews(t *testing.T) {
	undated := wporg.Review{Rating: 4, Title: "no date", Author: "x", RawDate: "yesterday-ish"}
	source := &fakeSource{pages: map[int][]wporg.Review{
		1: {testReview("r1", testNow.AddDate(0, -1, 0), 5), undated},
	}}

	session := newTestSession(source, Options{})
	data, err := session.FetchAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, data.TotalFetched)
	require.Equal(t, 1, data.InRange)
}
