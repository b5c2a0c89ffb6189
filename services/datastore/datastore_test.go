package datastore

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
	"github.com/Summix-io/wp-plugin-review/services/competitors"
	"github.com/Summix-io/wp-plugin-review/services/reviews"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var storeNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	store := NewStore(t.TempDir())
	store.Now = func() time.Time { return storeNow }
	return store
}

func testDataset() reviews.Dataset {
	return reviews.Dataset{
		PluginSlug:   "test-plugin",
		FetchDate:    storeNow,
		MonthsBack:   12,
		CutoffDate:   storeNow.AddDate(0, -12, 0),
		TotalFetched: 2,
		InRange:      2,
		PagesFetched: 1,
		Reviews: []wporg.Review{
			{
				Rating:    5,
				Title:     `Great, "really" great`,
				Author:    "alice",
				RawDate:   "May 1, 2025",
				Date:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				Content:   "works well,\neven with newlines",
				SourceUrl: "https://wordpress.org/support/topic/great/",
			},
			{
				Rating:  1,
				Title:   "Broken",
				Author:  "bob",
				RawDate: "not a date",
			},
		},
	}
}

func TestSaveLoadDataset(t *testing.T) {
	store := newTestStore(t)
	data := testDataset()

	path, err := store.SaveDataset(data)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store.BaseDir, "test-plugin", "2025-06-01", "reviews.json"), path)

	loaded, err := store.LoadDataset(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(data, loaded))
}

func TestSaveCSV(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveCSV(testDataset())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Rating", "Title", "Author", "Date", "Content", "SourceURL"}, rows[0])
	require.Equal(t, `Great, "really" great`, rows[1][1])
	require.Equal(t, "2025-05-01", rows[1][3])
	// unparsed dates fall back to the raw string
	require.Equal(t, "not a date", rows[2][3])
}

func TestSaveReports(t *testing.T) {
	store := newTestStore(t)

	reportPath, err := store.SaveReviewReport("test-plugin", "# Review Analysis\n")
	require.NoError(t, err)

	result := &competitors.Result{
		TargetPlugin: &wporg.PluginInfo{Slug: "test-plugin", Name: "Test Plugin"},
	}
	compPath, err := store.SaveCompetitorReport(result)
	require.NoError(t, err)

	require.Equal(t, filepath.Dir(reportPath), filepath.Dir(compPath))

	content, err := os.ReadFile(compPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "# Competitors Analysis for Test Plugin"))
}

func TestListReports(t *testing.T) {
	store := newTestStore(t)
	require.Empty(t, store.ListReports("nothing-yet"))

	base := filepath.Join(store.BaseDir, "test-plugin")
	for _, dir := range []string{"2025-05-30", "2025-06-01", "stray", "2025-04-15"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0777))
	}
	// files that look like dates are not reports
	require.NoError(t, os.WriteFile(filepath.Join(base, "2025-01-01"), nil, 0644))

	require.Equal(t, []string{"2025-04-15", "2025-05-30", "2025-06-01"}, store.ListReports("test-plugin"))
}
