package reviews

import (
	"testing"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"github.com/stretchr/testify/require"
)

func TestMarkdownReport(t *testing.T) {
	data := Dataset{
		PluginSlug:   "test-plugin",
		FetchDate:    testNow,
		MonthsBack:   12,
		CutoffDate:   testNow.AddDate(0, -12, 0),
		PagesFetched: 2,
		Reviews: []wporg.Review{
			{
				Rating: 1, Title: "Crashes constantly", Author: "alice",
				RawDate: "May 2, 2025", Content: "the plugin crashed my whole site",
				SourceUrl: "https://wordpress.org/support/topic/crashes/",
			},
			{
				Rating: 1, Title: "Connection errors", Author: "bob",
				RawDate: "May 1, 2025", Content: "constant disconnect errors",
			},
			{
				Rating: 5, Title: "Love it", Author: "carol",
				RawDate: "April 20, 2025", Content: "works perfectly",
			},
		},
	}

	report := MarkdownReport(data)

	require.Contains(t, report, "# test-plugin - Review Analysis Report")
	require.Contains(t, report, "**Analysis Period:** June 1, 2024 - June 1, 2025")
	require.Contains(t, report, "| **Total Reviews** | 3 |")
	require.Contains(t, report, "| **Average Rating** | 2.33 / 5.0 |")
	// 2 of 3 negative crosses the crisis threshold
	require.Contains(t, report, "**CRITICAL OPPORTUNITY**")
	require.Contains(t, report, "**Low Review Volume**")
	require.Contains(t, report, "Site crashes and instability")
	require.Contains(t, report, "| crash | 2 |")
	require.Contains(t, report, "### 1-Star Reviews (2 total)")
	require.Contains(t, report, "[View Full Review](https://wordpress.org/support/topic/crashes/)")
}

func TestPctZeroTotal(t *testing.T) {
	require.Equal(t, "0.0%", pct(0, 0))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "loo...", truncate("looooong", 3))
}
