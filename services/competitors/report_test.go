package competitors

import (
	"strings"
	"testing"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"github.com/stretchr/testify/require"
)

func TestFormatInstallCount(t *testing.T) {
	require.Equal(t, "1.0M+", formatInstallCount(1_000_000))
	require.Equal(t, "2.5M+", formatInstallCount(2_500_000))
	require.Equal(t, "200K+", formatInstallCount(200_000))
	require.Equal(t, "500", formatInstallCount(500))
}

func TestFormatLastUpdated(t *testing.T) {
	require.Equal(t, "N/A", formatLastUpdated(""))
	require.Equal(t, "3 weeks ago", formatLastUpdated("3 weeks ago"))
	require.Equal(t, "2025-05-20", formatLastUpdated("2025-05-20 10:00am GMT"))
	require.Equal(t, "May 2025", formatLastUpdated("May 2025"))
}

func TestExtractKeyFocus(t *testing.T) {
	require.Equal(t, "N/A", extractKeyFocus(""))
	require.Equal(t, "Collect product reviews", extractKeyFocus("Collect product reviews. And more."))
	long := strings.Repeat("x", 100)
	require.Len(t, extractKeyFocus(long), 80)
}

func TestMarkdownReport(t *testing.T) {
	result := &Result{
		TargetPlugin: &wporg.PluginInfo{
			Slug: "target", Name: "Target Reviews",
			Url:            "https://wordpress.org/plugins/target/",
			Description:    "Collect reviews. Long tail.",
			Category:       "E-Commerce",
			Tags:           []string{"reviews", "shop"},
			ActiveInstalls: "100,000+",
			Rating:         4.4,
			RatingCount:    321,
		},
		Competitors: []*wporg.PluginInfo{
			shopPlugin("big", "Big Shop Reviews", "1+ million", 4.0),
		},
		TotalFound: 1,
	}

	report := MarkdownReport(result, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Contains(t, report, "# Competitors Analysis for Target Reviews")
	require.Contains(t, report, "**Analysis Date:** June 1, 2025")
	require.Contains(t, report, "| **Target Reviews** (target) | 100K+ | 4.4/5 |")
	require.Contains(t, report, "### 1. Big Shop Reviews")
	require.Contains(t, report, "**Common Tags with Target:** shop")
	require.Contains(t, report, "- **Million+:** 1 plugin\n")
	require.Contains(t, report, "**4.00/5** (across 1 competitors with ratings)")
	require.Contains(t, report, "Competitive landscape: Limited competition")
	require.Contains(t, report, "Market maturity: Mature market with established leaders")
}
