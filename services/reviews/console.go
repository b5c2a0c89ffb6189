package reviews

import (
	"fmt"
	"os"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	return t
}

// PrintAnalysis renders the dataset summary to stdout. This is the CLI
// counterpart of MarkdownReport.
func PrintAnalysis(data Dataset) {
	stats := Stats(data.Reviews)
	groups := GroupByRating(data.Reviews)
	sentiment := AnalyzeSentiment(stats)

	summary := newTable(fmt.Sprintf("Review Analysis: %s", data.PluginSlug))
	summary.AppendRows([]table.Row{
		{"Period", fmt.Sprintf("%s - %s",
			data.CutoffDate.Format("2006-01-02"),
			data.FetchDate.Format("2006-01-02"))},
		{"Total unique reviews", stats.Total},
		{"Average rating", fmt.Sprintf("%.2f", stats.AverageRating)},
		{"Overall sentiment", sentiment.Overall},
		{"Pages fetched", data.PagesFetched},
	})
	summary.Render()

	distribution := newTable("Rating Distribution")
	distribution.AppendHeader(table.Row{"Rating", "Count", "Share"})
	for rating := 5; rating >= 1; rating-- {
		distribution.AppendRow(table.Row{
			fmt.Sprintf("%d star", rating),
			stats.ByRating[rating],
			pct(stats.ByRating[rating], stats.Total),
		})
	}
	distribution.Render()

	breakdown := newTable("Sentiment")
	breakdown.AppendRows([]table.Row{
		{"Positive (4-5 star)", fmt.Sprintf("%.1f%%", sentiment.PositivePct)},
		{"Mixed (3 star)", fmt.Sprintf("%.1f%%", sentiment.MixedPct)},
		{"Negative (1-2 star)", fmt.Sprintf("%.1f%%", sentiment.NegativePct)},
	})
	breakdown.Render()

	negative := append(append([]wporg.Review{}, groups[1]...), groups[2]...)
	if len(negative) > 0 {
		keywords := KeywordFrequency(negative, NegativeKeywords)
		if len(keywords) > 0 {
			themes := newTable(fmt.Sprintf("Negative Themes (%d reviews)", len(negative)))
			themes.AppendHeader(table.Row{"Keyword", "Mentions"})
			for i, kc := range keywords {
				if i == 15 {
					break
				}
				themes.AppendRow(table.Row{kc.Keyword, kc.Count})
			}
			themes.Render()
		}

		fmt.Println("\nKey pain points:")
		for i, point := range PainPoints(negative) {
			fmt.Printf("  %d. %s\n", i+1, point)
		}
	}

	switch {
	case sentiment.NegativePct > 50:
		fmt.Printf("\nCRITICAL OPPORTUNITY - %.1f%% negative reviews indicates a major market gap\n", sentiment.NegativePct)
	case sentiment.NegativePct > 30:
		fmt.Printf("\nSIGNIFICANT OPPORTUNITY - %.1f%% negative reviews suggests improvement potential\n", sentiment.NegativePct)
	default:
		fmt.Println("\nLimited opportunity - plugin generally satisfies users")
	}
}
