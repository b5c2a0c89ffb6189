package reviews

import (
	"fmt"
	"strings"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
)

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func pct(count, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

// MarkdownReport renders the full analysis of a dataset: key metrics,
// rating distribution, sentiment, complaint keywords, opportunity
// assessment and sample reviews per rating bucket.
func MarkdownReport(data Dataset) string {
	stats := Stats(data.Reviews)
	groups := GroupByRating(data.Reviews)
	sentiment := AnalyzeSentiment(stats)
	negative := append(append([]wporg.Review{}, groups[1]...), groups[2]...)
	positive := append(append([]wporg.Review{}, groups[5]...), groups[4]...)
	keywords := KeywordFrequency(negative, NegativeKeywords)
	painPoints := PainPoints(negative)

	date := data.FetchDate.Format("January 2, 2006")
	cutoff := data.CutoffDate.Format("January 2, 2006")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Review Analysis Report\n\n", data.PluginSlug)
	fmt.Fprintf(&b, "**Generated:** %s\n", date)
	fmt.Fprintf(&b, "**Analysis Period:** %s - %s\n", cutoff, date)
	fmt.Fprintf(&b, "**Data Source:** WordPress.org Plugin Reviews\n\n---\n\n")

	b.WriteString("## Executive Summary\n\n### Key Metrics\n\n")
	b.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| **Total Reviews** | %d |\n", stats.Total)
	fmt.Fprintf(&b, "| **Average Rating** | %.2f / 5.0 |\n", stats.AverageRating)
	fmt.Fprintf(&b, "| **Overall Sentiment** | **%s** |\n", sentiment.Overall)
	fmt.Fprintf(&b, "| **Positive Reviews** | %.1f%% |\n", sentiment.PositivePct)
	fmt.Fprintf(&b, "| **Negative Reviews** | %.1f%% |\n\n", sentiment.NegativePct)

	b.WriteString("### Rating Distribution\n\n")
	b.WriteString("| Rating | Count | Percentage |\n|--------|-------|------------|\n")
	for rating := 5; rating >= 1; rating-- {
		fmt.Fprintf(&b, "| %d star | %d | %s |\n", rating, stats.ByRating[rating], pct(stats.ByRating[rating], stats.Total))
	}
	b.WriteString("\n### Critical Findings\n\n")

	switch {
	case sentiment.NegativePct > 50:
		fmt.Fprintf(&b, "**CRITICAL OPPORTUNITY** - User satisfaction crisis detected with %.1f%% negative reviews.\n\n", sentiment.NegativePct)
	case sentiment.NegativePct > 30:
		fmt.Fprintf(&b, "**SIGNIFICANT OPPORTUNITY** - Notable user dissatisfaction with %.1f%% negative reviews.\n\n", sentiment.NegativePct)
	default:
		b.WriteString("**Limited Opportunity** - Plugin generally satisfies users.\n\n")
	}
	if stats.Total < 10 {
		fmt.Fprintf(&b, "**Low Review Volume** (%d reviews) may indicate low user engagement or abandonment.\n\n", stats.Total)
	}

	if len(painPoints) > 0 {
		b.WriteString("**Key Pain Points:**\n")
		for i, point := range painPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, point)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n## Detailed Analysis\n\n### Positive Feedback (%d reviews)\n\n", len(positive))
	if len(positive) > 0 {
		b.WriteString("**What Users Love:**\n\n")
		writeSamples(&b, positive, 5, 200)
	} else {
		b.WriteString("No positive reviews found in this period.\n\n")
	}

	fmt.Fprintf(&b, "### Negative Feedback (%d reviews)\n\n", len(negative))
	if len(keywords) > 0 {
		b.WriteString("**Top Negative Keywords:**\n\n| Keyword | Mentions |\n|---------|----------|\n")
		for i, kc := range keywords {
			if i == 10 {
				break
			}
			fmt.Fprintf(&b, "| %s | %d |\n", kc.Keyword, kc.Count)
		}
		b.WriteString("\n")
	}
	if len(negative) > 0 {
		b.WriteString("**Sample Negative Reviews:**\n\n")
		writeSamples(&b, negative, 5, 300)
	}

	b.WriteString("---\n\n## Review Samples by Rating\n\n")
	for rating := 5; rating >= 1; rating-- {
		bucket := groups[rating]
		if len(bucket) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %d-Star Reviews (%d total)\n\n", rating, len(bucket))
		for i, r := range bucket {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "**%d. %s**\n", i+1, r.Title)
			fmt.Fprintf(&b, "*By %s on %s*\n\n", r.Author, r.RawDate)
			if r.Content != "" {
				fmt.Fprintf(&b, "%s\n\n", truncate(r.Content, 250))
			}
			if r.SourceUrl != "" {
				fmt.Fprintf(&b, "[View Full Review](%s)\n\n", r.SourceUrl)
			}
		}
	}

	b.WriteString("## Data Summary\n\n")
	fmt.Fprintf(&b, "- **Plugin:** %s\n", data.PluginSlug)
	fmt.Fprintf(&b, "- **Reviews Analyzed:** %d\n", stats.Total)
	fmt.Fprintf(&b, "- **Analysis Date:** %s\n", date)
	fmt.Fprintf(&b, "- **Time Range:** %d months\n", data.MonthsBack)
	fmt.Fprintf(&b, "- **Pages Fetched:** %d\n", data.PagesFetched)

	return b.String()
}

func writeSamples(b *strings.Builder, records []wporg.Review, limit, contentLen int) {
	for i, r := range records {
		if i == limit {
			break
		}
		fmt.Fprintf(b, "**%d. %s** (%d star)\n", i+1, r.Title, r.Rating)
		fmt.Fprintf(b, "*By %s on %s*\n\n", r.Author, r.RawDate)
		if r.Content != "" {
			fmt.Fprintf(b, "> %s\n\n", truncate(r.Content, contentLen))
		}
	}
}
