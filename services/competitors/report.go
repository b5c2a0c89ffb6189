package competitors

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
	"github.com/Summix-io/wp-plugin-review/lib/textutil"

	"github.com/antzucaro/matchr"
)

// formatInstallCount renders a parsed install count compactly for tables.
func formatInstallCount(count int) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM+", float64(count)/1_000_000)
	case count >= 1000:
		return fmt.Sprintf("%dK+", count/1000)
	}
	return fmt.Sprintf("%d", count)
}

var isoDateRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// formatLastUpdated keeps relative forms ("3 weeks ago") as-is and trims
// full timestamps down to their date part.
func formatLastUpdated(raw string) string {
	if raw == "" {
		return "N/A"
	}
	if strings.Contains(raw, "ago") {
		return raw
	}
	if date := isoDateRegex.FindString(raw); date != "" {
		return date
	}
	return raw
}

// extractKeyFocus condenses a description to its first sentence, at most
// 80 characters.
func extractKeyFocus(description string) string {
	focus := strings.TrimSpace(strings.SplitN(description, ".", 2)[0])
	if len(focus) > 80 {
		focus = focus[:77] + "..."
	}
	if focus == "" {
		return "N/A"
	}
	return focus
}

// nameSimilarity scores how alike two plugin names read, for flagging
// copycat naming in the comparison table.
func nameSimilarity(target, candidate string) float64 {
	return matchr.JaroWinkler(
		textutil.NormalizeName(target),
		textutil.NormalizeName(candidate),
		false,
	)
}

func comparisonRow(b *strings.Builder, target *wporg.PluginInfo, p *wporg.PluginInfo, label string) {
	installs := formatInstallCount(wporg.ParseInstallCount(p.ActiveInstalls))
	similarity := "n/a"
	if p.Slug != target.Slug {
		similarity = fmt.Sprintf("%.0f%%", nameSimilarity(target.Name, p.Name)*100)
	}
	fmt.Fprintf(b, "| %s | %s | %s/5 | %s | %s | %s |\n",
		label, installs, p.RatingLabel(), formatLastUpdated(p.LastUpdated),
		similarity, extractKeyFocus(p.Description))
}

// MarkdownReport renders a discovery result as a competitors.md document:
// target overview, a quick comparison table, per-competitor detail, and a
// landscape summary.
func MarkdownReport(result *Result, now time.Time) string {
	target := result.TargetPlugin
	var b strings.Builder

	fmt.Fprintf(&b, "# Competitors Analysis for %s\n\n", target.Name)
	fmt.Fprintf(&b, "**Target Plugin:** [%s](%s)\n", target.Name, target.Url)
	fmt.Fprintf(&b, "**Analysis Date:** %s\n", now.Format("January 2, 2006"))
	fmt.Fprintf(&b, "**Competitors Found:** %d\n\n---\n\n", len(result.Competitors))

	b.WriteString("## Target Plugin Overview\n\n")
	category := target.Category
	if category == "" {
		category = "N/A"
	}
	fmt.Fprintf(&b, "**Category:** %s\n", category)
	fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(target.Tags, ", "))
	fmt.Fprintf(&b, "**Description:** %s\n", target.Description)
	fmt.Fprintf(&b, "**Active Installations:** %s\n", target.ActiveInstalls)
	fmt.Fprintf(&b, "**Rating:** %s/5 (%d ratings)\n\n---\n\n", target.RatingLabel(), target.RatingCount)

	b.WriteString("## Quick Comparison\n\n")
	b.WriteString("| Plugin | Active Installs | Rating | Last Updated | Name Similarity | Key Focus |\n")
	b.WriteString("|--------|----------------|--------|--------------|-----------------|----------|\n")
	comparisonRow(&b, target, target, fmt.Sprintf("**%s** (target)", target.Name))
	for _, comp := range result.Competitors {
		comparisonRow(&b, target, comp, comp.Name)
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Competitor Plugins\n\n")
	for i, comp := range result.Competitors {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, comp.Name)
		fmt.Fprintf(&b, "**Slug:** `%s`\n", comp.Slug)
		fmt.Fprintf(&b, "**URL:** [WordPress.org](%s)\n\n", comp.Url)

		b.WriteString("**Metrics:**\n")
		fmt.Fprintf(&b, "- Active Installations: %s\n", comp.ActiveInstalls)
		fmt.Fprintf(&b, "- Rating: %s/5 (%d ratings)\n", comp.RatingLabel(), comp.RatingCount)
		lastUpdated := comp.LastUpdated
		if lastUpdated == "" {
			lastUpdated = "N/A"
		}
		fmt.Fprintf(&b, "- Last Updated: %s\n\n", lastUpdated)

		fmt.Fprintf(&b, "**Description:**\n%s\n\n", comp.Description)

		b.WriteString("**Tags:**\n")
		if len(comp.Tags) > 0 {
			for _, tag := range comp.Tags {
				fmt.Fprintf(&b, "- %s\n", tag)
			}
		} else {
			b.WriteString("- N/A\n")
		}
		b.WriteString("\n")

		if common := commonTags(target.Tags, comp.Tags); len(common) > 0 {
			fmt.Fprintf(&b, "**Common Tags with Target:** %s\n\n", strings.Join(common, ", "))
		}
		b.WriteString("---\n\n")
	}

	writeLandscape(&b, result)
	return b.String()
}

func commonTags(target, candidate []string) []string {
	set := map[string]bool{}
	for _, tag := range target {
		set[strings.ToLower(tag)] = true
	}
	var out []string
	for _, tag := range candidate {
		if set[strings.ToLower(tag)] {
			out = append(out, tag)
		}
	}
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func writeLandscape(b *strings.Builder, result *Result) {
	b.WriteString("## Competitive Landscape Summary\n\n")

	tiers := []struct {
		label string
		min   int
	}{
		{"Million+", 1_000_000},
		{"100K-1M", 100_000},
		{"10K-100K", 10_000},
		{"1K-10K", 1000},
		{"Under 1K", 0},
	}
	counts := make([]int, len(tiers))
	for _, comp := range result.Competitors {
		installs := wporg.ParseInstallCount(comp.ActiveInstalls)
		for i, tier := range tiers {
			if installs >= tier.min {
				counts[i]++
				break
			}
		}
	}

	b.WriteString("### Market Position by Install Count\n\n")
	for i, tier := range tiers {
		if counts[i] > 0 {
			fmt.Fprintf(b, "- **%s:** %d plugin%s\n", tier.label, counts[i], plural(counts[i]))
		}
	}
	b.WriteString("\n")

	rated := 0
	ratingSum := 0.0
	for _, comp := range result.Competitors {
		if comp.Rating > 0 {
			rated++
			ratingSum += comp.Rating
		}
	}
	if rated > 0 {
		b.WriteString("### Average Competitor Rating\n\n")
		fmt.Fprintf(b, "**%.2f/5** (across %d competitors with ratings)\n\n", ratingSum/float64(rated), rated)
	}

	tagCounts := map[string]int{}
	var tagOrder []string
	for _, comp := range result.Competitors {
		for _, tag := range comp.Tags {
			if tagCounts[tag] == 0 {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}
	}
	sort.SliceStable(tagOrder, func(i, j int) bool {
		return tagCounts[tagOrder[i]] > tagCounts[tagOrder[j]]
	})
	if len(tagOrder) > 10 {
		tagOrder = tagOrder[:10]
	}
	if len(tagOrder) > 0 {
		b.WriteString("### Most Common Tags Across Competitors\n\n")
		for _, tag := range tagOrder {
			fmt.Fprintf(b, "- **%s:** %d plugin%s\n", tag, tagCounts[tag], plural(tagCounts[tag]))
		}
		b.WriteString("\n")
	}

	landscape := "Limited competition"
	switch {
	case len(result.Competitors) >= 8:
		landscape = "Highly competitive"
	case len(result.Competitors) >= 4:
		landscape = "Moderately competitive"
	}
	maturity := "Emerging market with growth opportunities"
	if counts[0] > 0 {
		maturity = "Mature market with established leaders"
	}

	b.WriteString("### Key Insights\n\n")
	fmt.Fprintf(b, "- Total competitors analyzed: %d\n", len(result.Competitors))
	fmt.Fprintf(b, "- Competitive landscape: %s\n", landscape)
	fmt.Fprintf(b, "- Market maturity: %s\n", maturity)
}
