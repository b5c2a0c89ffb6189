package competitors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
	"github.com/Summix-io/wp-plugin-review/lib/textutil"
)

// AcceptThreshold is the minimum relevance score a candidate must reach to
// be reported as a competitor.
const AcceptThreshold = 30

// genericTags carry almost no signal about what a plugin actually does, so
// searching by them would flood the candidate set with unrelated plugins.
var genericTags = map[string]bool{
	"wordpress": true,
	"plugin":    true,
	"free":      true,
	"premium":   true,
	"widget":    true,
}

// secondaryTags describe common bolt-on features rather than a plugin's
// core purpose.
var secondaryTags = map[string]bool{
	"seo":    true,
	"email":  true,
	"coupon": true,
}

// frameworkSlugs are platform plugins that show up in nearly every search
// result but are never direct competitors of anything built on top of them.
var frameworkSlugs = map[string]bool{
	"woocommerce":            true,
	"elementor":              true,
	"jetpack":                true,
	"akismet":                true,
	"contact-form-7":         true,
	"classic-editor":         true,
	"advanced-custom-fields": true,
	"wordpress-seo":          true,
}

// nameStopWords are excluded from the shared-word relevance signal. All of
// them are length >= 4 since shorter words never score anyway.
var nameStopWords = map[string]bool{
	"with": true, "your": true, "that": true, "this": true, "from": true,
	"plugin": true, "plugins": true, "wordpress": true, "best": true,
	"easy": true, "free": true, "more": true, "most": true, "will": true,
	"have": true, "site": true, "sites": true, "website": true,
	"allows": true, "using": true, "into": true, "them": true, "when": true,
}

// tagScore rates how useful a tag is as a search term. Multi-word
// hyphenated tags are usually feature-specific and make the best queries;
// generic marketplace vocabulary makes the worst.
func tagScore(tag string) int {
	score := 10
	lower := strings.ToLower(tag)
	if genericTags[lower] {
		score -= 20
	}
	if secondaryTags[lower] {
		score -= 5
	}
	switch hyphens := strings.Count(tag, "-"); {
	case hyphens >= 2:
		score += 15
	case hyphens == 1:
		score += 8
	}
	if len(tag) > 15 {
		score += 5
	}
	return score
}

// PrioritizeTags orders a plugin's tags by search value, drops tags that
// score zero or below, and keeps at most five.
func PrioritizeTags(tags []string) []string {
	type scored struct {
		tag   string
		score int
	}
	ranked := make([]scored, 0, len(tags))
	for _, tag := range tags {
		if s := tagScore(tag); s > 0 {
			ranked = append(ranked, scored{tag, s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.tag
	}
	return out
}

// rejectReason screens out candidates that cannot be competitors no matter
// how well their tags line up. Empty string means the candidate passes.
func rejectReason(candidate *wporg.PluginInfo) string {
	if candidate.Name == "" {
		return "no resolvable name"
	}
	installs := wporg.ParseInstallCount(candidate.ActiveInstalls)
	if installs < 100 {
		return fmt.Sprintf("too few installs (%d)", installs)
	}
	if candidate.Rating > 0 && candidate.Rating < 3.0 {
		return fmt.Sprintf("low rating (%.1f)", candidate.Rating)
	}
	return ""
}

// subTokens splits a hyphenated tag into its sub-tokens of length >= 5;
// shorter fragments ("woo", "form") match too promiscuously to score.
func subTokens(tag string) []string {
	var out []string
	for _, part := range strings.Split(strings.ToLower(tag), "-") {
		if len(part) >= 5 {
			out = append(out, part)
		}
	}
	return out
}

// RelevanceScore weighs how plausibly candidate competes with target.
// Exact tag matches dominate; partial hyphen-token overlap, a shared
// category, and shared descriptive vocabulary each add smaller amounts.
// Well-known framework plugins take a penalty large enough to sink any
// tag overlap.
func RelevanceScore(target, candidate *wporg.PluginInfo) int {
	score := 0

	targetTags := map[string]bool{}
	for _, tag := range target.Tags {
		targetTags[strings.ToLower(tag)] = true
	}

	var inexact []string
	for _, tag := range candidate.Tags {
		if targetTags[strings.ToLower(tag)] {
			score += 15
		} else {
			inexact = append(inexact, tag)
		}
	}

	// partial credit for tags sharing a meaningful hyphenated sub-token,
	// e.g. "product-reviews" vs "customer-reviews"
	for _, candidateTag := range inexact {
		candidateTokens := subTokens(candidateTag)
		for _, targetTag := range target.Tags {
			for _, tt := range subTokens(targetTag) {
				for _, ct := range candidateTokens {
					if tt == ct {
						score += 8
					}
				}
			}
		}
	}

	if target.Category != "" && strings.EqualFold(target.Category, candidate.Category) {
		score += 20
	}

	if frameworkSlugs[strings.ToLower(candidate.Slug)] {
		score -= 100
	}

	score += sharedWordScore(target, candidate)
	return score
}

// sharedWordScore grants +5 per meaningful word the two plugins' name and
// description have in common, capped at +30.
func sharedWordScore(target, candidate *wporg.PluginInfo) int {
	targetWords := map[string]bool{}
	for _, w := range textutil.Words(target.Name + " " + target.Description) {
		if len(w) >= 4 && !nameStopWords[w] {
			targetWords[w] = true
		}
	}

	seen := map[string]bool{}
	score := 0
	for _, w := range textutil.Words(candidate.Name + " " + candidate.Description) {
		if len(w) < 4 || nameStopWords[w] || seen[w] || !targetWords[w] {
			continue
		}
		seen[w] = true
		score += 5
		if score >= 30 {
			break
		}
	}
	return score
}
