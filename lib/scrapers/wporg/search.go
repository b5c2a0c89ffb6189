package wporg

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var slugFromHrefRegex = regexp.MustCompile(`/plugins/([^/]+)/?`)

// ParseSearchSlugs pulls plugin slugs out of a search or browse results
// page, in page order with duplicates removed.
func ParseSearchSlugs(markup string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var slugs []string
	seen := map[string]bool{}
	doc.Find(".plugin-card h3 a, .plugin-card-top a.plugin-icon, article.plugin h2 a").
		Each(func(_ int, s *goquery.Selection) {
			href := s.AttrOr("href", "")
			if !strings.Contains(href, "/plugins/") {
				return
			}
			groups := slugFromHrefRegex.FindStringSubmatch(href)
			if len(groups) < 2 || groups[1] == "" {
				return
			}
			slug := groups[1]
			if !seen[slug] {
				seen[slug] = true
				slugs = append(slugs, slug)
			}
		})

	return slugs, nil
}

// SearchPlugins runs a directory search for a term (tag or category name)
// and returns up to limit result slugs. Search failures degrade to an empty
// result since discovery aggregates several strategies.
func (c *Client) SearchPlugins(ctx context.Context, term string, limit int) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:SearchPlugins")
	defer span.End()

	markup, err := c.getPage(ctx, "/plugins/search/"+url.PathEscape(term)+"/")
	if err != nil {
		return nil, err
	}
	slugs, err := ParseSearchSlugs(markup)
	if err != nil {
		return nil, err
	}
	if len(slugs) > limit {
		slugs = slugs[:limit]
	}
	return slugs, nil
}
