package wporg

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Summix-io/wp-plugin-review/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// PluginInfo is the directory metadata for one plugin. ActiveInstalls keeps
// the human formatting wordpress.org uses ("500,000+", "5+ million");
// ParseInstallCount normalizes it when a number is needed.
type PluginInfo struct {
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	Url            string   `json:"url"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	ActiveInstalls string   `json:"activeInstalls"`
	// 0 means unrated
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
	LastUpdated string  `json:"lastUpdated"`
}

// RatingLabel renders the rating for reports, with an N/A sentinel for
// unrated plugins.
func (p PluginInfo) RatingLabel() string {
	if p.Rating <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(p.Rating, 'f', 1, 64)
}

var millionRegex = regexp.MustCompile(`[\d.]+`)
var installCountRegex = regexp.MustCompile(`[\d,]+`)

// ParseInstallCount turns a human-formatted install count into a number.
// "1+ million" parses to 1000000, "500,000+" to 500000, anything
// unrecognizable to 0.
func ParseInstallCount(text string) int {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0
	}

	if strings.Contains(s, "million") {
		match := millionRegex.FindString(s)
		if match == "" {
			return 0
		}
		f, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		return int(f * 1_000_000)
	}

	match := installCountRegex.FindString(s)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// the 1.2 plugin info API returns rating as a 0-100 percentage
type apiPluginInfo struct {
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"short_description"`
	Description      string            `json:"description"`
	Sections         map[string]string `json:"sections"`
	Tags             map[string]string `json:"tags"`
	ActiveInstalls   int               `json:"active_installs"`
	Rating           int               `json:"rating"`
	NumRatings       int               `json:"num_ratings"`
	LastUpdated      string            `json:"last_updated"`
}

func pluginUrl(slug string) string {
	return fmt.Sprintf("https://wordpress.org/plugins/%s/", slug)
}

func formatThousands(n int) string {
	digits := strconv.Itoa(n)
	var out strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(d)
	}
	return out.String()
}

var categorySectionRegex = regexp.MustCompile(`<strong>Category:</strong>\s*([^<]+)`)

// pluginInfoFromApi queries the structured plugin info endpoint. A nil
// result (without error) means the API had nothing usable and the caller
// should fall back to scraping the directory page.
func (c *Client) pluginInfoFromApi(ctx context.Context, slug string) (*PluginInfo, error) {
	ctx, span := tracer.Start(ctx, "client:pluginInfoFromApi")
	defer span.End()

	var data apiPluginInfo
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("action", "plugin_information").
		SetQueryParam("request[slug]", slug).
		SetResult(&data).
		Get(c.apiBase + "/plugins/info/1.2/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, err
	}
	if !res.IsSuccess() || data.Name == "" {
		return nil, nil
	}

	description := html.UnescapeString(data.ShortDescription)
	if description == "" {
		description = html.UnescapeString(data.Description)
	}
	if description == "" && data.Sections["description"] != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(data.Sections["description"]))
		if err == nil {
			description = htmlutil.CleanText(doc.Find("p").First().Text())
		}
	}

	category := ""
	if groups := categorySectionRegex.FindStringSubmatch(data.Sections["description"]); len(groups) > 1 {
		category = strings.TrimSpace(groups[1])
	}

	tags := make([]string, 0, len(data.Tags))
	for tag := range data.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	installs := "0"
	if data.ActiveInstalls > 0 {
		installs = formatThousands(data.ActiveInstalls) + "+"
	}

	return &PluginInfo{
		Slug:           data.Slug,
		Name:           html.UnescapeString(data.Name),
		Url:            pluginUrl(data.Slug),
		Description:    description,
		Category:       category,
		Tags:           tags,
		ActiveInstalls: installs,
		Rating:         float64(data.Rating) / 20,
		RatingCount:    data.NumRatings,
		LastUpdated:    data.LastUpdated,
	}, nil
}

var installsInTextRegex = regexp.MustCompile(`(?i)([\d,]+\+?\s*(?:million)?)`)
var lastUpdatedDateRegex = regexp.MustCompile(`\d{1,2}\s+\w+\s+\d{4}`)
var lastUpdatedAgoRegex = regexp.MustCompile(`(?i)\d+\s+(?:day|week|month|year)s?\s+ago`)
var ratingCountTextRegex = regexp.MustCompile(`(?i)\(?([\d,]+)\s*ratings?\)?`)

func extractInstalls(doc *goquery.Document) string {
	chain := []string{
		".active-installs .value-data",
		".active-installs strong",
		".plugin-stats .active-installs strong",
		".entry-meta .active-installs",
	}
	for _, selector := range chain {
		if v := htmlutil.CleanText(doc.Find(selector).First().Text()); v != "" {
			return v
		}
	}

	// last resort: any list item mentioning active installs
	installs := ""
	doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(strings.ToLower(text), "active install") {
			return true
		}
		if match := installsInTextRegex.FindString(text); match != "" {
			installs = strings.TrimSpace(match)
			return false
		}
		return true
	})
	return installs
}

func extractPageRating(doc *goquery.Document) float64 {
	for _, selector := range []string{".wporg-ratings .star-rating", ".star-rating"} {
		for _, name := range []string{"title", "aria-label"} {
			label := doc.Find(selector).First().AttrOr(name, "")
			if groups := outOfFiveRegex.FindStringSubmatch(label); len(groups) > 1 {
				if f, err := strconv.ParseFloat(groups[1], 64); err == nil {
					return f
				}
			}
		}
	}

	rating := 0.0
	doc.Find(".wporg-ratings, .plugin-rating").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		groups := outOfFiveRegex.FindStringSubmatch(s.Text())
		if len(groups) < 2 {
			return true
		}
		f, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			return true
		}
		rating = f
		return false
	})
	if rating > 0 {
		return rating
	}

	// lossy approximation from the filled star bar width
	style := doc.Find(".star-rating .stars").First().AttrOr("style", "")
	if groups := starWidthRegex.FindStringSubmatch(style); len(groups) > 1 {
		if percentage, err := strconv.ParseFloat(groups[1], 64); err == nil {
			return percentage / 20
		}
	}
	return 0
}

func extractRatingCount(doc *goquery.Document) int {
	chain := []string{
		".wporg-ratings .rating-count a",
		".rating-count a",
		"a[href*=\"reviews\"]",
		".reviews-count",
	}
	for _, selector := range chain {
		text := doc.Find(selector).First().Text()
		if match := installCountRegex.FindString(text); match != "" {
			if n, err := strconv.Atoi(strings.ReplaceAll(match, ",", "")); err == nil && n > 0 {
				return n
			}
		}
	}

	count := 0
	doc.Find("li, p, span").Each(func(_ int, s *goquery.Selection) {
		groups := ratingCountTextRegex.FindStringSubmatch(s.Text())
		if len(groups) < 2 {
			return
		}
		n, err := strconv.Atoi(strings.ReplaceAll(groups[1], ",", ""))
		if err == nil && n > count {
			count = n
		}
	})
	return count
}

func extractLastUpdated(doc *goquery.Document) string {
	chain := []string{".plugin-meta time", "time[datetime]"}
	for _, selector := range chain {
		if v := htmlutil.CleanText(doc.Find(selector).First().Text()); v != "" {
			return v
		}
	}

	updated := ""
	doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "Last updated") && !strings.Contains(text, "Updated") {
			return true
		}
		if match := lastUpdatedDateRegex.FindString(text); match != "" {
			updated = match
			return false
		}
		if match := lastUpdatedAgoRegex.FindString(text); match != "" {
			updated = match
			return false
		}
		return true
	})
	return updated
}

func extractTags(doc *goquery.Document) []string {
	var tags []string
	seen := map[string]bool{}
	appendTag := func(_ int, s *goquery.Selection) {
		tag := htmlutil.CleanText(s.Text())
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	doc.Find("a[href*=\"/plugins/tags/\"]").Each(appendTag)
	if len(tags) == 0 {
		doc.Find(".widget-tags a, .tags a, a.tag").Each(appendTag)
	}
	return tags
}

func extractCategory(doc *goquery.Document, tags []string) string {
	category := ""
	doc.Find("nav.breadcrumbs a, .breadcrumb a").Each(func(_ int, s *goquery.Selection) {
		text := htmlutil.CleanText(s.Text())
		if text != "" && text != "Plugin Directory" && text != "WordPress.org" {
			category = text
		}
	})
	if category == "" && len(tags) > 0 {
		category = tags[0]
	}
	return category
}

// ParsePluginInfo scrapes plugin metadata from directory page markup.
// Returns nil when the page carries no recognizable plugin name.
func ParsePluginInfo(ctx context.Context, slug, markup string) (*PluginInfo, error) {
	_, span := tracer.Start(ctx, "ParsePluginInfo")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	name := ""
	for _, selector := range []string{".plugin-title", "h1.plugin-title", "h2.plugin-title"} {
		if name = htmlutil.CleanText(doc.Find(selector).First().Text()); name != "" {
			break
		}
	}
	if name == "" {
		return nil, nil
	}

	description := htmlutil.CleanText(doc.Find(".plugin-subtitle").First().Text())
	if description == "" {
		description = strings.TrimSpace(doc.Find("meta[name=\"description\"]").AttrOr("content", ""))
	}
	if description == "" {
		description = htmlutil.CleanText(doc.Find("p.plugin-description").First().Text())
	}

	tags := extractTags(doc)

	return &PluginInfo{
		Slug:           slug,
		Name:           name,
		Url:            pluginUrl(slug),
		Description:    description,
		Category:       extractCategory(doc, tags),
		Tags:           tags,
		ActiveInstalls: extractInstalls(doc),
		Rating:         extractPageRating(doc),
		RatingCount:    extractRatingCount(doc),
		LastUpdated:    extractLastUpdated(doc),
	}, nil
}

// GetPluginInfo resolves plugin metadata, preferring the structured info API
// and falling back to scraping the directory page. ErrPluginNotFound is
// returned when neither source yields a usable name.
func (c *Client) GetPluginInfo(ctx context.Context, slug string) (*PluginInfo, error) {
	ctx, span := tracer.Start(ctx, "client:GetPluginInfo")
	defer span.End()

	info, err := c.pluginInfoFromApi(ctx, slug)
	if err != nil {
		slog.WarnContext(ctx, "plugin info api unavailable, scraping page", "slug", slug, "err", err)
	}
	if info != nil {
		return info, nil
	}

	markup, err := c.FetchPluginPage(ctx, slug)
	if err != nil {
		return nil, err
	}
	info, err = ParsePluginInfo(ctx, slug, markup)
	if err != nil {
		return nil, err
	}
	if info == nil {
		span.SetStatus(codes.Error, "no plugin name found")
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, slug)
	}
	return info, nil
}
