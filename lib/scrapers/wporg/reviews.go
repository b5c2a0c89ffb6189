package wporg

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/htmlutil"
	"github.com/Summix-io/wp-plugin-review/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Review is one entry scraped from a plugin's review listing. Content may be
// empty: the listing only carries an excerpt for some themes of the page.
type Review struct {
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	RawDate   string    `json:"date"`
	Date      time.Time `json:"parsedDate,omitempty"`
	Content   string    `json:"content"`
	SourceUrl string    `json:"sourceUrl"`
}

// Key is the identity used for deduplication: the review's forum topic url
// when the listing carried one, otherwise a composite of the visible fields.
func (r Review) Key() string {
	if r.SourceUrl != "" {
		return r.SourceUrl
	}
	return r.Title + "|" + r.Author + "|" + r.RawDate
}

// extractFn is one strategy for pulling a field out of a review entry.
// Strategies are tried in order and the first non-empty result wins, which
// keeps each one unit-testable and makes markup drift a one-line fix.
type extractFn func(s *goquery.Selection) string

func firstOf(s *goquery.Selection, chain ...extractFn) string {
	for _, extract := range chain {
		if v := extract(s); v != "" {
			return v
		}
	}
	return ""
}

func text(selector string) extractFn {
	return func(s *goquery.Selection) string {
		return htmlutil.CleanText(s.Find(selector).First().Text())
	}
}

func attr(selector, name string) extractFn {
	return func(s *goquery.Selection) string {
		return strings.TrimSpace(s.Find(selector).First().AttrOr(name, ""))
	}
}

var (
	titleChain   = []extractFn{text(".review-title a"), text("h3.review-title"), text(".review-title")}
	authorChain  = []extractFn{text(".review-author a"), text(".review-author"), text(".author-name")}
	dateChain    = []extractFn{text(".review-date"), attr(".review-date time", "datetime"), text("time")}
	contentChain = []extractFn{text(".review-content"), text(".review-body"), text(".review-excerpt")}
	urlChain     = []extractFn{attr(".review-title a", "href"), attr("a.review-link", "href")}
	ratingChain  = []extractFn{
		attr(".wporg-ratings", "data-rating"),
		attr(".star-rating", "data-rating"),
		ratingFromTitleAttr,
		ratingFromStarWidth,
	}
)

var outOfFiveRegex = regexp.MustCompile(`(?i)([\d.]+)\s*(?:out of 5|/5)`)

func ratingFromTitleAttr(s *goquery.Selection) string {
	title := s.Find(".wporg-ratings, .star-rating").First().AttrOr("title", "")
	groups := outOfFiveRegex.FindStringSubmatch(title)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

var starWidthRegex = regexp.MustCompile(`width:\s*([\d.]+)%`)

// ratingFromStarWidth derives a 0-5 rating from the width of the filled
// star bar. Lossy last resort: a 4.33 average renders as an 87% bar, so the
// derived value only approximates the true rating.
func ratingFromStarWidth(s *goquery.Selection) string {
	style := s.Find(".star-rating .stars, .wporg-ratings .stars").First().AttrOr("style", "")
	groups := starWidthRegex.FindStringSubmatch(style)
	if len(groups) < 2 {
		return ""
	}
	percentage, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return ""
	}
	return strconv.Itoa(int(percentage / 20))
}

func parseRating(raw string) int {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	rating := int(f)
	if rating < 0 || rating > 5 {
		return 0
	}
	return rating
}

// ParseReviewDate parses the human-formatted date shown on a review entry
// ("January 15, 2025"). Returns the zero time when the string is
// unparseable; callers treat such records as dateless.
func ParseReviewDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	date, err := dateparse.ParseIn(raw, timezone.Location)
	if err != nil {
		return time.Time{}
	}
	return date
}

// ParseReviews extracts every review entry from a review listing page.
// Entries missing all identifying fields are skipped with a warning rather
// than failing the page.
func ParseReviews(ctx context.Context, markup string) ([]Review, error) {
	ctx, span := tracer.Start(ctx, "ParseReviews")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var reviews []Review
	doc.Find(".review, article.review").Each(func(i int, s *goquery.Selection) {
		rawDate := firstOf(s, dateChain...)
		review := Review{
			Rating:    parseRating(firstOf(s, ratingChain...)),
			Title:     firstOf(s, titleChain...),
			Author:    firstOf(s, authorChain...),
			RawDate:   rawDate,
			Date:      ParseReviewDate(rawDate),
			Content:   firstOf(s, contentChain...),
			SourceUrl: firstOf(s, urlChain...),
		}
		if review.Title == "" && review.Author == "" && review.RawDate == "" {
			slog.WarnContext(ctx, "skipping malformed review entry", "index", i)
			return
		}
		reviews = append(reviews, review)
	})

	return reviews, nil
}

// ReviewsPage fetches and extracts one page of a plugin's review listing.
func (c *Client) ReviewsPage(ctx context.Context, slug string, page int) ([]Review, error) {
	ctx, span := tracer.Start(ctx, "client:ReviewsPage")
	defer span.End()

	markup, err := c.FetchReviewPage(ctx, slug, page)
	if err != nil {
		return nil, err
	}
	return ParseReviews(ctx, markup)
}
