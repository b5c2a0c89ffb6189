package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/courtesy"
	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
	"github.com/Summix-io/wp-plugin-review/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StopReason records why pagination terminated.
type StopReason string

const (
	StopEmpty    StopReason = "no_results"
	StopCutoff   StopReason = "cutoff_reached"
	StopMaxPages StopReason = "max_pages"
	StopError    StopReason = "fetch_error"
)

// Source provides parsed review listing pages. *wporg.Client satisfies
// this; tests inject canned pages.
type Source interface {
	ReviewsPage(ctx context.Context, slug string, page int) ([]wporg.Review, error)
}

// Events let the caller observe pagination without the session printing
// anything itself.
type Events struct {
	OnPageFetched func(page int, records int)
	OnStop        func(reason StopReason, page int)
}

func (e Events) pageFetched(page, records int) {
	if e.OnPageFetched != nil {
		e.OnPageFetched(page, records)
	}
}

func (e Events) stopped(reason StopReason, page int) {
	if e.OnStop != nil {
		e.OnStop(reason, page)
	}
}

type Options struct {
	// how far back reviews are considered in range, default 12
	MonthsBack int
	// hard page limit per session, default 10
	MaxPages int
	// courtesy pause between page fetches, default 1s
	Delay time.Duration
}

func (o Options) withDefaults() Options {
	if o.MonthsBack <= 0 {
		o.MonthsBack = 12
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 10
	}
	if o.Delay <= 0 {
		o.Delay = time.Second
	}
	return o
}

// Session drives one bounded fetch of a plugin's review listing: page after
// page until a page comes back empty, a page reaches past the cutoff date,
// the page limit is hit, or a fetch fails.
type Session struct {
	source Source
	slug   string
	opts   Options

	Events Events
	// injectable for tests
	Now func() time.Time
}

func NewSession(source Source, slug string, opts Options) *Session {
	return &Session{
		source: source,
		slug:   slug,
		opts:   opts.withDefaults(),
		Now:    timezone.Now,
	}
}

// oldestDate returns the earliest parsed date on a page, ignoring reviews
// whose dates never parsed. ok is false when no review had a usable date.
func oldestDate(records []wporg.Review) (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		if !found || r.Date.Before(oldest) {
			oldest = r.Date
			found = true
		}
	}
	return oldest, found
}

// FetchAll runs the pagination loop and finalizes the accumulated reviews
// into a Dataset restricted to the requested window.
//
// Review listings are served newest-first, so the first page containing a
// review older than the cutoff is treated as the last interesting page.
// That page is still kept in full; exact window trimming happens at
// finalization. If the listing ever came back unordered this would
// terminate early and under-collect.
//
// A fetch failure ends the session with an error, but the dataset built
// from the pages already fetched is returned alongside it so partial
// results can still be persisted.
func (s *Session) FetchAll(ctx context.Context) (Dataset, error) {
	ctx, span := tracer.Start(ctx, "session:FetchAll")
	defer span.End()
	span.SetAttributes(attribute.String("slug", s.slug))

	fetchDate := s.Now()
	cutoff := fetchDate.AddDate(0, -s.opts.MonthsBack, 0)

	slog.InfoContext(ctx, "fetching reviews",
		"slug", s.slug,
		"months_back", s.opts.MonthsBack,
		"cutoff", cutoff.Format(time.DateOnly),
		"max_pages", s.opts.MaxPages,
	)

	var accumulated []wporg.Review
	var fetchErr error
	pagesFetched := 0

	for page := 1; ; page++ {
		records, err := s.source.ReviewsPage(ctx, s.slug, page)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pagination aborted")
			slog.WarnContext(ctx, "review page fetch failed",
				"slug", s.slug, "page", page, "err", err)
			s.Events.stopped(StopError, page)
			fetchErr = fmt.Errorf("fetching page %d of %s: %w", page, s.slug, err)
			break
		}
		if len(records) == 0 {
			s.Events.stopped(StopEmpty, page)
			break
		}

		pagesFetched = page
		accumulated = append(accumulated, records...)
		s.Events.pageFetched(page, len(records))

		if oldest, ok := oldestDate(records); ok && oldest.Before(cutoff) {
			s.Events.stopped(StopCutoff, page)
			break
		}
		if page == s.opts.MaxPages {
			s.Events.stopped(StopMaxPages, page)
			break
		}

		if err := courtesy.Wait(ctx, s.opts.Delay); err != nil {
			s.Events.stopped(StopError, page)
			fetchErr = err
			break
		}
	}

	inRange := FilterByWindow(accumulated, cutoff, fetchDate)
	dataset := Dataset{
		PluginSlug:   s.slug,
		FetchDate:    fetchDate,
		MonthsBack:   s.opts.MonthsBack,
		CutoffDate:   cutoff,
		TotalFetched: len(accumulated),
		InRange:      len(inRange),
		PagesFetched: pagesFetched,
		Reviews:      inRange,
	}
	return dataset, fetchErr
}
