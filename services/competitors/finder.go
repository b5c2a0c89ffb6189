package competitors

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/courtesy"
	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Source supplies plugin metadata and directory search. *wporg.Client
// satisfies this; tests inject canned catalogs.
type Source interface {
	GetPluginInfo(ctx context.Context, slug string) (*wporg.PluginInfo, error)
	SearchPlugins(ctx context.Context, term string, limit int) ([]string, error)
}

// Events let the caller observe discovery progress and rejection reasons
// without the finder printing anything itself.
type Events struct {
	OnSearch            func(term string, found int)
	OnCandidateAccepted func(slug string, score int)
	OnCandidateRejected func(slug, reason string)
}

func (e Events) search(term string, found int) {
	if e.OnSearch != nil {
		e.OnSearch(term, found)
	}
}

func (e Events) accepted(slug string, score int) {
	if e.OnCandidateAccepted != nil {
		e.OnCandidateAccepted(slug, score)
	}
}

func (e Events) rejected(slug, reason string) {
	if e.OnCandidateRejected != nil {
		e.OnCandidateRejected(slug, reason)
	}
}

type Options struct {
	// most competitors returned, default 10
	MaxCompetitors int
	// slugs taken from each search, default 15
	SearchLimit int
	// base pause between requests, default 1s; every fifth candidate
	// lookup waits twice as long
	Delay time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxCompetitors <= 0 {
		o.MaxCompetitors = 10
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = 15
	}
	if o.Delay <= 0 {
		o.Delay = time.Second
	}
	return o
}

// Result is one finished discovery run.
type Result struct {
	TargetPlugin *wporg.PluginInfo   `json:"targetPlugin"`
	Competitors  []*wporg.PluginInfo `json:"competitors"`
	TotalFound   int                 `json:"totalFound"`
}

// Finder discovers competitors for a target plugin by searching the
// directory for its highest-value tags and its category, then resolving
// and scoring each discovered slug.
type Finder struct {
	source Source
	slug   string
	opts   Options

	Events Events
}

func NewFinder(source Source, slug string, opts Options) *Finder {
	return &Finder{
		source: source,
		slug:   slug,
		opts:   opts.withDefaults(),
	}
}

// gatherCandidates unions the slugs from one search per prioritized tag
// plus one search for the category, in discovery order and minus the
// target itself.
func (f *Finder) gatherCandidates(ctx context.Context, target *wporg.PluginInfo) ([]string, error) {
	terms := PrioritizeTags(target.Tags)
	if target.Category != "" {
		terms = append(terms, target.Category)
	}

	seen := map[string]bool{f.slug: true}
	var candidates []string
	for i, term := range terms {
		if i > 0 {
			if err := courtesy.Wait(ctx, f.opts.Delay); err != nil {
				return nil, err
			}
		}
		slugs, err := f.source.SearchPlugins(ctx, term, f.opts.SearchLimit)
		if err != nil {
			slog.WarnContext(ctx, "search failed", "term", term, "err", err)
			continue
		}
		f.Events.search(term, len(slugs))
		for _, slug := range slugs {
			if !seen[slug] {
				seen[slug] = true
				candidates = append(candidates, slug)
			}
		}
	}
	return candidates, nil
}

// Find resolves the target plugin and runs the full discovery pipeline.
// Only target resolution is fatal; individual candidate failures are
// logged and skipped.
func (f *Finder) Find(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "finder:Find")
	defer span.End()
	span.SetAttributes(attribute.String("slug", f.slug))

	target, err := f.source.GetPluginInfo(ctx, f.slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "target unresolvable")
		return nil, fmt.Errorf("resolving target plugin: %w", err)
	}

	slog.InfoContext(ctx, "finding competitors",
		"slug", f.slug,
		"name", target.Name,
		"category", target.Category,
		"tags", target.Tags,
	)

	candidates, err := f.gatherCandidates(ctx, target)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "candidates gathered", "count", len(candidates))

	var accepted []*wporg.PluginInfo
	for i, slug := range candidates {
		if len(accepted) >= f.opts.MaxCompetitors {
			break
		}

		delay := f.opts.Delay
		if (i+1)%5 == 0 {
			delay *= 2
		}
		if err := courtesy.Wait(ctx, delay); err != nil {
			return nil, err
		}

		info, err := f.source.GetPluginInfo(ctx, slug)
		if err != nil {
			slog.WarnContext(ctx, "candidate lookup failed", "slug", slug, "err", err)
			continue
		}

		if reason := rejectReason(info); reason != "" {
			f.Events.rejected(slug, reason)
			continue
		}
		score := RelevanceScore(target, info)
		if score < AcceptThreshold {
			f.Events.rejected(slug, fmt.Sprintf("relevance %d below %d", score, AcceptThreshold))
			continue
		}

		f.Events.accepted(slug, score)
		accepted = append(accepted, info)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return wporg.ParseInstallCount(accepted[i].ActiveInstalls) >
			wporg.ParseInstallCount(accepted[j].ActiveInstalls)
	})
	if len(accepted) > f.opts.MaxCompetitors {
		accepted = accepted[:f.opts.MaxCompetitors]
	}

	return &Result{
		TargetPlugin: target,
		Competitors:  accepted,
		TotalFound:   len(accepted),
	}, nil
}
