package competitors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"

	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	plugins  map[string]*wporg.PluginInfo
	searches map[string][]string
	lookups  []string
}

func (f *fakeCatalog) GetPluginInfo(ctx context.Context, slug string) (*wporg.PluginInfo, error) {
	f.lookups = append(f.lookups, slug)
	info, ok := f.plugins[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", wporg.ErrPluginNotFound, slug)
	}
	return info, nil
}

func (f *fakeCatalog) SearchPlugins(ctx context.Context, term string, limit int) ([]string, error) {
	slugs := f.searches[term]
	if len(slugs) > limit {
		slugs = slugs[:limit]
	}
	return slugs, nil
}

func shopPlugin(slug, name, installs string, rating float64) *wporg.PluginInfo {
	return &wporg.PluginInfo{
		Slug:           slug,
		Name:           name,
		Url:            "https://wordpress.org/plugins/" + slug + "/",
		Category:       "E-Commerce",
		Tags:           []string{"woo-commerce-reviews", "shop"},
		ActiveInstalls: installs,
		Rating:         rating,
		RatingCount:    120,
	}
}

func newTestFinder(catalog *fakeCatalog, slug string, opts Options) *Finder {
	opts.Delay = time.Millisecond
	return NewFinder(catalog, slug, opts)
}

func TestFindRanksByInstalls(t *testing.T) {
	catalog := &fakeCatalog{
		plugins: map[string]*wporg.PluginInfo{
			"target": {
				Slug: "target", Name: "Target Reviews",
				Category: "E-Commerce",
				Tags:     []string{"woo-commerce-reviews", "ecommerce"},
			},
			"small": shopPlugin("small", "Small Shop Reviews", "5,000+", 4.5),
			"big":   shopPlugin("big", "Big Shop Reviews", "1+ million", 4.0),
		},
		searches: map[string][]string{
			"woo-commerce-reviews": {"small", "big", "target"},
		},
	}

	finder := newTestFinder(catalog, "target", Options{})
	result, err := finder.Find(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Target Reviews", result.TargetPlugin.Name)
	require.Equal(t, 2, result.TotalFound)
	require.Equal(t, "big", result.Competitors[0].Slug)
	require.Equal(t, "small", result.Competitors[1].Slug)
	// the target's own slug never gets looked up as a candidate
	require.NotContains(t, catalog.lookups[1:], "target")
}

func TestFindTargetNotFoundIsFatal(t *testing.T) {
	catalog := &fakeCatalog{plugins: map[string]*wporg.PluginInfo{}}
	finder := newTestFinder(catalog, "missing", Options{})

	_, err := finder.Find(context.Background())
	require.ErrorIs(t, err, wporg.ErrPluginNotFound)
}

func TestFindSkipsFailedCandidates(t *testing.T) {
	catalog := &fakeCatalog{
		plugins: map[string]*wporg.PluginInfo{
			"target": {
				Slug: "target", Name: "Target",
				Category: "E-Commerce",
				Tags:     []string{"woo-commerce-reviews"},
			},
			"ok": shopPlugin("ok", "OK Shop Reviews", "10,000+", 4.2),
			// "ghost" is returned by search but resolves to nothing
		},
		searches: map[string][]string{
			"woo-commerce-reviews": {"ghost", "ok"},
		},
	}

	finder := newTestFinder(catalog, "target", Options{})
	result, err := finder.Find(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalFound)
	require.Equal(t, "ok", result.Competitors[0].Slug)
}

func TestFindReportsRejections(t *testing.T) {
	unrelated := &wporg.PluginInfo{
		Slug: "unrelated", Name: "Totally Different",
		Category: "Security", Tags: []string{"firewall"},
		ActiveInstalls: "90,000+", Rating: 4.8,
	}
	lowRated := shopPlugin("low-rated", "Low Rated Shop Reviews", "50,000+", 2.0)

	catalog := &fakeCatalog{
		plugins: map[string]*wporg.PluginInfo{
			"target": {
				Slug: "target", Name: "Target",
				Category: "E-Commerce",
				Tags:     []string{"woo-commerce-reviews"},
			},
			"unrelated": unrelated,
			"low-rated": lowRated,
		},
		searches: map[string][]string{
			"woo-commerce-reviews": {"unrelated", "low-rated"},
		},
	}

	rejected := map[string]string{}
	finder := newTestFinder(catalog, "target", Options{})
	finder.Events.OnCandidateRejected = func(slug, reason string) {
		rejected[slug] = reason
	}

	result, err := finder.Find(context.Background())
	require.NoError(t, err)
	require.Zero(t, result.TotalFound)
	require.Contains(t, rejected["unrelated"], "relevance")
	require.Contains(t, rejected["low-rated"], "rating")
}

func TestFindHonorsMaxCompetitors(t *testing.T) {
	catalog := &fakeCatalog{
		plugins: map[string]*wporg.PluginInfo{
			"target": {
				Slug: "target", Name: "Target",
				Category: "E-Commerce",
				Tags:     []string{"woo-commerce-reviews"},
			},
		},
		searches: map[string][]string{},
	}
	var slugs []string
	for i := 0; i < 4; i++ {
		slug := fmt.Sprintf("comp-%d", i)
		catalog.plugins[slug] = shopPlugin(slug, fmt.Sprintf("Shop Reviews %d", i), "10,000+", 4.0)
		slugs = append(slugs, slug)
	}
	catalog.searches["woo-commerce-reviews"] = slugs

	finder := newTestFinder(catalog, "target", Options{MaxCompetitors: 2})
	result, err := finder.Find(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Competitors, 2)
}
