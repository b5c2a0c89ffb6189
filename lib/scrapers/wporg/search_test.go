package wporg

import (
	"testing"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/search_results.html
var searchResultsFixture string

func TestParseSearchSlugs(t *testing.T) {
	slugs, err := ParseSearchSlugs(searchResultsFixture)
	require.NoError(t, err)

	// woocommerce appears twice (icon + title link) but is reported once;
	// the offsite link never produces a slug
	require.Equal(t, []string{"woocommerce", "acme-store-toolkit", "simple-product-feeds"}, slugs)
}
