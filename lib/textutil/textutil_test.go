package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "product reviews pro", NormalizeName("  Product\t Reviews   Pro \n"))
}

func TestWords(t *testing.T) {
	require.Equal(t,
		[]string{"woo", "commerce", "reviews", "v2"},
		Words("Woo-Commerce Reviews, v2!"),
	)
	require.Empty(t, Words("—"))
}

func TestMatchName(t *testing.T) {
	matchers := []string{"review", "rating"}
	require.True(t, MatchName("Customer Reviews for WooCommerce", matchers))
	require.True(t, MatchName("Star RATING Widget", matchers))
	require.False(t, MatchName("Contact Form Builder", matchers))
}
