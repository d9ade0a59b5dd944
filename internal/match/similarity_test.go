package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bmw ag", normalize("BMW AG"))
	assert.Equal(t, "munchen", normalize("München"))
	assert.Equal(t, "strasse", normalize("Straße"))
	assert.Equal(t, "cafe central", normalize("Café-Central!"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("bmw", "bmw"))
	assert.Equal(t, 1, levenshtein("bmw", "bma"))
	assert.Equal(t, 3, levenshtein("", "bmw"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("bmw", "bmw"))
	assert.Equal(t, 0.0, Similarity("", "bmw"))

	// Token overlap rescues reordered multi-word names.
	s := Similarity("ag bmw", "bmw ag")
	assert.Equal(t, 1.0, s)

	// Close misspelling stays above the fuzzy floor.
	s = Similarity("siemens a", "siemens ag")
	assert.GreaterOrEqual(t, s, FuzzyFloor)

	// Unrelated strings score low.
	s = Similarity("bmw", "lufthansa")
	assert.Less(t, s, 0.5)
}

func TestSimilarityBoundedWithRepeatedTokens(t *testing.T) {
	// Repeated tokens (Baden-Baden, Sing Sing) must not inflate the
	// overlap past 1.0.
	for _, pair := range [][2]string{
		{"baden", "baden baden"},
		{"sing sing", "sing"},
		{"pago pago", "pago pago"},
	} {
		s := Similarity(pair[0], pair[1])
		assert.LessOrEqual(t, s, 1.0, "%q vs %q", pair[0], pair[1])
		assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", pair[0], pair[1])
	}

	assert.Equal(t, 1.0, tokenOverlap("baden baden", "baden"))
	assert.Equal(t, 0.5, tokenOverlap("sing sing hill", "sing"))
}
