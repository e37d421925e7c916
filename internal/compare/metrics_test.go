package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchingRate(t *testing.T) {
	t.Run("both empty is full agreement", func(t *testing.T) {
		assert.Equal(t, 1.0, MatchingRate(nil, nil))
	})

	t.Run("one empty is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, MatchingRate([]string{"a"}, nil))
		assert.Equal(t, 0.0, MatchingRate(nil, []string{"a"}))
	})

	t.Run("identity", func(t *testing.T) {
		words := Tokenize("Page 1: Hello, World!")
		assert.Equal(t, 1.0, MatchingRate(words, words))
	})

	t.Run("no shared tokens", func(t *testing.T) {
		assert.Equal(t, 0.0, MatchingRate([]string{"a", "b"}, []string{"x", "y"}))
	})

	t.Run("symmetry", func(t *testing.T) {
		a := Tokenize("the quick brown fox")
		b := Tokenize("the slow brown wolf")
		assert.InDelta(t, MatchingRate(a, b), MatchingRate(b, a), 1e-12)
	})

	t.Run("single replacement", func(t *testing.T) {
		// 2 matched of 6 total tokens on each side: 2*4/8... A,C match: 2*2/(3+3).
		rate := MatchingRate([]string{"A", "B", "C"}, []string{"A", "X", "C"})
		assert.InDelta(t, 2.0*2.0/6.0, rate, 1e-12)
	})
}

// The matching rate follows the alignment, not the vocabulary: two sequences
// sharing both words but in swapped positions can only align one of them, so
// the rate is strictly below what a set comparison would report.
func TestMatchingRateIsAlignmentBased(t *testing.T) {
	left := Tokenize("end start")
	right := Tokenize("start end")

	common, uniqueLeft, uniqueRight := WordSets(left, right)
	assert.Equal(t, []string{"end", "start"}, common)
	assert.Empty(t, uniqueLeft)
	assert.Empty(t, uniqueRight)

	// Only one token survives an order-preserving alignment: 2*1/4.
	assert.InDelta(t, 0.5, MatchingRate(left, right), 1e-12)
}

func TestWordSets(t *testing.T) {
	tests := []struct {
		name                 string
		left, right          string
		common, uLeft, uRight []string
	}{
		{
			name:   "partial overlap",
			left:   "invoice total tax",
			right:  "invoice total discount",
			common: []string{"invoice", "total"},
			uLeft:  []string{"tax"},
			uRight: []string{"discount"},
		},
		{
			name:   "duplicates collapse",
			left:   "a a a b",
			right:  "a b b b",
			common: []string{"a", "b"},
			uLeft:  []string{},
			uRight: []string{},
		},
		{
			name:   "both empty",
			left:   "",
			right:  "",
			common: []string{},
			uLeft:  []string{},
			uRight: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			common, uLeft, uRight := WordSets(Tokenize(tt.left), Tokenize(tt.right))
			assert.Equal(t, tt.common, common)
			assert.Equal(t, tt.uLeft, uLeft)
			assert.Equal(t, tt.uRight, uRight)
		})
	}
}
