package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignSingleReplacement(t *testing.T) {
	ops := Align([]string{"A", "B", "C"}, []string{"A", "X", "C"})
	require.Len(t, ops, 3)

	assert.Equal(t, OpEqual, ops[0].Kind)
	assert.Equal(t, 0, ops[0].LeftStart)
	assert.Equal(t, 1, ops[0].LeftEnd)
	assert.Equal(t, 0, ops[0].RightStart)
	assert.Equal(t, 1, ops[0].RightEnd)

	assert.Equal(t, OpReplace, ops[1].Kind)
	assert.Equal(t, []string{"B"}, ops[1].LeftTokens)
	assert.Equal(t, []string{"X"}, ops[1].RightTokens)
	assert.Equal(t, 1, ops[1].LeftStart)
	assert.Equal(t, 2, ops[1].LeftEnd)
	assert.Equal(t, 1, ops[1].RightStart)
	assert.Equal(t, 2, ops[1].RightEnd)

	assert.Equal(t, OpEqual, ops[2].Kind)
	assert.Equal(t, 2, ops[2].LeftStart)
	assert.Equal(t, 3, ops[2].LeftEnd)
}

// The concatenated left ranges of an edit script must rebuild the left
// sequence exactly once each, and likewise for the right side.
func TestAlignReconstructionInvariant(t *testing.T) {
	cases := []struct {
		name        string
		left, right []string
	}{
		{"identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"disjoint", []string{"a", "b"}, []string{"x", "y", "z"}},
		{"left empty", nil, []string{"x", "y"}},
		{"right empty", []string{"x", "y"}, nil},
		{"both empty", nil, nil},
		{"insert middle", []string{"a", "c"}, []string{"a", "b", "c"}},
		{"delete tail", []string{"a", "b", "c", "d"}, []string{"a", "b"}},
		{"swapped order", []string{"end", "start"}, []string{"start", "end"}},
		{"repeated tokens", []string{"x", "x", "y", "x"}, []string{"x", "y", "x", "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ops := Align(tc.left, tc.right)

			var rebuiltLeft, rebuiltRight []string
			prevLeftEnd, prevRightEnd := 0, 0
			for _, op := range ops {
				require.Equal(t, prevLeftEnd, op.LeftStart, "gap or overlap in left ranges")
				require.Equal(t, prevRightEnd, op.RightStart, "gap or overlap in right ranges")
				prevLeftEnd = op.LeftEnd
				prevRightEnd = op.RightEnd
				rebuiltLeft = append(rebuiltLeft, op.LeftTokens...)
				rebuiltRight = append(rebuiltRight, op.RightTokens...)
			}

			assert.Equal(t, len(tc.left), prevLeftEnd)
			assert.Equal(t, len(tc.right), prevRightEnd)
			assert.Equal(t, tc.left, trimNil(rebuiltLeft))
			assert.Equal(t, tc.right, trimNil(rebuiltRight))
		})
	}
}

func TestAlignStableAcrossCalls(t *testing.T) {
	left := Tokenize("the quick brown fox jumps over the lazy dog")
	right := Tokenize("the quick red fox leaps over a lazy dog")

	first := Align(left, right)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Align(left, right))
	}
}

func TestCharRatio(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, 1.0, CharRatio("same text", "same text"))
	})

	t.Run("both empty is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CharRatio("", ""))
	})

	t.Run("one empty is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CharRatio("text", ""))
		assert.Equal(t, 0.0, CharRatio("", "text"))
	})

	t.Run("symmetry", func(t *testing.T) {
		a := "Invoice total: 12500 yen"
		b := "Invoice tota1: 12,500 yen"
		assert.InDelta(t, CharRatio(a, b), CharRatio(b, a), 1e-12)
	})

	t.Run("partial overlap", func(t *testing.T) {
		r := CharRatio("abcd", "bcde")
		// Matching block "bcd" of length 3, total length 8: 2*3/8.
		assert.InDelta(t, 0.75, r, 1e-12)
	})

	t.Run("multibyte counted per rune", func(t *testing.T) {
		assert.Equal(t, 1.0, CharRatio("日本語テキスト", "日本語テキスト"))
	})
}

func trimNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
