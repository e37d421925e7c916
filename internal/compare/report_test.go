package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareIdentity(t *testing.T) {
	c := NewComparator()
	text := "Page 1\nHello, World!\nTotal: 42"

	result := c.Compare("tesseract", text, "vision", text)

	assert.Equal(t, 1.0, result.MatchingRate)
	assert.Equal(t, 1.0, result.SimilarityScore)
	assert.Empty(t, result.Differences)
	assert.Empty(t, result.UniqueLeft)
	assert.Empty(t, result.UniqueRight)
	assert.Equal(t, result.Left.WordCount, result.Right.WordCount)
	assert.False(t, result.Timestamp.IsZero())
	assert.Equal(t, 1, c.History().Len())
}

func TestCompareEmptyBothConventions(t *testing.T) {
	c := NewComparator()
	result := c.Compare("tesseract", "", "vision", "")

	// Word-level rate and char-level score use different empty-input
	// conventions; both are load-bearing.
	assert.Equal(t, 1.0, result.MatchingRate)
	assert.Equal(t, 0.0, result.SimilarityScore)
	assert.Equal(t, 0, result.Left.WordCount)
	assert.Equal(t, 0, result.Right.CharCount)
}

func TestCompareOneSideEmpty(t *testing.T) {
	c := NewComparator()
	result := c.Compare("tesseract", "some recognized text", "vision", "")

	assert.Equal(t, 0.0, result.MatchingRate)
	assert.Equal(t, 0.0, result.SimilarityScore)
	require.Len(t, result.Differences, 1)
	assert.Equal(t, OpDelete, result.Differences[0].Kind)
}

func TestCompareDifferences(t *testing.T) {
	c := NewComparator()
	result := c.Compare(
		"tesseract", "Invoice tota1 42 yen",
		"vision", "Invoice total 42 yen",
	)

	require.Len(t, result.Differences, 1)
	assert.Equal(t, OpReplace, result.Differences[0].Kind)
	assert.Equal(t, []string{"tota1"}, result.Differences[0].LeftTokens)
	assert.Equal(t, []string{"total"}, result.Differences[0].RightTokens)
	assert.Contains(t, result.CommonWords, "Invoice")
	assert.Equal(t, []string{"tota1"}, result.UniqueLeft)
	assert.Equal(t, []string{"total"}, result.UniqueRight)
	assert.Greater(t, result.SimilarityScore, 0.8)
	assert.Less(t, result.MatchingRate, 1.0)
}

func TestRenderingContainsBothEngines(t *testing.T) {
	c := NewComparator()
	left := strings.Repeat("same line\n", 12) + "left only\n" + strings.Repeat("tail line\n", 12)
	right := strings.Repeat("same line\n", 12) + "right only\n" + strings.Repeat("tail line\n", 12)

	result := c.Compare("tesseract", left, "vision", right)

	require.NotEmpty(t, result.DiffRendering)
	assert.Contains(t, result.DiffRendering, "tesseract")
	assert.Contains(t, result.DiffRendering, "vision")
	assert.Contains(t, result.DiffRendering, "<del>")
	assert.Contains(t, result.DiffRendering, "<ins>")
	// Long unchanged runs collapse rather than being emitted in full.
	assert.Less(t, strings.Count(result.DiffRendering, "same line"), 24)
}

func TestRenderingEscapesMarkup(t *testing.T) {
	c := NewComparator()
	result := c.Compare("tesseract", "<script>alert(1)</script>", "vision", "<b>bold</b>")
	assert.NotContains(t, result.DiffRendering, "<script>")
	assert.Contains(t, result.DiffRendering, "&lt;")
}

// A rendering failure must degrade to an empty rendering while leaving every
// other field of the record populated.
func TestRenderingFailureDegradesGracefully(t *testing.T) {
	c := NewComparator()
	c.renderFn = func(_, _, _, _ string) string {
		panic("pathological input")
	}

	result := c.Compare("tesseract", "left words here", "vision", "right words here")

	assert.Equal(t, "", result.DiffRendering)
	assert.Greater(t, result.MatchingRate, 0.0)
	assert.Greater(t, result.SimilarityScore, 0.0)
	assert.NotEmpty(t, result.CommonWords)
	assert.NotEmpty(t, result.Differences)
	assert.Equal(t, 1, c.History().Len())
}

func TestCompareSymmetry(t *testing.T) {
	a := "The quick brown fox jumps over the lazy dog"
	b := "The qu1ck brown fox jumped over a lazy dog"

	forward := NewComparator().Compare("tesseract", a, "vision", b)
	backward := NewComparator().Compare("vision", b, "tesseract", a)

	assert.InDelta(t, forward.MatchingRate, backward.MatchingRate, 1e-12)
	assert.InDelta(t, forward.SimilarityScore, backward.SimilarityScore, 1e-12)
	assert.Equal(t, forward.CommonWords, backward.CommonWords)
	assert.Equal(t, forward.UniqueLeft, backward.UniqueRight)
	assert.Equal(t, forward.UniqueRight, backward.UniqueLeft)
}
