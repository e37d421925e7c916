package compare

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmptyStatistics(t *testing.T) {
	h := NewHistory()
	assert.Nil(t, h.Statistics())
	assert.Equal(t, 0, h.Len())
}

func TestHistoryStatistics(t *testing.T) {
	c := NewComparator()
	c.Compare("tesseract", "alpha beta gamma delta epsilon", "vision", "alpha beta gamma delta zeta")
	c.Compare("tesseract", "one two three", "vision", "one two three")
	c.Compare("tesseract", "invoice total", "vision", "invoice totals")

	stats := c.History().Statistics()
	require.NotNil(t, stats)

	assert.Equal(t, 3, stats.TotalComparisons)
	assert.Greater(t, stats.AverageMatchingRate, 0.0)
	assert.LessOrEqual(t, stats.AverageMatchingRate, 1.0)
	assert.Greater(t, stats.AverageSimilarityScore, 0.0)
	// Two of three comparisons have exactly one differing region.
	assert.Equal(t, 2, stats.TotalDifferences)
	assert.InDelta(t, (5.0+3.0+2.0)/3.0, stats.LeftMeanWordCount, 1e-12)

	// alpha beta gamma delta / one two three / invoice: 8 distinct words
	// ever agreed on across the corpus.
	assert.Equal(t, 8, stats.DistinctCommonWords)
}

func TestHistoryAverageMatchingRate(t *testing.T) {
	h := NewHistory()
	for _, rate := range []float64{0.8, 0.9, 1.0} {
		h.Append(&ComparisonResult{MatchingRate: rate})
	}
	stats := h.Statistics()
	require.NotNil(t, stats)
	assert.InDelta(t, 0.9, stats.AverageMatchingRate, 1e-12)
}

func TestHistoryAppendNilIgnored(t *testing.T) {
	h := NewHistory()
	h.Append(nil)
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Statistics())
}

func TestHistoryResultsSnapshot(t *testing.T) {
	h := NewHistory()
	h.Append(&ComparisonResult{MatchingRate: 0.5})

	snapshot := h.Results()
	h.Append(&ComparisonResult{MatchingRate: 0.7})

	assert.Len(t, snapshot, 1)
	assert.Equal(t, 2, h.Len())
}

func TestHistoryExportJSON(t *testing.T) {
	c := NewComparator()
	c.Compare("tesseract", "hello world", "vision", "hello word")
	c.Compare("tesseract", "same", "vision", "same")

	var buf bytes.Buffer
	require.NoError(t, c.History().ExportJSON(&buf))

	var exported []ComparisonResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, "tesseract", exported[0].Left.Engine)
	assert.Equal(t, "vision", exported[0].Right.Engine)
	assert.Equal(t, 1.0, exported[1].MatchingRate)
}

func TestHistoryConcurrentAppends(t *testing.T) {
	h := NewHistory()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.Append(&ComparisonResult{MatchingRate: 1.0})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, h.Len())
	stats := h.Statistics()
	require.NotNil(t, stats)
	assert.Equal(t, 1000, stats.TotalComparisons)
	assert.InDelta(t, 1.0, stats.AverageMatchingRate, 1e-12)
}
