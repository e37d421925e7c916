/**
 * History Aggregator - Append-only comparison history and corpus statistics
 *
 * The history grows for the lifetime of the hosting processor; bounded
 * retention is a caller policy, not enforced here. Appends are serialized so
 * concurrent comparison jobs can share one history; reads take consistent
 * snapshots.
 */

package compare

import (
	"encoding/json"
	"io"
	"sync"
)

// History is a process-scoped, append-only sequence of comparison results.
type History struct {
	mu      sync.Mutex
	results []*ComparisonResult
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a result to the history. Results must not be mutated after
// being appended.
func (h *History) Append(result *ComparisonResult) {
	if result == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, result)
}

// Len returns the number of stored results.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results)
}

// Results returns a snapshot of the stored results in append order.
func (h *History) Results() []*ComparisonResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	snapshot := make([]*ComparisonResult, len(h.results))
	copy(snapshot, h.results)
	return snapshot
}

// AggregateStats summarizes a comparison history for dashboards and export.
type AggregateStats struct {
	TotalComparisons       int     `json:"total_comparisons"`
	AverageMatchingRate    float64 `json:"average_matching_rate"`
	AverageSimilarityScore float64 `json:"average_similarity_score"`
	TotalDifferences       int     `json:"total_differences"`
	LeftMeanWordCount      float64 `json:"left_mean_word_count"`
	RightMeanWordCount     float64 `json:"right_mean_word_count"`
	AverageCommonWords     float64 `json:"average_common_words"`
	DistinctCommonWords    int     `json:"distinct_common_words"`
	LeftMeanUniqueWords    float64 `json:"left_mean_unique_words"`
	RightMeanUniqueWords   float64 `json:"right_mean_unique_words"`
}

// Statistics computes aggregate statistics over the stored results. An empty
// history yields nil: "no data yet" is a distinct state from "zero agreement"
// and callers must not conflate the two.
func (h *History) Statistics() *AggregateStats {
	results := h.Results()
	if len(results) == 0 {
		return nil
	}

	stats := &AggregateStats{TotalComparisons: len(results)}
	distinctCommon := make(map[string]struct{})

	var matchingSum, similaritySum float64
	var leftWords, rightWords, commonSum, uniqueLeftSum, uniqueRightSum int
	for _, r := range results {
		matchingSum += r.MatchingRate
		similaritySum += r.SimilarityScore
		stats.TotalDifferences += len(r.Differences)
		leftWords += r.Left.WordCount
		rightWords += r.Right.WordCount
		commonSum += len(r.CommonWords)
		uniqueLeftSum += len(r.UniqueLeft)
		uniqueRightSum += len(r.UniqueRight)
		for _, w := range r.CommonWords {
			distinctCommon[w] = struct{}{}
		}
	}

	n := float64(len(results))
	stats.AverageMatchingRate = matchingSum / n
	stats.AverageSimilarityScore = similaritySum / n
	stats.LeftMeanWordCount = float64(leftWords) / n
	stats.RightMeanWordCount = float64(rightWords) / n
	stats.AverageCommonWords = float64(commonSum) / n
	stats.DistinctCommonWords = len(distinctCommon)
	stats.LeftMeanUniqueWords = float64(uniqueLeftSum) / n
	stats.RightMeanUniqueWords = float64(uniqueRightSum) / n
	return stats
}

// ExportJSON writes the full history as indented JSON for audit or offline
// analysis.
func (h *History) ExportJSON(w io.Writer) error {
	results := h.Results()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
