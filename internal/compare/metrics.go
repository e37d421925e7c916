/**
 * Metrics - Scalar agreement measures and vocabulary statistics
 *
 * The matching rate is alignment-based (position and order matter); the word
 * sets are set-based (duplicates and positions collapse). Both views are kept
 * because they answer different questions about engine agreement.
 */

package compare

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// MatchingRate computes the word-level agreement between two token sequences
// as 2*M/T, where M is the number of alignment-matched tokens and T the sum of
// both sequence lengths.
//
// Conventions: both sequences empty -> 1.0 (full agreement on nothing);
// exactly one empty -> 0.0. Note the both-empty case differs from CharRatio.
func MatchingRate(left, right []string) float64 {
	if len(left) == 0 && len(right) == 0 {
		return 1.0
	}
	if len(left) == 0 || len(right) == 0 {
		return 0.0
	}
	return difflib.NewMatcher(left, right).Ratio()
}

// WordSets splits the two vocabularies into common, left-only, and right-only
// word sets. Duplicates collapse and positions are lost; the sets are returned
// sorted so repeated calls produce identical output.
func WordSets(left, right []string) (common, uniqueLeft, uniqueRight []string) {
	leftSet := make(map[string]struct{}, len(left))
	for _, w := range left {
		leftSet[w] = struct{}{}
	}
	rightSet := make(map[string]struct{}, len(right))
	for _, w := range right {
		rightSet[w] = struct{}{}
	}

	common = make([]string, 0)
	uniqueLeft = make([]string, 0)
	uniqueRight = make([]string, 0)

	for w := range leftSet {
		if _, ok := rightSet[w]; ok {
			common = append(common, w)
		} else {
			uniqueLeft = append(uniqueLeft, w)
		}
	}
	for w := range rightSet {
		if _, ok := leftSet[w]; !ok {
			uniqueRight = append(uniqueRight, w)
		}
	}

	sort.Strings(common)
	sort.Strings(uniqueLeft)
	sort.Strings(uniqueRight)
	return common, uniqueLeft, uniqueRight
}
