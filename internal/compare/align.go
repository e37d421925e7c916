/**
 * Aligner - Edit-script computation between two OCR token sequences
 *
 * Word-level alignment produces a typed edit script (equal/replace/delete/insert)
 * covering the full index range of both sequences with no gaps and no overlaps.
 * Character-level similarity is a separate statistic computed over the raw text.
 *
 * Both are backed by the longest-matching-block sequence matcher, which gives a
 * deterministic earliest-match tie-break when multiple alignments exist.
 */

package compare

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// OpKind identifies one segment type in an edit script.
type OpKind string

const (
	OpEqual   OpKind = "equal"
	OpReplace OpKind = "replace"
	OpDelete  OpKind = "delete"
	OpInsert  OpKind = "insert"
)

// AlignmentOp is one segment of the edit script between two token sequences.
// Ranges are half-open index intervals into the left and right sequences.
// The ordered concatenation of all left ranges reconstructs the left sequence
// exactly; same for the right side.
type AlignmentOp struct {
	Kind        OpKind   `json:"kind"`
	LeftStart   int      `json:"left_start"`
	LeftEnd     int      `json:"left_end"`
	RightStart  int      `json:"right_start"`
	RightEnd    int      `json:"right_end"`
	LeftTokens  []string `json:"left_tokens"`
	RightTokens []string `json:"right_tokens"`
}

// Align computes the full edit script between two token sequences.
// The result is deterministic: identical inputs always produce identical
// scripts, stable across repeated calls.
func Align(left, right []string) []AlignmentOp {
	matcher := difflib.NewMatcher(left, right)

	opcodes := matcher.GetOpCodes()
	ops := make([]AlignmentOp, 0, len(opcodes))
	for _, oc := range opcodes {
		ops = append(ops, AlignmentOp{
			Kind:        kindFromTag(oc.Tag),
			LeftStart:   oc.I1,
			LeftEnd:     oc.I2,
			RightStart:  oc.J1,
			RightEnd:    oc.J2,
			LeftTokens:  copyTokens(left[oc.I1:oc.I2]),
			RightTokens: copyTokens(right[oc.J1:oc.J2]),
		})
	}
	return ops
}

// Differences returns only the non-equal segments of an edit script, in order.
func Differences(ops []AlignmentOp) []AlignmentOp {
	diffs := make([]AlignmentOp, 0, len(ops))
	for _, op := range ops {
		if op.Kind != OpEqual {
			diffs = append(diffs, op)
		}
	}
	return diffs
}

// CharRatio computes the character-level similarity between two raw texts as
// 2*M/T, where M is the total length of matching blocks and T the sum of both
// text lengths. If either text is empty the ratio is 0.0 — including when both
// are empty, which deliberately differs from the word-level MatchingRate
// convention (1.0 for two empty sequences).
func CharRatio(left, right string) float64 {
	if left == "" || right == "" {
		return 0.0
	}
	return difflib.NewMatcher(splitChars(left), splitChars(right)).Ratio()
}

func kindFromTag(tag byte) OpKind {
	switch tag {
	case 'e':
		return OpEqual
	case 'r':
		return OpReplace
	case 'd':
		return OpDelete
	case 'i':
		return OpInsert
	default:
		// The matcher only emits the four tags above.
		panic(fmt.Sprintf("unknown opcode tag %q", tag))
	}
}

func copyTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}
