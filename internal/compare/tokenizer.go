/**
 * Tokenizer - Word extraction for OCR output comparison
 *
 * Splits raw OCR text into comparable word tokens. Tokens are the verbatim
 * matched substrings: no case folding, no stemming, no stop-word removal.
 */

package compare

import "regexp"

// wordPattern matches runs of word constituents: letters and digits in any
// script, plus the underscore connector. Everything else is a separator.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize splits text into an ordered sequence of word tokens.
// Empty, whitespace-only, or punctuation-only input yields an empty sequence.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return wordPattern.FindAllString(text, -1)
}
