/**
 * Text Utilities - OCR output cleanup, chunking, and keyword extraction
 *
 * OCR engines emit full-width/half-width variants, stray control characters
 * and ragged whitespace. Everything downstream (comparison, embedding,
 * retrieval) assumes the text has been through CleanOCRText first.
 */

package textutil

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	multiSpace   = regexp.MustCompile(`[ \t]+`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// CleanOCRText normalizes raw engine output: NFKC folding (full-width digits
// and latin letters become their half-width forms), control characters
// stripped, runs of spaces and blank lines collapsed.
func CleanOCRText(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	text = b.String()

	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ChunkText splits text into overlapping chunks for embedding. Split points
// prefer paragraph breaks, then sentence ends, then whitespace, falling back
// to a hard cut. chunkSize and overlap are in runes.
func ChunkText(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunk := strings.TrimSpace(string(runes[start:]))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := findSplitPoint(runes, start, end)
		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// findSplitPoint searches backwards from end for a natural boundary within
// the second half of the window.
func findSplitPoint(runes []rune, start, end int) int {
	min := start + (end-start)/2

	for i := end - 1; i > min; i-- {
		if runes[i] == '\n' && i > 0 && runes[i-1] == '\n' {
			return i
		}
	}
	for i := end - 1; i > min; i-- {
		switch runes[i] {
		case '.', '!', '?', '。', '！', '？':
			return i + 1
		}
	}
	for i := end - 1; i > min; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return end
}

// ExtractKeywords returns the top-n most frequent words of at least minLen
// runes, lowercased, most frequent first. Ties break alphabetically so the
// result is stable.
func ExtractKeywords(text string, n, minLen int) []string {
	if text == "" || n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(text, -1) {
		word = strings.ToLower(word)
		if len([]rune(word)) < minLen {
			continue
		}
		counts[word]++
	}
	if len(counts) == 0 {
		return nil
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
