/**
 * Report Builder - Comparison records and side-by-side diff rendering
 *
 * Compare runs the full tokenize -> align -> metrics pipeline over the output
 * of two OCR engines and packages the result into an immutable record. The
 * HTML rendering is best-effort: the scalar metrics are the load-bearing
 * output, so a rendering failure degrades to an empty string and a log line
 * instead of failing the comparison.
 */

package compare

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/scandex/ocrcompare-worker/internal/logging"
)

// diffContextLines is the number of unchanged lines kept around each changed
// region in the rendering; longer equal runs are collapsed.
const diffContextLines = 3

// EngineOutput captures one engine's contribution to a comparison.
type EngineOutput struct {
	Engine    string `json:"engine"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}

// ComparisonResult is the aggregate output of one comparison. It is created
// once per comparison and never mutated afterward.
type ComparisonResult struct {
	Timestamp       time.Time     `json:"timestamp"`
	Left            EngineOutput  `json:"left"`
	Right           EngineOutput  `json:"right"`
	MatchingRate    float64       `json:"matching_rate"`
	SimilarityScore float64       `json:"similarity_score"`
	Differences     []AlignmentOp `json:"differences"`
	CommonWords     []string      `json:"common_words"`
	UniqueLeft      []string      `json:"unique_left"`
	UniqueRight     []string      `json:"unique_right"`
	DiffRendering   string        `json:"diff_rendering,omitempty"`
}

// Comparator runs comparisons and accumulates them into its history.
type Comparator struct {
	logger  *logging.Logger
	history *History

	// renderFn is swappable so rendering failure paths can be exercised.
	renderFn func(leftName, leftText, rightName, rightText string) string
}

// NewComparator creates a comparator with an empty history.
func NewComparator() *Comparator {
	return &Comparator{
		logger:   logging.NewLogger("Comparator"),
		history:  NewHistory(),
		renderFn: renderSideBySide,
	}
}

// History returns the comparator's append-only comparison history.
func (c *Comparator) History() *History {
	return c.history
}

// Compare tokenizes, aligns, and scores two engine outputs, appends the
// record to the history, and returns it. Both texts must come from the same
// source document; the comparison itself is a pure function of the two texts.
func (c *Comparator) Compare(leftEngine, leftText, rightEngine, rightText string) *ComparisonResult {
	leftWords := Tokenize(leftText)
	rightWords := Tokenize(rightText)

	ops := Align(leftWords, rightWords)
	common, uniqueLeft, uniqueRight := WordSets(leftWords, rightWords)

	result := &ComparisonResult{
		Timestamp: time.Now(),
		Left: EngineOutput{
			Engine:    leftEngine,
			Text:      leftText,
			WordCount: len(leftWords),
			CharCount: utf8.RuneCountInString(leftText),
		},
		Right: EngineOutput{
			Engine:    rightEngine,
			Text:      rightText,
			WordCount: len(rightWords),
			CharCount: utf8.RuneCountInString(rightText),
		},
		MatchingRate:    MatchingRate(leftWords, rightWords),
		SimilarityScore: CharRatio(leftText, rightText),
		Differences:     Differences(ops),
		CommonWords:     common,
		UniqueLeft:      uniqueLeft,
		UniqueRight:     uniqueRight,
		DiffRendering:   c.renderDiff(leftEngine, leftText, rightEngine, rightText),
	}

	c.history.Append(result)
	return result
}

// renderDiff produces the human-readable rendering, recovering from any
// failure so the comparison record is always fully populated.
func (c *Comparator) renderDiff(leftName, leftText, rightName, rightText string) (rendering string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Diff rendering failed, returning empty rendering", "cause", fmt.Sprintf("%v", r))
			rendering = ""
		}
	}()
	return c.renderFn(leftName, leftText, rightName, rightText)
}

// renderSideBySide builds a four-column HTML table: line number and text for
// the left engine, line number and text for the right engine. Replaced lines
// carry inline <del>/<ins> word highlighting; unchanged runs longer than the
// context window collapse into a separator row.
func renderSideBySide(leftName, leftText, rightName, rightText string) string {
	leftLines := strings.Split(leftText, "\n")
	rightLines := strings.Split(rightText, "\n")

	matcher := difflib.NewMatcher(leftLines, rightLines)
	groups := matcher.GetGroupedOpCodes(diffContextLines)

	var b strings.Builder
	b.WriteString(`<table class="ocr-diff">`)
	fmt.Fprintf(&b, `<thead><tr><th></th><th>%s</th><th></th><th>%s</th></tr></thead><tbody>`,
		html.EscapeString(leftName), html.EscapeString(rightName))

	for gi, group := range groups {
		if gi > 0 {
			b.WriteString(`<tr class="skip"><td colspan="4">&hellip;</td></tr>`)
		}
		for _, oc := range group {
			writeOpcodeRows(&b, oc, leftLines, rightLines)
		}
	}

	b.WriteString(`</tbody></table>`)
	return b.String()
}

func writeOpcodeRows(b *strings.Builder, oc difflib.OpCode, leftLines, rightLines []string) {
	switch oc.Tag {
	case 'e':
		for k := 0; k < oc.I2-oc.I1; k++ {
			line := html.EscapeString(leftLines[oc.I1+k])
			writeRow(b, oc.I1+k+1, line, oc.J1+k+1, line, "ctx")
		}
	case 'r':
		n := oc.I2 - oc.I1
		if m := oc.J2 - oc.J1; m > n {
			n = m
		}
		for k := 0; k < n; k++ {
			var leftCell, rightCell string
			leftNum, rightNum := 0, 0
			switch {
			case oc.I1+k < oc.I2 && oc.J1+k < oc.J2:
				leftCell, rightCell = highlightInline(leftLines[oc.I1+k], rightLines[oc.J1+k])
				leftNum, rightNum = oc.I1+k+1, oc.J1+k+1
			case oc.I1+k < oc.I2:
				leftCell = html.EscapeString(leftLines[oc.I1+k])
				leftNum = oc.I1 + k + 1
			default:
				rightCell = html.EscapeString(rightLines[oc.J1+k])
				rightNum = oc.J1 + k + 1
			}
			writeRow(b, leftNum, leftCell, rightNum, rightCell, "chg")
		}
	case 'd':
		for k := oc.I1; k < oc.I2; k++ {
			writeRow(b, k+1, html.EscapeString(leftLines[k]), 0, "", "del")
		}
	case 'i':
		for k := oc.J1; k < oc.J2; k++ {
			writeRow(b, 0, "", k+1, html.EscapeString(rightLines[k]), "ins")
		}
	}
}

func writeRow(b *strings.Builder, leftNum int, leftCell string, rightNum int, rightCell, class string) {
	fmt.Fprintf(b, `<tr class="%s"><td class="ln">%s</td><td>%s</td><td class="ln">%s</td><td>%s</td></tr>`,
		class, lineNum(leftNum), leftCell, lineNum(rightNum), rightCell)
}

func lineNum(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// highlightInline marks the character spans that differ between a replaced
// line pair: deletions on the left cell, insertions on the right cell.
func highlightInline(left, right string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(left, right, false))

	var lb, rb strings.Builder
	for _, d := range diffs {
		escaped := html.EscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			lb.WriteString(escaped)
			rb.WriteString(escaped)
		case diffmatchpatch.DiffDelete:
			lb.WriteString("<del>" + escaped + "</del>")
		case diffmatchpatch.DiffInsert:
			rb.WriteString("<ins>" + escaped + "</ins>")
		}
	}
	return lb.String(), rb.String()
}
