package ocr

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine returns canned results keyed by input bytes.
type stubEngine struct {
	kind       EngineKind
	text       string
	confidence float64
	err        error
	calls      int
}

func (s *stubEngine) Kind() EngineKind { return s.kind }

func (s *stubEngine) ExtractText(_ context.Context, fileData []byte, _ string) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	text := s.text
	if text == "" {
		text = fmt.Sprintf("%s page %s", s.kind, string(fileData))
	}
	return &Result{
		Engine:     s.kind,
		Text:       text,
		Confidence: s.confidence,
		Pages:      []Page{{PageNumber: 1, Text: text, Confidence: s.confidence}},
	}, nil
}

type stubRasterizer struct {
	pages [][]byte
	err   error
}

func (s *stubRasterizer) RasterizePDF(_ context.Context, _ []byte, _ int) ([][]byte, error) {
	return s.pages, s.err
}

func TestParseEngineKind(t *testing.T) {
	for _, name := range []string{"tesseract", "vision", "combined"} {
		kind, err := ParseEngineKind(name)
		require.NoError(t, err)
		assert.Equal(t, EngineKind(name), kind)
	}

	_, err := ParseEngineKind("easyocr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "easyocr")
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(EngineKind("paddle"), Deps{})
	assert.Error(t, err)
}

func TestNewVisionRequiresBackend(t *testing.T) {
	_, err := New(EngineVision, Deps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend")
}

func TestCombinedExtractBothImage(t *testing.T) {
	primary := &stubEngine{kind: EngineTesseract, text: "local text", confidence: 0.7}
	secondary := &stubEngine{kind: EngineVision, text: "remote text", confidence: 0.9}
	combined := NewCombinedEngine(primary, secondary, nil)

	left, right, err := combined.ExtractBoth(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "local text", left.Text)
	assert.Equal(t, "remote text", right.Text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestCombinedExtractTextPicksHigherConfidence(t *testing.T) {
	primary := &stubEngine{kind: EngineTesseract, text: "local", confidence: 0.6}
	secondary := &stubEngine{kind: EngineVision, text: "remote", confidence: 0.95}
	combined := NewCombinedEngine(primary, secondary, nil)

	result, err := combined.ExtractText(context.Background(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, EngineVision, result.Engine)
	assert.Equal(t, "remote", result.Text)
}

func TestCombinedFailsWhenEitherEngineFails(t *testing.T) {
	primary := &stubEngine{kind: EngineTesseract, confidence: 0.7}
	secondary := &stubEngine{kind: EngineVision, err: fmt.Errorf("service unavailable")}
	combined := NewCombinedEngine(primary, secondary, nil)

	_, _, err := combined.ExtractBoth(context.Background(), []byte("img"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vision")
}

func TestCombinedPDFRasterizesOncePerDocument(t *testing.T) {
	primary := &stubEngine{kind: EngineTesseract, confidence: 0.7}
	secondary := &stubEngine{kind: EngineVision, confidence: 0.9}
	raster := &stubRasterizer{pages: [][]byte{[]byte("1"), []byte("2"), []byte("3")}}
	combined := NewCombinedEngine(primary, secondary, raster)

	left, right, err := combined.ExtractBoth(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)

	require.Len(t, left.Pages, 3)
	require.Len(t, right.Pages, 3)
	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 3, secondary.calls)

	for i, page := range left.Pages {
		assert.Equal(t, i+1, page.PageNumber)
	}
	assert.Equal(t, strings.Count(left.Text, "tesseract page"), 3)
	assert.InDelta(t, 0.7, left.Confidence, 1e-12)
	assert.InDelta(t, 0.9, right.Confidence, 1e-12)
}

func TestCombinedPDFWithoutRasterizer(t *testing.T) {
	combined := NewCombinedEngine(
		&stubEngine{kind: EngineTesseract},
		&stubEngine{kind: EngineVision},
		nil,
	)

	_, _, err := combined.ExtractBoth(context.Background(), []byte("%PDF"), "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterizer")
}

func TestMeanConfidence(t *testing.T) {
	assert.Equal(t, 0.0, meanConfidence(nil))
	pages := []Page{{Confidence: 0.6}, {Confidence: 0.8}}
	assert.InDelta(t, 0.7, meanConfidence(pages), 1e-12)
}

func TestEstimateConfidence(t *testing.T) {
	assert.Equal(t, 0.0, estimateConfidence(""))

	short := estimateConfidence("few words")
	long := estimateConfidence(strings.Repeat("plausible sentence with words ", 250))
	assert.Greater(t, long, short)
	assert.LessOrEqual(t, long, 0.85)
}
