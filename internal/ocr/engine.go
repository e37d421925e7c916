/**
 * OCR Engine - Engine selection and shared result types
 *
 * The engine set is closed: tesseract (local), vision (remote service), and
 * combined (both, for cross-engine comparison). Selection is an explicit
 * switch on EngineKind; an unknown kind is an error, never a silent default.
 */

package ocr

import (
	"context"
	"fmt"
	"time"
)

// EngineKind identifies one of the supported OCR engines.
type EngineKind string

const (
	EngineTesseract EngineKind = "tesseract"
	EngineVision    EngineKind = "vision"
	EngineCombined  EngineKind = "combined"
)

// ParseEngineKind validates a user-supplied engine name.
func ParseEngineKind(s string) (EngineKind, error) {
	switch EngineKind(s) {
	case EngineTesseract, EngineVision, EngineCombined:
		return EngineKind(s), nil
	default:
		return "", fmt.Errorf("unknown OCR engine %q (supported: tesseract, vision, combined)", s)
	}
}

// Word is a single recognized word with its region and confidence (0.0-1.0).
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// Page is the recognized content of one page.
type Page struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// Result is the full output of one engine run over one document.
type Result struct {
	Engine     EngineKind    `json:"engine"`
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
	Pages      []Page        `json:"pages"`
	Duration   time.Duration `json:"duration"`
}

// Engine extracts text from image or PDF bytes.
type Engine interface {
	Kind() EngineKind
	ExtractText(ctx context.Context, fileData []byte, mimeType string) (*Result, error)
}

// Rasterizer converts a PDF into one image per page. The vision client
// satisfies this; local engines use it to handle PDF input.
type Rasterizer interface {
	RasterizePDF(ctx context.Context, pdfData []byte, dpi int) ([][]byte, error)
}

// Deps carries everything engine construction can need. Fields unused by the
// selected kind may be zero.
type Deps struct {
	TesseractPath       string
	Languages           []string
	ConfidenceThreshold float64
	Vision              VisionBackend
	Rasterizer          Rasterizer
}

// New builds the engine for kind. Each case is spelled out: adding an engine
// means adding a case here, not registering a plugin.
func New(kind EngineKind, deps Deps) (Engine, error) {
	switch kind {
	case EngineTesseract:
		return NewTesseractEngine(TesseractConfig{
			TesseractPath:       deps.TesseractPath,
			Languages:           deps.Languages,
			ConfidenceThreshold: deps.ConfidenceThreshold,
		})
	case EngineVision:
		if deps.Vision == nil {
			return nil, fmt.Errorf("vision engine requires a vision backend")
		}
		return NewVisionEngine(deps.Vision, deps.ConfidenceThreshold), nil
	case EngineCombined:
		tess, err := NewTesseractEngine(TesseractConfig{
			TesseractPath:       deps.TesseractPath,
			Languages:           deps.Languages,
			ConfidenceThreshold: deps.ConfidenceThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("combined engine: %w", err)
		}
		if deps.Vision == nil {
			return nil, fmt.Errorf("combined engine requires a vision backend")
		}
		vision := NewVisionEngine(deps.Vision, deps.ConfidenceThreshold)
		return NewCombinedEngine(tess, vision, deps.Rasterizer), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", kind)
	}
}

// meanConfidence averages page confidences; zero pages yields zero.
func meanConfidence(pages []Page) float64 {
	if len(pages) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, p := range pages {
		sum += p.Confidence
	}
	return sum / float64(len(pages))
}
