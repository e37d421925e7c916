/**
 * Tesseract Engine - Local offline OCR
 *
 * Free, offline recognition via Tesseract. Word-level confidence comes from
 * RIL_WORD bounding boxes; words below the confidence threshold are dropped
 * from the recognized text, matching what the vision service does remotely.
 */

package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

const defaultConfidenceThreshold = 0.5

// TesseractConfig holds Tesseract configuration
type TesseractConfig struct {
	TesseractPath       string
	Languages           []string
	ConfidenceThreshold float64
}

// TesseractEngine performs OCR using a local Tesseract installation
type TesseractEngine struct {
	tesseractPath string
	languages     []string
	threshold     float64
}

// NewTesseractEngine creates a new Tesseract engine
func NewTesseractEngine(cfg TesseractConfig) (*TesseractEngine, error) {
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "/usr/bin/tesseract"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"jpn", "eng"}
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = defaultConfidenceThreshold
	}

	return &TesseractEngine{
		tesseractPath: cfg.TesseractPath,
		languages:     cfg.Languages,
		threshold:     cfg.ConfidenceThreshold,
	}, nil
}

// Kind identifies this engine.
func (t *TesseractEngine) Kind() EngineKind {
	return EngineTesseract
}

// ExtractText performs OCR on a single image. PDF input is rejected:
// Tesseract reads raster images only, and PDF handling belongs to the
// combined engine's rasterization path.
func (t *TesseractEngine) ExtractText(ctx context.Context, fileData []byte, mimeType string) (*Result, error) {
	if mimeType == "application/pdf" {
		return nil, fmt.Errorf("tesseract engine cannot read PDF input directly")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages %v: %w", t.languages, err)
	}
	if err := client.SetImageFromBytes(fileData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	page := t.buildPage(boxes)

	// No word boxes at all (blank page or unsupported content): fall back to
	// plain text extraction with a heuristic confidence.
	if len(page.Words) == 0 && page.Text == "" {
		text, err := client.Text()
		if err != nil {
			return nil, fmt.Errorf("tesseract text extraction failed: %w", err)
		}
		page.Text = strings.TrimSpace(text)
		page.Confidence = estimateConfidence(page.Text)
	}

	return &Result{
		Engine:     EngineTesseract,
		Text:       page.Text,
		Confidence: page.Confidence,
		Pages:      []Page{page},
		Duration:   time.Since(startTime),
	}, nil
}

// buildPage converts word boxes into a page, dropping words below the
// confidence threshold. Tesseract reports confidence on a 0-100 scale.
func (t *TesseractEngine) buildPage(boxes []gosseract.BoundingBox) Page {
	page := Page{PageNumber: 1}

	var kept []string
	var confSum float64
	for _, box := range boxes {
		confidence := box.Confidence / 100.0
		if confidence < t.threshold {
			continue
		}
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		page.Words = append(page.Words, Word{
			Text:       text,
			Confidence: confidence,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
		})
		kept = append(kept, text)
		confSum += confidence
	}

	page.Text = strings.Join(kept, " ")
	if len(page.Words) > 0 {
		page.Confidence = confSum / float64(len(page.Words))
	}
	return page
}

// estimateConfidence scores text quality when no word-level confidence is
// available. Capped below 1.0: a heuristic never claims certainty.
func estimateConfidence(text string) float64 {
	if text == "" {
		return 0.0
	}

	confidence := 0.5
	if len(text) > 1000 {
		confidence += 0.1
	}
	if len(text) > 5000 {
		confidence += 0.1
	}
	if len(strings.Fields(text)) > 100 {
		confidence += 0.1
	}

	alphaCount := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alphaCount++
		}
	}
	alphaRatio := float64(alphaCount) / float64(len(text))
	if alphaRatio > 0.5 && alphaRatio < 0.9 {
		confidence += 0.1
	}

	if confidence > 0.85 {
		confidence = 0.85
	}
	return confidence
}
