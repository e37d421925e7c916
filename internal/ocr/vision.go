/**
 * Vision Engine - Remote OCR via the vision service
 *
 * Wraps the vision client behind the Engine interface. Images go through
 * extract-text; PDFs go through the service's own PDF pipeline, which returns
 * per-page results directly.
 */

package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scandex/ocrcompare-worker/internal/clients"
)

// VisionBackend is the slice of the vision client the engine needs.
type VisionBackend interface {
	ExtractTextFromBytes(ctx context.Context, imageData []byte, language string) (*clients.VisionExtractResponse, error)
	ProcessPDF(ctx context.Context, pdfData []byte, filename string) (*clients.PDFProcessResponse, error)
}

// VisionEngine performs OCR through the remote vision service
type VisionEngine struct {
	backend   VisionBackend
	threshold float64
}

// NewVisionEngine creates a new vision engine
func NewVisionEngine(backend VisionBackend, threshold float64) *VisionEngine {
	if threshold <= 0 {
		threshold = defaultConfidenceThreshold
	}
	return &VisionEngine{
		backend:   backend,
		threshold: threshold,
	}
}

// Kind identifies this engine.
func (v *VisionEngine) Kind() EngineKind {
	return EngineVision
}

// ExtractText recognizes text from image or PDF bytes.
func (v *VisionEngine) ExtractText(ctx context.Context, fileData []byte, mimeType string) (*Result, error) {
	if mimeType == "application/pdf" {
		return v.extractPDF(ctx, fileData)
	}
	return v.extractImage(ctx, fileData)
}

func (v *VisionEngine) extractImage(ctx context.Context, imageData []byte) (*Result, error) {
	startTime := time.Now()

	resp, err := v.backend.ExtractTextFromBytes(ctx, imageData, "multi")
	if err != nil {
		return nil, fmt.Errorf("vision extraction failed: %w", err)
	}

	page := Page{
		PageNumber: 1,
		Text:       resp.Data.Text,
		Confidence: resp.Data.Confidence,
	}

	// When the service reports word detections, apply the same confidence
	// filter the local engine uses and rebuild the text from surviving words.
	if len(resp.Data.Words) > 0 {
		var kept []string
		var confSum float64
		for _, w := range resp.Data.Words {
			if w.Confidence < v.threshold {
				continue
			}
			page.Words = append(page.Words, Word{
				Text:       w.Text,
				Confidence: w.Confidence,
				X:          w.X,
				Y:          w.Y,
				Width:      w.Width,
				Height:     w.Height,
			})
			kept = append(kept, w.Text)
			confSum += w.Confidence
		}
		if len(page.Words) > 0 {
			page.Text = strings.Join(kept, " ")
			page.Confidence = confSum / float64(len(page.Words))
		} else {
			page.Text = ""
			page.Confidence = 0.0
		}
	}

	return &Result{
		Engine:     EngineVision,
		Text:       page.Text,
		Confidence: page.Confidence,
		Pages:      []Page{page},
		Duration:   time.Since(startTime),
	}, nil
}

func (v *VisionEngine) extractPDF(ctx context.Context, pdfData []byte) (*Result, error) {
	startTime := time.Now()

	resp, err := v.backend.ProcessPDF(ctx, pdfData, "document.pdf")
	if err != nil {
		return nil, fmt.Errorf("vision PDF processing failed: %w", err)
	}

	pages := make([]Page, 0, len(resp.Data.Pages))
	var texts []string
	for _, p := range resp.Data.Pages {
		pages = append(pages, Page{
			PageNumber: p.PageNumber,
			Text:       p.Text,
			Confidence: p.Confidence,
		})
		texts = append(texts, p.Text)
	}

	text := resp.Data.Text
	if text == "" {
		text = strings.Join(texts, "\n\n")
	}

	confidence := resp.Data.Confidence
	if confidence == 0 {
		confidence = meanConfidence(pages)
	}

	return &Result{
		Engine:     EngineVision,
		Text:       text,
		Confidence: confidence,
		Pages:      pages,
		Duration:   time.Since(startTime),
	}, nil
}
