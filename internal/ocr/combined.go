/**
 * Combined Engine - Runs both engines for cross-engine comparison
 *
 * Runs the local and remote engines concurrently over the same input and
 * exposes both results for downstream comparison. For PDF input the local
 * engine needs raster pages, so the document is rasterized once and both
 * engines process the page images.
 */

package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const rasterizeDPI = 300

// CombinedEngine runs two engines over the same document
type CombinedEngine struct {
	primary    Engine
	secondary  Engine
	rasterizer Rasterizer
}

// NewCombinedEngine creates a combined engine. rasterizer may be nil, in
// which case PDF input is rejected.
func NewCombinedEngine(primary, secondary Engine, rasterizer Rasterizer) *CombinedEngine {
	return &CombinedEngine{
		primary:    primary,
		secondary:  secondary,
		rasterizer: rasterizer,
	}
}

// Kind identifies this engine.
func (c *CombinedEngine) Kind() EngineKind {
	return EngineCombined
}

// Engines returns the two wrapped engines, primary first.
func (c *CombinedEngine) Engines() (Engine, Engine) {
	return c.primary, c.secondary
}

// ExtractText satisfies the Engine interface by running both engines and
// returning the higher-confidence result. Callers that want both results use
// ExtractBoth.
func (c *CombinedEngine) ExtractText(ctx context.Context, fileData []byte, mimeType string) (*Result, error) {
	primary, secondary, err := c.ExtractBoth(ctx, fileData, mimeType)
	if err != nil {
		return nil, err
	}
	if secondary.Confidence > primary.Confidence {
		return secondary, nil
	}
	return primary, nil
}

// ExtractBoth runs both engines concurrently and returns both results. It
// fails if either engine fails: a comparison with one side missing is not a
// comparison.
func (c *CombinedEngine) ExtractBoth(ctx context.Context, fileData []byte, mimeType string) (*Result, *Result, error) {
	if mimeType == "application/pdf" {
		return c.extractBothPDF(ctx, fileData)
	}

	var wg sync.WaitGroup
	var primaryResult, secondaryResult *Result
	var primaryErr, secondaryErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		primaryResult, primaryErr = c.primary.ExtractText(ctx, fileData, mimeType)
	}()
	go func() {
		defer wg.Done()
		secondaryResult, secondaryErr = c.secondary.ExtractText(ctx, fileData, mimeType)
	}()
	wg.Wait()

	if primaryErr != nil {
		return nil, nil, fmt.Errorf("%s engine failed: %w", c.primary.Kind(), primaryErr)
	}
	if secondaryErr != nil {
		return nil, nil, fmt.Errorf("%s engine failed: %w", c.secondary.Kind(), secondaryErr)
	}

	return primaryResult, secondaryResult, nil
}

// extractBothPDF rasterizes the PDF once, then runs both engines over each
// page image. Page numbering follows raster order.
func (c *CombinedEngine) extractBothPDF(ctx context.Context, pdfData []byte) (*Result, *Result, error) {
	if c.rasterizer == nil {
		return nil, nil, fmt.Errorf("PDF input requires a rasterizer")
	}

	startTime := time.Now()

	images, err := c.rasterizer.RasterizePDF(ctx, pdfData, rasterizeDPI)
	if err != nil {
		return nil, nil, fmt.Errorf("PDF rasterization failed: %w", err)
	}
	if len(images) == 0 {
		return nil, nil, fmt.Errorf("PDF rasterization produced no pages")
	}

	primaryPages := make([]Page, 0, len(images))
	secondaryPages := make([]Page, 0, len(images))

	for i, image := range images {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		var wg sync.WaitGroup
		var pRes, sRes *Result
		var pErr, sErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			pRes, pErr = c.primary.ExtractText(ctx, image, "image/png")
		}()
		go func() {
			defer wg.Done()
			sRes, sErr = c.secondary.ExtractText(ctx, image, "image/png")
		}()
		wg.Wait()

		if pErr != nil {
			return nil, nil, fmt.Errorf("%s engine failed on page %d: %w", c.primary.Kind(), i+1, pErr)
		}
		if sErr != nil {
			return nil, nil, fmt.Errorf("%s engine failed on page %d: %w", c.secondary.Kind(), i+1, sErr)
		}

		primaryPages = append(primaryPages, renumberPage(pRes, i+1))
		secondaryPages = append(secondaryPages, renumberPage(sRes, i+1))
	}

	duration := time.Since(startTime)
	return assemblePDFResult(c.primary.Kind(), primaryPages, duration),
		assemblePDFResult(c.secondary.Kind(), secondaryPages, duration),
		nil
}

// renumberPage lifts the single page of a per-image result to its position
// in the document.
func renumberPage(res *Result, pageNumber int) Page {
	page := Page{PageNumber: pageNumber}
	if len(res.Pages) > 0 {
		page = res.Pages[0]
		page.PageNumber = pageNumber
	} else {
		page.Text = res.Text
		page.Confidence = res.Confidence
	}
	return page
}

func assemblePDFResult(kind EngineKind, pages []Page, duration time.Duration) *Result {
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	return &Result{
		Engine:     kind,
		Text:       strings.Join(texts, "\n\n"),
		Confidence: meanConfidence(pages),
		Pages:      pages,
		Duration:   duration,
	}
}
