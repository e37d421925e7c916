/**
 * Vision Client - Remote vision OCR service
 *
 * Thin HTTP client for the vision OCR service. The service owns model
 * selection and PDF handling; this client just ships image/PDF bytes and
 * returns recognized text with per-page confidence.
 */

package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scandex/ocrcompare-worker/internal/logging"
)

// VisionClient handles communication with the vision OCR service
type VisionClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// VisionExtractRequest represents a request to extract text from an image
type VisionExtractRequest struct {
	Image    string                 `json:"image"`    // Base64 encoded image
	Format   string                 `json:"format"`   // "base64"
	Language string                 `json:"language"` // Optional: "en", "ja", "multi"
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	JobID    string                 `json:"jobId,omitempty"`
}

// VisionExtractResponse represents a response from the extract-text endpoint
type VisionExtractResponse struct {
	Success bool              `json:"success"`
	Data    VisionExtractData `json:"data"`
	Message string            `json:"message"`
}

// VisionExtractData contains the extracted text and metadata
type VisionExtractData struct {
	Text           string        `json:"text"`
	Confidence     float64       `json:"confidence"`
	Words          []VisionWord  `json:"words,omitempty"`
	ModelUsed      string        `json:"modelUsed"`
	ProcessingTime int64         `json:"processingTime"` // milliseconds
}

// VisionWord is a single detected word with its region and confidence
type VisionWord struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// PDFProcessResponse represents a response from the pdf/process endpoint
type PDFProcessResponse struct {
	Success bool           `json:"success"`
	Data    PDFProcessData `json:"data"`
	Message string         `json:"message"`
}

// PDFProcessData contains per-page extraction results for a PDF
type PDFProcessData struct {
	Text           string    `json:"text"`
	Pages          []PDFPage `json:"pages"`
	PageCount      int       `json:"pageCount"`
	Confidence     float64   `json:"confidence"`
	ModelUsed      string    `json:"modelUsed"`
	ProcessingTime int64     `json:"processingTime"`
}

// PDFPage represents a single page's recognized content
type PDFPage struct {
	PageNumber int     `json:"pageNumber"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// PDFRasterizeResponse represents a response from the pdf/rasterize endpoint
type PDFRasterizeResponse struct {
	Success bool   `json:"success"`
	Data    struct {
		Pages     []string `json:"pages"` // Base64 encoded PNG, one per page
		PageCount int      `json:"pageCount"`
	} `json:"data"`
	Message string `json:"message"`
}

// NewVisionClient creates a new vision OCR client
func NewVisionClient(baseURL string) *VisionClient {
	return &VisionClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // Vision tasks can take time
		},
		logger: logging.NewLogger("VisionClient"),
	}
}

// ExtractText extracts text from a single image
func (c *VisionClient) ExtractText(ctx context.Context, req *VisionExtractRequest) (*VisionExtractResponse, error) {
	c.logger.Info("Requesting text extraction",
		"language", req.Language,
		"imageSize", len(req.Image))

	endpoint := fmt.Sprintf("%s/api/vision/extract-text", c.baseURL)

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.post(ctx, endpoint, reqBody)
	if err != nil {
		return nil, err
	}

	var extractResp VisionExtractResponse
	if err := json.Unmarshal(body, &extractResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !extractResp.Success {
		return nil, fmt.Errorf("vision service operation failed: %s", extractResp.Message)
	}

	c.logger.Info("Text extraction complete",
		"modelUsed", extractResp.Data.ModelUsed,
		"confidence", extractResp.Data.Confidence,
		"processingTime", extractResp.Data.ProcessingTime,
		"textLength", len(extractResp.Data.Text))

	return &extractResp, nil
}

// ExtractTextFromBytes is a convenience method that handles base64 encoding
func (c *VisionClient) ExtractTextFromBytes(ctx context.Context, imageData []byte, language string) (*VisionExtractResponse, error) {
	req := &VisionExtractRequest{
		Image:    base64.StdEncoding.EncodeToString(imageData),
		Format:   "base64",
		Language: language,
		Metadata: map[string]interface{}{
			"source":    "ocrcompare-worker",
			"timestamp": time.Now().Unix(),
		},
	}

	return c.ExtractText(ctx, req)
}

// ProcessPDF extracts text from a PDF, one result per page. The service
// handles PDF to image conversion internally.
func (c *VisionClient) ProcessPDF(ctx context.Context, pdfData []byte, filename string) (*PDFProcessResponse, error) {
	c.logger.Info("Processing PDF via vision service",
		"filename", filename,
		"fileSize", len(pdfData))

	endpoint := fmt.Sprintf("%s/api/pdf/process", c.baseURL)

	reqBody, err := json.Marshal(map[string]interface{}{
		"fileBuffer": base64.StdEncoding.EncodeToString(pdfData),
		"filename":   filename,
		"format":     "base64",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.post(ctx, endpoint, reqBody)
	if err != nil {
		return nil, err
	}

	var pdfResp PDFProcessResponse
	if err := json.Unmarshal(body, &pdfResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !pdfResp.Success {
		return nil, fmt.Errorf("vision service PDF processing failed: %s", pdfResp.Message)
	}

	c.logger.Info("PDF processing complete",
		"modelUsed", pdfResp.Data.ModelUsed,
		"pageCount", pdfResp.Data.PageCount,
		"confidence", pdfResp.Data.Confidence,
		"textLength", len(pdfResp.Data.Text))

	return &pdfResp, nil
}

// RasterizePDF converts a PDF into one PNG image per page. Used when a local
// engine needs to run against PDF input.
func (c *VisionClient) RasterizePDF(ctx context.Context, pdfData []byte, dpi int) ([][]byte, error) {
	c.logger.Info("Rasterizing PDF", "fileSize", len(pdfData), "dpi", dpi)

	endpoint := fmt.Sprintf("%s/api/pdf/rasterize", c.baseURL)

	reqBody, err := json.Marshal(map[string]interface{}{
		"fileBuffer": base64.StdEncoding.EncodeToString(pdfData),
		"format":     "base64",
		"dpi":        dpi,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.post(ctx, endpoint, reqBody)
	if err != nil {
		return nil, err
	}

	var rasterResp PDFRasterizeResponse
	if err := json.Unmarshal(body, &rasterResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !rasterResp.Success {
		return nil, fmt.Errorf("vision service rasterization failed: %s", rasterResp.Message)
	}

	images := make([][]byte, 0, len(rasterResp.Data.Pages))
	for i, encoded := range rasterResp.Data.Pages {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode page %d image: %w", i+1, err)
		}
		images = append(images, decoded)
	}

	c.logger.Info("PDF rasterization complete", "pages", len(images))
	return images, nil
}

// HealthCheck verifies the vision service is available
func (c *VisionClient) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/health", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *VisionClient) post(ctx context.Context, endpoint string, reqBody []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Source", "ocrcompare-worker")
	httpReq.Header.Set("X-Request-ID", fmt.Sprintf("ocr-%d", time.Now().UnixNano()))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to vision service failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision service returned error status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
