/**
 * Document Processor for OCR Compare Worker
 *
 * Orchestrates document processing:
 * - OCR via tesseract, the vision service, or both (combined)
 * - Cross-engine text comparison with per-page and whole-document reports
 * - Reconciliation of the two engine outputs into one canonical text
 * - Chunking and embedding for retrieval-based question answering
 */

package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/scandex/ocrcompare-worker/internal/clients"
	"github.com/scandex/ocrcompare-worker/internal/compare"
	apperrors "github.com/scandex/ocrcompare-worker/internal/errors"
	"github.com/scandex/ocrcompare-worker/internal/ocr"
	"github.com/scandex/ocrcompare-worker/internal/storage"
	"github.com/scandex/ocrcompare-worker/internal/textutil"
)

// ProcessorInterface defines the interface for document processing
type ProcessorInterface interface {
	ProcessDocument(ctx context.Context, req *ProcessRequest) (*ProcessResult, error)
	AnswerQuestion(ctx context.Context, req *QuestionRequest) (*QuestionResult, error)
	UpdateJobStatus(ctx context.Context, jobID string, status string, progress int, metadata map[string]interface{}) error
}

// ProcessorConfig holds processor configuration
type ProcessorConfig struct {
	OpenAIAPIKey        string
	EmbeddingModel      string
	ChatModel           string
	ChatTemperature     float64
	ChatMaxTokens       int
	VisionOCRURL        string
	NotionToken         string
	NotionDatabaseID    string
	TesseractPath       string
	TesseractLanguages  []string
	OCREngine           string
	ConfidenceThreshold float64
	ChunkSize           int
	ChunkOverlap        int
	MaxFileSize         int64
	MaxPageCount        int
	StorageManager      *storage.StorageManager
}

// ProcessRequest represents a document processing request
type ProcessRequest struct {
	JobID      string
	UserID     string
	Filename   string
	MimeType   string
	FileSize   int64
	FileURL    string
	FileBuffer []byte
	Metadata   map[string]interface{}
}

// ProcessResult represents the processing result
type ProcessResult struct {
	Engine           string
	ReconciledFrom   string
	Confidence       float64
	PageCount        int
	MatchingRate     float64
	SimilarityScore  float64
	DifferencesFound int
	ChunksStored     int
	ProcessingTimeMs int64
}

// QuestionRequest represents a question about a processed document
type QuestionRequest struct {
	JobID    string
	Question string
}

// QuestionResult represents a generated answer with its grounding
type QuestionResult struct {
	Answer       string
	SourceChunks []string
}

// DocumentProcessor handles document processing
type DocumentProcessor struct {
	config          *ProcessorConfig
	storage         *storage.StorageManager
	engineKind      ocr.EngineKind
	engine          ocr.Engine
	comparator      *compare.Comparator
	embeddingClient *EmbeddingClient
	visionClient    *clients.VisionClient
	chatClient      *clients.ChatClient
	notionClient    *clients.NotionClient
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(cfg *ProcessorConfig) (*DocumentProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.StorageManager == nil {
		return nil, fmt.Errorf("storage manager is required")
	}

	engineKind, err := ocr.ParseEngineKind(cfg.OCREngine)
	if err != nil {
		return nil, err
	}

	embeddingClient, err := NewEmbeddingClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	chatClient, err := clients.NewChatClient(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.ChatTemperature, cfg.ChatMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	var visionClient *clients.VisionClient
	if engineKind == ocr.EngineVision || engineKind == ocr.EngineCombined {
		if cfg.VisionOCRURL == "" {
			return nil, fmt.Errorf("vision OCR URL is required for engine %q", engineKind)
		}
		visionClient = clients.NewVisionClient(cfg.VisionOCRURL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := visionClient.HealthCheck(ctx); err != nil {
			log.Printf("WARNING: Vision service health check failed: %v. OCR requests may fail.", err)
		} else {
			log.Printf("Vision service connection verified: %s", cfg.VisionOCRURL)
		}
	}

	deps := ocr.Deps{
		TesseractPath:       cfg.TesseractPath,
		Languages:           cfg.TesseractLanguages,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
	}
	if visionClient != nil {
		deps.Vision = visionClient
		deps.Rasterizer = visionClient
	}

	engine, err := ocr.New(engineKind, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	var notionClient *clients.NotionClient
	if cfg.NotionToken != "" && cfg.NotionDatabaseID != "" {
		notionClient, err = clients.NewNotionClient(cfg.NotionToken, cfg.NotionDatabaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Notion client: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := notionClient.HealthCheck(ctx); err != nil {
			log.Printf("WARNING: Notion health check failed: %v. Summaries will not be exported.", err)
		}
	} else {
		log.Printf("Notion export not configured, comparison summaries stay local")
	}

	return &DocumentProcessor{
		config:          cfg,
		storage:         cfg.StorageManager,
		engineKind:      engineKind,
		engine:          engine,
		comparator:      compare.NewComparator(),
		embeddingClient: embeddingClient,
		visionClient:    visionClient,
		chatClient:      chatClient,
		notionClient:    notionClient,
	}, nil
}

// ComparisonHistory exposes the processor's accumulated comparison history.
func (p *DocumentProcessor) ComparisonHistory() *compare.History {
	return p.comparator.History()
}

// ProcessDocument processes a document through the complete pipeline
func (p *DocumentProcessor) ProcessDocument(ctx context.Context, req *ProcessRequest) (*ProcessResult, error) {
	log.Printf("[Job %s] Starting document processing pipeline (engine: %s)", req.JobID, p.engineKind)
	startTime := time.Now()

	// Step 1: Download/load file
	log.Printf("[Job %s] Step 1: Loading file (%d bytes)", req.JobID, req.FileSize)
	fileData, err := p.loadFile(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	// Step 2: Detect actual MIME type from magic bytes and validate input.
	// Upload paths often hand over application/octet-stream.
	detectedMime := detectMimeTypeFromMagicBytes(fileData)
	if detectedMime != "" && (req.MimeType == "" || req.MimeType == "application/octet-stream") {
		log.Printf("[Job %s] Corrected MIME type from '%s' to '%s' (magic byte detection)",
			req.JobID, req.MimeType, detectedMime)
		req.MimeType = detectedMime
	}

	if err := p.validateInput(req, fileData); err != nil {
		return nil, err
	}

	// Step 3: OCR. The combined engine yields two texts to compare; a single
	// engine yields one canonical text directly.
	var canonical *ocr.Result
	var docComparison *compare.ComparisonResult

	if combined, ok := p.engine.(*ocr.CombinedEngine); ok && p.engineKind == ocr.EngineCombined {
		canonical, docComparison, err = p.runCombined(ctx, req, combined, fileData)
	} else {
		log.Printf("[Job %s] Step 3: Running %s OCR", req.JobID, p.engineKind)
		canonical, err = p.engine.ExtractText(ctx, fileData, req.MimeType)
		if err != nil {
			err = apperrors.NewOCRFailedError(req.JobID, string(p.engineKind), err)
		}
	}
	if err != nil {
		return nil, err
	}

	if len(canonical.Pages) > p.config.MaxPageCount {
		return nil, apperrors.NewPageLimitExceededError(req.JobID, len(canonical.Pages), p.config.MaxPageCount)
	}

	log.Printf("[Job %s] OCR complete: engine=%s, confidence=%.2f, pages=%d, chars=%d",
		req.JobID, canonical.Engine, canonical.Confidence, len(canonical.Pages), len(canonical.Text))

	// Step 4: Clean and chunk the canonical text
	cleaned := textutil.CleanOCRText(canonical.Text)
	if cleaned == "" {
		log.Printf("[Job %s] WARNING: No text recognized, skipping chunk storage", req.JobID)
	}

	chunksStored := 0
	if cleaned != "" {
		chunks := p.buildChunks(cleaned, canonical.Pages)
		log.Printf("[Job %s] Step 4: Text chunked: %d chunks (size=%d, overlap=%d)",
			req.JobID, len(chunks), p.config.ChunkSize, p.config.ChunkOverlap)

		// Step 5: Embed and store chunks
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		embeddings, err := p.embeddingClient.GenerateEmbeddingBatch(ctx, texts)
		if err != nil {
			return nil, apperrors.NewAPICallFailedError(req.JobID, "openai-embeddings", err)
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}

		if _, err := p.storage.StoreDocumentChunks(ctx, req.JobID, chunks); err != nil {
			return nil, apperrors.NewStorageFailedError(req.JobID, err)
		}
		chunksStored = len(chunks)
		log.Printf("[Job %s] Step 5: %d chunks stored", req.JobID, chunksStored)
	}

	result := &ProcessResult{
		Engine:           string(p.engineKind),
		ReconciledFrom:   string(canonical.Engine),
		Confidence:       canonical.Confidence,
		PageCount:        len(canonical.Pages),
		ChunksStored:     chunksStored,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	}
	if docComparison != nil {
		result.MatchingRate = docComparison.MatchingRate
		result.SimilarityScore = docComparison.SimilarityScore
		result.DifferencesFound = len(docComparison.Differences)
	}

	// Step 6: Export summary to Notion (non-fatal)
	if p.notionClient != nil && docComparison != nil {
		summary := &clients.ComparisonSummary{
			JobID:           req.JobID,
			Filename:        req.Filename,
			LeftEngine:      docComparison.Left.Engine,
			RightEngine:     docComparison.Right.Engine,
			MatchingRate:    docComparison.MatchingRate,
			SimilarityScore: docComparison.SimilarityScore,
			Differences:     len(docComparison.Differences),
			PageCount:       result.PageCount,
			ProcessedAt:     time.Now(),
		}
		if err := p.notionClient.PublishSummary(ctx, summary); err != nil {
			log.Printf("[Job %s] WARNING: Notion export failed: %v", req.JobID, err)
		}
	}

	log.Printf("[Job %s] Processing pipeline complete: engine=%s, confidence=%.2f, chunks=%d, duration=%dms",
		req.JobID, result.ReconciledFrom, result.Confidence, result.ChunksStored, result.ProcessingTimeMs)

	return result, nil
}

// runCombined runs both engines, compares their outputs page by page and for
// the whole document, persists the comparisons, and reconciles one canonical
// result.
func (p *DocumentProcessor) runCombined(ctx context.Context, req *ProcessRequest, combined *ocr.CombinedEngine, fileData []byte) (*ocr.Result, *compare.ComparisonResult, error) {
	log.Printf("[Job %s] Step 3: Running combined OCR (both engines)", req.JobID)

	left, right, err := combined.ExtractBoth(ctx, fileData, req.MimeType)
	if err != nil {
		return nil, nil, apperrors.NewOCRFailedError(req.JobID, string(ocr.EngineCombined), err)
	}

	// Per-page comparisons. Pages align by position: both sides come from the
	// same raster sequence.
	pageCount := len(left.Pages)
	if len(right.Pages) < pageCount {
		pageCount = len(right.Pages)
	}
	for i := 0; i < pageCount; i++ {
		pageResult := p.comparator.Compare(
			string(left.Engine), left.Pages[i].Text,
			string(right.Engine), right.Pages[i].Text,
		)
		record := &storage.ComparisonRecord{
			JobID:      req.JobID,
			PageNumber: left.Pages[i].PageNumber,
			Result:     pageResult,
		}
		if _, err := p.storage.StoreComparison(ctx, record); err != nil {
			return nil, nil, apperrors.NewStorageFailedError(req.JobID, err)
		}
		log.Printf("[Job %s] Page %d compared: matching=%.4f, similarity=%.4f, differences=%d",
			req.JobID, left.Pages[i].PageNumber, pageResult.MatchingRate,
			pageResult.SimilarityScore, len(pageResult.Differences))
	}

	// Whole-document comparison, stored as page 0.
	docResult := p.comparator.Compare(string(left.Engine), left.Text, string(right.Engine), right.Text)
	record := &storage.ComparisonRecord{
		JobID:      req.JobID,
		PageNumber: 0,
		Result:     docResult,
	}
	if _, err := p.storage.StoreComparison(ctx, record); err != nil {
		return nil, nil, apperrors.NewStorageFailedError(req.JobID, err)
	}
	log.Printf("[Job %s] Document compared: matching=%.4f, similarity=%.4f, differences=%d",
		req.JobID, docResult.MatchingRate, docResult.SimilarityScore, len(docResult.Differences))

	canonical := reconcile(left, right, preferredEngine(req.Metadata))
	log.Printf("[Job %s] Reconciled canonical text from %s (left=%.2f, right=%.2f)",
		req.JobID, canonical.Engine, left.Confidence, right.Confidence)

	return canonical, docResult, nil
}

// reconcile picks the canonical result of a combined run. An explicit engine
// preference in job metadata wins; otherwise the higher-confidence engine
// does, with the left engine breaking ties.
func reconcile(left, right *ocr.Result, preferred string) *ocr.Result {
	switch preferred {
	case string(left.Engine):
		return left
	case string(right.Engine):
		return right
	}
	if right.Confidence > left.Confidence {
		return right
	}
	return left
}

// preferredEngine reads the optional engine override from job metadata.
func preferredEngine(metadata map[string]interface{}) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata["preferEngine"].(string); ok {
		return v
	}
	return ""
}

// buildChunks splits the cleaned text into chunks and tags each with the
// page its start position falls in.
func (p *DocumentProcessor) buildChunks(cleaned string, pages []ocr.Page) []storage.ChunkInput {
	pieces := textutil.ChunkText(cleaned, p.config.ChunkSize, p.config.ChunkOverlap)

	// Page boundaries by cumulative cleaned-page length. Approximate: cleanup
	// shifts offsets slightly, but chunk-to-page mapping is advisory.
	type boundary struct {
		end  int
		page int
	}
	var boundaries []boundary
	offset := 0
	for _, page := range pages {
		offset += len(textutil.CleanOCRText(page.Text)) + 2
		boundaries = append(boundaries, boundary{end: offset, page: page.PageNumber})
	}

	chunks := make([]storage.ChunkInput, 0, len(pieces))
	searchFrom := 0
	for _, piece := range pieces {
		start := strings.Index(cleaned[searchFrom:], piece[:min(len(piece), 64)])
		if start >= 0 {
			start += searchFrom
			searchFrom = start + 1
		} else {
			start = searchFrom
		}

		pageNumber := 1
		for _, b := range boundaries {
			pageNumber = b.page
			if start < b.end {
				break
			}
		}

		chunks = append(chunks, storage.ChunkInput{
			Content:    piece,
			PageNumber: pageNumber,
		})
	}
	return chunks
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// AnswerQuestion answers a question about previously processed documents by
// retrieving the most similar stored chunks and asking the chat model.
func (p *DocumentProcessor) AnswerQuestion(ctx context.Context, req *QuestionRequest) (*QuestionResult, error) {
	if req == nil {
		return nil, apperrors.NewInvalidInputError("", "question request is required")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, apperrors.NewInvalidInputError(req.JobID, "question is required")
	}

	log.Printf("[Job %s] Answering question (%d chars)", req.JobID, len(req.Question))

	queryVector, err := p.embeddingClient.GenerateEmbedding(ctx, req.Question)
	if err != nil {
		return nil, apperrors.NewAPICallFailedError(req.JobID, "openai-embeddings", err)
	}

	const topK = 3
	hits, err := p.storage.SearchChunks(ctx, queryVector, topK)
	if err != nil {
		return nil, apperrors.NewStorageFailedError(req.JobID, err)
	}
	if len(hits) == 0 {
		return nil, apperrors.NewInvalidInputError(req.JobID, "no document chunks available for retrieval")
	}

	contexts := make([]string, 0, len(hits))
	for _, hit := range hits {
		contexts = append(contexts, hit.Content)
	}

	answer, err := p.chatClient.Answer(ctx, req.Question, contexts)
	if err != nil {
		return nil, apperrors.NewAPICallFailedError(req.JobID, "openai-chat", err)
	}

	log.Printf("[Job %s] Answer generated from %d chunks", req.JobID, len(contexts))

	return &QuestionResult{
		Answer:       answer,
		SourceChunks: contexts,
	}, nil
}

// UpdateJobStatus updates job status in database
func (p *DocumentProcessor) UpdateJobStatus(ctx context.Context, jobID string, status string, progress int, metadata map[string]interface{}) error {
	update := &storage.JobUpdate{
		JobID:    jobID,
		Status:   status,
		Metadata: metadata,
	}

	// Extract specific fields from metadata if present
	if metadata != nil {
		if confidence, ok := metadata["confidence"].(float64); ok {
			update.Confidence = confidence
		}
		if processingTime, ok := metadata["processingTime"].(int64); ok {
			update.ProcessingTimeMs = processingTime
		}
		if engineUsed, ok := metadata["engineUsed"].(string); ok {
			update.OCREngineUsed = engineUsed
		}
		if errorMsg, ok := metadata["error"].(string); ok {
			update.ErrorCode = "PROCESSING_ERROR"
			update.ErrorMessage = errorMsg
		}
		if errorCode, ok := metadata["errorCode"].(string); ok {
			update.ErrorCode = errorCode
		}
	}

	return p.storage.UpdateJobStatus(ctx, update)
}

// validateInput rejects oversized files and formats no engine can read.
func (p *DocumentProcessor) validateInput(req *ProcessRequest, fileData []byte) error {
	if int64(len(fileData)) > p.config.MaxFileSize {
		return apperrors.NewFileTooLargeError(req.JobID, int64(len(fileData)), p.config.MaxFileSize)
	}

	if req.MimeType == "application/pdf" || strings.HasPrefix(req.MimeType, "image/") {
		return nil
	}
	return apperrors.NewUnsupportedFormatError(req.JobID, req.MimeType)
}

// loadFile loads file from URL or buffer
func (p *DocumentProcessor) loadFile(ctx context.Context, req *ProcessRequest) ([]byte, error) {
	if len(req.FileBuffer) > 0 {
		log.Printf("[Job %s] Using file buffer (%d bytes)", req.JobID, len(req.FileBuffer))
		return req.FileBuffer, nil
	}

	if req.FileURL != "" {
		log.Printf("[Job %s] Downloading file from URL: %s (fileSize=%d)", req.JobID, req.FileURL, req.FileSize)
		fileData, err := p.downloadFileFromURL(ctx, req.JobID, req.FileURL, req.FileSize)
		if err != nil {
			return nil, fmt.Errorf("failed to download file: %w", err)
		}
		log.Printf("[Job %s] File downloaded successfully (%d bytes)", req.JobID, len(fileData))
		return fileData, nil
	}

	return nil, apperrors.NewInvalidInputError(req.JobID, "no file source provided (buffer or URL)")
}

// downloadFileFromURL downloads a file with retry and exponential backoff.
func (p *DocumentProcessor) downloadFileFromURL(ctx context.Context, jobID string, fileURL string, expectedSize int64) ([]byte, error) {
	const (
		maxRetries       = 5
		initialBackoffMs = 1000
		maxBackoffMs     = 32000
	)

	client := &http.Client{
		Timeout: 10 * time.Minute,
	}

	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("[Job %s] Download attempt %d/%d from: %s", jobID, attempt, maxRetries, fileURL)

		fileData, err := p.tryDownload(ctx, client, fileURL, expectedSize, jobID)
		if err == nil {
			log.Printf("[Job %s] Download successful on attempt %d: %d bytes", jobID, attempt, len(fileData))
			return fileData, nil
		}

		lastErr = err
		log.Printf("[Job %s] Download attempt %d failed: %v", jobID, attempt, err)

		if attempt < maxRetries {
			backoffMs := initialBackoffMs * int(math.Pow(2, float64(attempt-1)))
			if backoffMs > maxBackoffMs {
				backoffMs = maxBackoffMs
			}
			log.Printf("[Job %s] Retrying in %dms...", jobID, backoffMs)
			select {
			case <-time.After(time.Duration(backoffMs) * time.Millisecond):
			case <-ctx.Done():
				return nil, fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("failed to download file after %d attempts: %w", maxRetries, lastErr)
}

// tryDownload performs a single download attempt.
func (p *DocumentProcessor) tryDownload(ctx context.Context, client *http.Client, fileURL string, expectedSize int64, jobID string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if resp.ContentLength > 0 && expectedSize > 0 && resp.ContentLength != expectedSize {
		log.Printf("[Job %s] WARNING: Content-Length mismatch. Expected=%d, Got=%d",
			jobID, expectedSize, resp.ContentLength)
	}

	if p.config.MaxFileSize > 0 && resp.ContentLength > p.config.MaxFileSize {
		return nil, fmt.Errorf("file size exceeds maximum: %d > %d bytes",
			resp.ContentLength, p.config.MaxFileSize)
	}

	// Read one byte past the limit so oversized bodies without a
	// Content-Length are detected instead of silently truncated.
	fileData, err := io.ReadAll(io.LimitReader(resp.Body, p.config.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(fileData)) > p.config.MaxFileSize {
		return nil, fmt.Errorf("file size exceeds maximum: > %d bytes", p.config.MaxFileSize)
	}

	return fileData, nil
}

// detectMimeTypeFromMagicBytes detects the actual MIME type from file content
// magic bytes. Upload paths often hand over generic application/octet-stream.
func detectMimeTypeFromMagicBytes(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	// PDF: %PDF-
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "application/pdf"
	}

	// PNG: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) >= 8 && bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png"
	}

	// JPEG: 0xFF 0xD8 0xFF
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg"
	}

	// GIF: 'G' 'I' 'F' '8' ('7' or '9') 'a'
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return "image/gif"
	}

	// WebP: 'R' 'I' 'F' 'F' .... 'W' 'E' 'B' 'P'
	if len(data) > 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}

	// TIFF: 'I' 'I' 0x2A 0x00 (little-endian) or 'M' 'M' 0x00 0x2A (big-endian)
	if bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}) {
		return "image/tiff"
	}

	// BMP: 'B' 'M'
	if bytes.HasPrefix(data, []byte("BM")) {
		return "image/bmp"
	}

	return ""
}
