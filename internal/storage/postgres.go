/**
 * PostgreSQL Client for OCR Compare Worker
 *
 * Handles job persistence, per-page comparison records, and document chunk
 * metadata in the ocrcompare schema.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/scandex/ocrcompare-worker/internal/compare"
)

// PostgresClient handles database operations
type PostgresClient struct {
	db *sql.DB
}

// JobUpdate represents a job status update
type JobUpdate struct {
	JobID            string
	Status           string
	Confidence       float64
	ProcessingTimeMs int64
	ErrorCode        string
	ErrorMessage     string
	OCREngineUsed    string
	Metadata         map[string]interface{}
}

// ComparisonRecord is a persisted page-level or document-level comparison
type ComparisonRecord struct {
	JobID      string
	PageNumber int // 0 for the whole-document comparison
	Result     *compare.ComparisonResult
}

// ChunkRecord is a persisted document chunk with its vector point reference
type ChunkRecord struct {
	ID            string
	JobID         string
	ChunkIndex    int
	PageNumber    int
	Content       string
	QdrantPointID string
}

// sanitizeConfidence rounds confidence to 4 decimal places to prevent PostgreSQL float precision errors
// PostgreSQL FLOAT type can represent values with excessive precision (e.g., 0.9632000000000001)
// which causes "invalid input syntax for type integer" errors when used in certain contexts.
// This function enforces bounded precision by rounding to 4 decimals and clamping to [0.0, 1.0].
func sanitizeConfidence(confidence float64) float64 {
	if confidence < 0.0 {
		return 0.0
	}
	if confidence > 1.0 {
		return 1.0
	}
	return float64(int(confidence*10000+0.5)) / 10000
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(databaseURL string) (*PostgresClient, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{db: db}, nil
}

// UpdateJobStatus updates job status in the database. Uses UPSERT so the
// worker can create the job record when the API has not created it yet.
func (p *PostgresClient) UpdateJobStatus(ctx context.Context, update *JobUpdate) error {
	if update.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	if update.Status == "" {
		return fmt.Errorf("status is required")
	}

	sanitizedConfidence := sanitizeConfidence(update.Confidence)

	metadataJSON, err := json.Marshal(update.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	// NUMERIC(5,4) cast on confidence keeps precision bounded; raw float64
	// representations like 0.9632000000000001 trip PostgreSQL casting.
	query := `
		INSERT INTO ocrcompare.processing_jobs (
			id, user_id, filename, mime_type, file_size,
			status, confidence, processing_time_ms,
			error_code, error_message, ocr_engine_used, metadata,
			created_at, updated_at
		) VALUES (
			$1::uuid, COALESCE($12, 'anonymous'), COALESCE($9, 'unknown.bin'),
			COALESCE($10, 'application/octet-stream'), COALESCE($11, 0),
			$2, NULLIF($3::NUMERIC(5,4), 0), NULLIF($4, 0),
			NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			COALESCE($8::jsonb, '{}'::jsonb),
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			confidence = COALESCE(NULLIF(EXCLUDED.confidence::NUMERIC(5,4), 0), ocrcompare.processing_jobs.confidence),
			processing_time_ms = COALESCE(NULLIF(EXCLUDED.processing_time_ms, 0), ocrcompare.processing_jobs.processing_time_ms),
			error_code = NULLIF(EXCLUDED.error_code, ''),
			error_message = NULLIF(EXCLUDED.error_message, ''),
			ocr_engine_used = NULLIF(EXCLUDED.ocr_engine_used, ''),
			metadata = COALESCE(EXCLUDED.metadata, ocrcompare.processing_jobs.metadata),
			filename = COALESCE(EXCLUDED.filename, ocrcompare.processing_jobs.filename),
			mime_type = COALESCE(EXCLUDED.mime_type, ocrcompare.processing_jobs.mime_type),
			file_size = COALESCE(NULLIF(EXCLUDED.file_size, 0), ocrcompare.processing_jobs.file_size),
			user_id = COALESCE(EXCLUDED.user_id, ocrcompare.processing_jobs.user_id),
			updated_at = NOW()
		RETURNING id
	`

	// Extract additional fields from metadata if present
	var filename, mimeType, userID string
	var fileSize int64
	if update.Metadata != nil {
		if fn, ok := update.Metadata["filename"].(string); ok {
			filename = fn
		}
		if mt, ok := update.Metadata["mimeType"].(string); ok {
			mimeType = mt
		}
		if fs, ok := update.Metadata["fileSize"].(int64); ok {
			fileSize = fs
		} else if fs, ok := update.Metadata["fileSize"].(float64); ok {
			fileSize = int64(fs)
		}
		if uid, ok := update.Metadata["userId"].(string); ok {
			userID = uid
		}
	}

	var returnedID string
	err = p.db.QueryRowContext(
		ctx,
		query,
		update.JobID,            // $1 - job_id
		update.Status,           // $2 - status
		sanitizedConfidence,     // $3 - confidence (sanitized to 4 decimals)
		update.ProcessingTimeMs, // $4 - processing_time_ms
		update.ErrorCode,        // $5 - error_code
		update.ErrorMessage,     // $6 - error_message
		update.OCREngineUsed,    // $7 - ocr_engine_used
		metadataJSON,            // $8 - metadata
		filename,                // $9 - filename
		mimeType,                // $10 - mime_type
		fileSize,                // $11 - file_size
		userID,                  // $12 - user_id
	).Scan(&returnedID)

	if err == sql.ErrNoRows {
		return fmt.Errorf("job not found: %s", update.JobID)
	}

	if err != nil {
		return fmt.Errorf("failed to update job status (job=%s, status=%s, confidence=%.4f): %w",
			update.JobID, update.Status, sanitizedConfidence, err)
	}

	return nil
}

// StoreComparison persists a comparison record. The full result goes into a
// JSONB column; matching rate, similarity score, and difference count are
// duplicated as scalar columns for querying without JSON extraction.
func (p *PostgresClient) StoreComparison(ctx context.Context, record *ComparisonRecord) (string, error) {
	if record == nil || record.Result == nil {
		return "", fmt.Errorf("comparison record is required")
	}
	if record.JobID == "" {
		return "", fmt.Errorf("job ID is required")
	}

	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal comparison result: %w", err)
	}

	query := `
		INSERT INTO ocrcompare.page_comparisons (
			job_id, page_number, left_engine, right_engine,
			matching_rate, similarity_score, differences_count,
			result, created_at
		) VALUES (
			$1::uuid, $2, $3, $4,
			$5::NUMERIC(5,4), $6::NUMERIC(5,4), $7,
			$8::jsonb, NOW()
		)
		RETURNING id
	`

	var id string
	err = p.db.QueryRowContext(
		ctx,
		query,
		record.JobID,
		record.PageNumber,
		record.Result.Left.Engine,
		record.Result.Right.Engine,
		sanitizeConfidence(record.Result.MatchingRate),
		sanitizeConfidence(record.Result.SimilarityScore),
		len(record.Result.Differences),
		resultJSON,
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to store comparison (job=%s, page=%d): %w",
			record.JobID, record.PageNumber, err)
	}

	return id, nil
}

// GetComparisons retrieves all comparison records for a job, document-level
// record first, then pages in order.
func (p *PostgresClient) GetComparisons(ctx context.Context, jobID string) ([]*ComparisonRecord, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}

	query := `
		SELECT page_number, result
		FROM ocrcompare.page_comparisons
		WHERE job_id = $1::uuid
		ORDER BY page_number
	`

	rows, err := p.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var records []*ComparisonRecord
	for rows.Next() {
		var pageNumber int
		var resultJSON []byte
		if err := rows.Scan(&pageNumber, &resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan comparison row: %w", err)
		}

		var result compare.ComparisonResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comparison result: %w", err)
		}

		records = append(records, &ComparisonRecord{
			JobID:      jobID,
			PageNumber: pageNumber,
			Result:     &result,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comparison rows iteration failed: %w", err)
	}

	return records, nil
}

// insertChunk stores one chunk row. Called inside the storage manager's
// chunk transaction.
func (p *PostgresClient) insertChunk(ctx context.Context, tx *sql.Tx, chunk *ChunkRecord) error {
	query := `
		INSERT INTO ocrcompare.document_chunks (
			id, job_id, chunk_index, page_number, content, qdrant_point_id, created_at
		) VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6::uuid, NOW())
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		chunk.ID,
		chunk.JobID,
		chunk.ChunkIndex,
		chunk.PageNumber,
		chunk.Content,
		chunk.QdrantPointID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
	}
	return nil
}

// GetChunkContent retrieves the text of a chunk by its vector point ID.
func (p *PostgresClient) GetChunkContent(ctx context.Context, qdrantPointID string) (string, error) {
	if qdrantPointID == "" {
		return "", fmt.Errorf("point ID is required")
	}

	query := `
		SELECT content
		FROM ocrcompare.document_chunks
		WHERE qdrant_point_id = $1::uuid
	`

	var content string
	err := p.db.QueryRowContext(ctx, query, qdrantPointID).Scan(&content)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("chunk not found for point: %s", qdrantPointID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get chunk content: %w", err)
	}

	return content, nil
}

// Ping checks database connectivity
func (p *PostgresClient) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *PostgresClient) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetStats returns connection pool statistics
func (p *PostgresClient) GetStats() sql.DBStats {
	return p.db.Stats()
}
