/**
 * Storage Manager for OCR Compare Worker
 *
 * Coordinates storage across PostgreSQL (jobs, comparisons, chunk metadata)
 * and Qdrant (chunk vectors). Chunk storage keeps both systems consistent:
 * the PostgreSQL transaction commits only after every vector is in Qdrant,
 * and already-upserted vectors are deleted if the transaction fails.
 */

package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// StorageManager coordinates PostgreSQL and Qdrant operations
type StorageManager struct {
	postgres *PostgresClient
	qdrant   *QdrantClient
}

// ChunkInput is one chunk ready for storage: cleaned text plus its embedding.
type ChunkInput struct {
	Content    string
	Embedding  []float32
	PageNumber int
}

// ChunkSearchResult is a retrieved chunk with its similarity score.
type ChunkSearchResult struct {
	PointID    string
	JobID      string
	Content    string
	PageNumber int
	Score      float64
}

// NewStorageManager creates a new storage manager
func NewStorageManager(postgresURL string, qdrantAddress string, qdrantCollection string, vectorSize int) (*StorageManager, error) {
	postgres, err := NewPostgresClient(postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL client: %w", err)
	}

	qdrant, err := NewQdrantClient(qdrantAddress, qdrantCollection, vectorSize)
	if err != nil {
		postgres.Close() // Cleanup on failure
		return nil, fmt.Errorf("failed to initialize Qdrant client: %w", err)
	}

	return &StorageManager{
		postgres: postgres,
		qdrant:   qdrant,
	}, nil
}

// StoreDocumentChunks stores a document's chunks: vectors in Qdrant, chunk
// rows in PostgreSQL. Vectors go in first so invalid embeddings fail fast;
// if the PostgreSQL transaction then fails, the vectors are rolled back.
func (sm *StorageManager) StoreDocumentChunks(ctx context.Context, jobID string, chunks []ChunkInput) ([]string, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("at least one chunk is required")
	}

	pointIDs := make([]string, 0, len(chunks))
	now := time.Now().Unix()

	for i, chunk := range chunks {
		pointID := uuid.New().String()

		point := &VectorPoint{
			ID:     pointID,
			Vector: chunk.Embedding,
			Metadata: map[string]interface{}{
				"job_id":      jobID,
				"chunk_index": i,
				"page_number": chunk.PageNumber,
				"created_at":  now,
			},
			Timestamp: now,
		}

		if err := sm.qdrant.UpsertVector(ctx, point); err != nil {
			sm.rollbackVectors(ctx, pointIDs)
			return nil, fmt.Errorf("failed to store vector for chunk %d: %w", i, err)
		}
		pointIDs = append(pointIDs, pointID)
	}

	tx, err := sm.postgres.db.BeginTx(ctx, nil)
	if err != nil {
		sm.rollbackVectors(ctx, pointIDs)
		return nil, fmt.Errorf("failed to begin chunk transaction: %w", err)
	}

	for i, chunk := range chunks {
		record := &ChunkRecord{
			ID:            uuid.New().String(),
			JobID:         jobID,
			ChunkIndex:    i,
			PageNumber:    chunk.PageNumber,
			Content:       chunk.Content,
			QdrantPointID: pointIDs[i],
		}
		if err := sm.postgres.insertChunk(ctx, tx, record); err != nil {
			tx.Rollback()
			sm.rollbackVectors(ctx, pointIDs)
			return nil, fmt.Errorf("failed to store chunk metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		sm.rollbackVectors(ctx, pointIDs)
		return nil, fmt.Errorf("failed to commit chunk transaction: %w", err)
	}

	return pointIDs, nil
}

// rollbackVectors best-effort deletes vectors after a failed chunk store.
func (sm *StorageManager) rollbackVectors(ctx context.Context, pointIDs []string) {
	for _, id := range pointIDs {
		if err := sm.qdrant.DeleteVector(ctx, id); err != nil {
			log.Printf("WARNING: failed to roll back vector %s: %v", id, err)
		}
	}
}

// SearchChunks finds the chunks most similar to the query embedding and
// hydrates their text from PostgreSQL.
func (sm *StorageManager) SearchChunks(ctx context.Context, queryVector []float32, limit int) ([]*ChunkSearchResult, error) {
	points, err := sm.qdrant.SearchVectors(ctx, queryVector, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search vectors: %w", err)
	}

	results := make([]*ChunkSearchResult, 0, len(points))
	for _, point := range points {
		content, err := sm.postgres.GetChunkContent(ctx, point.ID)
		if err != nil {
			// Orphaned vector: skip rather than fail the whole search.
			log.Printf("WARNING: no chunk row for vector %s: %v", point.ID, err)
			continue
		}

		result := &ChunkSearchResult{
			PointID: point.ID,
			Content: content,
		}
		if jobID, ok := point.Metadata["job_id"].(string); ok {
			result.JobID = jobID
		}
		if page, ok := point.Metadata["page_number"].(int64); ok {
			result.PageNumber = int(page)
		}
		if score, ok := point.Metadata["score"].(float32); ok {
			result.Score = float64(score)
		} else if score, ok := point.Metadata["score"].(float64); ok {
			result.Score = score
		}

		results = append(results, result)
	}

	return results, nil
}

// StoreComparison persists a comparison record in PostgreSQL.
func (sm *StorageManager) StoreComparison(ctx context.Context, record *ComparisonRecord) (string, error) {
	return sm.postgres.StoreComparison(ctx, record)
}

// GetComparisons retrieves all comparison records for a job.
func (sm *StorageManager) GetComparisons(ctx context.Context, jobID string) ([]*ComparisonRecord, error) {
	return sm.postgres.GetComparisons(ctx, jobID)
}

// UpdateJobStatus updates job status in PostgreSQL
func (sm *StorageManager) UpdateJobStatus(ctx context.Context, update *JobUpdate) error {
	return sm.postgres.UpdateJobStatus(ctx, update)
}

// GetStats returns statistics from both systems
func (sm *StorageManager) GetStats(ctx context.Context) (map[string]interface{}, error) {
	pgStats := sm.postgres.GetStats()

	qdrantStats, err := sm.qdrant.GetCollectionInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Qdrant stats: %w", err)
	}

	return map[string]interface{}{
		"postgres": map[string]interface{}{
			"max_open_connections": pgStats.MaxOpenConnections,
			"open_connections":     pgStats.OpenConnections,
			"in_use":               pgStats.InUse,
			"idle":                 pgStats.Idle,
			"wait_count":           pgStats.WaitCount,
			"wait_duration":        pgStats.WaitDuration.String(),
		},
		"qdrant": qdrantStats,
	}, nil
}

// Close closes all connections
func (sm *StorageManager) Close() error {
	var pgErr, qdErr error

	if sm.postgres != nil {
		pgErr = sm.postgres.Close()
	}

	if sm.qdrant != nil {
		qdErr = sm.qdrant.Close()
	}

	if pgErr != nil {
		return fmt.Errorf("failed to close PostgreSQL: %w", pgErr)
	}

	if qdErr != nil {
		return fmt.Errorf("failed to close Qdrant: %w", qdErr)
	}

	return nil
}
