/**
 * OCR Compare Worker - Main Entry Point
 *
 * Go worker for multi-engine OCR comparison and reconciliation.
 *
 * Architecture:
 * - Asynq (or raw Redis LIST) consumer for Redis-backed job queue
 * - Combined OCR pipeline: Tesseract + vision OCR service per document
 * - Word-level diff comparison with matching rate and similarity metrics
 * - OpenAI ada-002 embeddings for chunk storage and retrieval QA
 * - PostgreSQL persistence for jobs, comparisons, and chunk metadata
 * - Qdrant vector storage for semantic chunk search
 * - Optional Notion export of comparison summaries
 */

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/scandex/ocrcompare-worker/internal/config"
	"github.com/scandex/ocrcompare-worker/internal/processor"
	"github.com/scandex/ocrcompare-worker/internal/queue"
	"github.com/scandex/ocrcompare-worker/internal/storage"
)

const queueName = "ocrcompare:jobs"

func main() {
	// Load environment variables
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("OCR Compare Worker starting...")
	log.Printf("Configuration loaded: Redis=%s, Qdrant=%s, Engine=%s, Workers=%d",
		cfg.RedisURL, cfg.QdrantURL, cfg.OCREngine, cfg.WorkerConcurrency)

	// Initialize unified storage manager (PostgreSQL + Qdrant)
	log.Printf("Connecting to storage (PostgreSQL + Qdrant)...")
	storageManager, err := storage.NewStorageManager(
		cfg.DatabaseURL,
		cfg.QdrantURL,
		cfg.QdrantCollection,
		processor.EmbeddingDimensions,
	)
	if err != nil {
		log.Fatalf("Failed to initialize storage manager: %v", err)
	}
	defer storageManager.Close()
	log.Printf("Storage manager initialized (PostgreSQL + Qdrant)")

	// Initialize document processor
	log.Printf("Initializing document processor (engine=%s)...", cfg.OCREngine)
	proc, err := processor.NewDocumentProcessor(&processor.ProcessorConfig{
		OpenAIAPIKey:        cfg.OpenAIAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		ChatModel:           cfg.ChatModel,
		ChatTemperature:     cfg.ChatTemperature,
		ChatMaxTokens:       cfg.ChatMaxTokens,
		VisionOCRURL:        cfg.VisionOCRURL,
		NotionToken:         cfg.NotionToken,
		NotionDatabaseID:    cfg.NotionDatabaseID,
		TesseractPath:       cfg.TesseractPath,
		TesseractLanguages:  strings.Split(cfg.TesseractLanguages, ","),
		OCREngine:           cfg.OCREngine,
		ConfidenceThreshold: cfg.OCRConfidenceThreshold,
		ChunkSize:           cfg.ChunkSize,
		ChunkOverlap:        cfg.ChunkOverlap,
		MaxFileSize:         cfg.MaxFileSize,
		MaxPageCount:        cfg.MaxPageCount,
		StorageManager:      storageManager,
	})
	if err != nil {
		log.Fatalf("Failed to initialize document processor: %v", err)
	}
	log.Printf("Document processor initialized")

	// Initialize queue consumer. The asynq driver is the default; the raw
	// redis driver keeps compatibility with the TypeScript queue producer.
	log.Printf("Connecting to Redis queue (driver=%s)...", cfg.QueueDriver)
	stopConsumer, err := startConsumer(cfg, proc)
	if err != nil {
		log.Fatalf("Failed to start queue consumer: %v", err)
	}
	log.Printf("Queue consumer started with concurrency=%d", cfg.WorkerConcurrency)

	// Print startup summary
	log.Printf("===========================================")
	log.Printf("OCR Compare Worker is READY")
	log.Printf("===========================================")
	log.Printf("Queue: %s (driver=%s)", queueName, cfg.QueueDriver)
	log.Printf("Workers: %d", cfg.WorkerConcurrency)
	log.Printf("OCR Engine: %s (languages=%s)", cfg.OCREngine, cfg.TesseractLanguages)
	log.Printf("Confidence Threshold: %.2f", cfg.OCRConfidenceThreshold)
	log.Printf("Chunking: size=%d overlap=%d", cfg.ChunkSize, cfg.ChunkOverlap)
	log.Printf("===========================================")
	log.Printf("Waiting for jobs...")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	log.Printf("Stopping queue consumer...")
	if err := stopConsumer(); err != nil {
		log.Printf("Error stopping queue consumer: %v", err)
	} else {
		log.Printf("Queue consumer stopped successfully")
	}

	log.Printf("Closing storage manager...")
	if err := storageManager.Close(); err != nil {
		log.Printf("Error closing storage manager: %v", err)
	} else {
		log.Printf("Storage manager closed")
	}

	log.Printf("Shutdown complete")
}

// startConsumer starts the configured queue driver and returns its stop func.
func startConsumer(cfg *config.Config, proc processor.ProcessorInterface) (func() error, error) {
	switch cfg.QueueDriver {
	case "redis":
		consumer, err := queue.NewRedisConsumer(&queue.RedisConsumerConfig{
			RedisURL:          cfg.RedisURL,
			QueueName:         queueName,
			Concurrency:       cfg.WorkerConcurrency,
			Processor:         proc,
			ProcessingTimeout: int64(cfg.ProcessingTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis consumer: %w", err)
		}
		if err := consumer.Start(); err != nil {
			return nil, fmt.Errorf("failed to start redis consumer: %w", err)
		}
		return consumer.Stop, nil

	default: // asynq
		consumer, err := queue.NewConsumer(&queue.ConsumerConfig{
			RedisURL:          cfg.RedisURL,
			QueueName:         queueName,
			Concurrency:       cfg.WorkerConcurrency,
			Processor:         proc,
			ProcessingTimeout: int64(cfg.ProcessingTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize asynq consumer: %w", err)
		}
		if err := consumer.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to start asynq consumer: %w", err)
		}
		return func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return consumer.Stop(ctx)
		}, nil
	}
}
