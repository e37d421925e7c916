/**
 * Queue Consumer for OCR Compare Worker
 *
 * Consumes document-processing and question-answering jobs from Redis.
 * Uses Asynq for queue management.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/scandex/ocrcompare-worker/internal/errors"
	"github.com/scandex/ocrcompare-worker/internal/processor"
)

// Task types routed by the consumer.
const (
	TaskProcessDocument = "ocr:process-document"
	TaskAnswerQuestion  = "qa:answer-question"
)

// JobData represents the payload of a document-processing task
type JobData struct {
	JobID      string                 `json:"jobId"`
	UserID     string                 `json:"userId"`
	Filename   string                 `json:"filename"`
	MimeType   string                 `json:"mimeType,omitempty"`
	FileSize   int64                  `json:"fileSize,omitempty"`
	FileURL    string                 `json:"fileUrl,omitempty"`
	FileBuffer []byte                 `json:"fileBuffer,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// QuestionData represents the payload of a question-answering task
type QuestionData struct {
	JobID    string `json:"jobId"`
	Question string `json:"question"`
}

// Consumer handles job consumption from Redis queue
type Consumer struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor processor.ProcessorInterface
	config    *ConsumerConfig
}

// ConsumerConfig holds consumer configuration
type ConsumerConfig struct {
	RedisURL          string
	QueueName         string
	Concurrency       int
	Processor         processor.ProcessorInterface
	ProcessingTimeout int64 // Processing timeout in milliseconds (default: 300000 = 5 minutes)
}

// NewConsumer creates a new queue consumer
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("RedisURL is required")
	}

	if cfg.QueueName == "" {
		return nil, fmt.Errorf("QueueName is required")
	}

	if cfg.Processor == nil {
		return nil, fmt.Errorf("Processor is required")
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Client is kept for task submission (re-queues, tests)
	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				cfg.QueueName: 10, // Priority 10 for main queue
				"default":     1,  // Priority 1 for fallback
			},
			// Exponential backoff: 5s, 10s, 20s... capped at 60s
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := time.Duration(5*(1<<uint(n))) * time.Second
				if delay > 60*time.Second {
					delay = 60 * time.Second
				}
				return delay
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("Task processing error: type=%s, payload=%s, error=%v",
					task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	consumer := &Consumer{
		client:    client,
		server:    server,
		mux:       mux,
		processor: cfg.Processor,
		config:    cfg,
	}

	mux.HandleFunc(TaskProcessDocument, consumer.handleProcessDocument)
	mux.HandleFunc(TaskAnswerQuestion, consumer.handleAnswerQuestion)

	return consumer, nil
}

// Start starts the queue consumer
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting queue consumer (concurrency=%d, queue=%s)...",
		c.config.Concurrency, c.config.QueueName)

	go func() {
		if err := c.server.Run(c.mux); err != nil {
			log.Printf("Queue consumer error: %v", err)
		}
	}()

	return nil
}

// Stop stops the queue consumer gracefully
func (c *Consumer) Stop(ctx context.Context) error {
	log.Printf("Stopping queue consumer...")

	c.server.Shutdown()

	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}

	log.Printf("Queue consumer stopped")
	return nil
}

// handleProcessDocument processes a document-processing job
func (c *Consumer) handleProcessDocument(ctx context.Context, task *asynq.Task) error {
	startTime := time.Now()

	var jobData JobData
	if err := json.Unmarshal(task.Payload(), &jobData); err != nil {
		return fmt.Errorf("failed to unmarshal job data: %w", err)
	}

	log.Printf("[Job %s] Processing document: filename=%s, size=%d bytes, user=%s",
		jobData.JobID, jobData.Filename, jobData.FileSize, jobData.UserID)

	if err := c.processor.UpdateJobStatus(ctx, jobData.JobID, "processing", 0, nil); err != nil {
		log.Printf("[Job %s] Warning: Failed to update status to processing: %v", jobData.JobID, err)
	}

	timeout := c.processingTimeout()
	processCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := c.processor.ProcessDocument(processCtx, &processor.ProcessRequest{
		JobID:      jobData.JobID,
		UserID:     jobData.UserID,
		Filename:   jobData.Filename,
		MimeType:   jobData.MimeType,
		FileSize:   jobData.FileSize,
		FileURL:    jobData.FileURL,
		FileBuffer: jobData.FileBuffer,
		Metadata:   jobData.Metadata,
	})

	duration := time.Since(startTime)

	if err != nil {
		if processCtx.Err() == context.DeadlineExceeded {
			log.Printf("[Job %s] Processing timed out after %v (timeout: %v)", jobData.JobID, duration, timeout)

			timeoutErr := errors.NewProcessingTimeoutError(jobData.JobID, timeout, err)
			if updateErr := c.processor.UpdateJobStatus(ctx, jobData.JobID, "failed", 100, timeoutErr.ToMap()); updateErr != nil {
				log.Printf("[Job %s] Warning: Failed to update status to failed: %v", jobData.JobID, updateErr)
			}

			return fmt.Errorf("processing timeout: %w", timeoutErr)
		}

		log.Printf("[Job %s] Processing failed after %v: %v", jobData.JobID, duration, err)

		if updateErr := c.processor.UpdateJobStatus(ctx, jobData.JobID, "failed", 100, map[string]interface{}{
			"error":          err.Error(),
			"processingTime": duration.Milliseconds(),
		}); updateErr != nil {
			log.Printf("[Job %s] Warning: Failed to update status to failed: %v", jobData.JobID, updateErr)
		}

		return fmt.Errorf("document processing failed: %w", err)
	}

	log.Printf("[Job %s] Processing completed successfully in %v: engine=%s, confidence=%.2f, matchingRate=%.4f",
		jobData.JobID, duration, result.ReconciledFrom, result.Confidence, result.MatchingRate)

	if err := c.processor.UpdateJobStatus(ctx, jobData.JobID, "completed", 100, map[string]interface{}{
		"confidence":       result.Confidence,
		"processingTime":   duration.Milliseconds(),
		"engineUsed":       result.ReconciledFrom,
		"pageCount":        result.PageCount,
		"matchingRate":     result.MatchingRate,
		"similarityScore":  result.SimilarityScore,
		"differencesFound": result.DifferencesFound,
		"chunksStored":     result.ChunksStored,
	}); err != nil {
		log.Printf("[Job %s] Warning: Failed to update status to completed: %v", jobData.JobID, err)
	}

	return nil
}

// handleAnswerQuestion answers a question against a processed document's chunks
func (c *Consumer) handleAnswerQuestion(ctx context.Context, task *asynq.Task) error {
	var questionData QuestionData
	if err := json.Unmarshal(task.Payload(), &questionData); err != nil {
		return fmt.Errorf("failed to unmarshal question data: %w", err)
	}

	log.Printf("[Job %s] Answering question", questionData.JobID)

	answerCtx, cancel := context.WithTimeout(ctx, c.processingTimeout())
	defer cancel()

	result, err := c.processor.AnswerQuestion(answerCtx, &processor.QuestionRequest{
		JobID:    questionData.JobID,
		Question: questionData.Question,
	})
	if err != nil {
		return fmt.Errorf("question answering failed: %w", err)
	}

	log.Printf("[Job %s] Question answered (%d chars, %d source chunks)",
		questionData.JobID, len(result.Answer), len(result.SourceChunks))

	return nil
}

func (c *Consumer) processingTimeout() time.Duration {
	if c.config.ProcessingTimeout > 0 {
		return time.Duration(c.config.ProcessingTimeout) * time.Millisecond
	}
	return 300000 * time.Millisecond
}

// GetStatistics returns consumer statistics
func (c *Consumer) GetStatistics() map[string]interface{} {
	return map[string]interface{}{
		"concurrency": c.config.Concurrency,
		"queue":       c.config.QueueName,
		"redisURL":    c.config.RedisURL,
	}
}
