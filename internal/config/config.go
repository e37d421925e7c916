/**
 * Configuration for OCR Compare Worker
 *
 * Loads configuration from environment variables.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds worker configuration
type Config struct {
	// Redis configuration
	RedisURL    string
	QueueDriver string // "asynq" or "redis"

	// PostgreSQL configuration
	DatabaseURL string

	// Qdrant vector database configuration
	QdrantURL        string
	QdrantCollection string

	// OpenAI configuration
	OpenAIAPIKey    string
	EmbeddingModel  string
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int

	// Vision OCR service
	VisionOCRURL string

	// Notion export (optional)
	NotionToken      string
	NotionDatabaseID string

	// Tesseract configuration
	TesseractPath      string
	TesseractLanguages string

	// OCR behavior
	OCREngine              string
	OCRConfidenceThreshold float64

	// Text chunking for embeddings
	ChunkSize    int
	ChunkOverlap int

	// Worker configuration
	WorkerConcurrency int
	MaxFileSize       int64
	MaxPageCount      int
	ProcessingTimeout int

	// Temporary directory for file processing
	TempDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		QueueDriver:            getEnvOrDefault("QUEUE_DRIVER", "asynq"),
		DatabaseURL:            getEnvOrThrow("DATABASE_URL"),
		QdrantURL:              getEnvOrDefault("QDRANT_URL", "localhost:6334"),
		QdrantCollection:       getEnvOrDefault("QDRANT_COLLECTION", "documents"),
		OpenAIAPIKey:           getEnvOrThrow("OPENAI_API_KEY"),
		EmbeddingModel:         getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-ada-002"),
		ChatModel:              getEnvOrDefault("CHAT_MODEL", "gpt-3.5-turbo"),
		ChatTemperature:        getEnvAsFloatOrDefault("CHAT_TEMPERATURE", 0.1),
		ChatMaxTokens:          getEnvAsIntOrDefault("CHAT_MAX_TOKENS", 1000),
		VisionOCRURL:           getEnvOrDefault("VISION_OCR_URL", "http://localhost:8080"),
		NotionToken:            getEnvOrDefault("NOTION_TOKEN", ""),
		NotionDatabaseID:       getEnvOrDefault("NOTION_DATABASE_ID", ""),
		TesseractPath:          getEnvOrDefault("TESSERACT_PATH", "/usr/bin/tesseract"),
		TesseractLanguages:     getEnvOrDefault("TESSERACT_LANGUAGES", "jpn,eng"),
		OCREngine:              getEnvOrDefault("OCR_ENGINE", "combined"),
		OCRConfidenceThreshold: getEnvAsFloatOrDefault("OCR_CONFIDENCE_THRESHOLD", 0.5),
		ChunkSize:              getEnvAsIntOrDefault("CHUNK_SIZE", 1000),
		ChunkOverlap:           getEnvAsIntOrDefault("CHUNK_OVERLAP", 200),
		WorkerConcurrency:      getEnvAsIntOrDefault("WORKER_CONCURRENCY", 10),
		MaxFileSize:            getEnvAsInt64OrDefault("MAX_FILE_SIZE", 52428800), // 50MB
		MaxPageCount:           getEnvAsIntOrDefault("MAX_PAGE_COUNT", 300),
		ProcessingTimeout:      getEnvAsIntOrDefault("PROCESSING_TIMEOUT", 300000), // 5 minutes
		TempDir:                getEnvOrDefault("TEMP_DIR", "/tmp/ocrcompare"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.QueueDriver != "asynq" && c.QueueDriver != "redis" {
		return fmt.Errorf("QUEUE_DRIVER must be \"asynq\" or \"redis\", got %q", c.QueueDriver)
	}

	if c.OCREngine != "tesseract" && c.OCREngine != "vision" && c.OCREngine != "combined" {
		return fmt.Errorf("OCR_ENGINE must be tesseract, vision, or combined, got %q", c.OCREngine)
	}

	if c.OCRConfidenceThreshold < 0 || c.OCRConfidenceThreshold > 1 {
		return fmt.Errorf("OCR_CONFIDENCE_THRESHOLD must be between 0 and 1, got %f", c.OCRConfidenceThreshold)
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 100 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 100, got %d", c.WorkerConcurrency)
	}

	if c.MaxFileSize < 1024 || c.MaxFileSize > 1073741824 { // 1KB to 1GB
		return fmt.Errorf("MAX_FILE_SIZE must be between 1KB and 1GB, got %d", c.MaxFileSize)
	}

	if c.MaxPageCount < 1 {
		return fmt.Errorf("MAX_PAGE_COUNT must be positive, got %d", c.MaxPageCount)
	}

	if c.ChunkSize < 100 || c.ChunkSize > 100000 {
		return fmt.Errorf("CHUNK_SIZE must be between 100 and 100000, got %d", c.ChunkSize)
	}

	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be non-negative and less than CHUNK_SIZE, got %d", c.ChunkOverlap)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrThrow gets environment variable or returns error
func getEnvOrThrow(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
