/**
 * Embedding Client for OCR Compare Worker
 *
 * Generates OpenAI text-embedding-ada-002 embeddings (1536 dimensions) for
 * document chunk storage and retrieval.
 */

package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// EmbeddingDimensions is the vector size of the embedding model.
const EmbeddingDimensions = 1536

// EmbeddingClient handles OpenAI embedding generation
type EmbeddingClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// OpenAIEmbeddingRequest represents the request to the embeddings API.
// Input takes a single string or an array; both marshal through []string.
type OpenAIEmbeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// OpenAIEmbeddingResponse represents the response from the embeddings API
type OpenAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// NewEmbeddingClient creates a new embedding client
func NewEmbeddingClient(apiKey, model string) (*EmbeddingClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "text-embedding-ada-002"
	}

	return &EmbeddingClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1/embeddings",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GenerateEmbedding generates a 1536-dimensional embedding for the given text
func (e *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	embeddings, err := e.GenerateEmbeddingBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// GenerateEmbeddingBatch generates embeddings for multiple texts.
// Processes up to 100 texts per API call.
func (e *EmbeddingClient) GenerateEmbeddingBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	const batchSize = 100
	allEmbeddings := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batchEmbeddings, err := e.generateBatchInternal(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings for texts %d-%d: %w", i, end-1, err)
		}
		allEmbeddings = append(allEmbeddings, batchEmbeddings...)
	}

	return allEmbeddings, nil
}

// generateBatchInternal makes the actual API call
func (e *EmbeddingClient) generateBatchInternal(ctx context.Context, texts []string) ([][]float32, error) {
	// The model's context window is ~8k tokens; truncate defensively on chars.
	const maxChars = 16000
	truncatedTexts := make([]string, len(texts))
	for i, text := range texts {
		if len(text) > maxChars {
			log.Printf("Warning: Text %d too long (%d chars), truncating to %d chars", i, len(text), maxChars)
			truncatedTexts[i] = text[:maxChars]
		} else {
			truncatedTexts[i] = text
		}
	}

	reqBody := OpenAIEmbeddingRequest{
		Input: truncatedTexts,
		Model: e.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", e.apiKey))

	startTime := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp OpenAIEmbeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(embResp.Data), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("invalid embedding index: %d", data.Index)
		}
		if len(data.Embedding) != EmbeddingDimensions {
			return nil, fmt.Errorf("unexpected embedding dimensions for text %d: got %d, expected %d",
				data.Index, len(data.Embedding), EmbeddingDimensions)
		}
		embeddings[data.Index] = data.Embedding
	}

	log.Printf("Embeddings generated: model=%s, texts=%d, tokens=%d, duration=%v",
		e.model, len(texts), embResp.Usage.TotalTokens, time.Since(startTime))

	return embeddings, nil
}
