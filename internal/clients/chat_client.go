/**
 * Chat Client - OpenAI chat completions for document question answering
 *
 * Builds a grounded prompt from retrieved document chunks and asks the chat
 * model to answer strictly from that context.
 */

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scandex/ocrcompare-worker/internal/logging"
)

// ChatClient handles OpenAI chat completion requests
type ChatClient struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	baseURL     string
	httpClient  *http.Client
	logger      *logging.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

const answerSystemPrompt = "You answer questions about scanned documents. " +
	"Use only the provided document excerpts. " +
	"If the excerpts do not contain the answer, say so plainly."

// NewChatClient creates a new chat completion client
func NewChatClient(apiKey, model string, temperature float64, maxTokens int) (*ChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &ChatClient{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		baseURL:     "https://api.openai.com/v1/chat/completions",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logging.NewLogger("ChatClient"),
	}, nil
}

// Answer generates an answer to a question grounded in the given document
// excerpts. Excerpts are numbered in the prompt so the model can cite them.
func (c *ChatClient) Answer(ctx context.Context, question string, contexts []string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("question is required")
	}
	if len(contexts) == 0 {
		return "", fmt.Errorf("at least one context excerpt is required")
	}

	var prompt strings.Builder
	prompt.WriteString("Document excerpts:\n\n")
	for i, excerpt := range contexts {
		fmt.Fprintf(&prompt, "[%d] %s\n\n", i+1, excerpt)
	}
	fmt.Fprintf(&prompt, "Question: %s", question)

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: answerSystemPrompt},
			{Role: "user", Content: prompt.String()},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices in response")
	}

	answer := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	c.logger.Info("Answer generated",
		"model", c.model,
		"contexts", len(contexts),
		"promptTokens", chatResp.Usage.PromptTokens,
		"completionTokens", chatResp.Usage.CompletionTokens,
		"duration", time.Since(startTime))

	return answer, nil
}
