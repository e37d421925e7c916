/**
 * Notion Client - Comparison statistics export
 *
 * Publishes per-document comparison summaries as pages in a Notion database
 * so reviewers can track engine agreement over time without touching the
 * worker's own storage.
 */

package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scandex/ocrcompare-worker/internal/logging"
)

const notionAPIVersion = "2022-06-28"

// NotionClient handles communication with the Notion API
type NotionClient struct {
	token      string
	databaseID string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ComparisonSummary is the per-document record published to Notion
type ComparisonSummary struct {
	JobID           string
	Filename        string
	LeftEngine      string
	RightEngine     string
	MatchingRate    float64
	SimilarityScore float64
	Differences     int
	PageCount       int
	ProcessedAt     time.Time
}

// NewNotionClient creates a new Notion export client
func NewNotionClient(token, databaseID string) (*NotionClient, error) {
	if token == "" {
		return nil, fmt.Errorf("Notion integration token is required")
	}
	if databaseID == "" {
		return nil, fmt.Errorf("Notion database ID is required")
	}

	return &NotionClient{
		token:      token,
		databaseID: databaseID,
		baseURL:    "https://api.notion.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.NewLogger("NotionClient"),
	}, nil
}

// HealthCheck verifies the integration token is valid
func (c *NotionClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/users/me", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Notion health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Notion health check returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// PublishSummary creates a page in the configured database with the
// comparison summary as properties.
func (c *NotionClient) PublishSummary(ctx context.Context, summary *ComparisonSummary) error {
	if summary == nil {
		return fmt.Errorf("summary is required")
	}

	c.logger.Info("Publishing comparison summary to Notion",
		"jobId", summary.JobID,
		"filename", summary.Filename,
		"matchingRate", summary.MatchingRate)

	page := map[string]interface{}{
		"parent": map[string]interface{}{
			"database_id": c.databaseID,
		},
		"properties": map[string]interface{}{
			"Name": map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]interface{}{"content": summary.Filename}},
				},
			},
			"Job ID": map[string]interface{}{
				"rich_text": []map[string]interface{}{
					{"text": map[string]interface{}{"content": summary.JobID}},
				},
			},
			"Engines": map[string]interface{}{
				"rich_text": []map[string]interface{}{
					{"text": map[string]interface{}{
						"content": fmt.Sprintf("%s vs %s", summary.LeftEngine, summary.RightEngine),
					}},
				},
			},
			"Matching Rate": map[string]interface{}{
				"number": summary.MatchingRate,
			},
			"Similarity Score": map[string]interface{}{
				"number": summary.SimilarityScore,
			},
			"Differences": map[string]interface{}{
				"number": summary.Differences,
			},
			"Pages": map[string]interface{}{
				"number": summary.PageCount,
			},
			"Processed At": map[string]interface{}{
				"date": map[string]interface{}{
					"start": summary.ProcessedAt.Format(time.RFC3339),
				},
			},
		},
	}

	reqBody, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/pages", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create page request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Notion page creation failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Notion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Notion page creation returned status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Info("Comparison summary published", "jobId", summary.JobID)
	return nil
}

func (c *NotionClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Notion-Version", notionAPIVersion)
	req.Header.Set("Content-Type", "application/json")
}
