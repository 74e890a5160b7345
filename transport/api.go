package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"aria/types"
)

// APIClient submits generation requests to the service over HTTP
type APIClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewAPIClient creates a client for the given service base URL
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SubmitGeneration starts a new generation and returns the server-assigned
// id. No local job record is created here; the record appears only when the
// GENERATION_STARTED push event arrives.
func (c *APIClient) SubmitGeneration(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(types.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit generation: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr types.APIError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			log.Printf("generation request rejected (status %d): %s", resp.StatusCode, apiErr.Error)
			return "", fmt.Errorf("submit generation: %s", apiErr.Error)
		}
		log.Printf("generation request failed with status %d", resp.StatusCode)
		return "", fmt.Errorf("submit generation: unexpected status %d", resp.StatusCode)
	}

	var ack types.GenerateResponse
	if err := json.Unmarshal(data, &ack); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	if ack.GenerationID == "" {
		return "", fmt.Errorf("generation response missing id")
	}
	return ack.GenerationID, nil
}
