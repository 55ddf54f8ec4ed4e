package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the external classifier service over HTTP. Every call is
// bounded by the configured timeout; the engine treats any error from here as
// a failed classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an analyzer client. The timeout bounds the whole
// request including connection setup and body read.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Analyze classifies a justification string.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return Failed(), fmt.Errorf("marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return Failed(), fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failed(), fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failed(), fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Failed(), fmt.Errorf("decode analyzer response: %w", err)
	}

	return Result{
		Label:      ParseLabel(body.Label),
		Confidence: body.Confidence,
	}, nil
}
