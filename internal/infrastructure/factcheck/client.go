package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/credinews/credinews-api/internal/config"
	"github.com/credinews/credinews-api/internal/domain"
)

// Client calls the remote fact-check endpoint. The scoring model is opaque:
// this client only speaks the request/response contract.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.FactCheckURL,
		apiKey:  cfg.FactCheckAPIKey,
		http:    &http.Client{Timeout: cfg.FactCheckTimeout},
	}
}

// Check posts the article to /api/fact-check and decodes the credibility
// result. Network and decode failures surface as errors; the caller decides
// whether an unscored article is acceptable.
func (c *Client) Check(ctx context.Context, req domain.FactCheckRequest) (*domain.FactCheckResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal fact-check request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/fact-check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build fact-check request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fact-check call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact-check service returned %d", resp.StatusCode)
	}

	var result domain.FactCheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode fact-check response: %w", err)
	}
	return &result, nil
}
