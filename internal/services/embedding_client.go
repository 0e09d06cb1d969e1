package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmbeddingClientInterface defines the interface for the embedding-model
// collaborator
type EmbeddingClientInterface interface {
	EmbedQuery(ctx context.Context, text string) (*EmbeddingResult, error)
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult is a fixed-dimension vector bound to one embedding-model
// version. Vectors from a different model or dimension must never be
// compared against the store.
type EmbeddingResult struct {
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
	Model     string    `json:"model"`
	Cached    bool      `json:"cached"`
}

// embedQueryRequest is the payload for the embedding sidecar
type embedQueryRequest struct {
	Text     string  `json:"text"`
	Model    *string `json:"model,omitempty"`
	UseCache bool    `json:"use_cache"`
}

// EmbeddingClient talks to the embedding sidecar service. The HTTP client
// is pooled and safe for concurrent use across requests.
type EmbeddingClient struct {
	baseURL       string
	httpClient    *http.Client
	retries       int
	model         string
	wantDimension int
}

// EmbeddingClientConfig holds settings for the embedding sidecar connection
type EmbeddingClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	Model     string // embedding model identifier pinned for the store
	Dimension int    // expected vector dimension; 0 disables the check
}

// NewEmbeddingClient creates a client for the embedding sidecar
func NewEmbeddingClient(cfg EmbeddingClientConfig) *EmbeddingClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 3
	}

	return &EmbeddingClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retries:       cfg.Retries,
		model:         cfg.Model,
		wantDimension: cfg.Dimension,
	}
}

// EmbedQuery converts query text into an embedding vector. A dimension or
// model mismatch against the pinned store configuration is a hard error,
// never a silent truncation.
func (c *EmbeddingClient) EmbedQuery(ctx context.Context, text string) (*EmbeddingResult, error) {
	req := embedQueryRequest{
		Text:     text,
		UseCache: true,
	}
	if c.model != "" {
		req.Model = &c.model
	}

	resp, err := c.doRequest(ctx, "POST", "/embed/query", req)
	if err != nil {
		return nil, fmt.Errorf("embed query request failed: %w", err)
	}

	var result EmbeddingResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}
	if result.Dimension != 0 && len(result.Embedding) != result.Dimension {
		return nil, fmt.Errorf("malformed embedding: got %d values, declared dimension %d",
			len(result.Embedding), result.Dimension)
	}
	if c.wantDimension > 0 && len(result.Embedding) != c.wantDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: got %d, store expects %d",
			len(result.Embedding), c.wantDimension)
	}
	if c.model != "" && result.Model != "" && result.Model != c.model {
		return nil, fmt.Errorf("embedding model mismatch: got %q, store expects %q",
			result.Model, c.model)
	}

	return &result, nil
}

// HealthCheck verifies the embedding sidecar is reachable
func (c *EmbeddingClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("embedding service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	return nil
}

// doRequest performs an HTTP request with retry and exponential backoff.
// Client errors (4xx) are not retried.
func (c *EmbeddingClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.makeRequest(ctx, method, endpoint, body)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		lastErr = err
		if resp != nil {
			if err == nil {
				lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			}
			resp.Body.Close()
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.retries, lastErr)
}

// makeRequest creates and executes a single HTTP request
func (c *EmbeddingClient) makeRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	url := c.baseURL + endpoint

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// decodeResponse reads and parses a JSON response body
func decodeResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
