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

// GenerationClientInterface defines the interface for the generative-model
// collaborator
type GenerationClientInterface interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	HealthCheck(ctx context.Context) error
}

// chatMessage is one message in an OpenAI-compatible chat request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest is the OpenAI-compatible chat completions payload
type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Seed        *int          `json:"seed,omitempty"`
	Stream      bool          `json:"stream"`
}

// completionResponse is the OpenAI-compatible chat completions result
type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerationClientConfig holds settings for the generative-model service.
// Temperature and seed are exposed for reproducible testing rather than
// hardcoded.
type GenerationClientConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Seed        *int
	Timeout     time.Duration
}

// GenerationClient talks to an OpenAI-compatible chat completions service
type GenerationClient struct {
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	seed        *int
	httpClient  *http.Client
}

// NewGenerationClient creates a client for the generative-model service
func NewGenerationClient(cfg GenerationClientConfig) *GenerationClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second // LLMs can be slow
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 700
	}

	return &GenerationClient{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		seed:        cfg.Seed,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Complete sends the built prompt and returns the raw generated text
func (c *GenerationClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	request := completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Seed:        c.seed,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to generation service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in generation response")
	}

	return result.Choices[0].Message.Content, nil
}

// HealthCheck verifies the generation service is running with a model loaded
func (c *GenerationClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("generation service not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	return nil
}
