package embed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// OllamaClient embeds text through Ollama's native /api/embed endpoint.
type OllamaClient struct {
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

// NewOllamaClient creates a client for Ollama's native embedding API.
func NewOllamaClient(cfg Config) *OllamaClient {
	host := strings.TrimSuffix(cfg.BaseURL, "/")
	// Handle both /v1 suffix and bare host
	host = strings.TrimSuffix(host, "/v1")
	if host == "" {
		host = "http://localhost:11434"
	}
	return &OllamaClient{
		baseURL:   host,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *OllamaClient) Dimension() int {
	return c.dimension
}

// Embed generates an embedding for a single input.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float64, error) {
	reqBody := map[string]any{
		"model": c.model,
		"input": text,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, wrapErr("ollama", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &Error{
			Provider: "ollama",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, wrapErr("ollama", fmt.Errorf("failed to decode response: %w", err))
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0]) == 0 {
		return nil, &Error{Provider: "ollama", Err: fmt.Errorf("no embeddings in response")}
	}

	return result.Embeddings[0], nil
}

type ollamaEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}
