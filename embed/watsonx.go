package embed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const (
	watsonxAPIVersion = "2024-05-01"
	iamTokenURL       = "https://iam.cloud.ibm.com/identity/token"
)

// WatsonxClient embeds text through IBM watsonx.ai. Requests authenticate
// with a bearer token exchanged from the API key via IAM; the token is
// cached until shortly before expiry.
type WatsonxClient struct {
	apiKey    string
	baseURL   string
	model     string
	projectID string
	dimension int
	client    *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewWatsonxClient creates a client for the watsonx.ai embedding API.
func NewWatsonxClient(cfg Config) *WatsonxClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://us-south.ml.cloud.ibm.com"
	}
	return &WatsonxClient{
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		model:     cfg.Model,
		projectID: cfg.ProjectID,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *WatsonxClient) Dimension() int {
	return c.dimension
}

// Embed generates an embedding for a single input.
func (c *WatsonxClient) Embed(ctx context.Context, text string) ([]float64, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"model_id":   c.model,
		"inputs":     []string{text},
		"project_id": c.projectID,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/ml/v1/text/embeddings?version=%s", c.baseURL, watsonxAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, wrapErr("watsonx", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &Error{
			Provider: "watsonx",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var result watsonxEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, wrapErr("watsonx", fmt.Errorf("failed to decode response: %w", err))
	}

	if len(result.Results) == 0 || len(result.Results[0].Embedding) == 0 {
		return nil, &Error{Provider: "watsonx", Err: fmt.Errorf("no embeddings in response")}
	}

	return result.Results[0].Embedding, nil
}

// bearerToken returns a cached IAM token, refreshing it when less than a
// minute of validity remains.
func (c *WatsonxClient) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, iamTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", wrapErr("watsonx", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &Error{
			Provider: "watsonx",
			Err:      fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(respBody)),
		}
	}

	var result iamTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", wrapErr("watsonx", fmt.Errorf("failed to decode token response: %w", err))
	}
	if result.AccessToken == "" {
		return "", &Error{Provider: "watsonx", Err: fmt.Errorf("empty access token")}
	}

	c.token = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.token, nil
}

type iamTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type watsonxEmbedResponse struct {
	Results []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"results"`
}
