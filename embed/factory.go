package embed

import "fmt"

// NewEmbedder picks a client by provider name.
func NewEmbedder(provider string, cfg Config) (Embedder, error) {
	switch provider {
	case "ollama":
		return NewOllamaClient(cfg), nil
	case "openai":
		return NewOpenAIClient(cfg), nil
	case "watsonx":
		return NewWatsonxClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
