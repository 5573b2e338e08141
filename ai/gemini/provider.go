// Package gemini provides an embedding service backed by the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/vecseed/ai"
	"google.golang.org/genai"
)

// Provider implements ai.AIProvider using the genai SDK.
type Provider struct {
	embedder *Embedder
	logger   *slog.Logger
}

// NewProvider creates a Gemini provider. The config must name the gemini
// provider and carry an API key.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Provider != ai.ProviderGemini {
		return nil, errors.New("gemini: config does not select the gemini provider")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		embedder: &Embedder{
			client: client,
			model:  config.EmbeddingModel,
			logger: slog.Default().With("component", "gemini-embedder", "model", config.EmbeddingModel),
		},
		logger: slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close is a no-op; the genai client uses a shared HTTP transport.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
