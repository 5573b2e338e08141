package gemini

import (
	"context"
	"testing"

	"github.com/poiesic/vecseed/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	cfg := ai.NewConfig(ai.WithProvider(ai.ProviderGemini), ai.WithEmbeddingModel("text-embedding-004"))

	_, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")
}

func TestNewProvider_RejectsOtherProvider(t *testing.T) {
	cfg := ai.NewConfig(ai.WithAPIKey("key"))

	_, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini provider")
}

func TestNewProvider(t *testing.T) {
	cfg := ai.NewConfig(
		ai.WithProvider(ai.ProviderGemini),
		ai.WithEmbeddingModel("text-embedding-004"),
		ai.WithAPIKey("test-key"),
	)

	provider, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, provider.Embedder())
	assert.NoError(t, provider.Close())
}
