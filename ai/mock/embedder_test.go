package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "alpha")
	require.NoError(t, err)
	b, err := m.EmbedTexts(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)

	assert.Equal(t, a, b[0])
	assert.NotEqual(t, b[0], b[1])
	assert.Equal(t, 2, m.CallCount())
}

func TestVector_UnitLength(t *testing.T) {
	v := Vector("anything", 16)
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_Reset(t *testing.T) {
	m := NewMockEmbedder().WithEmbedTextsFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, nil
	})
	_, _ = m.EmbedTexts(context.Background(), []string{"x"})

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	assert.Empty(t, m.Requests())
	assert.Nil(t, m.EmbedTextsFunc)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	mp := p.(*MockProvider)

	assert.Same(t, mp.GetMockEmbedder(), p.Embedder())
	require.NoError(t, p.Close())
	assert.True(t, mp.Closed())
}
