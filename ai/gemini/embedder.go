package gemini

import (
	"context"
	"log/slog"

	"github.com/poiesic/vecseed/ai"
	"google.golang.org/genai"
)

// Documents are embedded for later retrieval.
const taskType = "RETRIEVAL_DOCUMENT"

// Embedder implements ai.Embedder on top of the Gemini embedContent API.
type Embedder struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts sends all texts as one embedContent request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, &ai.ProviderError{Inputs: len(texts), Err: err}
	}

	return embeddingValues(len(texts), resp)
}

// embeddingValues extracts one vector per input from resp. A missing
// embedding is reported as a count mismatch rather than shifting the rest.
func embeddingValues(inputs int, resp *genai.EmbedContentResponse) ([][]float32, error) {
	var vectors [][]float32
	if resp != nil {
		vectors = make([][]float32, 0, len(resp.Embeddings))
		for _, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				continue
			}
			vectors = append(vectors, emb.Values)
		}
	}
	if err := ai.CheckEmbeddings(inputs, vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}
