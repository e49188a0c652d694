// Package semantic provides the optional similarity-search capability:
// an embedding client plus an in-memory cosine index over receipt line items.
package semantic

import (
	"context"
	"fmt"

	oai "github.com/sashabaranov/go-openai"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder wraps the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *oai.Client
	model  oai.EmbeddingModel
}

// NewOpenAIEmbedder creates an embedder. An empty model defaults to
// text-embedding-3-small.
func NewOpenAIEmbedder(client *oai.Client, model oai.EmbeddingModel) *OpenAIEmbedder {
	if model == "" {
		model = oai.SmallEmbedding3
	}
	return &OpenAIEmbedder{client: client, model: model}
}

// Embed generates an embedding for the given text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, oai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embeddings")
	}
	return resp.Data[0].Embedding, nil
}
