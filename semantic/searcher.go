package semantic

import (
	"context"
	"fmt"

	assistant "github.com/laeeqsiddique/ClearSpendly-V100-sub006"
)

// Searcher ties an embedder to an index and implements
// assistant.SimilaritySearcher.
type Searcher struct {
	embedder Embedder
	index    *Index
}

// NewSearcher creates a similarity searcher.
func NewSearcher(embedder Embedder, index *Index) *Searcher {
	return &Searcher{embedder: embedder, index: index}
}

// Similar embeds the query and returns the best-matching receipts.
func (s *Searcher) Similar(ctx context.Context, tenantID, query string, threshold float64, limit int) ([]assistant.ScoredReceipt, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.index.Search(tenantID, vector, threshold, limit), nil
}
