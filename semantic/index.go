package semantic

import (
	"math"
	"sort"
	"sync"

	assistant "github.com/laeeqsiddique/ClearSpendly-V100-sub006"
)

// LineItem is one embedded receipt line item. The parent row carries the
// already-resolved vendor fields so hits need no directory lookup.
type LineItem struct {
	TenantID    string
	Description string
	Row         assistant.RecordRow
	Vector      []float32
}

// Index is an in-memory cosine similarity index over line items. It is
// populated by the ingestion side at startup and read-only per request, so
// concurrent searches share nothing mutable.
type Index struct {
	mu    sync.RWMutex
	items []LineItem
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Add appends line items to the index.
func (ix *Index) Add(items ...LineItem) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.items = append(ix.items, items...)
}

// Len returns the number of indexed line items.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}

// Search returns the tenant's receipts whose best line-item similarity meets
// the threshold, grouped by parent receipt and sorted by similarity
// descending, capped at limit.
func (ix *Index) Search(tenantID string, vector []float32, threshold float64, limit int) []assistant.ScoredReceipt {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	// Best-scoring line item per parent receipt.
	best := make(map[string]assistant.ScoredReceipt)
	var order []string
	for _, item := range ix.items {
		if item.TenantID != tenantID {
			continue
		}
		score := cosineSimilarity(vector, item.Vector)
		if score < threshold {
			continue
		}
		prev, seen := best[item.Row.ID]
		if !seen {
			order = append(order, item.Row.ID)
		}
		if !seen || score > prev.Similarity {
			best[item.Row.ID] = assistant.ScoredReceipt{Row: item.Row, Similarity: score}
		}
	}

	results := make([]assistant.ScoredReceipt, 0, len(order))
	for _, id := range order {
		results = append(results, best[id])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
