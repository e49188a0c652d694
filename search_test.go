package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

// mockRecordStore is a mock record store for testing.
type mockRecordStore struct {
	receipts  []StoredReceipt
	err       error
	lastQuery ReceiptQuery
	calls     int
}

func (m *mockRecordStore) QueryReceipts(ctx context.Context, tenantID string, q ReceiptQuery) ([]StoredReceipt, error) {
	m.calls++
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.receipts, nil
}

// mockVendorDirectory is a mock vendor directory for testing.
type mockVendorDirectory struct {
	vendors map[string]Vendor
	err     error
}

func (m *mockVendorDirectory) VendorsByID(ctx context.Context, tenantID string, ids []string) (map[string]Vendor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vendors, nil
}

// mockSimilaritySearcher is a mock semantic capability for testing.
type mockSimilaritySearcher struct {
	results []ScoredReceipt
	err     error
	delay   time.Duration
	calls   int
}

func (m *mockSimilaritySearcher) Similar(ctx context.Context, tenantID, query string, threshold float64, limit int) ([]ScoredReceipt, error) {
	m.calls++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func testExecutor(store RecordStore, vendors VendorDirectory, semantic SimilaritySearcher) *SearchExecutor {
	cfg := Config{
		Store:    store,
		Vendors:  vendors,
		Semantic: semantic,
		Logger:   slog.New(slog.NewTextHandler(&strings.Builder{}, nil)),
	}
	return NewSearchExecutor(cfg.withDefaults())
}

func storedReceipts() []StoredReceipt {
	return []StoredReceipt{
		{ID: "1", Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Total: 4.50, VendorID: "v1"},
		{ID: "2", Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Total: 120, VendorID: "v2"},
		{ID: "3", Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Total: 30.25, VendorID: "v1"},
	}
}

func vendorMap() map[string]Vendor {
	return map[string]Vendor{
		"v1": {ID: "v1", Name: "Starbucks", Category: "Dining"},
		"v2": {ID: "v2", Name: "Costco", Category: "Groceries"},
	}
}

func TestSearchLexical(t *testing.T) {
	t.Run("resolves vendor names and recomputes total", func(t *testing.T) {
		exec := testExecutor(&mockRecordStore{receipts: storedReceipts()}, &mockVendorDirectory{vendors: vendorMap()}, nil)

		rs, failure := exec.Search(context.Background(), "t1", "show receipts", ResolvedFilter{})
		if failure != "" {
			t.Fatalf("unexpected failure: %q", failure)
		}
		if rs.SearchType != SearchBasic {
			t.Errorf("searchType = %q, want basic", rs.SearchType)
		}
		if len(rs.Rows) != 3 {
			t.Fatalf("rows = %d, want 3", len(rs.Rows))
		}
		if rs.Rows[0].VendorName != "Starbucks" {
			t.Errorf("vendorName = %q, want Starbucks", rs.Rows[0].VendorName)
		}
		want := 4.50 + 120 + 30.25
		if diff := rs.TotalAmount - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("totalAmount = %v, want %v", rs.TotalAmount, want)
		}
	})

	t.Run("vendor term post-filters on resolved name", func(t *testing.T) {
		exec := testExecutor(&mockRecordStore{receipts: storedReceipts()}, &mockVendorDirectory{vendors: vendorMap()}, nil)

		rs, _ := exec.Search(context.Background(), "t1", "starbucks", ResolvedFilter{VendorTerm: "starbucks"})
		if len(rs.Rows) != 2 {
			t.Fatalf("rows = %d, want 2", len(rs.Rows))
		}
		for _, row := range rs.Rows {
			if row.VendorName != "Starbucks" {
				t.Errorf("unexpected vendor %q", row.VendorName)
			}
		}
	})

	t.Run("filter constraints are passed to the store", func(t *testing.T) {
		store := &mockRecordStore{receipts: nil}
		exec := testExecutor(store, &mockVendorDirectory{vendors: vendorMap()}, nil)

		start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		min := 50.0
		exec.Search(context.Background(), "t1", "q", ResolvedFilter{DateStart: &start, DateEnd: &end, MinAmount: &min})

		q := store.lastQuery
		if q.DateStart == nil || !q.DateStart.Equal(start) || q.DateEnd == nil || !q.DateEnd.Equal(end) {
			t.Errorf("date bounds not forwarded: %+v", q)
		}
		if q.MinTotal == nil || *q.MinTotal != 50 {
			t.Errorf("minTotal not forwarded: %+v", q.MinTotal)
		}
		if q.Limit != 50 {
			t.Errorf("limit = %d, want 50", q.Limit)
		}
	})

	t.Run("store failure returns empty set and failure summary", func(t *testing.T) {
		exec := testExecutor(&mockRecordStore{err: errors.New("connection refused")}, &mockVendorDirectory{vendors: vendorMap()}, nil)

		rs, failure := exec.Search(context.Background(), "t1", "q", ResolvedFilter{})
		if failure == "" || !strings.Contains(failure, "Search failed") {
			t.Errorf("failure = %q, want search failure summary", failure)
		}
		if len(rs.Rows) != 0 || rs.TotalAmount != 0 {
			t.Errorf("expected empty result set, got %+v", rs)
		}
	})
}

func TestSearchSemantic(t *testing.T) {
	semRows := []ScoredReceipt{
		{Row: RecordRow{ID: "9", Amount: 15, VendorName: "Blue Bottle"}, Similarity: 0.91},
		{Row: RecordRow{ID: "8", Amount: 7, VendorName: "Starbucks"}, Similarity: 0.84},
	}

	t.Run("semantic hit short-circuits the lexical path", func(t *testing.T) {
		store := &mockRecordStore{receipts: storedReceipts()}
		exec := testExecutor(store, &mockVendorDirectory{vendors: vendorMap()}, &mockSimilaritySearcher{results: semRows})

		rs, failure := exec.Search(context.Background(), "t1", "coffee runs", ResolvedFilter{})
		if failure != "" {
			t.Fatalf("unexpected failure: %q", failure)
		}
		if rs.SearchType != SearchSemantic {
			t.Errorf("searchType = %q, want semantic", rs.SearchType)
		}
		if len(rs.Rows) != 2 || rs.TotalAmount != 22 {
			t.Errorf("unexpected result set: %+v", rs)
		}
		if store.calls != 0 {
			t.Errorf("lexical path should not run after semantic hit")
		}
	})

	t.Run("semantic error falls through to lexical", func(t *testing.T) {
		store := &mockRecordStore{receipts: storedReceipts()}
		exec := testExecutor(store, &mockVendorDirectory{vendors: vendorMap()}, &mockSimilaritySearcher{err: errors.New("embedding service down")})

		rs, failure := exec.Search(context.Background(), "t1", "coffee", ResolvedFilter{})
		if failure != "" {
			t.Fatalf("unexpected failure: %q", failure)
		}
		if rs.SearchType != SearchBasic || len(rs.Rows) != 3 {
			t.Errorf("expected lexical fallback, got %+v", rs)
		}
	})

	t.Run("semantic empty falls through to lexical", func(t *testing.T) {
		store := &mockRecordStore{receipts: storedReceipts()}
		exec := testExecutor(store, &mockVendorDirectory{vendors: vendorMap()}, &mockSimilaritySearcher{results: nil})

		rs, _ := exec.Search(context.Background(), "t1", "coffee", ResolvedFilter{})
		if rs.SearchType != SearchBasic {
			t.Errorf("expected lexical fallback, got %q", rs.SearchType)
		}
	})

	t.Run("slow semantic attempt is bounded by the timeout", func(t *testing.T) {
		store := &mockRecordStore{receipts: storedReceipts()}
		slow := &mockSimilaritySearcher{results: semRows, delay: 200 * time.Millisecond}
		cfg := Config{
			Store:           store,
			Vendors:         &mockVendorDirectory{vendors: vendorMap()},
			Semantic:        slow,
			SemanticTimeout: 10 * time.Millisecond,
			Logger:          slog.New(slog.NewTextHandler(&strings.Builder{}, nil)),
		}
		exec := NewSearchExecutor(cfg.withDefaults())

		rs, failure := exec.Search(context.Background(), "t1", "coffee", ResolvedFilter{})
		if failure != "" {
			t.Fatalf("unexpected failure: %q", failure)
		}
		if rs.SearchType != SearchBasic {
			t.Errorf("expected lexical fallback after timeout, got %q", rs.SearchType)
		}
	})
}
