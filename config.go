package assistant

import (
	"context"
	"log/slog"
	"time"
)

// RecordStore is the receipt query capability of the hosted record store.
type RecordStore interface {
	// QueryReceipts returns a bounded page of receipts for a tenant,
	// most-recent-first, matching the query's constraints.
	QueryReceipts(ctx context.Context, tenantID string, q ReceiptQuery) ([]StoredReceipt, error)
}

// VendorDirectory resolves vendor display names and categories.
type VendorDirectory interface {
	// VendorsByID returns the vendors with the given IDs, keyed by ID.
	// An empty id list returns the tenant's full vendor directory.
	VendorsByID(ctx context.Context, tenantID string, ids []string) (map[string]Vendor, error)
}

// SimilaritySearcher is the optional semantic retrieval capability.
type SimilaritySearcher interface {
	// Similar embeds the query and returns receipts whose line items score
	// at or above threshold, best match first, grouped by parent receipt.
	Similar(ctx context.Context, tenantID, query string, threshold float64, limit int) ([]ScoredReceipt, error)
}

// Config configures the query resolution service.
type Config struct {
	// Store is the record store query capability.
	// Required.
	Store RecordStore

	// Vendors is the vendor directory lookup.
	// Required.
	Vendors VendorDirectory

	// Semantic is the similarity-search capability.
	// Optional - when nil, every search goes straight to the lexical path.
	Semantic SimilaritySearcher

	// Logger is the structured logger.
	// Optional - defaults to slog.Default().
	Logger *slog.Logger

	// Clock supplies "now" for date phrase resolution.
	// Optional - defaults to time.Now. Injectable for deterministic tests.
	Clock func() time.Time

	// KnownVendors is the fixed vendor term list used for extraction.
	// Optional - defaults to DefaultKnownVendors.
	KnownVendors []string

	// SearchLimit caps the lexical candidate page. Defaults to 50.
	SearchLimit int

	// SemanticLimit caps semantic hits. Defaults to 10.
	SemanticLimit int

	// SemanticThreshold is the minimum similarity score. Defaults to 0.7.
	SemanticThreshold float64

	// SemanticTimeout bounds the optional semantic attempt. On expiry the
	// search falls through to the lexical path. Defaults to 3 seconds.
	SemanticTimeout time.Duration

	// RequestTimeout is the maximum time for one HTTP request.
	// Defaults to 30 seconds.
	RequestTimeout time.Duration

	// MaxRequestBodySize limits the HTTP request body. Defaults to 64 KiB.
	MaxRequestBodySize int64

	// AllowedOrigins for CORS. Defaults to allowing all origins.
	AllowedOrigins []string
}

// withDefaults applies default values to the config.
func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if len(c.KnownVendors) == 0 {
		c.KnownVendors = DefaultKnownVendors
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = 50
	}
	if c.SemanticLimit <= 0 {
		c.SemanticLimit = 10
	}
	if c.SemanticThreshold <= 0 {
		c.SemanticThreshold = 0.7
	}
	if c.SemanticTimeout <= 0 {
		c.SemanticTimeout = 3 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.MaxRequestBodySize <= 0 {
		c.MaxRequestBodySize = 64 * 1024
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	return c
}

// validate checks that required config fields are set.
func (c Config) validate() error {
	if c.Store == nil {
		return NewError(ErrCodeInternal, "Store is required", nil)
	}
	if c.Vendors == nil {
		return NewError(ErrCodeInternal, "Vendors directory is required", nil)
	}
	return nil
}
