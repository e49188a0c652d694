package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// SearchExecutor runs the layered retrieval strategy against the record store.
// Attempts form a small state machine with a single exit contract: a ResultSet
// is always returned, and collaborator failures never reach the caller.
type SearchExecutor struct {
	store             RecordStore
	vendors           VendorDirectory
	semantic          SimilaritySearcher
	limit             int
	semanticLimit     int
	semanticThreshold float64
	semanticTimeout   time.Duration
	logger            *slog.Logger
}

type searchState int

const (
	stateSemanticAttempt searchState = iota
	stateLexicalAttempt
	stateEmpty
)

// NewSearchExecutor builds an executor from an already-defaulted config.
func NewSearchExecutor(cfg Config) *SearchExecutor {
	return &SearchExecutor{
		store:             cfg.Store,
		vendors:           cfg.Vendors,
		semantic:          cfg.Semantic,
		limit:             cfg.SearchLimit,
		semanticLimit:     cfg.SemanticLimit,
		semanticThreshold: cfg.SemanticThreshold,
		semanticTimeout:   cfg.SemanticTimeout,
		logger:            cfg.Logger,
	}
}

// Search resolves a filter into a result set. The returned string is a
// non-empty failure summary when the lexical stage hit a store error; the
// result set is then empty with a zero total. Semantic errors and empty
// semantic results fall through to the lexical attempt silently.
func (e *SearchExecutor) Search(ctx context.Context, tenantID, message string, filter ResolvedFilter) (ResultSet, string) {
	state := stateLexicalAttempt
	if e.semantic != nil {
		state = stateSemanticAttempt
	}

	for {
		switch state {
		case stateSemanticAttempt:
			if rs, ok := e.trySemantic(ctx, tenantID, message); ok {
				return rs, ""
			}
			state = stateLexicalAttempt

		case stateLexicalAttempt:
			rs, err := e.tryLexical(ctx, tenantID, filter)
			if err != nil {
				e.logger.Error("lexical search failed",
					slog.String("tenant_id", tenantID),
					slog.String("error", err.Error()),
				)
				state = stateEmpty
				continue
			}
			return rs, ""

		case stateEmpty:
			return NewResultSet(nil, SearchBasic), searchFailedText
		}
	}
}

// trySemantic runs the optional similarity attempt under a bounded timeout.
// ok is false when the capability errored, timed out, or matched nothing.
func (e *SearchExecutor) trySemantic(ctx context.Context, tenantID, message string) (ResultSet, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
	defer cancel()

	scored, err := e.semantic.Similar(ctx, tenantID, message, e.semanticThreshold, e.semanticLimit)
	if err != nil {
		e.logger.Warn("semantic search unavailable, falling back",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()),
		)
		return ResultSet{}, false
	}
	if len(scored) == 0 {
		return ResultSet{}, false
	}

	rows := make([]RecordRow, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, s.Row)
	}
	return NewResultSet(rows, SearchSemantic), true
}

// tryLexical fetches a bounded candidate page and the tenant's vendor
// directory in parallel, resolves display names, and applies the vendor term
// as a post-filter on the resolved name.
func (e *SearchExecutor) tryLexical(ctx context.Context, tenantID string, filter ResolvedFilter) (ResultSet, error) {
	q := ReceiptQuery{
		DateStart: filter.DateStart,
		DateEnd:   filter.DateEnd,
		MinTotal:  filter.MinAmount,
		Limit:     e.limit,
	}

	var (
		receipts  []StoredReceipt
		directory map[string]Vendor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipts, err = e.store.QueryReceipts(gctx, tenantID, q)
		return err
	})
	g.Go(func() error {
		var err error
		directory, err = e.vendors.VendorsByID(gctx, tenantID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return ResultSet{}, err
	}

	term := strings.ToLower(filter.VendorTerm)
	rows := make([]RecordRow, 0, len(receipts))
	for _, r := range receipts {
		vendor := directory[r.VendorID]
		if term != "" && !strings.Contains(strings.ToLower(vendor.Name), term) {
			continue
		}
		rows = append(rows, RecordRow{
			ID:             r.ID,
			Date:           r.Date,
			Amount:         r.Total,
			VendorName:     vendor.Name,
			VendorCategory: vendor.Category,
		})
	}
	return NewResultSet(rows, SearchBasic), nil
}
