// Package postgres implements the record-store interfaces with PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	assistant "github.com/laeeqsiddique/ClearSpendly-V100-sub006"
)

// Store implements assistant.RecordStore and assistant.VendorDirectory.
type Store struct {
	pool          *pgxpool.Pool
	receiptsTable string
	vendorsTable  string
}

// Option configures the store.
type Option func(*Store)

// WithReceiptsTable sets a custom receipts table name.
func WithReceiptsTable(name string) Option {
	return func(s *Store) {
		s.receiptsTable = name
	}
}

// WithVendorsTable sets a custom vendors table name.
func WithVendorsTable(name string) Option {
	return func(s *Store) {
		s.vendorsTable = name
	}
}

// New creates a PostgreSQL-backed store.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:          pool,
		receiptsTable: "receipts",
		vendorsTable:  "vendors",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryReceipts returns a bounded page of receipts, most recent first.
// Date bounds are inclusive; the end bound covers the whole end day.
func (s *Store) QueryReceipts(ctx context.Context, tenantID string, q assistant.ReceiptQuery) ([]assistant.StoredReceipt, error) {
	conditions := []string{"tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if q.DateStart != nil {
		conditions = append(conditions, fmt.Sprintf("receipt_date >= $%d", argIdx))
		args = append(args, *q.DateStart)
		argIdx++
	}
	if q.DateEnd != nil {
		conditions = append(conditions, fmt.Sprintf("receipt_date < $%d", argIdx))
		args = append(args, q.DateEnd.AddDate(0, 0, 1))
		argIdx++
	}
	if q.MinTotal != nil {
		conditions = append(conditions, fmt.Sprintf("total >= $%d", argIdx))
		args = append(args, *q.MinTotal)
		argIdx++
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT id, receipt_date, total, vendor_id
		FROM %s
		WHERE %s
		ORDER BY receipt_date DESC
		LIMIT $%d
	`, s.receiptsTable, strings.Join(conditions, " AND "), argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying receipts: %w", err)
	}
	defer rows.Close()

	var receipts []assistant.StoredReceipt
	for rows.Next() {
		var r assistant.StoredReceipt
		if err := rows.Scan(&r.ID, &r.Date, &r.Total, &r.VendorID); err != nil {
			return nil, fmt.Errorf("scanning receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading receipts: %w", err)
	}
	return receipts, nil
}

// VendorsByID returns vendors keyed by ID. An empty id list returns the
// tenant's full directory.
func (s *Store) VendorsByID(ctx context.Context, tenantID string, ids []string) (map[string]assistant.Vendor, error) {
	query := fmt.Sprintf(`SELECT id, name, category FROM %s WHERE tenant_id = $1`, s.vendorsTable)
	args := []any{tenantID}
	if len(ids) > 0 {
		query += " AND id = ANY($2)"
		args = append(args, ids)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vendors: %w", err)
	}
	defer rows.Close()

	vendors := make(map[string]assistant.Vendor)
	for rows.Next() {
		var v assistant.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Category); err != nil {
			return nil, fmt.Errorf("scanning vendor: %w", err)
		}
		vendors[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vendors: %w", err)
	}
	return vendors, nil
}

// Migration returns the SQL to create the receipts and vendors tables.
func Migration(receiptsTable, vendorsTable string) string {
	if receiptsTable == "" {
		receiptsTable = "receipts"
	}
	if vendorsTable == "" {
		vendorsTable = "vendors"
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			vendor_id TEXT,
			receipt_date TIMESTAMPTZ NOT NULL,
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS %[2]s (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_tenant_date ON %[1]s (tenant_id, receipt_date DESC);
		CREATE INDEX IF NOT EXISTS idx_%[2]s_tenant ON %[2]s (tenant_id);
	`, receiptsTable, vendorsTable)
}
