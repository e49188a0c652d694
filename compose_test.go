package assistant

import (
	"strings"
	"testing"
	"time"
)

func sampleRows() []RecordRow {
	return []RecordRow{
		{ID: "1", Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Amount: 4.50, VendorName: "Starbucks", VendorCategory: "Dining"},
		{ID: "2", Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), Amount: 120, VendorName: "Costco", VendorCategory: "Groceries"},
		{ID: "3", Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Amount: 30.25, VendorName: "Shell", VendorCategory: "Gas"},
	}
}

func TestComposeReply(t *testing.T) {
	rs := NewResultSet(sampleRows(), SearchBasic)

	t.Run("show all with zero rows says no receipts found", func(t *testing.T) {
		empty := NewResultSet(nil, SearchBasic)
		got := ComposeReply("show me all receipts", empty, ResolvedFilter{}, false)
		if !strings.Contains(got, "No receipts found") {
			t.Errorf("got %q, want 'No receipts found'", got)
		}
	})

	t.Run("zero rows with a date filter names the range", func(t *testing.T) {
		empty := NewResultSet(nil, SearchBasic)
		got := ComposeReply("total for last month", empty, ResolvedFilter{DateDescription: "last month"}, false)
		if !strings.Contains(got, "No receipts found for last month") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("totals branch", func(t *testing.T) {
		got := ComposeReply("how much did I spend", rs, ResolvedFilter{DateDescription: "this week"}, false)
		if !strings.Contains(got, "$154.75") || !strings.Contains(got, "3 receipts") || !strings.Contains(got, "this week") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("show all lists rows", func(t *testing.T) {
		got := ComposeReply("show all receipts", rs, ResolvedFilter{}, false)
		if !strings.Contains(got, "Starbucks") || !strings.Contains(got, "$4.50") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("show all outranks totals", func(t *testing.T) {
		got := ComposeReply("show all receipts where I spent money", rs, ResolvedFilter{}, false)
		if !strings.Contains(got, "Found 3 receipts") {
			t.Errorf("show-all should win precedence: %q", got)
		}
	})

	t.Run("vendor branch with term", func(t *testing.T) {
		got := ComposeReply("what about that merchant", rs, ResolvedFilter{VendorTerm: "starbucks"}, false)
		if !strings.Contains(got, "Spending at starbucks") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("category branch", func(t *testing.T) {
		got := ComposeReply("break down my categories", rs, ResolvedFilter{}, false)
		if !strings.Contains(got, "Groceries: $120.00") || !strings.Contains(got, "Spending by category") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("help branch is static", func(t *testing.T) {
		got := ComposeReply("help", NewResultSet(nil, SearchBasic), ResolvedFilter{}, false)
		if got != helpText {
			t.Errorf("got %q", got)
		}
	})

	t.Run("debug date branch is static", func(t *testing.T) {
		got := ComposeReply("debug date parsing", rs, ResolvedFilter{}, false)
		if got != debugDateText {
			t.Errorf("got %q", got)
		}
	})

	t.Run("search failure wins over everything", func(t *testing.T) {
		got := ComposeReply("show all receipts", rs, ResolvedFilter{}, true)
		if !strings.Contains(got, "Search failed") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("semantic phrasing", func(t *testing.T) {
		sem := NewResultSet(sampleRows(), SearchSemantic)
		got := ComposeReply("coffee purchases", sem, ResolvedFilter{}, false)
		if !strings.Contains(got, "semantically similar receipts") {
			t.Errorf("got %q", got)
		}
	})
}

func TestResultSetTotalInvariant(t *testing.T) {
	rs := NewResultSet(sampleRows(), SearchBasic)
	var want float64
	for _, r := range rs.Rows {
		want += r.Amount
	}
	if diff := rs.TotalAmount - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("totalAmount = %v, want %v", rs.TotalAmount, want)
	}
}
