package assistant

import (
	"fmt"
	"sort"
	"strings"
)

// Reply composition. Intent is detected by keyword families checked in fixed
// precedence against the raw message; each entry pairs a predicate with its
// renderer, so the ordering is explicit data rather than code layout.

type intentRule struct {
	name   string
	match  func(msg string) bool
	render func(rs ResultSet, filter ResolvedFilter) string
}

var intentRules = []intentRule{
	{
		name:   "debug_date",
		match:  containsAny("debug date"),
		render: func(ResultSet, ResolvedFilter) string { return debugDateText },
	},
	{
		name:   "show_all",
		match:  containsAny("show all", "show me all", "all receipts", "list all", "everything"),
		render: renderReceiptList,
	},
	{
		name:   "totals",
		match:  containsAny("total", "sum", "spent", "spend", "how much"),
		render: renderTotals,
	},
	{
		name:   "vendor",
		match:  containsAny("vendor", "merchant", "store", "shop", "where"),
		render: renderVendorAnalysis,
	},
	{
		name:   "recency",
		match:  containsAny("recent", "latest", "today", "yesterday", "week", "month", "days", "year"),
		render: renderReceiptList,
	},
	{
		name:   "category",
		match:  containsAny("category", "categories", "tag", "tags"),
		render: renderCategoryBreakdown,
	},
	{
		name:   "help",
		match:  containsAny("help", "what can you"),
		render: func(ResultSet, ResolvedFilter) string { return helpText },
	},
}

const helpText = `I can answer questions about your receipts. Try things like:
- "How much did I spend last month?"
- "Show all receipts from Starbucks"
- "Receipts over $50 this week"
- "Break it down by category"`

const debugDateText = `Date phrases I understand: today, yesterday, this week, last week, this month, last month, this year, last year, last N days, past week, and month names like "march 2024".`

const searchFailedText = "Search failed. Please try again in a moment."

// ComposeReply converts a result set plus the detected intent of the raw
// message into the reply text. searchFailed marks a store-level failure that
// was absorbed by the search layer.
func ComposeReply(message string, rs ResultSet, filter ResolvedFilter, searchFailed bool) string {
	if searchFailed {
		return searchFailedText
	}
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		if rule.match(lower) {
			return rule.render(rs, filter)
		}
	}
	return renderDefault(rs, filter)
}

func containsAny(phrases ...string) func(string) bool {
	return func(msg string) bool {
		for _, p := range phrases {
			if strings.Contains(msg, p) {
				return true
			}
		}
		return false
	}
}

// noReceiptsText names the filter that produced zero rows, so the user can
// tell the constraint was understood.
func noReceiptsText(filter ResolvedFilter) string {
	switch {
	case filter.DateDescription != "" && filter.VendorTerm != "":
		return fmt.Sprintf("No receipts found for %s at %s.", filter.DateDescription, filter.VendorTerm)
	case filter.DateDescription != "":
		return fmt.Sprintf("No receipts found for %s.", filter.DateDescription)
	case filter.VendorTerm != "":
		return fmt.Sprintf("No receipts found for %s.", filter.VendorTerm)
	default:
		return "No receipts found."
	}
}

func renderTotals(rs ResultSet, filter ResolvedFilter) string {
	if len(rs.Rows) == 0 {
		return noReceiptsText(filter)
	}
	text := fmt.Sprintf("You spent %s across %d %s", formatCurrency(rs.TotalAmount), len(rs.Rows), receiptsWord(rs))
	if filter.DateDescription != "" {
		text += " " + filter.DateDescription
	}
	if filter.VendorTerm != "" {
		text += " at " + filter.VendorTerm
	}
	return text + "."
}

func renderReceiptList(rs ResultSet, filter ResolvedFilter) string {
	if len(rs.Rows) == 0 {
		return noReceiptsText(filter)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s totaling %s:\n", len(rs.Rows), receiptsWord(rs), formatCurrency(rs.TotalAmount))
	for i, row := range rs.Rows {
		if i == 10 {
			fmt.Fprintf(&b, "…and %d more.", len(rs.Rows)-i)
			break
		}
		fmt.Fprintf(&b, "- %s — %s — %s\n", row.Date.Format("Jan 2, 2006"), row.VendorName, formatCurrency(row.Amount))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderVendorAnalysis(rs ResultSet, filter ResolvedFilter) string {
	if len(rs.Rows) == 0 {
		return noReceiptsText(filter)
	}
	if filter.VendorTerm != "" {
		return fmt.Sprintf("Spending at %s: %s across %d %s.",
			filter.VendorTerm, formatCurrency(rs.TotalAmount), len(rs.Rows), receiptsWord(rs))
	}
	return vendorBreakdown(rs)
}

func renderCategoryBreakdown(rs ResultSet, filter ResolvedFilter) string {
	if len(rs.Rows) == 0 {
		return noReceiptsText(filter)
	}
	totals := make(map[string]float64)
	var names []string
	for _, row := range rs.Rows {
		cat := row.VendorCategory
		if cat == "" {
			cat = "Uncategorized"
		}
		if _, ok := totals[cat]; !ok {
			names = append(names, cat)
		}
		totals[cat] += row.Amount
	}
	sort.SliceStable(names, func(i, j int) bool {
		return totals[names[i]] > totals[names[j]]
	})
	var b strings.Builder
	b.WriteString("Spending by category:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, formatCurrency(totals[name]))
	}
	fmt.Fprintf(&b, "Total: %s", formatCurrency(rs.TotalAmount))
	return b.String()
}

func renderDefault(rs ResultSet, filter ResolvedFilter) string {
	if len(rs.Rows) == 0 {
		return noReceiptsText(filter)
	}
	return fmt.Sprintf("I found %d %s totaling %s. Ask for a total, a vendor, or a date range to dig in.",
		len(rs.Rows), receiptsWord(rs), formatCurrency(rs.TotalAmount))
}

// receiptsWord phrases the count by the strategy that produced the rows.
func receiptsWord(rs ResultSet) string {
	if rs.SearchType == SearchSemantic {
		return "semantically similar receipts"
	}
	return "receipts"
}

func formatCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
