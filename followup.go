package assistant

import (
	"fmt"
	"sort"
	"strings"
)

// Short acknowledgements and follow-up phrases continue the previous turn's
// topic instead of starting a new query. When the caller supplies the prior
// result set, these are answered from it without touching the store.

var shortAckTokens = []string{
	"yes", "yeah", "yep", "ok", "okay", "sure", "please", "go ahead",
	"no", "nope", "nah", "stop", "cancel",
	"more", "continue", "next", "details", "breakdown",
}

var negativeAckTokens = []string{"no", "nope", "nah", "stop", "cancel"}

var followUpPhrases = []string{
	"list them", "show them", "what are they", "which ones",
	"tell me more", "break it down", "break them down",
	"those receipts", "these receipts", "the ones you found",
}

const maxShortAckLength = 10

// IsShortAck reports whether the message is a terse acknowledgement: at most
// ten characters after trimming, and matching one of the fixed ack tokens.
func IsShortAck(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" || len(trimmed) > maxShortAckLength {
		return false
	}
	for _, tok := range shortAckTokens {
		if trimmed == tok || strings.Contains(trimmed, tok) {
			return true
		}
	}
	return false
}

// IsFollowUp reports whether the message refers back to unnamed prior results.
func IsFollowUp(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range followUpPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ResolveFollowUp answers a short ack or follow-up from the previous turn's
// result set without issuing a new query. It returns nil when the message is
// not a follow-up, or when there is nothing to resolve because no prior result
// set was supplied; the caller then runs the normal pipeline.
func ResolveFollowUp(text string, prior *ResultSet) *Reply {
	if !IsShortAck(text) && !IsFollowUp(text) {
		return nil
	}
	if prior == nil || len(prior.Rows) == 0 {
		return nil
	}

	if isNegativeAck(text) {
		return &Reply{
			Text:      "No problem. Ask me about your receipts whenever you're ready.",
			ResultSet: NewResultSet(nil, SearchContextual),
		}
	}

	rs := NewResultSet(prior.Rows, SearchContextual)
	return &Reply{
		Text:      vendorBreakdown(rs),
		ResultSet: rs,
	}
}

func isNegativeAck(text string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if len(trimmed) > maxShortAckLength {
		return false
	}
	for _, tok := range negativeAckTokens {
		if trimmed == tok || strings.Contains(trimmed, tok) {
			return true
		}
	}
	return false
}

// vendorBreakdown renders the top five vendors by summed amount, descending,
// ties broken by first-encountered order.
func vendorBreakdown(rs ResultSet) string {
	type vendorTotal struct {
		name  string
		total float64
	}
	totals := make(map[string]int)
	var order []vendorTotal
	for _, row := range rs.Rows {
		name := row.VendorName
		if name == "" {
			name = "Unknown"
		}
		if idx, ok := totals[name]; ok {
			order[idx].total += row.Amount
			continue
		}
		totals[name] = len(order)
		order = append(order, vendorTotal{name: name, total: row.Amount})
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].total > order[j].total
	})
	if len(order) > 5 {
		order = order[:5]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's the breakdown of those %d receipts by vendor:\n", len(rs.Rows))
	for _, v := range order {
		fmt.Fprintf(&b, "- %s: %s\n", v.name, formatCurrency(v.total))
	}
	fmt.Fprintf(&b, "Total: %s", formatCurrency(rs.TotalAmount))
	return b.String()
}
