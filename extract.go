package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultKnownVendors is the fixed vendor term list checked before any
// pattern guessing. Terms are matched as case-insensitive substrings.
var DefaultKnownVendors = []string{
	"amazon", "walmart", "target", "costco", "starbucks", "mcdonald",
	"uber", "lyft", "netflix", "spotify", "apple", "whole foods",
	"home depot", "walgreens", "cvs", "chipotle", "shell", "safeway",
}

var (
	vendorGuessPattern = regexp.MustCompile(`\b(?:at|from|vendor|store|merchant|spend|spent)\s+([a-z0-9][a-z0-9'&.-]*)`)
	minAmountPattern   = regexp.MustCompile(`(?:over|above|more than)\s+\$?(\d+)`)
)

// Words that follow an "at/from" style preposition without naming a vendor.
var vendorGuessStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "any": true,
	"all": true, "over": true, "above": true, "more": true, "least": true,
	"this": true, "last": true, "that": true, "it": true, "them": true,
}

// ExtractVendor pulls a vendor term out of free text. The fixed known-vendor
// list always takes precedence over the pattern guess; the guess captures the
// word trailing at/from/vendor/store/merchant/spend/spent and is best effort.
// Returns "" when nothing plausible is found.
func ExtractVendor(text string, known []string) string {
	lower := strings.ToLower(text)
	for _, term := range known {
		if strings.Contains(lower, term) {
			return term
		}
	}
	m := vendorGuessPattern.FindStringSubmatch(lower)
	if m == nil || vendorGuessStopwords[m[1]] {
		return ""
	}
	return m[1]
}

// ExtractMinAmount pulls the first integer threshold following
// over/above/more than, with an optional dollar sign. The second return is
// false when no threshold is present.
func ExtractMinAmount(text string) (float64, bool) {
	m := minAmountPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}
