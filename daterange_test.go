package assistant

import (
	"testing"
	"time"
)

// referenceNow is Friday, March 15, 2024.
var referenceNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDateRange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start time.Time
		end   time.Time
		desc  string
	}{
		{"today", "what did I buy today", day(2024, time.March, 15), day(2024, time.March, 15), "today"},
		{"yesterday", "receipts from yesterday", day(2024, time.March, 14), day(2024, time.March, 14), "yesterday"},
		{"this week", "spending this week", day(2024, time.March, 10), day(2024, time.March, 15), "this week"},
		{"last week", "how much last week", day(2024, time.March, 3), day(2024, time.March, 9), "last week"},
		{"this month", "total for this month", day(2024, time.March, 1), day(2024, time.March, 15), "this month"},
		{"current month", "current month spending", day(2024, time.March, 1), day(2024, time.March, 15), "this month"},
		{"last month leap year", "show last month", day(2024, time.February, 1), day(2024, time.February, 29), "last month"},
		{"this year", "spending this year", day(2024, time.January, 1), day(2024, time.March, 15), "this year"},
		{"last year", "totals for last year", day(2023, time.January, 1), day(2023, time.December, 31), "last year"},
		{"last 10 days", "receipts from the last 10 days", day(2024, time.March, 5), day(2024, time.March, 15), "last 10 days"},
		{"past week", "spending in the past week", day(2024, time.March, 8), day(2024, time.March, 15), "past week"},
		{"named month current year", "receipts in march", day(2024, time.March, 1), day(2024, time.March, 31), "march"},
		{"named month with year", "show january 2023", day(2023, time.January, 1), day(2023, time.January, 31), "january 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := ResolveDateRange(tt.text, referenceNow)
			if dr == nil {
				t.Fatalf("ResolveDateRange(%q) = nil, want range", tt.text)
			}
			if !dr.Start.Equal(tt.start) {
				t.Errorf("start = %v, want %v", dr.Start, tt.start)
			}
			if !dr.End.Equal(tt.end) {
				t.Errorf("end = %v, want %v", dr.End, tt.end)
			}
			if dr.Description != tt.desc {
				t.Errorf("description = %q, want %q", dr.Description, tt.desc)
			}
		})
	}
}

func TestResolveDateRangeNoMatch(t *testing.T) {
	for _, text := range []string{
		"show my receipts",
		"how much at starbucks",
		"marching band supplies",
		"we mayo ordered extra", // "mayo" must not hit the month rule
	} {
		if dr := ResolveDateRange(text, referenceNow); dr != nil {
			t.Errorf("ResolveDateRange(%q) = %+v, want nil", text, dr)
		}
	}
}

func TestResolveDateRangeFirstMatchWins(t *testing.T) {
	// Two phrases in one message: the higher-priority rule decides.
	dr := ResolveDateRange("today compared to yesterday", referenceNow)
	if dr == nil || dr.Description != "today" {
		t.Fatalf("got %+v, want today", dr)
	}
}

func TestResolveDateRangeIdempotent(t *testing.T) {
	first := ResolveDateRange("last 10 days", referenceNow)
	second := ResolveDateRange("last 10 days", referenceNow)
	if first == nil || second == nil {
		t.Fatal("expected matches")
	}
	if !first.Start.Equal(second.Start) || !first.End.Equal(second.End) || first.Description != second.Description {
		t.Errorf("resolution not idempotent: %+v vs %+v", first, second)
	}
}
