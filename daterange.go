package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date phrase resolution. Rules are tried top to bottom against the message;
// the first match wins, so a message never combines two phrases. Bounds are
// whole days: Start and End are both midnight-truncated and inclusive.

var (
	lastNDaysPattern = regexp.MustCompile(`last (\d+) days`)
	monthYearPattern = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b(?:\s+(\d{4}))?`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

type dateRule func(text string, now time.Time) *DateRange

var dateRules = []dateRule{
	phraseRule("today", func(day time.Time) DateRange {
		return DateRange{Start: day, End: day, Description: "today"}
	}),
	phraseRule("yesterday", func(day time.Time) DateRange {
		y := day.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y, Description: "yesterday"}
	}),
	phraseRule("this week", func(day time.Time) DateRange {
		return DateRange{Start: weekStart(day), End: day, Description: "this week"}
	}),
	phraseRule("last week", func(day time.Time) DateRange {
		// The seven days ending the Saturday before the current week.
		end := weekStart(day).AddDate(0, 0, -1)
		return DateRange{Start: end.AddDate(0, 0, -6), End: end, Description: "last week"}
	}),
	phrasesRule([]string{"this month", "current month"}, func(day time.Time) DateRange {
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		// End bound is today, not end of month: forward-looking data cannot exist.
		return DateRange{Start: start, End: day, Description: "this month"}
	}),
	phraseRule("last month", func(day time.Time) DateRange {
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		start := first.AddDate(0, -1, 0)
		return DateRange{Start: start, End: first.AddDate(0, 0, -1), Description: "last month"}
	}),
	phraseRule("this year", func(day time.Time) DateRange {
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return DateRange{Start: start, End: day, Description: "this year"}
	}),
	phraseRule("last year", func(day time.Time) DateRange {
		start := time.Date(day.Year()-1, time.January, 1, 0, 0, 0, 0, day.Location())
		end := time.Date(day.Year()-1, time.December, 31, 0, 0, 0, 0, day.Location())
		return DateRange{Start: start, End: end, Description: "last year"}
	}),
	resolveLastNDays,
	phraseRule("past week", func(day time.Time) DateRange {
		return DateRange{Start: day.AddDate(0, 0, -7), End: day, Description: "past week"}
	}),
	resolveNamedMonth,
}

// ResolveDateRange maps a natural-language temporal phrase to calendar bounds.
// It returns nil when no phrase matches; callers treat nil as "no temporal
// constraint", not an error. now is injected, never read from the global clock.
func ResolveDateRange(text string, now time.Time) *DateRange {
	lower := strings.ToLower(text)
	for _, rule := range dateRules {
		if dr := rule(lower, now); dr != nil {
			return dr
		}
	}
	return nil
}

func phraseRule(phrase string, span func(day time.Time) DateRange) dateRule {
	return phrasesRule([]string{phrase}, span)
}

func phrasesRule(phrases []string, span func(day time.Time) DateRange) dateRule {
	return func(text string, now time.Time) *DateRange {
		for _, p := range phrases {
			if strings.Contains(text, p) {
				dr := span(truncateDay(now))
				return &dr
			}
		}
		return nil
	}
}

func resolveLastNDays(text string, now time.Time) *DateRange {
	m := lastNDaysPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return nil
	}
	day := truncateDay(now)
	return &DateRange{
		Start:       day.AddDate(0, 0, -n),
		End:         day,
		Description: fmt.Sprintf("last %d days", n),
	}
}

func resolveNamedMonth(text string, now time.Time) *DateRange {
	m := monthYearPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	month := monthsByName[m[1]]
	year := now.Year()
	desc := m[1]
	if m[2] != "" {
		y, err := strconv.Atoi(m[2])
		if err != nil {
			return nil
		}
		year = y
		desc = m[1] + " " + m[2]
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	return &DateRange{
		Start:       start,
		End:         start.AddDate(0, 1, -1),
		Description: desc,
	}
}

// weekStart returns the Sunday on or before day.
func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
