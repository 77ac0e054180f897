package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cell extractors coerce raw spreadsheet text into the canonical field
// types. They never fail: anything that cannot be coerced becomes nil.

var (
	isoDatePattern  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	brDatePattern   = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})`)
	dashDatePattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})`)
)

// genericDateLayouts is the fallback chain tried after the three
// positional patterns, covering timestamp forms seen in real exports.
var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
}

// ParseScore coerces a cell into a 0-10 rating. Empty cells become nil,
// comma decimal separators are accepted ("9,5"), non-numeric text
// becomes nil, and out-of-range values are clamped into [0,10].
func ParseScore(raw string) *float64 {
	s := strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if v < 0 {
		v = 0
	}
	if v > 10 {
		v = 10
	}
	return &v
}

// ParseText returns nil for empty cells, otherwise the cell text.
func ParseText(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// ParseDate parses a calendar date trying, in order: ISO YYYY-MM-DD
// (with optional time suffix), Brazilian DD/MM/YYYY, dash-separated
// DD-MM-YYYY, then the generic layout chain. The result is midnight in
// local time; unparseable input yields nil.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return calendarDate(m[1], m[2], m[3])
	}
	if m := brDatePattern.FindStringSubmatch(s); m != nil {
		return calendarDate(m[3], m[2], m[1])
	}
	if m := dashDatePattern.FindStringSubmatch(s); m != nil {
		return calendarDate(m[3], m[2], m[1])
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d := Midnight(t)
			return &d
		}
	}
	return nil
}

// ParseTimestamp parses a submission timestamp. Unlike ParseDate it
// never yields nil: every record needs a chronological anchor for
// clustering and sorting, so failures fall back to the supplied now.
func ParseTimestamp(raw string, now time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return now
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	if d := ParseDate(s); d != nil {
		return *d
	}
	return now
}

func calendarDate(year, month, day string) *time.Time {
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return nil
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return nil
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	return &t
}

// Midnight truncates a timestamp to local calendar midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
