package exporter

import (
	"strconv"
	"time"
)

// formatScore formats an optional score for CSV output. Unanswered
// questions become empty cells so the export round-trips cleanly.
func formatScore(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// formatText formats an optional free-text answer for CSV output
func formatText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatDate formats an optional calendar date as ISO (YYYY-MM-DD)
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatTimestamp formats a submission timestamp as ISO date and time
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
