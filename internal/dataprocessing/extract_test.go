package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "integer", raw: "8", want: floatPtr(8)},
		{name: "comma decimal", raw: "9,5", want: floatPtr(9.5)},
		{name: "dot decimal", raw: "7.3", want: floatPtr(7.3)},
		{name: "clamped above", raw: "15", want: floatPtr(10)},
		{name: "clamped below", raw: "-3", want: floatPtr(0)},
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "non numeric", raw: "abc", want: nil},
		{name: "trailing spaces", raw: " 6 ", want: floatPtr(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseScore(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParseText(t *testing.T) {
	assert.Nil(t, ParseText(""))

	got := ParseText("ótimo curso")
	require.NotNil(t, got)
	assert.Equal(t, "ótimo curso", *got)
}

func TestParseDate(t *testing.T) {
	aug1 := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{name: "iso", raw: "2025-08-01", want: &aug1},
		{name: "iso with time", raw: "2025-08-01T14:30:00", want: &aug1},
		{name: "brazilian slash", raw: "01/08/2025", want: &aug1},
		{name: "brazilian dash", raw: "01-08-2025", want: &aug1},
		{name: "empty", raw: "", want: nil},
		{name: "garbage", raw: "amanhã", want: nil},
		{name: "month out of range", raw: "2025-13-01", want: nil},
		{name: "day out of range", raw: "32/08/2025", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseDate_SameCalendarDayAcrossFormats(t *testing.T) {
	iso := ParseDate("2025-08-01")
	slash := ParseDate("01/08/2025")
	dash := ParseDate("01-08-2025")

	require.NotNil(t, iso)
	require.NotNil(t, slash)
	require.NotNil(t, dash)
	assert.True(t, iso.Equal(*slash))
	assert.True(t, iso.Equal(*dash))
	assert.Equal(t, 0, iso.Hour())
}

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.Local)

	t.Run("full timestamp kept", func(t *testing.T) {
		got := ParseTimestamp("2025-08-04 09:15:00", now)
		assert.Equal(t, time.Date(2025, time.August, 4, 9, 15, 0, 0, time.Local), got)
	})

	t.Run("date only becomes midnight", func(t *testing.T) {
		got := ParseTimestamp("04/08/2025", now)
		assert.Equal(t, time.Date(2025, time.August, 4, 0, 0, 0, 0, time.Local), got)
	})

	t.Run("empty falls back to now", func(t *testing.T) {
		assert.Equal(t, now, ParseTimestamp("", now))
	})

	t.Run("garbage falls back to now", func(t *testing.T) {
		assert.Equal(t, now, ParseTimestamp("sem data", now))
	})
}

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}
