package streak

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/magicmind/internal/journal"
)

var day0 = time.Date(2025, 6, 10, 20, 30, 0, 0, time.UTC)

func entriesAt(ts ...time.Time) []journal.Entry {
	out := make([]journal.Entry, len(ts))
	for i, t := range ts {
		out[i] = journal.Entry{ID: fmt.Sprintf("e%d", i), Timestamp: t, Text: "x"}
	}
	return out
}

func daysBefore(n int) time.Time { return day0.AddDate(0, 0, -n) }

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		entries []journal.Entry
		want    int
	}{
		{"empty", nil, 0},
		{"single", entriesAt(day0), 1},
		{"three consecutive", entriesAt(day0, daysBefore(1), daysBefore(2)), 3},
		{"unsorted input", entriesAt(daysBefore(2), day0, daysBefore(1)), 3},
		{"same day repeat stops the walk", entriesAt(day0, day0.Add(-time.Hour), daysBefore(1)), 1},
		{"gap of two", entriesAt(day0, daysBefore(2)), 1},
		{"streak ends at first break", entriesAt(day0, daysBefore(1), daysBefore(3), daysBefore(4)), 2},
		{"anchored at latest entry not today", entriesAt(daysBefore(30), daysBefore(31)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.entries, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeUsesZoneDayBoundary(t *testing.T) {
	// 23:30 UTC on the 9th is already the 10th in Tokyo.
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC)
	early := time.Date(2025, 6, 9, 1, 0, 0, 0, time.UTC)
	entries := entriesAt(late, early)

	got, err := Compute(entries, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "same UTC day")

	got, err = Compute(entries, tokyo)
	require.NoError(t, err)
	assert.Equal(t, 2, got, "consecutive Tokyo days")
}

func TestComputeAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2025-03-09 is 23 hours long in New York.
	entries := entriesAt(
		time.Date(2025, 3, 10, 0, 30, 0, 0, ny),
		time.Date(2025, 3, 9, 0, 30, 0, 0, ny),
		time.Date(2025, 3, 8, 0, 30, 0, 0, ny),
	)
	got, err := Compute(entries, ny)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestComputeRejectsMalformedEntries(t *testing.T) {
	_, err := Compute([]journal.Entry{{ID: "a", Timestamp: day0}, {ID: "b"}}, time.UTC)
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)
}

func TestComputeIsIdempotentAndDoesNotMutate(t *testing.T) {
	entries := entriesAt(daysBefore(1), day0, daysBefore(2))
	before := append([]journal.Entry(nil), entries...)

	first, err := Compute(entries, time.UTC)
	require.NoError(t, err)
	second, err := Compute(entries, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, entries)
}

func TestSortNewestFirstTieBreak(t *testing.T) {
	entries := []journal.Entry{
		{ID: "b", Timestamp: day0},
		{ID: "old", Timestamp: daysBefore(1)},
		{ID: "a", Timestamp: day0},
	}
	SortNewestFirst(entries)
	assert.Equal(t, []string{"a", "b", "old"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Streak: 0 days", Label(0))
	assert.Equal(t, "Current Streak: 1 day", Label(1))
	assert.Equal(t, "Current Streak: 4 days", Label(4))
}
