// Package streak computes consecutive-day writing streaks.
package streak

import (
	"fmt"
	"sort"
	"time"

	"github.com/ramanasai/magicmind/internal/journal"
)

// Compute returns the length of the writing streak ending on the day of the
// most recent entry. Days are civil calendar days in loc; a nil loc means
// time.Local.
//
// Only a gap of exactly one day extends the streak. Any other gap stops the
// walk, including a second entry on the same day as the cursor.
func Compute(entries []journal.Entry, loc *time.Location) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
	}

	sorted := make([]journal.Entry, len(entries))
	copy(sorted, entries)
	SortNewestFirst(sorted)

	streak := 1
	cursor := DayNumber(sorted[0].Timestamp, loc)
	for _, e := range sorted[1:] {
		day := DayNumber(e.Timestamp, loc)
		if cursor-day != 1 {
			break
		}
		streak++
		cursor = day
	}
	return streak, nil
}

// SortNewestFirst orders entries by timestamp descending, breaking ties by id
// ascending so the order is deterministic.
func SortNewestFirst(entries []journal.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID < b.ID
	})
}

// DayNumber maps t to the number of days since 1970-01-01 of its civil date
// in loc. Differences between day numbers are always whole days, whatever
// the zone's DST rules.
func DayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Label formats a streak the way the journal header shows it.
func Label(n int) string {
	if n <= 0 {
		return "Streak: 0 days"
	}
	if n == 1 {
		return "Current Streak: 1 day"
	}
	return fmt.Sprintf("Current Streak: %d days", n)
}
