// Package schedule fires the daily writing reminder.
package schedule

import (
	"context"
	"time"

	"github.com/ramanasai/magicmind/internal/config"
)

// NextAt returns the first reminder time after now that falls on a
// configured workday and is not a holiday. An unparsable time means 21:00.
// ok is false when no weekday is enabled.
func NextAt(now time.Time, rc config.ReminderConfig, loc *time.Location) (next time.Time, ok bool) {
	now = now.In(loc)

	hour, minute := 21, 0
	if t, err := time.Parse("15:04", rc.Time); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	workdays := map[string]bool{}
	for _, d := range rc.Workdays {
		workdays[config.NormalizeWeekday(d)] = true
	}
	if len(workdays) == 0 {
		return time.Time{}, false
	}
	holidays := map[string]bool{}
	for _, h := range rc.Holidays {
		holidays[h] = true
	}

	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// A year of holidays is the most that can block a workday.
	for i := 0; i < 400; i++ {
		if workdays[cand.Weekday().String()[:3]] && !holidays[cand.Format("2006-01-02")] {
			return cand, true
		}
		cand = time.Date(cand.Year(), cand.Month(), cand.Day()+1, hour, minute, 0, 0, loc)
	}
	return time.Time{}, false
}

// Run calls f at every scheduled reminder until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, f func()) {
	loc := cfg.Location()
	for {
		next, ok := NextAt(time.Now(), cfg.Reminder, loc)
		if !ok {
			return
		}
		t := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			f()
		}
	}
}
