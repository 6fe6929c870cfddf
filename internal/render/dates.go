package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/magicmind/internal/journal"
)

var relativeRe = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks|m|month|months|y|year|years)(\s+ago)?$`)

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseSince turns a --since value into an instant. It accepts "today",
// "yesterday", "last week|month|year", "N days|weeks|months|years [ago]"
// and a handful of absolute date layouts.
func ParseSince(input string, now time.Time, loc *time.Location) (time.Time, error) {
	in := strings.TrimSpace(strings.ToLower(input))
	if in == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	today := midnight(now, loc)

	switch in {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "last week":
		return today.AddDate(0, 0, -7), nil
	case "last month":
		return today.AddDate(0, -1, 0), nil
	case "last year":
		return today.AddDate(-1, 0, 0), nil
	}

	if m := relativeRe.FindStringSubmatch(in); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2][0] {
		case 'd':
			return today.AddDate(0, 0, -n), nil
		case 'w':
			return today.AddDate(0, 0, -7*n), nil
		case 'm':
			return today.AddDate(0, -n, 0), nil
		case 'y':
			return today.AddDate(-n, 0, 0), nil
		}
	}

	layouts := []string{
		"2006-01-02",
		"2006/01/02",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"2006-01-02 15:04",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", input)
}

// PresetRange returns the half-open [start, end) window of a named preset.
func PresetRange(preset string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	today := midnight(now, loc)
	switch strings.ToLower(preset) {
	case "today":
		return today, today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), today, nil
	case "week":
		wd := int(today.Weekday())
		if wd == 0 {
			wd = 7
		}
		start := today.AddDate(0, 0, -(wd - 1))
		return start, start.AddDate(0, 0, 7), nil
	case "month":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	case "last7days":
		return today.AddDate(0, 0, -7), now, nil
	case "last30days":
		return today.AddDate(0, 0, -30), now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown date preset: %s", preset)
	}
}

// Window keeps entries whose timestamp falls in [from, to). A zero bound is
// open.
func Window(entries []journal.Entry, from, to time.Time) []journal.Entry {
	var out []journal.Entry
	for _, e := range entries {
		if !from.IsZero() && e.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Timestamp.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
