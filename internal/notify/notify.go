package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/ramanasai/magicmind/internal/streak"
)

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

// Desktop notifies through the platform notification service.
func Desktop(title, message string) error {
	return beeep.Notify(title, message, "")
}

// FormatDailyPrompt builds the reminder text for the current streak.
func FormatDailyPrompt(days int) (string, string) {
	title := "MagicMind"
	if days <= 0 {
		return title, "A few lines today starts a new streak."
	}
	return title, fmt.Sprintf("%s. Keep it going with a few lines today.", streak.Label(days))
}

// Remind sends the daily prompt for days through n.
func Remind(n Notifier, days int) error {
	title, msg := FormatDailyPrompt(days)
	return n(title, msg)
}
