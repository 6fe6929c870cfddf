package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDailyPrompt(t *testing.T) {
	title, msg := FormatDailyPrompt(0)
	assert.Equal(t, "MagicMind", title)
	assert.Equal(t, "A few lines today starts a new streak.", msg)

	_, msg = FormatDailyPrompt(4)
	assert.Equal(t, "Current Streak: 4 days. Keep it going with a few lines today.", msg)
}

func TestRemind(t *testing.T) {
	var got []string
	n := func(title, message string) error {
		got = append(got, title, message)
		return nil
	}
	require.NoError(t, Remind(n, 1))
	assert.Equal(t, []string{"MagicMind", "Current Streak: 1 day. Keep it going with a few lines today."}, got)
}
