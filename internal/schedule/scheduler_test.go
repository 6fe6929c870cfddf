package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/magicmind/internal/config"
)

func TestNextAt(t *testing.T) {
	// Thursday
	now := time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC)
	rc := config.ReminderConfig{Time: "21:00", Workdays: []string{"mon", "Thursday", "FRI"}}

	next, ok := NextAt(now, rc, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2025-06-12 21:00", next.Format("2006-01-02 15:04"))

	next, ok = NextAt(now.Add(2*time.Hour), rc, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2025-06-13 21:00", next.Format("2006-01-02 15:04"))

	rc.Holidays = []string{"2025-06-13"}
	next, ok = NextAt(now.Add(2*time.Hour), rc, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2025-06-16 21:00", next.Format("2006-01-02 15:04"))
}

func TestNextAtDefaultsAndDisabled(t *testing.T) {
	now := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	next, ok := NextAt(now, config.ReminderConfig{Time: "late", Workdays: []string{"Thu"}}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, 21, next.Hour())

	_, ok = NextAt(now, config.ReminderConfig{Time: "21:00"}, time.UTC)
	assert.False(t, ok)
}
