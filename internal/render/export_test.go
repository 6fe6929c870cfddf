package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/magicmind/internal/journal"
)

func TestExportImportRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Export(&buf, fixtureEntries(), format))

			got, err := Import(&buf)
			require.NoError(t, err)
			require.Len(t, got, 2)
			for i, want := range fixtureEntries() {
				assert.Equal(t, want.ID, got[i].ID)
				assert.Equal(t, want.Text, got[i].Text)
				assert.True(t, want.Timestamp.Equal(got[i].Timestamp))
			}
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	err := Export(&bytes.Buffer{}, nil, "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestImportLegacyDump(t *testing.T) {
	dump := `[{"id":"1718000000000","date":"2024-06-10T06:13:20.000Z","text":"feeling scattered"}]`
	got, err := Import(strings.NewReader(dump))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1718000000000", got[0].ID)
	assert.Equal(t, "feeling scattered", got[0].Text)
	assert.True(t, got[0].Timestamp.Equal(time.UnixMilli(1718000000000)))
}

func TestImportRejectsBadItems(t *testing.T) {
	_, err := Import(strings.NewReader(`[{"id":"1","date":"not a date","text":"x"}]`))
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)

	_, err = Import(strings.NewReader(`[{"id":"","date":"2024-06-10T06:13:20Z","text":"x"}]`))
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)

	_, err = Import(strings.NewReader(`{not json`))
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)

	_, err = Import(strings.NewReader(`[{"id":"1","date":"2024-06-10T06:13:20Z","text":"   "}]`))
	assert.ErrorIs(t, err, journal.ErrEmptyText)
}

func TestImportNormalizesText(t *testing.T) {
	got, err := Import(strings.NewReader(`[{"id":"2","date":"2024-06-10T06:13:20Z","text":"  cafe\u0301  "}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "caf\u00e9", got[0].Text)
}

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"today":       time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		"yesterday":   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		"3 days ago":  time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		"2w":          time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC),
		"last month":  time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
		"2025-06-01":  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		"Jun 3, 2025": time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseSince(in, now, time.UTC)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	_, err := ParseSince("whenever", now, time.UTC)
	assert.Error(t, err)
}

func TestPresetRangeAndWindow(t *testing.T) {
	now := time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC) // Thursday
	start, end, err := PresetRange("week", now, time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)), "start %s", start)
	assert.True(t, end.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)), "end %s", end)

	start, end, err = PresetRange("today", now, time.UTC)
	require.NoError(t, err)
	got := Window(fixtureEntries(), start, end)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	assert.Len(t, Window(fixtureEntries(), time.Time{}, time.Time{}), 2)

	_, _, err = PresetRange("fortnight", now, time.UTC)
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	p := NewPagination(5, 2, 9)
	assert.Equal(t, 3, p.Current)
	assert.Equal(t, 3, p.TotalPages)
	start, end := p.Range()
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())

	p = NewPagination(0, 10, 1)
	assert.Equal(t, "No entries", p.FormatSummary())
	assert.Empty(t, p.FormatNavigation())

	p = NewPagination(3, 0, 1)
	assert.Equal(t, 1, p.TotalPages)
	assert.Len(t, p.Slice(fixtureEntries()), 2)
}
