package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.NoError(t, Entry{ID: "a", Timestamp: ts, Text: "x"}.Validate())
	assert.ErrorIs(t, Entry{Timestamp: ts}.Validate(), ErrInvalidEntry)
	assert.ErrorIs(t, Entry{ID: "  ", Timestamp: ts}.Validate(), ErrInvalidEntry)
	assert.ErrorIs(t, Entry{ID: "a"}.Validate(), ErrInvalidEntry)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNormalizeText(t *testing.T) {
	got, err := NormalizeText("  hello\n")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// "e" + combining acute accent composes to a single rune.
	got, err = NormalizeText("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", got)

	_, err = NormalizeText(" \t\n")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewMemoryStore()

	require.NoError(t, m.Create(ctx, Entry{ID: "1", Timestamp: ts, Text: "first"}))
	require.NoError(t, m.Create(ctx, Entry{ID: "2", Timestamp: ts.Add(time.Hour), Text: "second"}))
	assert.ErrorIs(t, m.Create(ctx, Entry{ID: "1", Timestamp: ts}), ErrInvalidEntry)
	assert.ErrorIs(t, m.Create(ctx, Entry{ID: "3"}), ErrInvalidEntry)

	require.NoError(t, m.Update(ctx, Entry{ID: "1", Timestamp: ts, Text: "edited"}))
	got, err := m.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	require.NoError(t, m.Delete(ctx, "2"))
	_, err = m.Get(ctx, "2")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, m.Update(ctx, Entry{ID: "2", Timestamp: ts}), ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "2"), ErrNotFound)

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "1", all[0].ID)
}
