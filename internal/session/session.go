// Package session owns the journal state shared by the editor, list and
// insights views: the entry snapshot, the active view and the entry being
// edited.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramanasai/magicmind/internal/insights"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/logging"
	"github.com/ramanasai/magicmind/internal/streak"
)

type View int

const (
	ViewList View = iota
	ViewEditor
	ViewInsights
)

func (v View) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewInsights:
		return "insights"
	default:
		return "list"
	}
}

// DefaultPrompts are offered in the editor when the config sets none.
var DefaultPrompts = []string{
	"What's on your mind right now?",
	"What felt like a win today?",
	"Where do you feel stuck, and why?",
	"What is one tiny next step?",
}

// Session is not safe for concurrent use; one editor is active at a time.
type Session struct {
	store  journal.Store
	loc    *time.Location
	now    func() time.Time
	newID  func() string
	log    *slog.Logger
	view   View
	editID string

	entries []journal.Entry
}

type Option func(*Session)

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithIDFunc sets the generator for new entry ids.
func WithIDFunc(f func() string) Option { return func(s *Session) { s.newID = f } }

// WithLocation sets the zone whose midnight separates streak days.
func WithLocation(loc *time.Location) Option { return func(s *Session) { s.loc = loc } }

func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

func New(store journal.Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		loc:   time.Local,
		now:   time.Now,
		newID: journal.NewID,
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the snapshot with the store's current entries.
func (s *Session) Load(ctx context.Context) error {
	entries, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	streak.SortNewestFirst(entries)
	s.entries = entries
	s.log.Debug("entries loaded", "count", len(entries))
	return nil
}

// Entries returns a copy of the snapshot, newest first.
func (s *Session) Entries() []journal.Entry {
	out := make([]journal.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Session) View() View { return s.view }

// Editing returns the id of the entry open in the editor, or "" for a new one.
func (s *Session) Editing() string { return s.editID }

// NewEntry opens an empty editor.
func (s *Session) NewEntry() {
	s.editID = ""
	s.view = ViewEditor
}

// Edit opens the editor on an existing entry and returns its text.
func (s *Session) Edit(id string) (string, error) {
	e, ok := s.find(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", journal.ErrNotFound, id)
	}
	s.editID = id
	s.view = ViewEditor
	return e.Text, nil
}

// Cancel leaves the editor without saving.
func (s *Session) Cancel() {
	s.editID = ""
	s.view = ViewList
}

// Save stores text as a new entry, or as the new text of the entry being
// edited, then returns to the list. The id and timestamp of an edited entry
// never change.
func (s *Session) Save(ctx context.Context, text string) (journal.Entry, error) {
	text, err := journal.NormalizeText(text)
	if err != nil {
		return journal.Entry{}, err
	}

	var saved journal.Entry
	if s.editID != "" {
		e, ok := s.find(s.editID)
		if !ok {
			return journal.Entry{}, fmt.Errorf("%w: %s", journal.ErrNotFound, s.editID)
		}
		e.Text = text
		if err := s.store.Update(ctx, e); err != nil {
			return journal.Entry{}, err
		}
		saved = e
		s.log.Info("entry updated", "id", e.ID)
	} else {
		e := journal.Entry{ID: s.newID(), Timestamp: s.now(), Text: text}
		if err := s.store.Create(ctx, e); err != nil {
			return journal.Entry{}, err
		}
		saved = e
		s.log.Info("entry created", "id", e.ID)
	}

	if err := s.Load(ctx); err != nil {
		return saved, err
	}
	s.editID = ""
	s.view = ViewList
	return saved, nil
}

// Delete removes an entry and refreshes the snapshot.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.editID == id {
		s.Cancel()
	}
	s.log.Info("entry deleted", "id", id)
	return s.Load(ctx)
}

// Streak computes the current streak over the snapshot.
func (s *Session) Streak() (int, error) {
	return streak.Compute(s.entries, s.loc)
}

// Insights switches to the insights view and clusters every entry's text.
func (s *Session) Insights() []insights.Cluster {
	s.view = ViewInsights
	texts := make([]string, len(s.entries))
	for i, e := range s.entries {
		texts[i] = e.Text
	}
	return insights.Classify(texts)
}

// ShowList returns to the list view.
func (s *Session) ShowList() {
	s.view = ViewList
}

func (s *Session) find(id string) (journal.Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return journal.Entry{}, false
}

// AppendPrompt adds prompt to the end of an editor body, separated by a
// blank line unless the body is empty.
func AppendPrompt(body, prompt string) string {
	if body == "" {
		return prompt
	}
	return body + "\n\n" + prompt
}
