package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ramanasai/magicmind/internal/journal"
)

// tsLayout is fixed width so that text ordering matches time ordering.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists entries in SQL, optionally encrypting their text.
type Store struct {
	db     *sql.DB
	driver string
	keys   *EncryptionManager
	log    *slog.Logger
}

var _ journal.Store = (*Store)(nil)

func (s *Store) Close() error { return s.db.Close() }

// Encrypted reports whether new text is sealed before it is written.
func (s *Store) Encrypted() bool { return s.keys != nil }

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

func (s *Store) List(ctx context.Context) ([]journal.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, ts, text, encrypted FROM entries ORDER BY ts DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		e, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (journal.Entry, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, ts, text, encrypted FROM entries WHERE id = ?`), id)
	e, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Entry{}, fmt.Errorf("%w: %s", journal.ErrNotFound, id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(r scanner) (journal.Entry, error) {
	var (
		e         journal.Entry
		ts, text  string
		encrypted bool
	)
	if err := r.Scan(&e.ID, &ts, &text, &encrypted); err != nil {
		return journal.Entry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("entry %s: bad timestamp %q: %w", e.ID, ts, err)
	}
	e.Timestamp = t
	if encrypted {
		if s.keys == nil {
			return journal.Entry{}, fmt.Errorf("entry %s: %w", e.ID, ErrLocked)
		}
		if text, err = s.keys.Open(text); err != nil {
			return journal.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
		}
	}
	e.Text = text
	return e, nil
}

func (s *Store) Create(ctx context.Context, e journal.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	text, err := s.seal(e.Text)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO entries (id, ts, text, encrypted) VALUES (?, ?, ?, ?)`),
		e.ID, formatTS(e.Timestamp), text, s.Encrypted())
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	s.log.Debug("entry created", "id", e.ID)
	return nil
}

// Update replaces the text of an existing entry. The stored timestamp is
// never touched.
func (s *Store) Update(ctx context.Context, e journal.Entry) error {
	text, err := s.seal(e.Text)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE entries SET text = ?, encrypted = ? WHERE id = ?`),
		text, s.Encrypted(), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return s.expectRow(res, e.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM entries WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return s.expectRow(res, id)
}

func (s *Store) expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", journal.ErrNotFound, id)
	}
	return nil
}

func (s *Store) seal(text string) (string, error) {
	if s.keys == nil {
		return text, nil
	}
	return s.keys.Seal(text)
}
