package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidEntry is returned when an entry is missing its id or timestamp.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("entry not found")
	// ErrEmptyText is returned when a save is attempted with blank text.
	ErrEmptyText = errors.New("entry text is empty")
)

// Entry is a single journal writing session.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Text      string    `json:"text" yaml:"text"`
}

// Validate reports whether the entry carries an id and a creation time.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: entry %s has no timestamp", ErrInvalidEntry, e.ID)
	}
	return nil
}

// Store is the persistence collaborator for entries.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Create(ctx context.Context, e Entry) error
	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh time-ordered entry id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NormalizeText trims surrounding whitespace and converts text to NFC.
// Blank input yields ErrEmptyText.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return norm.NFC.String(text), nil
}
