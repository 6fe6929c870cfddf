package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ramanasai/magicmind/internal/journal"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Export writes entries as an indented JSON array or a YAML sequence.
func Export(w io.Writer, entries []journal.Entry, format string) error {
	if entries == nil {
		entries = []journal.Entry{}
	}
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// importedEntry accepts both the export shape (timestamp) and the browser
// dump of the first release (date, ISO-8601 string).
type importedEntry struct {
	ID        string `json:"id" yaml:"id"`
	Date      string `json:"date" yaml:"date"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Text      string `json:"text" yaml:"text"`
}

// Import reads entries written by Export or a legacy browser dump. YAML is
// tried when the payload is not a JSON array. Text is normalized the same
// way a save normalizes it.
func Import(r io.Reader) ([]journal.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw []importedEntry
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", journal.ErrInvalidEntry, err)
	}

	out := make([]journal.Entry, 0, len(raw))
	for i, in := range raw {
		stamp := in.Timestamp
		if stamp == "" {
			stamp = in.Date
		}
		ts, err := time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: bad date %q", journal.ErrInvalidEntry, i, stamp)
		}
		text, err := journal.NormalizeText(in.Text)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		e := journal.Entry{ID: in.ID, Timestamp: ts, Text: text}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
