// Package cloud stores journal entries in a remote record store. Vendor
// record shapes stay inside this package; callers only see journal.Entry.
package cloud

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ramanasai/magicmind/internal/journal"
)

const RecordType = "Entry"

// Field is one typed record field on the wire.
type Field struct {
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type,omitempty"`
}

// Record is the wire shape of a stored entry.
type Record struct {
	RecordName      string           `json:"recordName"`
	RecordType      string           `json:"recordType,omitempty"`
	RecordChangeTag string           `json:"recordChangeTag,omitempty"`
	Fields          map[string]Field `json:"fields,omitempty"`
	ServerErrorCode string           `json:"serverErrorCode,omitempty"`
	Reason          string           `json:"reason,omitempty"`
}

// Sealer encrypts and decrypts entry text crossing the boundary.
type Sealer interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

func stringField(s string) Field {
	b, _ := json.Marshal(s)
	return Field{Value: b, Type: "STRING"}
}

func timestampField(t time.Time) Field {
	b, _ := json.Marshal(t.UnixMilli())
	return Field{Value: b, Type: "TIMESTAMP"}
}

// ToRecord maps an entry to its wire record, sealing the text.
func ToRecord(e journal.Entry, s Sealer) (Record, error) {
	text, err := s.Encrypt(e.Text)
	if err != nil {
		return Record{}, err
	}
	return Record{
		RecordName: e.ID,
		RecordType: RecordType,
		Fields: map[string]Field{
			"date": timestampField(e.Timestamp),
			"text": stringField(text),
		},
	}, nil
}

// FromRecord maps a wire record back to an entry, opening the text. Records
// missing a date or text field are rejected with journal.ErrInvalidEntry.
func FromRecord(r Record, s Sealer) (journal.Entry, error) {
	date, ok := r.Fields["date"]
	if !ok {
		return journal.Entry{}, fmt.Errorf("%w: record %s has no date", journal.ErrInvalidEntry, r.RecordName)
	}
	var ms int64
	if err := json.Unmarshal(date.Value, &ms); err != nil {
		return journal.Entry{}, fmt.Errorf("%w: record %s date: %v", journal.ErrInvalidEntry, r.RecordName, err)
	}

	textField, ok := r.Fields["text"]
	if !ok {
		return journal.Entry{}, fmt.Errorf("%w: record %s has no text", journal.ErrInvalidEntry, r.RecordName)
	}
	var sealed string
	if err := json.Unmarshal(textField.Value, &sealed); err != nil {
		return journal.Entry{}, fmt.Errorf("%w: record %s text: %v", journal.ErrInvalidEntry, r.RecordName, err)
	}
	text, err := s.Decrypt(sealed)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("record %s: %w", r.RecordName, err)
	}

	e := journal.Entry{ID: r.RecordName, Timestamp: time.UnixMilli(ms).UTC(), Text: text}
	return e, e.Validate()
}
