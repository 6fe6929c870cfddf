package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ramanasai/magicmind/internal/encryption"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/logging"
)

var (
	ErrNotSignedIn = errors.New("cloud store requires a signed-in user and token")
	// ErrPaging is returned when the service repeats a continuation marker.
	ErrPaging = errors.New("cloud query did not advance")
)

// Options configures a Store.
type Options struct {
	Endpoint  string
	Container string
	// User is the stable identifier of the signed-in user. The text
	// encryption key is derived from it.
	User  string
	Token string
	// Passphrase is mixed into the text key. Without it the key is built
	// only from identifiers the service already knows, which hides text
	// from casual reads but does not protect it from the service.
	Passphrase string

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Store implements journal.Store against a remote record store.
type Store struct {
	base   string
	token  string
	client *http.Client
	sealer Sealer
	log    *slog.Logger
}

var _ journal.Store = (*Store)(nil)

func New(opts Options) (*Store, error) {
	if opts.User == "" || opts.Token == "" {
		return nil, ErrNotSignedIn
	}
	if opts.Endpoint == "" {
		return nil, errors.New("cloud endpoint is empty")
	}
	secret := opts.User
	if opts.Passphrase != "" {
		secret += "\x00" + opts.Passphrase
	}
	enc, err := encryption.NewEncryptor(secret, encryption.SaltFor(opts.Container, opts.User))
	if err != nil {
		return nil, err
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	base := strings.TrimSuffix(opts.Endpoint, "/")
	if opts.Container != "" {
		base += "/" + opts.Container
	}
	return &Store{base: base, token: opts.Token, client: client, sealer: enc, log: log}, nil
}

type queryRequest struct {
	Query struct {
		RecordType string   `json:"recordType"`
		SortBy     []sortBy `json:"sortBy,omitempty"`
	} `json:"query"`
	ContinuationMarker string `json:"continuationMarker,omitempty"`
}

type sortBy struct {
	FieldName string `json:"fieldName"`
	Ascending bool   `json:"ascending"`
}

type recordsResponse struct {
	Records            []Record `json:"records"`
	ContinuationMarker string   `json:"continuationMarker,omitempty"`
}

type lookupRequest struct {
	Records []Record `json:"records"`
}

type operation struct {
	OperationType string `json:"operationType"`
	Record        Record `json:"record"`
}

type modifyRequest struct {
	Operations []operation `json:"operations"`
}

func (s *Store) List(ctx context.Context) ([]journal.Entry, error) {
	var req queryRequest
	req.Query.RecordType = RecordType
	req.Query.SortBy = []sortBy{{FieldName: "date", Ascending: false}}

	var out []journal.Entry
	seen := map[string]bool{}
	for {
		var resp recordsResponse
		if err := s.post(ctx, "/records/query", req, &resp); err != nil {
			return nil, err
		}
		for _, r := range resp.Records {
			e, err := FromRecord(r, s.sealer)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		if resp.ContinuationMarker == "" {
			break
		}
		if seen[resp.ContinuationMarker] {
			return nil, fmt.Errorf("%w: marker %q repeated", ErrPaging, resp.ContinuationMarker)
		}
		seen[resp.ContinuationMarker] = true
		req.ContinuationMarker = resp.ContinuationMarker
	}
	s.log.Debug("cloud records listed", "count", len(out))
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (journal.Entry, error) {
	var resp recordsResponse
	if err := s.post(ctx, "/records/lookup", lookupRequest{Records: []Record{{RecordName: id}}}, &resp); err != nil {
		return journal.Entry{}, err
	}
	if len(resp.Records) == 0 {
		return journal.Entry{}, fmt.Errorf("%w: %s", journal.ErrNotFound, id)
	}
	r := resp.Records[0]
	if err := recordError(r); err != nil {
		return journal.Entry{}, err
	}
	return FromRecord(r, s.sealer)
}

func (s *Store) Create(ctx context.Context, e journal.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	r, err := ToRecord(e, s.sealer)
	if err != nil {
		return err
	}
	return s.modify(ctx, operation{OperationType: "create", Record: r})
}

// Update sends only the text field so the stored date is left alone.
func (s *Store) Update(ctx context.Context, e journal.Entry) error {
	sealed, err := s.sealer.Encrypt(e.Text)
	if err != nil {
		return err
	}
	r := Record{
		RecordName: e.ID,
		RecordType: RecordType,
		Fields:     map[string]Field{"text": stringField(sealed)},
	}
	return s.modify(ctx, operation{OperationType: "forceUpdate", Record: r})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.modify(ctx, operation{OperationType: "forceDelete", Record: Record{RecordName: id}})
}

func (s *Store) modify(ctx context.Context, op operation) error {
	var resp recordsResponse
	if err := s.post(ctx, "/records/modify", modifyRequest{Operations: []operation{op}}, &resp); err != nil {
		return err
	}
	for _, r := range resp.Records {
		if err := recordError(r); err != nil {
			return err
		}
	}
	s.log.Debug("cloud record modified", "op", op.OperationType, "id", op.Record.RecordName)
	return nil
}

func recordError(r Record) error {
	switch r.ServerErrorCode {
	case "":
		return nil
	case "NOT_FOUND":
		return fmt.Errorf("%w: %s", journal.ErrNotFound, r.RecordName)
	default:
		return fmt.Errorf("record %s: %s: %s", r.RecordName, r.ServerErrorCode, r.Reason)
	}
}

func (s *Store) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloud %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("cloud %s: %s: %s", path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cloud %s: decode response: %w", path, err)
	}
	return nil
}
