package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramanasai/magicmind/internal/encryption"
	"github.com/ramanasai/magicmind/internal/journal"
)

// fakeRecordStore is a tiny in-memory stand-in for the vendor service.
type fakeRecordStore struct {
	mu       sync.Mutex
	records  map[string]Record
	pageSize int
}

func newFakeServer(t *testing.T) (*fakeRecordStore, *httptest.Server) {
	f := &fakeRecordStore{records: map[string]Record{}, pageSize: 2}
	r := mux.NewRouter()
	api := r.PathPrefix("/journal").Subrouter()
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") != "Bearer tok" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	api.HandleFunc("/records/query", f.query).Methods(http.MethodPost)
	api.HandleFunc("/records/lookup", f.lookup).Methods(http.MethodPost)
	api.HandleFunc("/records/modify", f.modify).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func dateOf(r Record) int64 {
	var ms int64
	_ = json.Unmarshal(r.Fields["date"].Value, &ms)
	return ms
}

func (f *fakeRecordStore) query(w http.ResponseWriter, req *http.Request) {
	var q queryRequest
	_ = json.NewDecoder(req.Body).Decode(&q)
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]Record, 0, len(f.records))
	for _, r := range f.records {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return dateOf(all[i]) > dateOf(all[j]) })

	start, _ := strconv.Atoi(q.ContinuationMarker)
	end := start + f.pageSize
	resp := recordsResponse{}
	if end < len(all) {
		resp.ContinuationMarker = strconv.Itoa(end)
	} else {
		end = len(all)
	}
	resp.Records = all[start:end]
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeRecordStore) lookup(w http.ResponseWriter, req *http.Request) {
	var l lookupRequest
	_ = json.NewDecoder(req.Body).Decode(&l)
	f.mu.Lock()
	defer f.mu.Unlock()

	var resp recordsResponse
	for _, want := range l.Records {
		if r, ok := f.records[want.RecordName]; ok {
			resp.Records = append(resp.Records, r)
		} else {
			resp.Records = append(resp.Records, Record{RecordName: want.RecordName, ServerErrorCode: "NOT_FOUND"})
		}
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeRecordStore) modify(w http.ResponseWriter, req *http.Request) {
	var m modifyRequest
	_ = json.NewDecoder(req.Body).Decode(&m)
	f.mu.Lock()
	defer f.mu.Unlock()

	var resp recordsResponse
	for _, op := range m.Operations {
		name := op.Record.RecordName
		existing, ok := f.records[name]
		switch op.OperationType {
		case "create":
			f.records[name] = op.Record
			resp.Records = append(resp.Records, op.Record)
		case "forceUpdate":
			if !ok {
				resp.Records = append(resp.Records, Record{RecordName: name, ServerErrorCode: "NOT_FOUND"})
				continue
			}
			for k, v := range op.Record.Fields {
				existing.Fields[k] = v
			}
			f.records[name] = existing
			resp.Records = append(resp.Records, existing)
		case "forceDelete":
			if !ok {
				resp.Records = append(resp.Records, Record{RecordName: name, ServerErrorCode: "NOT_FOUND"})
				continue
			}
			delete(f.records, name)
			resp.Records = append(resp.Records, Record{RecordName: name})
		}
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestStore(t *testing.T, url, token string) *Store {
	t.Helper()
	s, err := New(Options{Endpoint: url, Container: "journal", User: "user-42", Token: token})
	require.NoError(t, err)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeServer(t)
	s := newTestStore(t, srv.URL, "tok")
	day := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		e := journal.Entry{ID: "e" + strconv.Itoa(i), Timestamp: day.AddDate(0, 0, -i), Text: "entry " + strconv.Itoa(i)}
		require.NoError(t, s.Create(ctx, e))
	}

	raw := fake.records["e0"].Fields["text"].Value
	assert.NotContains(t, string(raw), "entry 0", "text is sealed on the wire")

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3, "all pages are followed")
	assert.Equal(t, "e0", all[0].ID)
	assert.Equal(t, "entry 0", all[0].Text)
	assert.True(t, all[2].Timestamp.Equal(day.AddDate(0, 0, -2)))

	require.NoError(t, s.Update(ctx, journal.Entry{ID: "e1", Timestamp: day.AddDate(1, 0, 0), Text: "edited"}))
	got, err := s.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.True(t, got.Timestamp.Equal(day.AddDate(0, 0, -1)), "update keeps the date")

	require.NoError(t, s.Delete(ctx, "e1"))
	_, err = s.Get(ctx, "e1")
	assert.ErrorIs(t, err, journal.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "e1"), journal.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, journal.Entry{ID: "e1", Text: "x"}), journal.ErrNotFound)
}

func TestStoreUnauthorized(t *testing.T) {
	_, srv := newFakeServer(t)
	s := newTestStore(t, srv.URL, "wrong")
	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewRequiresSignIn(t *testing.T) {
	_, err := New(Options{Endpoint: "http://x", User: "u"})
	assert.ErrorIs(t, err, ErrNotSignedIn)
	_, err = New(Options{User: "u", Token: "t"})
	assert.Error(t, err)
}

func TestRecordAdapter(t *testing.T) {
	enc, err := encryption.NewEncryptor("user-42", encryption.SaltFor("journal", "user-42"))
	require.NoError(t, err)
	e := journal.Entry{ID: "1718000000000", Timestamp: time.UnixMilli(1718000000000).UTC(), Text: "why so stuck"}

	r, err := ToRecord(e, enc)
	require.NoError(t, err)
	assert.Equal(t, RecordType, r.RecordType)
	assert.Equal(t, "1718000000000", string(r.Fields["date"].Value))

	back, err := FromRecord(r, enc)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestFromRecordRejectsMissingFields(t *testing.T) {
	enc, err := encryption.NewEncryptor("u", encryption.SaltFor("u"))
	require.NoError(t, err)

	_, err = FromRecord(Record{RecordName: "a", Fields: map[string]Field{"text": stringField("")}}, enc)
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)
	_, err = FromRecord(Record{RecordName: "a", Fields: map[string]Field{"date": timestampField(time.Now())}}, enc)
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)
	_, err = FromRecord(Record{RecordName: "a", Fields: map[string]Field{
		"date": {Value: json.RawMessage(`"yesterday"`)},
		"text": stringField(""),
	}}, enc)
	assert.ErrorIs(t, err, journal.ErrInvalidEntry)
}

func TestListStopsOnRepeatedMarker(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(recordsResponse{Records: []Record{}, ContinuationMarker: "same"})
	}))
	t.Cleanup(srv.Close)

	s := newTestStore(t, srv.URL, "tok")
	_, err := s.List(context.Background())
	assert.ErrorIs(t, err, ErrPaging)
	assert.Equal(t, 2, calls)
}

func TestPassphraseChangesKey(t *testing.T) {
	ctx := context.Background()
	fake, srv := newFakeServer(t)
	plain := newTestStore(t, srv.URL, "tok")
	locked, err := New(Options{Endpoint: srv.URL, Container: "journal", User: "user-42", Token: "tok", Passphrase: "hunter2"})
	require.NoError(t, err)

	e := journal.Entry{ID: "p1", Timestamp: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), Text: "private"}
	require.NoError(t, locked.Create(ctx, e))
	require.Contains(t, fake.records, "p1")

	got, err := locked.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "private", got.Text)

	_, err = plain.Get(ctx, "p1")
	assert.Error(t, err, "the user id alone cannot open passphrase-sealed text")
}
