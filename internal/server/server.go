// Package server exposes the journal over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ramanasai/magicmind/internal/auth"
	"github.com/ramanasai/magicmind/internal/insights"
	"github.com/ramanasai/magicmind/internal/journal"
	"github.com/ramanasai/magicmind/internal/logging"
	"github.com/ramanasai/magicmind/internal/streak"
)

type Options struct {
	Secret   string
	Location *time.Location
	Prompts  []string
	Logger   *slog.Logger

	// Now and NewID default to time.Now and journal.NewID.
	Now   func() time.Time
	NewID func() string
}

type Server struct {
	store journal.Store
	opts  Options
	log   *slog.Logger
}

func New(store journal.Store, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = journal.NewID
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Server{store: store, opts: opts, log: log}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(s.requireToken)
	api.HandleFunc("/entries", s.listEntries).Methods(http.MethodGet)
	api.HandleFunc("/entries", s.createEntry).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id}", s.getEntry).Methods(http.MethodGet)
	api.HandleFunc("/entries/{id}", s.updateEntry).Methods(http.MethodPut)
	api.HandleFunc("/entries/{id}", s.deleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/streak", s.getStreak).Methods(http.MethodGet)
	api.HandleFunc("/insights", s.getInsights).Methods(http.MethodGet)
	api.HandleFunc("/prompts", s.getPrompts).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("api listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type ctxKey struct{}

// Subject returns the token subject attached by the auth middleware.
func Subject(ctx context.Context) string {
	sub, _ := ctx.Value(ctxKey{}).(string)
	return sub
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tok == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sub, err := auth.ParseToken(tok, s.opts.Secret)
		if err != nil {
			s.log.Debug("token rejected", "err", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sub)))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.sorted(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type textBody struct {
	Text string `json:"text"`
}

// MaxBodyBytes bounds the JSON body of create and update requests.
const MaxBodyBytes = 1 << 20

func decodeText(w http.ResponseWriter, r *http.Request) (string, error) {
	var body textBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", err
		}
		return "", errors.Join(journal.ErrInvalidEntry, err)
	}
	return journal.NormalizeText(body.Text)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	e := journal.Entry{ID: s.opts.NewID(), Timestamp: s.opts.Now(), Text: text}
	if err := s.store.Create(r.Context(), e); err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("entry created", "id", e.ID, "by", Subject(r.Context()))
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// updateEntry replaces the text only; id and timestamp are kept.
func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	e, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	e.Text = text
	if err := s.store.Update(r.Context(), e); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type streakResponse struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
}

func (s *Server) getStreak(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	n, err := streak.Compute(entries, s.opts.Location)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streakResponse{Days: n, Label: streak.Label(n)})
}

func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	entries, err := s.sorted(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	clusters := insights.Classify(texts)
	if clusters == nil {
		clusters = []insights.Cluster{}
	}
	writeJSON(w, http.StatusOK, clusters)
}

func (s *Server) getPrompts(w http.ResponseWriter, r *http.Request) {
	prompts := s.opts.Prompts
	if prompts == nil {
		prompts = []string{}
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) sorted(ctx context.Context) ([]journal.Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	streak.SortNewestFirst(entries)
	if entries == nil {
		entries = []journal.Entry{}
	}
	return entries, nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrEmptyText), errors.Is(err, journal.ErrInvalidEntry):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
