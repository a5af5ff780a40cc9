// Package server is the development endpoint: it serves the page and its
// assets and records unsubscriptions posted by the form.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/amgomez49/SF-desuscripcion/internal/store"
)

const maxBody = 1 << 20

// Recorder persists accepted unsubscriptions.
type Recorder interface {
	Record(ctx context.Context, u store.Unsubscription) (store.Unsubscription, error)
}

type Options struct {
	Page      string
	AssetsDir string
	WasmDir   string
	RateRPS   float64
	RateBurst int
	Logger    *slog.Logger
}

type reply struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type Server struct {
	recorder Recorder
	opts     Options
	log      *slog.Logger
}

// New builds the router.
func New(recorder Recorder, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RateRPS <= 0 {
		opts.RateRPS = 5
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 10
	}
	s := &Server{recorder: recorder, opts: opts, log: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	limiter := newRateLimiter(opts.RateRPS, opts.RateBurst)
	r.With(limiter.middleware, limitBody).Post("/api/unsubscribe", s.handleUnsubscribe)

	if opts.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(opts.AssetsDir))))
	}
	if opts.WasmDir != "" {
		r.Handle("/wasm/*", http.StripPrefix("/wasm/", http.FileServer(http.Dir(opts.WasmDir))))
	}

	return r
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.opts.Page))
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, reply{OK: false, Error: "invalid body"})
		return
	}

	u := store.Unsubscription{
		Email:  strings.TrimSpace(fields["email"]),
		Reason: strings.TrimSpace(fields["reason"]),
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, reply{OK: false, Error: "email is required"})
		return
	}
	for name, value := range fields {
		if name == "email" || name == "reason" {
			continue
		}
		if value == "on" || value == "true" {
			u.Options = append(u.Options, name)
		}
	}
	sort.Strings(u.Options)

	saved, err := s.recorder.Record(r.Context(), u)
	if err != nil {
		s.log.Error("failed to record unsubscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, reply{OK: false, Error: "could not record request"})
		return
	}

	s.log.Info("unsubscribed", "id", saved.ID, "options", saved.Options)
	writeJSON(w, http.StatusOK, reply{OK: true, ID: saved.ID})
}

// readFields accepts the form-encoded body the form posts, or a flat JSON object.
func readFields(r *http.Request) (map[string]string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	fields := make(map[string]string)

	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode body: %w", err)
		}
		for k, v := range raw {
			fields[k] = fmt.Sprint(v)
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, body reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
