package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amgomez49/SF-desuscripcion/internal/store"
)

type fakeRecorder struct {
	got []store.Unsubscription
	err error
}

func (f *fakeRecorder) Record(_ context.Context, u store.Unsubscription) (store.Unsubscription, error) {
	if f.err != nil {
		return store.Unsubscription{}, f.err
	}
	u.ID = "id-1"
	f.got = append(f.got, u)
	return u, nil
}

func newTestHandler(rec Recorder, opts Options) http.Handler {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Page == "" {
		opts.Page = "<html>page</html>"
	}
	return New(rec, opts)
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/unsubscribe", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) reply {
	t.Helper()
	var r reply
	require.NoError(t, json.NewDecoder(w.Body).Decode(&r))
	return r
}

func TestUnsubscribe_Form(t *testing.T) {
	rec := &fakeRecorder{}
	h := newTestHandler(rec, Options{})

	w := postForm(h, url.Values{
		"email":      {" ana@example.com "},
		"reason":     {"demasiados correos"},
		"promotions": {"on"},
		"newsletter": {"on"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, reply{OK: true, ID: "id-1"}, decode(t, w))
	require.Len(t, rec.got, 1)
	require.Equal(t, "ana@example.com", rec.got[0].Email)
	require.Equal(t, "demasiados correos", rec.got[0].Reason)
	require.Equal(t, []string{"newsletter", "promotions"}, rec.got[0].Options)
}

func TestUnsubscribe_JSON(t *testing.T) {
	rec := &fakeRecorder{}
	h := newTestHandler(rec, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/unsubscribe", strings.NewReader(`{"email":"luis@example.com","updates":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"updates"}, rec.got[0].Options)
}

func TestUnsubscribe_Validation(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{name: "missing email", values: url.Values{"newsletter": {"on"}}},
		{name: "blank email", values: url.Values{"email": {"   "}}},
		{name: "not an address", values: url.Values{"email": {"ana"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			w := postForm(newTestHandler(rec, Options{}), tt.values)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			require.False(t, decode(t, w).OK)
			require.Empty(t, rec.got)
		})
	}
}

func TestUnsubscribe_BadJSON(t *testing.T) {
	h := newTestHandler(&fakeRecorder{}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/unsubscribe", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnsubscribe_StoreFailure(t *testing.T) {
	h := newTestHandler(&fakeRecorder{err: errors.New("disk full")}, Options{})

	w := postForm(h, url.Values{"email": {"ana@example.com"}})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "could not record request", decode(t, w).Error)
}

func TestUnsubscribe_RateLimited(t *testing.T) {
	h := newTestHandler(&fakeRecorder{}, Options{RateRPS: 0.001, RateBurst: 2})
	values := url.Values{"email": {"ana@example.com"}}

	require.Equal(t, http.StatusOK, postForm(h, values).Code)
	require.Equal(t, http.StatusOK, postForm(h, values).Code)

	w := postForm(h, values)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "rate limit exceeded", decode(t, w).Error)
}

func TestUnsubscribe_WithStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	w := postForm(newTestHandler(st, Options{}), url.Values{"email": {"ana@example.com"}, "newsletter": {"on"}})
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w).ID

	list, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
	require.Equal(t, []string{"newsletter"}, list[0].Options)
}

func TestPageAndHealth(t *testing.T) {
	h := newTestHandler(&fakeRecorder{}, Options{Page: "<html>hola</html>"})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "<html>hola</html>", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "success.gif"), []byte("GIF89a"), 0644))
	h := newTestHandler(&fakeRecorder{}, Options{AssetsDir: dir})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/success.gif", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "GIF89a", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wasm/main.wasm", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", remoteIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", remoteIP(req))
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := newRateLimiter(0.001, 1)

	require.True(t, rl.allow("a"))
	require.False(t, rl.allow("a"))
	require.True(t, rl.allow("b"))
}
