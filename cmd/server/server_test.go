package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/joaolangeloh/3decom/internal/db"
	"github.com/joaolangeloh/3decom/internal/migrations"
	"github.com/joaolangeloh/3decom/internal/obs"
	"github.com/joaolangeloh/3decom/internal/seed"
)

const (
	testAdminEmail    = "admin@3decom.com.br"
	testAdminPassword = "segredo-forte"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	srv     *server
	handler http.Handler
	cookie  *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err, "open sqlite database")
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, migrations.Up(database), "run migrations")
	_, err = seed.Run(ctx, database, seed.Config{AdminEmail: testAdminEmail, AdminPassword: testAdminPassword})
	require.NoError(t, err, "seed database")

	srv := newServer(database, "test-session-secret", obs.NewMetrics("test"), zerolog.Nop())
	srv.now = func() time.Time { return testNow }
	srv.auth.now = func() time.Time { return testNow }

	return &testEnv{
		srv:     srv,
		handler: srv.routes(),
		cookie:  &http.Cookie{Name: sessionCookieName, Value: srv.auth.createSessionValue(testAdminEmail)},
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWith(t, method, path, body, e.cookie)
}

func (e *testEnv) doWith(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoErrorf(t, json.Unmarshal(rec.Body.Bytes(), &v), "decode body: %s", rec.Body.String())
	return v
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

func ptr[T any](v T) *T { return &v }
