package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anvaya-club/anvaya/internal/auth"
	"github.com/anvaya-club/anvaya/internal/db"
	"github.com/anvaya-club/anvaya/internal/models"
	"github.com/anvaya-club/anvaya/internal/storage"
	"github.com/anvaya-club/anvaya/internal/store"
)

const (
	testSecret   = "handler-test-secret-key"
	testAdmin    = "admin"
	testPassword = "correct-horse"
)

var testDBCounter uint64

// newTestServer creates a Server backed by a unique in-memory SQLite database
// with the default wings seeded, and media stored under a temp dir.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	// Each test gets its own named shared-cache memory DB so connections
	// in the pool all see the same tables without interfering across tests.
	id := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", id)
	conn, err := db.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("newTestServer: open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	logger := slog.New(slog.DiscardHandler)
	st := store.New(conn)
	if _, err := SeedWings(context.Background(), st, logger); err != nil {
		t.Fatalf("newTestServer: seed: %v", err)
	}

	media, err := storage.NewLocal(t.TempDir(), "http://media.test/media", logger)
	if err != nil {
		t.Fatalf("newTestServer: media: %v", err)
	}
	admin, err := auth.NewAdminVerifier(testAdmin, testPassword, "")
	if err != nil {
		t.Fatalf("newTestServer: admin: %v", err)
	}

	return &Server{
		Store:    st,
		Media:    media,
		Admin:    admin,
		Secret:   testSecret,
		TokenTTL: time.Hour,
		Logger:   logger,
	}
}

// jsonBody encodes v to JSON and returns a bytes.Buffer.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

// serve runs req through the full route table.
func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

// asAdmin attaches a valid admin bearer token to req.
func asAdmin(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(testAdmin, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("asAdmin: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	decodeInto(t, rec, &body)
	if body.StatusCode != rec.Code {
		t.Errorf("status_code %d does not match %d", body.StatusCode, rec.Code)
	}
	return body.Detail
}

// formFile is one file part of a multipart test body.
type formFile struct {
	field, name string
	data        []byte
}

// multipartRequest builds a multipart/form-data request.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(f.data)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	pdfData = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\n%%EOF\n")
)

// ---- Auth handler tests ----

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
		jsonBody(t, models.LoginRequest{Username: testAdmin, Password: testPassword}))
	rec := serve(srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var tok models.AuthToken
	decodeInto(t, rec, &tok)
	if tok.TokenType != "bearer" {
		t.Errorf("token_type: got %q", tok.TokenType)
	}
	claims, err := auth.ParseToken(tok.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != testAdmin {
		t.Errorf("subject: got %q", claims.Subject)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	srv := newTestServer(t)
	for _, creds := range []models.LoginRequest{
		{Username: testAdmin, Password: "wrong"},
		{Username: "someone", Password: testPassword},
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", jsonBody(t, creds))
		rec := serve(srv, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", creds.Username, rec.Code)
		}
		if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Errorf("WWW-Authenticate: got %q", got)
		}
		if got := errorDetail(t, rec); got != "Incorrect username or password" {
			t.Errorf("detail: got %q", got)
		}
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString("{")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, asAdmin(t, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var u models.User
	decodeInto(t, rec, &u)
	if u.Username != testAdmin {
		t.Errorf("username: got %q", u.Username)
	}
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/admin/photos"},
		{http.MethodDelete, "/api/admin/photos/1"},
		{http.MethodPost, "/api/admin/activities"},
		{http.MethodPut, "/api/admin/activities/1"},
		{http.MethodDelete, "/api/admin/activities/1"},
		{http.MethodPost, "/api/admin/seed"},
	}
	for _, rt := range routes {
		rec := serve(srv, httptest.NewRequest(rt.method, rt.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", rt.method, rt.path, rec.Code)
		}
	}
}
