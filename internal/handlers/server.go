// Package handlers contains the HTTP handlers of the Anvaya API.
//
// All handler files share one package so they can use each other's helpers
// without exporting them. Files are split by resource (wings, activities,
// photos, statistics, auth) for readability.
//
// The central type is Server. It holds what every handler needs: the store,
// media storage and the auth settings. Keeping them on a struct rather than
// in globals lets each test build its own Server over its own in-memory
// database.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anvaya-club/anvaya/internal/auth"
	"github.com/anvaya-club/anvaya/internal/middleware"
	"github.com/anvaya-club/anvaya/internal/models"
	"github.com/anvaya-club/anvaya/internal/storage"
	"github.com/anvaya-club/anvaya/internal/store"
)

// Media stores uploaded files.
type Media interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (storage.Object, error)
	Delete(ctx context.Context, publicID string) error
}

// Server holds shared dependencies for all handlers.
type Server struct {
	Store *store.Store
	Media Media
	// Admin verifies login attempts and token subjects.
	Admin *auth.AdminVerifier
	// Secret is the HMAC key used to sign and verify JWTs.
	Secret   string
	TokenTTL time.Duration
	// MaxUploadBytes caps a multipart body; zero means defaultMaxUpload.
	MaxUploadBytes int64
	Logger         *slog.Logger
}

const (
	apiName    = "Anvaya Club API"
	apiVersion = "1.0.0"

	defaultMaxUpload = 50 << 20
)

// Routes registers every endpoint on a new ServeMux. Go 1.22+ patterns carry
// the method and path wildcards, so no third-party router is involved.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.Root)
	mux.HandleFunc("GET /health", s.Health)

	// Public, read-only.
	mux.HandleFunc("GET /api/wings", s.ListWings)
	mux.HandleFunc("GET /api/wings/{slug}", s.GetWing)
	mux.HandleFunc("GET /api/wings/{slug}/photos", s.ListWingPhotos)
	mux.HandleFunc("GET /api/wings/{slug}/activities", s.ListWingActivities)
	mux.HandleFunc("GET /api/activities", s.ListActivities)
	mux.HandleFunc("GET /api/activities/{id}", s.GetActivity)
	mux.HandleFunc("GET /api/statistics/activities", s.ActivityStatistics)

	mux.HandleFunc("POST /api/admin/login", s.Login)

	// Admin only. Authenticate verifies the bearer token and its subject.
	admin := middleware.Authenticate(s.Secret, s.Admin)
	mux.Handle("POST /api/admin/photos", admin(http.HandlerFunc(s.UploadPhotos)))
	mux.Handle("DELETE /api/admin/photos/{id}", admin(http.HandlerFunc(s.DeletePhoto)))
	mux.Handle("POST /api/admin/activities", admin(http.HandlerFunc(s.CreateActivity)))
	mux.Handle("PUT /api/admin/activities/{id}", admin(http.HandlerFunc(s.UpdateActivity)))
	mux.Handle("DELETE /api/admin/activities/{id}", admin(http.HandlerFunc(s.DeleteActivity)))
	mux.Handle("GET /api/admin/me", admin(http.HandlerFunc(s.Me)))
	mux.Handle("POST /api/admin/seed", admin(http.HandlerFunc(s.Seed)))

	if served, ok := s.Media.(interface{ Handler() http.Handler }); ok {
		mux.Handle("GET /media/", http.StripPrefix("/media", served.Handler()))
	}

	return mux
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// respond writes v as JSON with the given status. Content-Type must be set
// before WriteHeader flushes the headers.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// A failed encode means the client went away; nothing useful remains.
	_ = json.NewEncoder(w).Encode(body)
}

// respondError sends the API's error body, e.g.
// {"detail": "Wing not found (slug='x')", "status_code": 404}.
func respondError(w http.ResponseWriter, status int, detail string) {
	respond(w, status, models.ErrorResponse{Detail: detail, StatusCode: status})
}

// internalError logs err and hides it from the client.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger().ErrorContext(r.Context(), op,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.RequestIDFromCtx(r.Context())),
	)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the {id} wildcard. ok is false after a 422 has been written.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "id must be an integer (got '"+raw+"')")
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter bounded to [min, max].
// ok is false after a 422 has been written.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def, min, max int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, name+" must be an integer")
		return 0, false
	}
	if v < min || v > max {
		respondError(w, http.StatusUnprocessableEntity,
			name+" must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
		return 0, false
	}
	return v, true
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// deleteMedia removes a stored file. Failures are logged and swallowed: the
// database row is the source of truth and an orphaned file is harmless.
func (s *Server) deleteMedia(ctx context.Context, publicID string) {
	if publicID == "" || s.Media == nil {
		return
	}
	if err := s.Media.Delete(ctx, publicID); err != nil {
		s.logger().WarnContext(ctx, "delete media",
			slog.String("public_id", publicID),
			slog.String("error", err.Error()),
		)
	}
}
