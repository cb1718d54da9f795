package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anvaya-club/anvaya/internal/auth"
	"github.com/anvaya-club/anvaya/internal/middleware"
	"github.com/anvaya-club/anvaya/internal/models"
)

// Login handles POST /api/admin/login
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	if err := s.Admin.Verify(req.Username, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.internalError(w, r, "verify admin", err)
			return
		}
		s.logger().WarnContext(r.Context(), "admin login failed",
			slog.String("username", req.Username),
			slog.String("request_id", middleware.RequestIDFromCtx(r.Context())),
		)
		w.Header().Set("WWW-Authenticate", "Bearer")
		respondError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	token, err := auth.GenerateToken(req.Username, s.Secret, s.TokenTTL)
	if err != nil {
		s.internalError(w, r, "generate token", err)
		return
	}

	respond(w, http.StatusOK, models.AuthToken{AccessToken: token, TokenType: auth.TokenType})
}

// Me handles GET /api/admin/me
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, models.User{Username: middleware.AdminFromCtx(r.Context())})
}
