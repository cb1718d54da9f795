package handlers

import (
	"net/http"
)

// Root handles GET /
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"message": apiName,
		"status":  "running",
		"version": apiVersion,
	})
}

// Health handles GET /health. It pings the database so a broken connection
// shows up as 503.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DB().PingContext(r.Context()); err != nil {
		s.logger().ErrorContext(r.Context(), "health check", "error", err)
		respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}
