package handlers

import (
	"net/http"

	"github.com/anvaya-club/anvaya/internal/models"
)

// ListWings handles GET /api/wings
func (s *Server) ListWings(w http.ResponseWriter, r *http.Request) {
	wings, err := s.Store.ListWings(r.Context())
	if err != nil {
		s.internalError(w, r, "list wings", err)
		return
	}
	respond(w, http.StatusOK, wings)
}

// GetWing handles GET /api/wings/{slug}. The wing is returned with all of its
// activities and its 100 most recent photos.
func (s *Server) GetWing(w http.ResponseWriter, r *http.Request) {
	wing, ok := s.wingBySlug(w, r)
	if !ok {
		return
	}

	activities, err := s.Store.ActivitiesByWing(r.Context(), wing.ID)
	if err != nil {
		s.internalError(w, r, "wing activities", err)
		return
	}
	photos, err := s.Store.PhotosByWing(r.Context(), wing.ID, defaultPhotoLimit, 0)
	if err != nil {
		s.internalError(w, r, "wing photos", err)
		return
	}

	respond(w, http.StatusOK, models.WingWithRelations{
		Wing:       wing,
		Activities: activities,
		Photos:     photos,
	})
}

// wingBySlug loads the {slug} wing. ok is false after a response has been
// written.
func (s *Server) wingBySlug(w http.ResponseWriter, r *http.Request) (models.Wing, bool) {
	slug := r.PathValue("slug")
	wing, err := s.Store.WingBySlug(r.Context(), slug)
	if isNotFound(err) {
		respondError(w, http.StatusNotFound, "Wing not found (slug='"+slug+"')")
		return wing, false
	}
	if err != nil {
		s.internalError(w, r, "get wing", err)
		return wing, false
	}
	return wing, true
}
