package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/anvaya-club/anvaya/internal/models"
)

const (
	defaultPhotoLimit = 100
	maxPhotoLimit     = 500
)

// ListWingPhotos handles GET /api/wings/{slug}/photos?limit=&offset=
func (s *Server) ListWingPhotos(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultPhotoLimit, 1, maxPhotoLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0, 0, math.MaxInt)
	if !ok {
		return
	}
	wing, ok := s.wingBySlug(w, r)
	if !ok {
		return
	}

	photos, err := s.Store.PhotosByWing(r.Context(), wing.ID, limit, offset)
	if err != nil {
		s.internalError(w, r, "list photos", err)
		return
	}
	respond(w, http.StatusOK, photos)
}

// UploadPhotos handles POST /api/admin/photos (multipart: wing_id, files...).
//
// Every file is checked and stored before any row is written. If one file
// fails, the ones already stored are removed and nothing is recorded.
func (s *Server) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer removeForm(r)

	wing, ok := s.formWing(w, r)
	if !ok {
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "at least one file is required")
		return
	}

	folder := photoFolderPrefix + wing.Slug
	photos := make([]models.Photo, 0, len(files))
	rollback := func() {
		for _, p := range photos {
			s.deleteMedia(r.Context(), p.StorageID)
		}
	}

	for _, fh := range files {
		obj, err := s.saveUpload(r, fh, folder, isImage)
		if err != nil {
			rollback()
			if errors.Is(err, errUnsupportedType) {
				respondError(w, http.StatusBadRequest, "File "+fh.Filename+" is not an image")
				return
			}
			s.internalError(w, r, "save photo", err)
			return
		}
		photos = append(photos, models.Photo{WingID: wing.ID, URL: obj.URL, StorageID: obj.PublicID})
	}

	created, err := s.Store.CreatePhotos(r.Context(), photos)
	if err != nil {
		rollback()
		s.internalError(w, r, "create photos", err)
		return
	}

	s.logger().InfoContext(r.Context(), "photos uploaded",
		slog.String("wing", wing.Slug),
		slog.Int("count", len(created)),
	)
	respond(w, http.StatusOK, created)
}

// DeletePhoto handles DELETE /api/admin/photos/{id}
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	photo, err := s.Store.PhotoByID(r.Context(), id)
	if isNotFound(err) {
		respondError(w, http.StatusNotFound, "Photo with ID "+strconv.FormatInt(id, 10)+" not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "get photo", err)
		return
	}

	if err := s.Store.DeletePhoto(r.Context(), id); err != nil && !isNotFound(err) {
		s.internalError(w, r, "delete photo", err)
		return
	}
	s.deleteMedia(r.Context(), photo.StorageID)

	respond(w, http.StatusOK, models.MessageResponse{Message: "Photo deleted successfully"})
}
