package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/anvaya-club/anvaya/internal/models"
	"github.com/anvaya-club/anvaya/internal/storage"
	"github.com/anvaya-club/anvaya/internal/store"
)

const (
	defaultActivityLimit = 1000
	maxActivityLimit     = 5000

	reportField = "report_file"
)

// ListWingActivities handles GET /api/wings/{slug}/activities
func (s *Server) ListWingActivities(w http.ResponseWriter, r *http.Request) {
	wing, ok := s.wingBySlug(w, r)
	if !ok {
		return
	}
	activities, err := s.Store.ActivitiesByWing(r.Context(), wing.ID)
	if err != nil {
		s.internalError(w, r, "wing activities", err)
		return
	}
	respond(w, http.StatusOK, activities)
}

// ListActivities handles GET /api/activities?limit=
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultActivityLimit, 1, maxActivityLimit)
	if !ok {
		return
	}
	activities, err := s.Store.ListActivities(r.Context(), limit)
	if err != nil {
		s.internalError(w, r, "list activities", err)
		return
	}
	respond(w, http.StatusOK, activities)
}

// GetActivity handles GET /api/activities/{id}
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.Store.ActivityByID(r.Context(), id)
	if isNotFound(err) {
		respondError(w, http.StatusNotFound, "Activity with identifier '"+r.PathValue("id")+"' not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "get activity", err)
		return
	}
	respond(w, http.StatusOK, a)
}

// CreateActivity handles POST /api/admin/activities (multipart: wing_id,
// title, description, activity_date, faculty_coordinator?, report_file?).
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	defer removeForm(r)

	wing, ok := s.formWing(w, r)
	if !ok {
		return
	}

	a := models.Activity{WingID: wing.ID}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"title", &a.Title},
		{"description", &a.Description},
		{"activity_date", &a.ActivityDate},
	} {
		v, _ := formValue(r, f.name)
		if v == "" {
			respondError(w, http.StatusUnprocessableEntity, f.name+" is required")
			return
		}
		*f.dst = v
	}
	if !validDate(w, a.ActivityDate) {
		return
	}
	if v, _ := formValue(r, "faculty_coordinator"); v != "" {
		a.FacultyCoordinator = &v
	}

	report, ok := s.saveReport(w, r, wing)
	if !ok {
		return
	}
	if report != nil {
		a.ReportURL = &report.URL
		a.ReportStorageID = &report.PublicID
	}

	if err := s.Store.CreateActivity(r.Context(), &a); err != nil {
		if report != nil {
			s.deleteMedia(r.Context(), report.PublicID)
		}
		s.internalError(w, r, "create activity", err)
		return
	}

	s.logger().InfoContext(r.Context(), "activity created",
		slog.Int64("id", a.ID),
		slog.String("wing", wing.Slug),
	)
	respond(w, http.StatusOK, a)
}

// UpdateActivity handles PUT /api/admin/activities/{id}.
//
// Non-empty title, description and activity_date replace the stored values.
// A faculty_coordinator field that is present replaces the coordinator; an
// empty one clears it. A new report_file replaces the old report, whose
// media is then deleted.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.parseForm(w, r) {
		return
	}
	defer removeForm(r)

	current, err := s.Store.ActivityByID(r.Context(), id)
	if isNotFound(err) {
		respondError(w, http.StatusNotFound, activityIDNotFound(id))
		return
	}
	if err != nil {
		s.internalError(w, r, "get activity", err)
		return
	}

	var u store.ActivityUpdate
	if v, _ := formValue(r, "title"); v != "" {
		u.Title = &v
	}
	if v, _ := formValue(r, "description"); v != "" {
		u.Description = &v
	}
	if v, _ := formValue(r, "activity_date"); v != "" {
		if !validDate(w, v) {
			return
		}
		u.ActivityDate = &v
	}
	if v, present := formValue(r, "faculty_coordinator"); present {
		u.CoordinatorSet = true
		if v != "" {
			u.Coordinator = &v
		}
	}

	var report *storage.Object
	if hasFile(r, reportField) {
		wing, err := s.Store.WingByID(r.Context(), current.WingID)
		if err != nil {
			s.internalError(w, r, "get wing", err)
			return
		}
		if report, ok = s.saveReport(w, r, wing); !ok {
			return
		}
		u.Report = &store.Report{URL: report.URL, StorageID: report.PublicID}
	}

	updated, err := s.Store.UpdateActivity(r.Context(), id, u)
	if err != nil {
		if report != nil {
			s.deleteMedia(r.Context(), report.PublicID)
		}
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, activityIDNotFound(id))
			return
		}
		s.internalError(w, r, "update activity", err)
		return
	}
	if report != nil && current.ReportStorageID != nil {
		s.deleteMedia(r.Context(), *current.ReportStorageID)
	}

	respond(w, http.StatusOK, updated)
}

// DeleteActivity handles DELETE /api/admin/activities/{id}
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := s.Store.ActivityByID(r.Context(), id)
	if isNotFound(err) {
		respondError(w, http.StatusNotFound, activityIDNotFound(id))
		return
	}
	if err != nil {
		s.internalError(w, r, "get activity", err)
		return
	}

	if err := s.Store.DeleteActivity(r.Context(), id); err != nil && !isNotFound(err) {
		s.internalError(w, r, "delete activity", err)
		return
	}
	if a.ReportStorageID != nil {
		s.deleteMedia(r.Context(), *a.ReportStorageID)
	}

	respond(w, http.StatusOK, models.MessageResponse{Message: "Activity deleted successfully"})
}

// saveReport stores the optional report_file of the form. It returns nil
// when no file was sent. ok is false after a response has been written.
func (s *Server) saveReport(w http.ResponseWriter, r *http.Request, wing models.Wing) (*storage.Object, bool) {
	if !hasFile(r, reportField) {
		return nil, true
	}
	fh := r.MultipartForm.File[reportField][0]
	obj, err := s.saveUpload(r, fh, photoFolderPrefix+wing.Slug+reportSubfolder, isPDF)
	if errors.Is(err, errUnsupportedType) {
		respondError(w, http.StatusBadRequest, "Report must be a PDF file")
		return nil, false
	}
	if err != nil {
		s.internalError(w, r, "save report", err)
		return nil, false
	}
	return &obj, true
}

func hasFile(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > 0
}

// validDate checks the YYYY-MM-DD layout. ok is false after a 422 has been
// written.
func validDate(w http.ResponseWriter, v string) bool {
	if _, err := time.Parse(models.DateLayout, v); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "activity_date must be a date in YYYY-MM-DD format")
		return false
	}
	return true
}

func activityIDNotFound(id int64) string {
	return "Activity with ID " + strconv.FormatInt(id, 10) + " not found"
}
