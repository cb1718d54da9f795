package handlers

import (
	"bufio"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/anvaya-club/anvaya/internal/models"
	"github.com/anvaya-club/anvaya/internal/storage"
)

const (
	photoFolderPrefix = "anvaya/"
	reportSubfolder   = "/reports"

	// sniffLen is how much of a file http.DetectContentType looks at.
	sniffLen = 512
)

// parseForm reads a multipart body capped at MaxUploadBytes. Files beyond
// the in-memory threshold are spooled to disk by mime/multipart; the caller
// must defer removeForm. ok is false after a response has been written.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(w, http.StatusRequestEntityTooLarge,
				"Upload exceeds "+strconv.FormatInt(limit, 10)+" bytes")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}
	return true
}

func removeForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// formValue returns the trimmed first value of a multipart field and whether
// the field was sent at all.
func formValue(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

// formWing reads the wing_id field and loads the wing. ok is false after a
// response has been written.
func (s *Server) formWing(w http.ResponseWriter, r *http.Request) (models.Wing, bool) {
	raw, _ := formValue(r, "wing_id")
	if raw == "" {
		respondError(w, http.StatusUnprocessableEntity, "wing_id is required")
		return models.Wing{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "wing_id must be an integer")
		return models.Wing{}, false
	}
	wing, err := s.Store.WingByID(r.Context(), id)
	if isNotFound(err) {
		respondError(w, http.StatusNotFound, "Wing with ID "+raw+" not found")
		return wing, false
	}
	if err != nil {
		s.internalError(w, r, "get wing", err)
		return wing, false
	}
	return wing, true
}

// errUnsupportedType is returned by saveUpload when a file does not sniff as
// the wanted kind.
var errUnsupportedType = errors.New("unsupported file type")

// saveUpload stores fh under folder after checking its sniffed content type
// with accept.
func (s *Server) saveUpload(r *http.Request, fh *multipart.FileHeader, folder string, accept func(string) bool) (storage.Object, error) {
	f, err := fh.Open()
	if err != nil {
		return storage.Object{}, err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && len(head) == 0 {
		return storage.Object{}, errUnsupportedType
	}
	if !accept(http.DetectContentType(head)) {
		return storage.Object{}, errUnsupportedType
	}
	return s.Media.Save(r.Context(), folder, fh.Filename, br)
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func isPDF(contentType string) bool {
	return contentType == "application/pdf"
}
