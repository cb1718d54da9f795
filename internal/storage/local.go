// Package storage keeps uploaded media (gallery photos and activity reports)
// on the local filesystem and serves it back over HTTP.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidID is returned for a public id that would resolve outside the
// storage root.
var ErrInvalidID = errors.New("invalid media id")

// Object is a stored file. PublicID is what the database keeps to delete the
// file later; URL is where clients fetch it.
type Object struct {
	URL      string
	PublicID string
}

// Local stores files under a root directory.
type Local struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// NewLocal creates root if needed. baseURL is the public prefix the media
// handler is mounted at, e.g. "http://localhost:8000/media".
func NewLocal(root, baseURL string, logger *slog.Logger) (*Local, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media dir %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", abs, err)
	}
	return &Local{
		root:    abs,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Save writes r to <folder>/<uuid><ext>, where ext comes from filename.
func (l *Local) Save(ctx context.Context, folder, filename string, r io.Reader) (Object, error) {
	id := path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	dst, err := l.resolve(id)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Object{}, fmt.Errorf("create media folder: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return Object{}, fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return Object{}, fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return Object{}, fmt.Errorf("write media file: %w", err)
	}

	l.logger.DebugContext(ctx, "media saved",
		slog.String("public_id", id),
		slog.String("filename", filename),
	)
	return Object{URL: l.baseURL + "/" + id, PublicID: id}, nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (l *Local) Delete(ctx context.Context, publicID string) error {
	p, err := l.resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media %s: %w", publicID, err)
	}
	l.logger.DebugContext(ctx, "media deleted", slog.String("public_id", publicID))
	return nil
}

// Handler serves stored files. Mount it with http.StripPrefix.
func (l *Local) Handler() http.Handler {
	return http.FileServer(noDirs{http.Dir(l.root)})
}

func (l *Local) resolve(publicID string) (string, error) {
	if publicID == "" || !filepath.IsLocal(filepath.FromSlash(publicID)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, publicID)
	}
	return filepath.Join(l.root, filepath.FromSlash(publicID)), nil
}

// noDirs hides directory listings.
type noDirs struct {
	fs http.FileSystem
}

func (n noDirs) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
