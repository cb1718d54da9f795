package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/anvaya-club/anvaya/internal/models"
)

var photoColumns = []string{"id", "wing_id", "url", "cloudinary_id", "uploaded_at"}

func scanPhoto(row scanner) (models.Photo, error) {
	var p models.Photo
	err := row.Scan(&p.ID, &p.WingID, &p.URL, &p.StorageID, &p.UploadedAt)
	return p, err
}

// PhotosByWing returns a page of a wing's photos, newest first. limit <= 0
// means no limit.
func (s *Store) PhotosByWing(ctx context.Context, wingID int64, limit, offset int) ([]models.Photo, error) {
	b := s.sb.Select(photoColumns...).
		From("photos").
		Where(sq.Eq{"wing_id": wingID}).
		OrderBy("uploaded_at DESC", "id DESC")
	query, args, err := pageLimit(b, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build photos query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// CreatePhotos inserts all photos in one transaction, filling in ID and, when
// zero, UploadedAt. Either every photo is stored or none is.
func (s *Store) CreatePhotos(ctx context.Context, photos []models.Photo) ([]models.Photo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]models.Photo, 0, len(photos))
	for _, p := range photos {
		if p.UploadedAt.IsZero() {
			p.UploadedAt = s.now()
		}
		query, args, err := s.sb.Insert("photos").
			Columns(photoColumns[1:]...).
			Values(p.WingID, p.URL, p.StorageID, p.UploadedAt).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build insert photo: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("insert photo: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("insert photo: %w", err)
		}
		out = append(out, p)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit photos: %w", err)
	}
	return out, nil
}

func (s *Store) PhotoByID(ctx context.Context, id int64) (models.Photo, error) {
	query, args, err := s.sb.Select(photoColumns...).From("photos").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("build photo query: %w", err)
	}
	p, err := scanPhoto(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Photo{}, ErrNotFound
	}
	if err != nil {
		return models.Photo{}, fmt.Errorf("get photo: %w", err)
	}
	return p, nil
}

func (s *Store) DeletePhoto(ctx context.Context, id int64) error {
	query, args, err := s.sb.Delete("photos").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete photo: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
