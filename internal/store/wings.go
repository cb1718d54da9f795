package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/anvaya-club/anvaya/internal/models"
)

var wingColumns = []string{"id", "name", "slug", "about", "vision", "mission"}

func scanWing(row scanner) (models.Wing, error) {
	var w models.Wing
	err := row.Scan(&w.ID, &w.Name, &w.Slug, &w.About, &w.Vision, &w.Mission)
	return w, err
}

// ListWings returns every wing in id order.
func (s *Store) ListWings(ctx context.Context) ([]models.Wing, error) {
	query, args, err := s.sb.Select(wingColumns...).From("wings").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list wings: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wings: %w", err)
	}
	defer rows.Close()

	wings := []models.Wing{}
	for rows.Next() {
		w, err := scanWing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wing: %w", err)
		}
		wings = append(wings, w)
	}
	return wings, rows.Err()
}

// WingBySlug returns ErrNotFound for an unknown slug.
func (s *Store) WingBySlug(ctx context.Context, slug string) (models.Wing, error) {
	return s.wingWhere(ctx, sq.Eq{"slug": slug})
}

// WingByID returns ErrNotFound for an unknown id.
func (s *Store) WingByID(ctx context.Context, id int64) (models.Wing, error) {
	return s.wingWhere(ctx, sq.Eq{"id": id})
}

func (s *Store) wingWhere(ctx context.Context, pred sq.Eq) (models.Wing, error) {
	query, args, err := s.sb.Select(wingColumns...).From("wings").Where(pred).ToSql()
	if err != nil {
		return models.Wing{}, fmt.Errorf("build wing query: %w", err)
	}
	w, err := scanWing(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Wing{}, ErrNotFound
	}
	if err != nil {
		return models.Wing{}, fmt.Errorf("get wing: %w", err)
	}
	return w, nil
}

func (s *Store) CountWings(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count wings: %w", err)
	}
	return n, nil
}

// EnsureWing inserts w unless a wing with the same slug exists. It reports
// whether a row was created. w.ID is ignored.
func (s *Store) EnsureWing(ctx context.Context, w models.Wing) (bool, error) {
	query, args, err := s.sb.Insert("wings").
		Options("OR IGNORE").
		Columns("name", "slug", "about", "vision", "mission").
		Values(w.Name, w.Slug, w.About, w.Vision, w.Mission).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert wing: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert wing %s: %w", w.Slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert wing %s: %w", w.Slug, err)
	}
	return n > 0, nil
}
