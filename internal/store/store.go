// Package store is the SQL persistence of wings, activities and photos.
//
// Queries are assembled with squirrel and executed through database/sql, so
// the same code runs against a file or an in-memory SQLite database.
package store

import (
	"database/sql"
	"errors"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps a *sql.DB. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying handle, e.g. for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// scanner is the common part of *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// pageLimit converts an optional limit to squirrel's unsigned form. Values
// <= 0 mean no limit.
func pageLimit(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		if limit <= 0 {
			// SQLite rejects OFFSET without LIMIT.
			b = b.Limit(math.MaxInt64)
		}
		b = b.Offset(uint64(offset))
	}
	return b
}
