// Package db opens the SQLite database and applies the schema.
//
// The driver is modernc.org/sqlite, registered under the name "sqlite".
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite database at dsn and runs all migrations.
//
// DSN examples:
//   - file: "anvaya.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
//   - tests: "file:testXYZ?mode=memory&cache=shared&_pragma=foreign_keys(1)"
//
// Pragmas go in the DSN so that every pooled connection gets them, not only
// the first.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Default().DebugContext(ctx, "database ready", slog.String("dsn", dsn))
	return db, nil
}

// migrate runs each DDL statement of schema on its own. The driver only
// executes the first statement of a multi-statement Exec.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w\nstatement: %s", err, stmt)
		}
	}
	return nil
}

// schema holds every table and index.
//
//	wings       the club's sub-groups; slug is the public URL key.
//
//	activities  dated events of one wing. activity_date is a calendar date
//	            kept as TEXT "YYYY-MM-DD" so it round-trips without a time
//	            zone. report_url and report_cloudinary_id are written
//	            together or not at all.
//
//	photos      gallery images of one wing. cloudinary_id is the media
//	            object's id, used to delete the stored file.
const schema = `
CREATE TABLE IF NOT EXISTS wings (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    name    TEXT NOT NULL,
    slug    TEXT NOT NULL UNIQUE,
    about   TEXT NOT NULL DEFAULT '',
    vision  TEXT NOT NULL DEFAULT '',
    mission TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS activities (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    wing_id              INTEGER NOT NULL REFERENCES wings(id) ON DELETE CASCADE,
    title                TEXT NOT NULL,
    description          TEXT NOT NULL,
    activity_date        TEXT NOT NULL,
    faculty_coordinator  TEXT,
    report_url           TEXT,
    report_cloudinary_id TEXT,
    created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((report_url IS NULL) = (report_cloudinary_id IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_activities_wing_date
    ON activities (wing_id, activity_date DESC);

CREATE TABLE IF NOT EXISTS photos (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    wing_id       INTEGER NOT NULL REFERENCES wings(id) ON DELETE CASCADE,
    url           TEXT NOT NULL,
    cloudinary_id TEXT NOT NULL,
    uploaded_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_photos_wing_uploaded
    ON photos (wing_id, uploaded_at DESC)
`
