package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for _, tbl := range []string{"wings", "activities", "photos"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, tbl).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", tbl, err)
		}
	}

	// Migrations are IF NOT EXISTS, so a second open of the same file works.
	db2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	db2.Close()
}

func TestReportColumnsTogether(t *testing.T) {
	d, err := Open(context.Background(), "file:testreportcheck?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	defer d.Close()

	res, err := d.Exec(`INSERT INTO wings (name, slug) VALUES ('CodeZero', 'codezero')`)
	if err != nil {
		t.Fatalf("insert wing: %v", err)
	}
	wingID, _ := res.LastInsertId()

	_, err = d.Exec(`INSERT INTO activities (wing_id, title, description, activity_date, report_url)
		VALUES (?, 't', 'd', '2024-01-01', 'http://x/report.pdf')`, wingID)
	if err == nil {
		t.Fatal("expected CHECK failure for report_url without report_cloudinary_id")
	}
}
