package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSeedWings_Idempotent(t *testing.T) {
	srv := newTestServer(t)

	// newTestServer has already seeded once.
	added, err := SeedWings(context.Background(), srv.Store, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("SeedWings: %v", err)
	}
	if added != 0 {
		t.Errorf("second seed added %d wings", added)
	}
	n, err := srv.Store.CountWings(context.Background())
	if err != nil {
		t.Fatalf("CountWings: %v", err)
	}
	if n != len(DefaultWings) {
		t.Errorf("expected %d wings, got %d", len(DefaultWings), n)
	}
}

func TestSeedEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, asAdmin(t, httptest.NewRequest(http.MethodPost, "/api/admin/seed", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out map[string]int
	decodeInto(t, rec, &out)
	if out["added"] != 0 || out["total"] != 5 {
		t.Errorf("seed result: %v", out)
	}
}

func TestDefaultWings_Texts(t *testing.T) {
	seen := map[string]bool{}
	for _, w := range DefaultWings {
		if w.Name == "" || w.About == "" || w.Vision == "" || w.Mission == "" {
			t.Errorf("wing %q has empty text", w.Slug)
		}
		if seen[w.Slug] {
			t.Errorf("duplicate slug %q", w.Slug)
		}
		seen[w.Slug] = true
	}
}
