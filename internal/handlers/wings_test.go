package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anvaya-club/anvaya/internal/models"
)

// addActivity inserts an activity straight through the store.
func addActivity(t *testing.T, srv *Server, slug, title, date string) models.Activity {
	t.Helper()
	wing, err := srv.Store.WingBySlug(context.Background(), slug)
	if err != nil {
		t.Fatalf("addActivity: wing %s: %v", slug, err)
	}
	a := models.Activity{WingID: wing.ID, Title: title, Description: title + " description", ActivityDate: date}
	if err := srv.Store.CreateActivity(context.Background(), &a); err != nil {
		t.Fatalf("addActivity: %v", err)
	}
	return a
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	var root map[string]string
	decodeInto(t, rec, &root)
	if root["message"] != "Anvaya Club API" || root["status"] != "running" || root["version"] != "1.0.0" {
		t.Errorf("root: %v", root)
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]string
	decodeInto(t, rec, &health)
	if rec.Code != http.StatusOK || health["status"] != "healthy" {
		t.Errorf("health: %d %v", rec.Code, health)
	}
}

func TestListWings(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/wings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var wings []models.Wing
	decodeInto(t, rec, &wings)

	want := []string{"codezero", "kalavaibhava", "shespark", "ugrs", "udbhava"}
	if len(wings) != len(want) {
		t.Fatalf("expected %d wings, got %d", len(want), len(wings))
	}
	for i, slug := range want {
		if wings[i].Slug != slug {
			t.Errorf("wing %d: got %q, want %q", i, wings[i].Slug, slug)
		}
	}
}

func TestGetWing(t *testing.T) {
	srv := newTestServer(t)
	addActivity(t, srv, "codezero", "Older", "2024-01-10")
	addActivity(t, srv, "codezero", "Newer", "2024-03-05")
	addActivity(t, srv, "ugrs", "Elsewhere", "2024-02-01")

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/wings/codezero", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var wing models.WingWithRelations
	decodeInto(t, rec, &wing)

	if wing.Name != "CodeZero" || wing.About == "" {
		t.Errorf("wing: %+v", wing.Wing)
	}
	if len(wing.Activities) != 2 || wing.Activities[0].Title != "Newer" {
		t.Errorf("activities: %+v", wing.Activities)
	}
	if wing.Photos == nil {
		t.Error("photos should be an empty list, not null")
	}
}

func TestGetWing_NotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/wings/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := errorDetail(t, rec); got != "Wing not found (slug='nope')" {
		t.Errorf("detail: got %q", got)
	}
}

func TestStatistics(t *testing.T) {
	srv := newTestServer(t)
	addActivity(t, srv, "codezero", "a", "2024-01-10")
	addActivity(t, srv, "codezero", "b", "2024-05-10")
	addActivity(t, srv, "ugrs", "c", "2023-07-01")

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/api/statistics/activities", nil))
	var all models.ActivityStatisticsResponse
	decodeInto(t, rec, &all)
	if all.FilteredYear != nil {
		t.Errorf("filtered_year: got %v", *all.FilteredYear)
	}
	if len(all.Statistics) != 2 || all.Statistics[0].WingSlug != "codezero" || all.Statistics[0].ActivityCount != 2 {
		t.Errorf("statistics: %+v", all.Statistics)
	}
	if len(all.AvailableYears) != 2 || all.AvailableYears[0] != 2024 || all.AvailableYears[1] != 2023 {
		t.Errorf("available_years: %v", all.AvailableYears)
	}

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/api/statistics/activities?year=2023", nil))
	var y models.ActivityStatisticsResponse
	decodeInto(t, rec, &y)
	if y.FilteredYear == nil || *y.FilteredYear != 2023 {
		t.Errorf("filtered_year: %v", y.FilteredYear)
	}
	if len(y.Statistics) != 1 || y.Statistics[0].WingSlug != "ugrs" {
		t.Errorf("statistics: %+v", y.Statistics)
	}
	if len(y.AvailableYears) != 2 {
		t.Errorf("available_years should ignore the filter: %v", y.AvailableYears)
	}
}

func TestQueryValidation(t *testing.T) {
	srv := newTestServer(t)
	for _, target := range []string{
		"/api/statistics/activities?year=1999",
		"/api/statistics/activities?year=2101",
		"/api/statistics/activities?year=soon",
		"/api/wings/codezero/photos?limit=0",
		"/api/wings/codezero/photos?limit=501",
		"/api/wings/codezero/photos?offset=-1",
		"/api/activities?limit=0",
		"/api/activities?limit=5001",
		"/api/activities/abc",
	} {
		rec := serve(srv, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", target, rec.Code)
		}
	}
}
