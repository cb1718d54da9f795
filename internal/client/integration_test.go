package client_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvaya-club/anvaya/internal/apierr"
	"github.com/anvaya-club/anvaya/internal/auth"
	"github.com/anvaya-club/anvaya/internal/client"
	"github.com/anvaya-club/anvaya/internal/db"
	"github.com/anvaya-club/anvaya/internal/handlers"
	"github.com/anvaya-club/anvaya/internal/store"
	"github.com/anvaya-club/anvaya/internal/storage"
)

const (
	backendSecret   = "integration-secret-key"
	backendAdmin    = "admin"
	backendPassword = "let-me-in"
)

var backendCounter uint64

// newBackend runs the real API over an in-memory database.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	id := atomic.AddUint64(&backendCounter, 1)
	conn, err := db.Open(ctx, fmt.Sprintf("file:clientit%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", id))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	st := store.New(conn)
	_, err = handlers.SeedWings(ctx, st, logger)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(nil)
	media, err := storage.NewLocal(t.TempDir(), "http://"+srv.Listener.Addr().String()+"/media", logger)
	require.NoError(t, err)
	admin, err := auth.NewAdminVerifier(backendAdmin, backendPassword, "")
	require.NoError(t, err)

	api := &handlers.Server{
		Store:    st,
		Media:    media,
		Admin:    admin,
		Secret:   backendSecret,
		TokenTTL: time.Hour,
		Logger:   logger,
	}
	srv.Config.Handler = api.Routes()
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}

var pdf = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\n%%EOF\n")

func TestIntegration_PublicReads(t *testing.T) {
	srv := newBackend(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	wings, err := c.GetAllWings(ctx)
	require.NoError(t, err)
	require.Len(t, wings, 5)
	assert.Equal(t, "codezero", wings[0].Slug)

	wing, err := c.GetWingBySlug(ctx, "codezero")
	require.NoError(t, err)
	assert.Equal(t, "CodeZero", wing.Name)
	assert.Empty(t, wing.Activities)
	assert.Empty(t, wing.Photos)

	_, err = c.GetWingBySlug(ctx, "nope")
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Wing not found (slug='nope')", apiErr.Message)

	_, err = c.GetWingPhotos(ctx, "codezero", client.PhotoPage{Limit: 501})
	apiErr, ok = apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, 422, apiErr.StatusCode)
}

func TestIntegration_WingActivitiesMatchWingDetail(t *testing.T) {
	srv := newBackend(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Login(ctx, backendAdmin, backendPassword)
	require.NoError(t, err)
	wing, err := c.GetWingBySlug(ctx, "codezero")
	require.NoError(t, err)

	var ids []int64
	for _, date := range []string{"2023-01-01", "2024-05-05", "2024-05-05", "2022-12-31"} {
		a, err := c.CreateActivity(ctx, client.CreateActivityParams{
			WingID:       wing.ID,
			Title:        "Meetup " + date,
			Description:  "monthly meetup",
			ActivityDate: date,
		})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	acts, err := c.GetWingActivities(ctx, "codezero")
	require.NoError(t, err)
	got := make([]int64, 0, len(acts))
	for _, a := range acts {
		got = append(got, a.ID)
	}
	// Newest date first; same-date rows by id descending.
	assert.Equal(t, []int64{ids[2], ids[1], ids[0], ids[3]}, got)

	wing, err = c.GetWingBySlug(ctx, "codezero")
	require.NoError(t, err)
	require.Equal(t, acts, wing.Activities)

	stats, err := c.GetActivityStatistics(ctx, client.StatisticsQuery{Year: 2024})
	require.NoError(t, err)
	require.Len(t, stats.Statistics, 1)
	assert.Equal(t, "codezero", stats.Statistics[0].WingSlug)
	assert.Equal(t, 2, stats.Statistics[0].ActivityCount)
	assert.Equal(t, []int{2024, 2023, 2022}, stats.AvailableYears)
	require.NotNil(t, stats.FilteredYear)
	assert.Equal(t, 2024, *stats.FilteredYear)
}

func TestIntegration_AdminLifecycle(t *testing.T) {
	srv := newBackend(t)
	var invalidated int32
	c, err := client.New(srv.URL, client.WithSessionInvalidatedHook(func(context.Context) {
		atomic.AddInt32(&invalidated, 1)
	}))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Login(ctx, backendAdmin, "wrong")
	apiErr, ok := apierr.As(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsAuthError())
	assert.Equal(t, "Incorrect username or password", apiErr.Message)
	assert.False(t, c.IsAuthenticated())
	// Any 401 fires the hook, a failed login included.
	assert.EqualValues(t, 1, atomic.LoadInt32(&invalidated))

	_, err = c.Login(ctx, backendAdmin, backendPassword)
	require.NoError(t, err)
	require.True(t, c.IsAuthenticated())

	wing, err := c.GetWingBySlug(ctx, "codezero")
	require.NoError(t, err)

	created, err := c.CreateActivity(ctx, client.CreateActivityParams{
		WingID:             wing.ID,
		Title:              "Hackathon",
		Description:        "24 hours",
		ActivityDate:       "2024-03-15",
		FacultyCoordinator: "Dr. Rao",
		ReportFile:         &client.File{Name: "report.pdf", ContentType: "application/pdf", Data: bytes.NewReader(pdf)},
	})
	require.NoError(t, err)
	assert.True(t, created.HasReport())

	got, err := c.GetActivity(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hackathon", got.Title)

	updated, err := c.UpdateActivity(ctx, client.UpdateActivityParams{
		ActivityID:         created.ID,
		FacultyCoordinator: client.ClearField(),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.FacultyCoordinator)
	assert.Equal(t, "Hackathon", updated.Title)

	photos, err := c.UploadPhotos(ctx, wing.ID, []client.File{
		{Name: "a.png", ContentType: "image/png", Data: bytes.NewReader(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...))},
	})
	require.NoError(t, err)
	require.Len(t, photos, 1)

	page, err := c.GetWingPhotos(ctx, "codezero", client.PhotoPage{})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	stats, err := c.GetActivityStatistics(ctx, client.StatisticsQuery{})
	require.NoError(t, err)
	require.Len(t, stats.Statistics, 1)
	assert.Equal(t, 1, stats.Statistics[0].ActivityCount)
	assert.Equal(t, []int{2024}, stats.AvailableYears)
	assert.Nil(t, stats.FilteredYear)

	stats, err = c.GetActivityStatistics(ctx, client.StatisticsQuery{Year: 2023})
	require.NoError(t, err)
	assert.Empty(t, stats.Statistics)
	assert.Equal(t, []int{2024}, stats.AvailableYears)
	require.NotNil(t, stats.FilteredYear)
	assert.Equal(t, 2023, *stats.FilteredYear)

	require.NoError(t, c.DeletePhoto(ctx, photos[0].ID))
	require.NoError(t, c.DeleteActivity(ctx, created.ID))

	err = c.DeleteActivity(ctx, created.ID)
	apiErr, ok = apierr.As(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.EqualValues(t, 1, atomic.LoadInt32(&invalidated))

	// A token the server rejects ends the session.
	require.NoError(t, c.SetAuthToken("not-a-jwt"))
	err = c.DeleteActivity(ctx, created.ID)
	assert.True(t, apierr.IsAuthenticationRequired(err))
	assert.False(t, c.IsAuthenticated())
	assert.EqualValues(t, 2, atomic.LoadInt32(&invalidated))
	user, err := c.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, backendAdmin, user)
}
