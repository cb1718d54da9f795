package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/anvaya-club/anvaya/internal/models"
	"github.com/anvaya-club/anvaya/internal/stats"
)

var activityColumns = []string{
	"id", "wing_id", "title", "description", "activity_date",
	"faculty_coordinator", "report_url", "report_cloudinary_id", "created_at",
}

// newest first; id breaks ties between activities on the same day.
const activityOrder = "activity_date DESC, id DESC"

func scanActivity(row scanner) (models.Activity, error) {
	var (
		a                                     models.Activity
		coordinator, reportURL, reportStorage sql.NullString
	)
	err := row.Scan(&a.ID, &a.WingID, &a.Title, &a.Description, &a.ActivityDate,
		&coordinator, &reportURL, &reportStorage, &a.CreatedAt)
	if err != nil {
		return a, err
	}
	a.FacultyCoordinator = nullString(coordinator)
	a.ReportURL = nullString(reportURL)
	a.ReportStorageID = nullString(reportStorage)
	return a, nil
}

func (s *Store) queryActivities(ctx context.Context, b sq.SelectBuilder) ([]models.Activity, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build activities query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ActivitiesByWing returns all activities of a wing, newest first.
func (s *Store) ActivitiesByWing(ctx context.Context, wingID int64) ([]models.Activity, error) {
	return s.queryActivities(ctx, s.sb.Select(activityColumns...).
		From("activities").
		Where(sq.Eq{"wing_id": wingID}).
		OrderBy(activityOrder))
}

// ListActivities is the feed across all wings, newest first. limit <= 0
// means no limit.
func (s *Store) ListActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	b := s.sb.Select(activityColumns...).From("activities").OrderBy(activityOrder)
	return s.queryActivities(ctx, pageLimit(b, limit, 0))
}

func (s *Store) ActivityByID(ctx context.Context, id int64) (models.Activity, error) {
	query, args, err := s.sb.Select(activityColumns...).
		From("activities").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Activity{}, fmt.Errorf("build activity query: %w", err)
	}
	a, err := scanActivity(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, ErrNotFound
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// CreateActivity inserts a and fills in its ID, and CreatedAt when zero.
func (s *Store) CreateActivity(ctx context.Context, a *models.Activity) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	query, args, err := s.sb.Insert("activities").
		Columns(activityColumns[1:]...).
		Values(a.WingID, a.Title, a.Description, a.ActivityDate,
			toNull(a.FacultyCoordinator), toNull(a.ReportURL), toNull(a.ReportStorageID), a.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Report locates a stored report document.
type Report struct {
	URL       string
	StorageID string
}

// ActivityUpdate lists the columns to change. Nil fields are left alone.
type ActivityUpdate struct {
	Title        *string
	Description  *string
	ActivityDate *string
	// CoordinatorSet selects whether faculty_coordinator is written;
	// Coordinator nil then stores NULL.
	CoordinatorSet bool
	Coordinator    *string
	Report         *Report
}

func (u ActivityUpdate) empty() bool {
	return u.Title == nil && u.Description == nil && u.ActivityDate == nil &&
		!u.CoordinatorSet && u.Report == nil
}

// UpdateActivity applies u and returns the row as stored afterwards.
func (s *Store) UpdateActivity(ctx context.Context, id int64, u ActivityUpdate) (models.Activity, error) {
	if u.empty() {
		return s.ActivityByID(ctx, id)
	}

	set := map[string]any{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.ActivityDate != nil {
		set["activity_date"] = *u.ActivityDate
	}
	if u.CoordinatorSet {
		set["faculty_coordinator"] = toNull(u.Coordinator)
	}
	if u.Report != nil {
		set["report_url"] = u.Report.URL
		set["report_cloudinary_id"] = u.Report.StorageID
	}

	query, args, err := s.sb.Update("activities").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Activity{}, fmt.Errorf("build update activity: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Activity{}, fmt.Errorf("update activity: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Activity{}, ErrNotFound
	}
	return s.ActivityByID(ctx, id)
}

func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	query, args, err := s.sb.Delete("activities").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete activity: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// StatisticsRows returns every activity joined with its wing, newest first.
func (s *Store) StatisticsRows(ctx context.Context) ([]stats.Row, error) {
	query, args, err := s.sb.Select("w.id", "w.name", "w.slug", "a.activity_date").
		From("activities a").
		Join("wings w ON w.id = a.wing_id").
		OrderBy("a.activity_date DESC", "a.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build statistics query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("statistics rows: %w", err)
	}
	defer rows.Close()

	var out []stats.Row
	for rows.Next() {
		var r stats.Row
		if err := rows.Scan(&r.WingID, &r.WingName, &r.WingSlug, &r.ActivityDate); err != nil {
			return nil, fmt.Errorf("scan statistics row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
