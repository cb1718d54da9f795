package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anvaya-club/anvaya/internal/apierr"
	"github.com/anvaya-club/anvaya/internal/models"
)

// Login exchanges credentials for a token. A non-empty access token is
// persisted together with the username, so Login is not read-only.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthToken, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apierr.Validation("Username is required")
	}
	if password == "" {
		return nil, apierr.Validation("Password is required")
	}

	var token models.AuthToken
	creds := models.LoginRequest{Username: username, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, c.resolve(nil, "api", "admin", "login"), creds, &token); err != nil {
		return nil, err
	}

	if token.AccessToken != "" {
		if err := c.SetAuthToken(token.AccessToken); err != nil {
			return nil, apierr.Normalize(err)
		}
		if err := c.store.Set(UsernameKey, username); err != nil {
			return nil, apierr.Normalize(err)
		}
	}
	return &token, nil
}

// UploadPhotos adds files to a wing's gallery in one request. An empty list
// is rejected without contacting the server.
func (c *Client) UploadPhotos(ctx context.Context, wingID int64, files []File) ([]models.Photo, error) {
	if len(files) == 0 {
		return nil, apierr.Validation("Please select at least one photo to upload")
	}

	f := newForm()
	f.field("wing_id", strconv.FormatInt(wingID, 10))
	for _, file := range files {
		f.file("files", file)
	}
	body, contentType, err := f.finish()
	if err != nil {
		return nil, apierr.Normalize(err)
	}

	var photos []models.Photo
	req := request{
		method:      http.MethodPost,
		url:         c.resolve(nil, "api", "admin", "photos"),
		body:        body,
		contentType: contentType,
	}
	if err := c.do(ctx, req, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// DeletePhoto removes a photo and its stored image. Deleting an id twice
// returns whatever the server says about the missing record.
func (c *Client) DeletePhoto(ctx context.Context, photoID int64) error {
	u := c.resolve(nil, "api", "admin", "photos", strconv.FormatInt(photoID, 10))
	return c.do(ctx, request{method: http.MethodDelete, url: u}, nil)
}

// CreateActivityParams are the inputs of CreateActivity. String fields are
// trimmed before sending.
type CreateActivityParams struct {
	WingID      int64
	Title       string
	Description string
	// ActivityDate is YYYY-MM-DD.
	ActivityDate string
	// FacultyCoordinator is sent only when non-blank.
	FacultyCoordinator string
	ReportFile         *File
}

func (c *Client) CreateActivity(ctx context.Context, p CreateActivityParams) (*models.Activity, error) {
	title := strings.TrimSpace(p.Title)
	description := strings.TrimSpace(p.Description)
	date := strings.TrimSpace(p.ActivityDate)
	coordinator := strings.TrimSpace(p.FacultyCoordinator)

	switch {
	case title == "":
		return nil, apierr.Validation("Title is required")
	case description == "":
		return nil, apierr.Validation("Description is required")
	case date == "":
		return nil, apierr.Validation("Activity date is required")
	}

	f := newForm()
	f.field("wing_id", strconv.FormatInt(p.WingID, 10))
	f.field("title", title)
	f.field("description", description)
	f.field("activity_date", date)
	if coordinator != "" {
		f.field("faculty_coordinator", coordinator)
	}
	if p.ReportFile != nil {
		f.file("report_file", *p.ReportFile)
	}
	return c.submitActivity(ctx, http.MethodPost, c.resolve(nil, "api", "admin", "activities"), f)
}

// FieldUpdate is a tri-state value for an optional field of a partial
// update: keep the current value, clear it, or set a new one.
type FieldUpdate struct {
	set   bool
	value string
}

// KeepField leaves the field unchanged. It is the zero value.
func KeepField() FieldUpdate { return FieldUpdate{} }

// ClearField removes the field's value.
func ClearField() FieldUpdate { return FieldUpdate{set: true} }

// SetField replaces the field's value. A blank v is the same as ClearField.
func SetField(v string) FieldUpdate {
	return FieldUpdate{set: true, value: strings.TrimSpace(v)}
}

// Provided reports whether the field is sent at all.
func (f FieldUpdate) Provided() bool { return f.set }

// Value is the value sent; "" means clear.
func (f FieldUpdate) Value() string { return f.value }

// UpdateActivityParams describe a partial update. A nil pointer leaves the
// field unchanged. A non-nil pointer to a blank string is rejected, since the
// field cannot be cleared.
type UpdateActivityParams struct {
	ActivityID         int64
	Title              *string
	Description        *string
	ActivityDate       *string
	FacultyCoordinator FieldUpdate
	// ReportFile replaces the current report, if any.
	ReportFile *File
}

func (c *Client) UpdateActivity(ctx context.Context, p UpdateActivityParams) (*models.Activity, error) {
	f := newForm()
	required := []struct {
		name, label string
		value       *string
	}{
		{"title", "Title", p.Title},
		{"description", "Description", p.Description},
		{"activity_date", "Activity date", p.ActivityDate},
	}
	for _, r := range required {
		if r.value == nil {
			continue
		}
		v := strings.TrimSpace(*r.value)
		if v == "" {
			return nil, apierr.Validation(r.label + " cannot be empty")
		}
		f.field(r.name, v)
	}
	if p.FacultyCoordinator.Provided() {
		f.field("faculty_coordinator", p.FacultyCoordinator.Value())
	}
	if p.ReportFile != nil {
		f.file("report_file", *p.ReportFile)
	}

	u := c.resolve(nil, "api", "admin", "activities", strconv.FormatInt(p.ActivityID, 10))
	return c.submitActivity(ctx, http.MethodPut, u, f)
}

func (c *Client) DeleteActivity(ctx context.Context, activityID int64) error {
	u := c.resolve(nil, "api", "admin", "activities", strconv.FormatInt(activityID, 10))
	return c.do(ctx, request{method: http.MethodDelete, url: u}, nil)
}

func (c *Client) submitActivity(ctx context.Context, method string, u *url.URL, f *form) (*models.Activity, error) {
	body, contentType, err := f.finish()
	if err != nil {
		return nil, apierr.Normalize(err)
	}
	var activity models.Activity
	req := request{method: method, url: u, body: body, contentType: contentType}
	if err := c.do(ctx, req, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}
