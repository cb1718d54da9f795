// Package models holds the records exchanged between the Anvaya API and its
// clients. They are plain wire types; nothing here is owned or mutated beyond
// the scope of a single request.
package models

import "time"

// DateLayout is the wire format of Activity.ActivityDate.
const DateLayout = "2006-01-02"

// Wing is a named sub-group of the club.
type Wing struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	About   string `json:"about"`
	Vision  string `json:"vision"`
	Mission string `json:"mission"`
}

// WingWithRelations is a Wing plus the activities and photos it owns,
// assembled by the backend for a single detail fetch.
type WingWithRelations struct {
	Wing
	Activities []Activity `json:"activities"`
	Photos     []Photo    `json:"photos"`
}

// Activity is a dated event record belonging to one wing.
//
// ReportURL and ReportStorageID are both set or both nil.
type Activity struct {
	ID                 int64     `json:"id"`
	WingID             int64     `json:"wing_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ActivityDate       string    `json:"activity_date"`
	FacultyCoordinator *string   `json:"faculty_coordinator"`
	ReportURL          *string   `json:"report_url"`
	ReportStorageID    *string   `json:"report_cloudinary_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasReport reports whether a report document is attached.
func (a Activity) HasReport() bool {
	return a.ReportURL != nil && a.ReportStorageID != nil
}

// Photo is a gallery image. It is created by upload and destroyed by delete,
// never mutated in place.
type Photo struct {
	ID         int64     `json:"id"`
	WingID     int64     `json:"wing_id"`
	URL        string    `json:"url"`
	StorageID  string    `json:"cloudinary_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ActivityStatistic is the activity count of one wing.
type ActivityStatistic struct {
	WingID        int64  `json:"wing_id"`
	WingName      string `json:"wing_name"`
	WingSlug      string `json:"wing_slug"`
	ActivityCount int    `json:"activity_count"`
}

// ActivityStatisticsResponse is the computed projection returned by the
// statistics endpoint. It is always recomputable from the activity set.
type ActivityStatisticsResponse struct {
	Statistics     []ActivityStatistic `json:"statistics"`
	AvailableYears []int               `json:"available_years"`
	FilteredYear   *int                `json:"filtered_year"`
}

// ---- Auth ----

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthToken is opaque to clients; they never parse its claims.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	Username string `json:"username"`
}

// ---- Generic responses ----

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
