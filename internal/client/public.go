package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/anvaya-club/anvaya/internal/models"
)

const (
	defaultPhotoLimit    = 100
	defaultActivityLimit = 1000
)

// GetAllWings lists every wing in server order.
func (c *Client) GetAllWings(ctx context.Context) ([]models.Wing, error) {
	var wings []models.Wing
	if err := c.getJSON(ctx, c.resolve(nil, "api", "wings"), &wings); err != nil {
		return nil, err
	}
	return wings, nil
}

// GetWingBySlug fetches one wing with its activities and photos. An unknown
// slug yields an error whose IsNotFound is true.
func (c *Client) GetWingBySlug(ctx context.Context, slug string) (*models.WingWithRelations, error) {
	var wing models.WingWithRelations
	if err := c.getJSON(ctx, c.resolve(nil, "api", "wings", slug), &wing); err != nil {
		return nil, err
	}
	return &wing, nil
}

// PhotoPage selects a window of a wing's gallery. Zero Limit means 100.
// Values are passed through as given; the server rejects out-of-range ones.
type PhotoPage struct {
	Limit  int
	Offset int
}

// GetWingPhotos fetches one page of a wing's photos, newest first. A zero
// page.Limit is sent as limit=100; every other value, negative ones
// included, goes to the server unchanged.
func (c *Client) GetWingPhotos(ctx context.Context, slug string, page PhotoPage) ([]models.Photo, error) {
	limit := page.Limit
	if limit == 0 {
		limit = defaultPhotoLimit
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(page.Offset))

	var photos []models.Photo
	if err := c.getJSON(ctx, c.resolve(query, "api", "wings", slug, "photos"), &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// GetWingActivities lists a wing's activities, newest first.
func (c *Client) GetWingActivities(ctx context.Context, slug string) ([]models.Activity, error) {
	var activities []models.Activity
	if err := c.getJSON(ctx, c.resolve(nil, "api", "wings", slug, "activities"), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *Client) GetActivity(ctx context.Context, id int64) (*models.Activity, error) {
	var activity models.Activity
	if err := c.getJSON(ctx, c.resolve(nil, "api", "activities", strconv.FormatInt(id, 10)), &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetAllActivities is the global feed across wings. Zero limit means 1000.
func (c *Client) GetAllActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit == 0 {
		limit = defaultActivityLimit
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var activities []models.Activity
	if err := c.getJSON(ctx, c.resolve(query, "api", "activities"), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// StatisticsQuery narrows the statistics aggregation. Zero Year means all
// years; the year parameter is then omitted from the request.
type StatisticsQuery struct {
	Year int
}

// GetActivityStatistics fetches per-wing activity counts. The response's
// AvailableYears always covers every year that has an activity, whatever
// the filter, so a year picker can be built from any response.
func (c *Client) GetActivityStatistics(ctx context.Context, q StatisticsQuery) (*models.ActivityStatisticsResponse, error) {
	query := url.Values{}
	if q.Year != 0 {
		query.Set("year", strconv.Itoa(q.Year))
	}

	var stats models.ActivityStatisticsResponse
	if err := c.getJSON(ctx, c.resolve(query, "api", "statistics", "activities"), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
