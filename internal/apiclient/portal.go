package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/examsetu/examsetu-client/internal/model"
)

// ListResults returns the result summaries of a student.
func (c *Client) ListResults(ctx context.Context, userID int64) ([]model.ResultSummary, error) {
	var out []model.ResultSummary
	if err := c.do(ctx, call{
		op:     "list_results",
		method: http.MethodGet,
		path:   "/api/results",
		query:  map[string]string{"userId": strconv.FormatInt(userID, 10)},
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// ListNotifications returns the notifications of a student.
func (c *Client) ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	var out []model.Notification
	if err := c.do(ctx, call{
		op:     "list_notifications",
		method: http.MethodGet,
		path:   "/api/notifications",
		query:  map[string]string{"userId": strconv.FormatInt(userID, 10)},
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProfile returns the profile of a student.
func (c *Client) GetProfile(ctx context.Context, userID int64) (*model.StudentProfile, error) {
	var out model.StudentProfile
	if err := c.do(ctx, call{
		op:     "get_profile",
		method: http.MethodGet,
		path:   "/api/students/profile",
		query:  map[string]string{"userId": strconv.FormatInt(userID, 10)},
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}
