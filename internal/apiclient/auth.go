package apiclient

import (
	"context"
	"net/http"

	"github.com/examsetu/examsetu-client/internal/model"
)

// Login authenticates with email and password.
// A 401 is reported as ErrInvalidCredentials rather than ErrUnauthorized.
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	var out model.LoginResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   req,
		out:    &out,
	})
	if err != nil {
		if apiErr, ok := err.(*Error); ok && apiErr.Code == ErrUnauthorized {
			apiErr.Code = ErrInvalidCredentials
		}
		return nil, err
	}
	if err := decodeValidated("login", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetProfilePhoto records the profile photo chosen by the user.
func (c *Client) SetProfilePhoto(ctx context.Context, req *model.ProfilePhotoRequest) error {
	return c.do(ctx, call{
		op:     "set_profile_photo",
		method: http.MethodPost,
		path:   "/api/users/profile-photo",
		body:   req,
	})
}
