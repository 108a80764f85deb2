package service

import (
	"context"
	"fmt"

	"github.com/examsetu/examsetu-client/internal/apiclient"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/examsetu/examsetu-client/internal/session"
	"github.com/rs/zerolog"
)

// AuthService handles login, logout and the profile photo of the session.
type AuthService struct {
	api      *apiclient.Client
	sessions *session.Manager
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(api *apiclient.Client, sessions *session.Manager, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// Login authenticates against the portal and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	resp, err := s.api.Login(ctx, &model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Begin(ctx, resp)
	if err != nil {
		return nil, err
	}
	s.api.SetToken(sess.Token)
	return sess, nil
}

// Logout ends the session on this device.
func (s *AuthService) Logout(ctx context.Context) error {
	s.api.SetToken("")
	return s.sessions.End(ctx)
}

// Resume loads the session and attaches its token to the API client.
func (s *AuthService) Resume(ctx context.Context) (*session.Session, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	s.api.SetToken(sess.Token)
	return sess, nil
}

// ResumeStudent is Resume restricted to student sessions.
func (s *AuthService) ResumeStudent(ctx context.Context) (*session.Session, error) {
	sess, err := s.sessions.Student(ctx)
	if err != nil {
		return nil, err
	}
	s.api.SetToken(sess.Token)
	return sess, nil
}

// SetProfilePhoto stores the photo on the portal and in the session.
func (s *AuthService) SetProfilePhoto(ctx context.Context, photo string) (*session.Session, error) {
	sess, err := s.Resume(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.api.SetProfilePhoto(ctx, &model.ProfilePhotoRequest{UserID: sess.UserID, Photo: photo}); err != nil {
		return nil, fmt.Errorf("update profile photo: %w", err)
	}
	return s.sessions.SetProfilePhoto(ctx, photo)
}
