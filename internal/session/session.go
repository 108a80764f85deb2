package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Common session errors.
var (
	ErrNoSession  = errors.New("not logged in")
	ErrExpired    = errors.New("session expired, please log in again")
	ErrNotStudent = errors.New("only students can take mock tests")
)

// Session is the logged-in user on this device.
type Session struct {
	UserID       int64      `json:"user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	Token        string     `json:"token,omitempty"`
	ProfilePhoto string     `json:"profile_photo,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// IsStudent reports whether the session may use student commands.
func (s *Session) IsStudent() bool {
	return s.Role == model.RoleStudent
}

// Store persists the current session.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Load(ctx context.Context) (*Session, error)
	Delete(ctx context.Context) error
}

// Manager owns the session lifecycle.
type Manager struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

// NewManager creates a new Manager. ttl bounds sessions whose token
// carries no expiry.
func NewManager(store Store, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "session").Logger(),
		now:   time.Now,
	}
}

// Begin stores a new session from a login response, replacing any previous one.
func (m *Manager) Begin(ctx context.Context, resp *model.LoginResponse) (*Session, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	if exp, ok := TokenExpiry(resp.Token); ok {
		expires = exp
	}
	if !expires.After(now) {
		return nil, ErrExpired
	}

	s := &Session{
		UserID:    resp.User.ID,
		Name:      resp.User.Name,
		Email:     resp.User.Email,
		Role:      resp.User.Role,
		Token:     resp.Token,
		StartedAt: now,
		ExpiresAt: expires,
	}
	if err := m.store.Save(ctx, s, expires.Sub(now)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.log.Info().Int64("user_id", s.UserID).Str("role", string(s.Role)).
		Time("expires_at", expires).Msg("Session started")
	return s, nil
}

// Current returns the active session.
func (m *Manager) Current(ctx context.Context) (*Session, error) {
	s, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, ErrNoSession
	}
	if !s.ExpiresAt.After(m.now()) {
		if err := m.store.Delete(ctx); err != nil {
			m.log.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return nil, ErrExpired
	}
	return s, nil
}

// Student returns the active session and fails for non-student roles.
func (m *Manager) Student(ctx context.Context) (*Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !s.IsStudent() {
		return nil, ErrNotStudent
	}
	return s, nil
}

// End removes the session. Ending without a session is not an error.
func (m *Manager) End(ctx context.Context) error {
	if err := m.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.log.Info().Msg("Session ended")
	return nil
}

// SetProfilePhoto updates the photo of the active session.
func (m *Manager) SetProfilePhoto(ctx context.Context, photo string) (*Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	s.ProfilePhoto = photo
	if err := m.store.Save(ctx, s, s.ExpiresAt.Sub(m.now())); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying it.
// The client holds no signing key, so the server stays authoritative.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
