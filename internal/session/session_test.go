package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newManager(t *testing.T, ttl time.Duration) (*Manager, *FileStore) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "examsetu", "session.json"))
	m := NewManager(store, ttl, zerolog.Nop())
	m.now = func() time.Time { return epoch }
	return m, store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func studentLogin(token string) *model.LoginResponse {
	return &model.LoginResponse{
		User:  model.User{ID: 7, Name: "Asha", Email: "c6s1@student.com", Role: model.RoleStudent},
		Token: token,
	}
}

func TestBeginUsesTTLWithoutToken(t *testing.T) {
	m, _ := newManager(t, 8*time.Hour)
	ctx := context.Background()

	s, err := m.Begin(ctx, studentLogin(""))
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(8*time.Hour), s.ExpiresAt)

	cur, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cur.UserID)
	assert.Equal(t, model.RoleStudent, cur.Role)
	assert.True(t, cur.ExpiresAt.Equal(s.ExpiresAt))
}

func TestBeginUsesTokenExpiry(t *testing.T) {
	m, _ := newManager(t, 8*time.Hour)

	exp := epoch.Add(90 * time.Minute)
	s, err := m.Begin(context.Background(), studentLogin(signedToken(t, exp)))
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.Equal(exp))
}

func TestBeginRejectsExpiredToken(t *testing.T) {
	m, _ := newManager(t, 8*time.Hour)

	_, err := m.Begin(context.Background(), studentLogin(signedToken(t, epoch.Add(-time.Minute))))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCurrentWithoutSession(t *testing.T) {
	m, _ := newManager(t, time.Hour)

	_, err := m.Current(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrentExpiresAndDeletes(t *testing.T) {
	m, store := newManager(t, time.Hour)
	ctx := context.Background()

	_, err := m.Begin(ctx, studentLogin(""))
	require.NoError(t, err)

	m.now = func() time.Time { return epoch.Add(2 * time.Hour) }
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrExpired)

	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestStudentRejectsOtherRoles(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	ctx := context.Background()

	resp := studentLogin("")
	resp.User.Role = model.RoleTeacher
	_, err := m.Begin(ctx, resp)
	require.NoError(t, err)

	_, err = m.Student(ctx)
	assert.ErrorIs(t, err, ErrNotStudent)
}

func TestEndAndSetProfilePhoto(t *testing.T) {
	m, _ := newManager(t, time.Hour)
	ctx := context.Background()

	_, err := m.Begin(ctx, studentLogin(""))
	require.NoError(t, err)

	s, err := m.SetProfilePhoto(ctx, "profile_boy2.png")
	require.NoError(t, err)
	assert.Equal(t, "profile_boy2.png", s.ProfilePhoto)

	cur, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "profile_boy2.png", cur.ProfilePhoto)

	require.NoError(t, m.End(ctx))
	require.NoError(t, m.End(ctx))
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestTokenExpiry(t *testing.T) {
	_, ok := TokenExpiry("")
	assert.False(t, ok)

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)

	exp := epoch.Add(time.Hour)
	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func newRedisStore(t *testing.T, deviceID string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, deviceID), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStore(t, "lab-3")
	ctx := context.Background()

	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	in := &Session{
		UserID:    7,
		Name:      "Asha",
		Email:     "c6s1@student.com",
		Role:      model.RoleStudent,
		StartedAt: epoch,
		ExpiresAt: epoch.Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, in, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(config.CacheKey.DeviceSessionKey("lab-3")))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, int64(7), out.UserID)
	assert.Equal(t, "c6s1@student.com", out.Email)
	assert.True(t, out.ExpiresAt.Equal(in.ExpiresAt))

	require.NoError(t, store.Delete(ctx))
	assert.False(t, mr.Exists(config.CacheKey.DeviceSessionKey("lab-3")))
}

func TestRedisStoreExpiresWithTTL(t *testing.T) {
	store, mr := newRedisStore(t, "lab-3")
	ctx := context.Background()

	m := NewManager(store, 8*time.Hour, zerolog.Nop())
	m.now = func() time.Time { return epoch }
	_, err := m.Begin(ctx, studentLogin(""))
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, mr.TTL(config.CacheKey.DeviceSessionKey("lab-3")))

	mr.FastForward(9 * time.Hour)
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStoreRejectsCorruptSession(t *testing.T) {
	store, mr := newRedisStore(t, "lab-3")
	require.NoError(t, mr.Set(config.CacheKey.DeviceSessionKey("lab-3"), "{broken"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
