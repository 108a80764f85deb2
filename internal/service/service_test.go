package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/examsetu/examsetu-client/internal/apiclient"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/examsetu/examsetu-client/internal/portaltest"
	"github.com/examsetu/examsetu-client/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	portal   *portaltest.Portal
	api      *apiclient.Client
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := portaltest.NewWithDefaults()
	srv := p.Serve(t)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	return &fixture{
		portal:   p,
		api:      apiclient.NewWithBaseURL(srv.URL, 5*time.Second, zerolog.Nop()),
		sessions: session.NewManager(store, time.Hour, zerolog.Nop()),
	}
}

func TestLoginStartsSession(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.api, f.sessions, zerolog.Nop())
	ctx := context.Background()

	sess, err := auth.Login(ctx, portaltest.Student.User.Email, portaltest.Student.Password)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.UserID)

	cur, err := auth.ResumeStudent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Samarth", cur.Name)

	require.NoError(t, auth.Logout(ctx))
	_, err = auth.Resume(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLoginWrongPasswordKeepsNoSession(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.api, f.sessions, zerolog.Nop())
	ctx := context.Background()

	_, err := auth.Login(ctx, portaltest.Student.User.Email, "wrongpassword")
	assert.True(t, apiclient.IsCode(err, apiclient.ErrInvalidCredentials))

	_, err = auth.Resume(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestTeacherCannotResumeAsStudent(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.api, f.sessions, zerolog.Nop())
	ctx := context.Background()

	_, err := auth.Login(ctx, portaltest.Teacher.User.Email, portaltest.Teacher.Password)
	require.NoError(t, err)

	_, err = auth.ResumeStudent(ctx)
	assert.ErrorIs(t, err, session.ErrNotStudent)
}

func TestSetProfilePhoto(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.api, f.sessions, zerolog.Nop())
	ctx := context.Background()

	_, err := auth.Login(ctx, portaltest.Student.User.Email, portaltest.Student.Password)
	require.NoError(t, err)

	sess, err := auth.SetProfilePhoto(ctx, "profile_girl.png")
	require.NoError(t, err)
	assert.Equal(t, "profile_girl.png", sess.ProfilePhoto)

	f.portal.Lock()
	defer f.portal.Unlock()
	assert.Equal(t, "profile_girl.png", f.portal.Photos[7])
}

func TestStartMockTest(t *testing.T) {
	f := newFixture(t)
	svc := NewMockTestService(f.api, zerolog.Nop())
	ctx := context.Background()

	id, err := svc.Start(ctx, 7, "physics", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(100), id)

	f.portal.Lock()
	defer f.portal.Unlock()
	require.Len(t, f.portal.Started, 1)
	assert.Equal(t, "Physics", f.portal.Started[0].Subject)
	assert.Equal(t, DefaultQuestionCount, f.portal.Started[0].NumberOfQuestions)
}

func TestStartMockTestRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	svc := NewMockTestService(f.api, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, "Astrology", 10)
	assert.ErrorIs(t, err, ErrUnknownSubject)

	_, err = svc.Start(ctx, 7, "Maths", 51)
	assert.ErrorIs(t, err, ErrInvalidQuestionCount)

	_, err = svc.Start(ctx, 7, "Maths", -1)
	assert.ErrorIs(t, err, ErrInvalidQuestionCount)
}

func TestBestEffortReads(t *testing.T) {
	f := newFixture(t)
	svc := NewPortalService(f.api, zerolog.Nop())
	ctx := context.Background()

	assert.Empty(t, svc.Notifications(ctx, 7))
	assert.Equal(t, &model.StudentProfile{}, svc.Profile(ctx, 7))

	class := "10"
	f.portal.Lock()
	f.portal.Notifications = []model.Notification{{Title: "Holiday", Message: "School closed"}}
	f.portal.Profile = &model.StudentProfile{ClassName: &class}
	f.portal.Unlock()

	assert.Len(t, svc.Notifications(ctx, 7), 1)
	assert.Equal(t, "10", *svc.Profile(ctx, 7).ClassName)
}

type memJournal struct {
	entries []model.SubmissionEntry
	err     error
}

func (m *memJournal) Insert(_ context.Context, e *model.SubmissionEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memJournal) ListByUser(_ context.Context, userID int64, limit int) ([]model.SubmissionEntry, error) {
	var out []model.SubmissionEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func TestJournalWithoutRedisWritesThrough(t *testing.T) {
	repo := &memJournal{}
	svc := NewJournalService(nil, repo, zerolog.Nop())
	ctx := context.Background()

	for _, status := range []model.SubmissionStatus{model.SubmissionStatusFailed, model.SubmissionStatusSubmitted} {
		require.NoError(t, svc.Record(ctx, &model.SubmissionEntry{
			ID: uuid.New(), AttemptID: 42, UserID: 7, Status: status,
		}))
	}

	hist, err := svc.History(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, model.SubmissionStatusSubmitted, hist[0].Status)
}

func TestJournalDisabled(t *testing.T) {
	svc := NewJournalService(nil, nil, zerolog.Nop())

	assert.NoError(t, svc.Record(context.Background(), &model.SubmissionEntry{AttemptID: 1, UserID: 1}))
	_, err := svc.History(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrJournalDisabled)
}

func TestJournalPassesRepositoryError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewJournalService(nil, &memJournal{err: boom}, zerolog.Nop())

	err := svc.Record(context.Background(), &model.SubmissionEntry{AttemptID: 1, UserID: 1})
	assert.ErrorIs(t, err, boom)
}
