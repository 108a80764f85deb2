package attempt

import (
	"context"
	"strings"
	"testing"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/examsetu/examsetu-client/internal/portaltest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, api *fakeAPI, opts Options) *Controller {
	t.Helper()
	if opts.AttemptID == 0 {
		opts.AttemptID = 42
	}
	if opts.UserID == 0 {
		opts.UserID = 7
	}
	opts.Log = zerolog.Nop()
	c := New(api, opts)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestLoadInitializesTimerAndPointer(t *testing.T) {
	c := loaded(t, newFakeAPI(), Options{})

	assert.Equal(t, StateInProgress, c.State())
	assert.Equal(t, 600, c.Remaining())
	assert.Equal(t, 1, c.Current())
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, "Physics", c.Meta().Subject)
	assert.NotEmpty(t, c.IdempotencyKey())
}

func TestLoadFailureStaysLoading(t *testing.T) {
	api := newFakeAPI()
	api.getErr = errBackend
	c := New(api, Options{AttemptID: 42, UserID: 7, Log: zerolog.Nop()})

	err := c.Load(context.Background())
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateLoading, c.State())

	_, err = c.Submit(context.Background(), model.SubmitTriggerManual)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, c.SaveAndNext(), ErrNotInProgress)
}

func TestLoadEmptyAttempt(t *testing.T) {
	api := newFakeAPI()
	api.detail = &model.AttemptDetail{Subject: "Physics", DurationMin: 10}
	c := New(api, Options{AttemptID: 42, UserID: 7, Log: zerolog.Nop()})

	assert.ErrorIs(t, c.Load(context.Background()), ErrNoQuestions)
	assert.Equal(t, StateLoading, c.State())
}

func TestLoadDuplicateOrderNumber(t *testing.T) {
	api := newFakeAPI()
	detail := portaltest.PhysicsAttempt()
	for i := range detail.Questions {
		detail.Questions[i].OrderNo = 1
	}
	api.detail = detail
	c := New(api, Options{AttemptID: 42, UserID: 7, Log: zerolog.Nop()})

	err := c.Load(context.Background())
	require.ErrorIs(t, err, ErrDuplicateOrder)
	assert.Equal(t, StateLoading, c.State())

	_, err = c.Submit(context.Background(), model.SubmitTriggerManual)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Zero(t, api.submitCount())
}

func TestLoadTwice(t *testing.T) {
	c := loaded(t, newFakeAPI(), Options{})
	assert.ErrorIs(t, c.Load(context.Background()), ErrAlreadyLoaded)
}

func TestAnswerThenSaveAndNext(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})

	assert.False(t, c.CanSaveAndNext())
	assert.ErrorIs(t, c.SaveAndNext(), ErrAnswerRequired)

	require.NoError(t, c.SelectOption(ctx, 2))
	assert.True(t, c.CanSaveAndNext())
	require.NoError(t, c.SaveAndNext())

	assert.Equal(t, 2, c.Current())
	assert.Equal(t, StatusAnswered, c.Status(1))
}

func TestMarkForReviewAdvancesWithoutAnswer(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	require.NoError(t, c.GoTo(2))

	require.NoError(t, c.MarkForReview(ctx))

	assert.Equal(t, 3, c.Current())
	assert.Equal(t, StatusMarked, c.Status(2))
}

func TestMarkForReviewToggles(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	require.NoError(t, c.SelectOption(ctx, 1))

	require.NoError(t, c.MarkForReview(ctx))
	assert.Equal(t, StatusMarked, c.Status(1), "marked wins over answered")

	require.NoError(t, c.GoTo(1))
	require.NoError(t, c.MarkForReview(ctx))
	assert.Equal(t, StatusAnswered, c.Status(1))
}

func TestMarkForReviewOnLastQuestionStays(t *testing.T) {
	c := loaded(t, newFakeAPI(), Options{})
	require.NoError(t, c.GoTo(3))

	require.NoError(t, c.MarkForReview(context.Background()))
	assert.Equal(t, 3, c.Current())
}

func TestStatusIsExclusive(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	require.NoError(t, c.SelectOption(ctx, 1))
	require.NoError(t, c.GoTo(2))
	require.NoError(t, c.MarkForReview(ctx))

	want := []QuestionStatus{StatusAnswered, StatusMarked, StatusNotAttempted}
	for n := 1; n <= c.Total(); n++ {
		assert.Equal(t, want[n-1], c.Status(n), "question %d", n)
	}
}

func TestPreviousDisabledAtFirst(t *testing.T) {
	c := loaded(t, newFakeAPI(), Options{})

	assert.False(t, c.CanGoPrevious())
	assert.ErrorIs(t, c.Previous(), ErrFirstQuestion)

	require.NoError(t, c.GoTo(3))
	assert.True(t, c.CanGoPrevious())
	require.NoError(t, c.Previous())
	assert.Equal(t, 2, c.Current())
}

func TestSaveLabelOnLastQuestion(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	assert.Equal(t, "Save & Next", c.SaveLabel())

	require.NoError(t, c.GoTo(3))
	assert.Equal(t, "Save", c.SaveLabel())
	require.NoError(t, c.SetAnswerText(ctx, "Inertia, F = ma, action-reaction"))
	require.NoError(t, c.SaveAndNext())
	assert.Equal(t, 3, c.Current())
}

func TestGoToOutOfRange(t *testing.T) {
	c := loaded(t, newFakeAPI(), Options{})

	assert.ErrorIs(t, c.GoTo(0), ErrOutOfRange)
	assert.ErrorIs(t, c.GoTo(4), ErrOutOfRange)
	assert.Equal(t, 1, c.Current())
}

func TestWhitespaceTextIsNotAnAnswer(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	require.NoError(t, c.GoTo(3))

	require.NoError(t, c.SetAnswerText(ctx, "   \n\t"))
	assert.False(t, c.CanSaveAndNext())
	assert.Equal(t, StatusNotAttempted, c.Status(3))

	require.NoError(t, c.SetAnswerText(ctx, " x "))
	assert.True(t, c.CanSaveAndNext())
}

func TestAnswerKindMustMatchQuestion(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})

	assert.ErrorIs(t, c.SetAnswerText(ctx, "text"), ErrWrongQuestionType)
	assert.ErrorIs(t, c.SelectOption(ctx, 99), ErrUnknownOption)

	require.NoError(t, c.GoTo(3))
	assert.ErrorIs(t, c.SelectOption(ctx, 1), ErrWrongQuestionType)
}

func TestCharacterLimit(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{CharacterLimit: 10})
	require.NoError(t, c.GoTo(3))
	require.NoError(t, c.SetAnswerText(ctx, "ten chars!"))

	assert.ErrorIs(t, c.SetAnswerText(ctx, strings.Repeat("x", 11)), ErrCharacterLimit)

	a, ok := c.Answer(3)
	require.True(t, ok)
	assert.Equal(t, "ten chars!", *a.AnswerText)
}

func TestSelectingReplacesPreviousAnswer(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})

	require.NoError(t, c.SelectOption(ctx, 1))
	require.NoError(t, c.SelectOption(ctx, 3))

	a, _ := c.Answer(1)
	require.NotNil(t, a.SelectedOptionID)
	assert.Equal(t, int64(3), *a.SelectedOptionID)
	assert.Nil(t, a.AnswerText)
}

func TestProgressAndSnapshot(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	require.NoError(t, c.SelectOption(ctx, 2))
	require.NoError(t, c.SaveAndNext())

	v := c.Snapshot()
	assert.Equal(t, 33, v.Progress)
	assert.Equal(t, 1, v.AnsweredCount)
	assert.Equal(t, 2, v.Current)
	assert.Equal(t, "What is the SI unit of Force?", v.Question.Text)
	assert.Equal(t, []QuestionStatus{StatusAnswered, StatusNotAttempted, StatusNotAttempted}, v.Statuses)
	assert.True(t, v.CanGoPrevious)
	assert.False(t, v.CanSaveAndNext)
}

func TestQuestionsOrderedByOrderNo(t *testing.T) {
	api := newFakeAPI()
	qs := api.detail.Questions
	api.detail.Questions = []model.AttemptQuestion{qs[2], qs[0], qs[1]}
	c := loaded(t, api, Options{})

	v := c.Snapshot()
	assert.Equal(t, int64(501), v.Question.QuestionID)
	require.NoError(t, c.GoTo(3))
	assert.Equal(t, model.QuestionTypeSubjective, c.Snapshot().Question.Type)
	assert.Equal(t, 200, c.Snapshot().Question.CharacterLimit)
}

func TestDraftsAreSavedAndRestored(t *testing.T) {
	ctx := context.Background()
	drafts := newMemDrafts()
	api := newFakeAPI()

	c := loaded(t, api, Options{Drafts: drafts})
	require.NoError(t, c.SelectOption(ctx, 2))
	require.NoError(t, c.GoTo(2))
	require.NoError(t, c.MarkForReview(ctx))

	resumed := loaded(t, api, Options{Drafts: drafts})
	assert.Equal(t, StatusAnswered, resumed.Status(1))
	assert.Equal(t, StatusMarked, resumed.Status(2))
	assert.Equal(t, 1, resumed.Current())
}

func TestDraftsIgnoreStaleAnswers(t *testing.T) {
	drafts := newMemDrafts()
	drafts.answers[1] = model.OptionAnswer(99)
	drafts.answers[3] = model.OptionAnswer(1)
	drafts.answers[9] = model.TextAnswer("gone")

	c := loaded(t, newFakeAPI(), Options{Drafts: drafts})

	assert.Equal(t, 0, c.AnsweredCount())
}
