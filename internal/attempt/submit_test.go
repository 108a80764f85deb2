package attempt

import (
	"context"
	"sync"
	"testing"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitSendsOneRecordPerQuestion(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	rec := &memRecorder{}
	c := loaded(t, api, Options{Recorder: rec, DeviceID: "lab-3"})
	require.NoError(t, c.SelectOption(ctx, 2))
	require.NoError(t, c.GoTo(3))
	require.NoError(t, c.SetAnswerText(ctx, "Inertia"))

	receipt, err := c.Submit(ctx, model.SubmitTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, "SUBMITTED", receipt.Status)
	assert.Equal(t, StateSubmitted, c.State())
	assert.Equal(t, 2, api.gets, "submission refetches the attempt")

	require.Len(t, api.submits, 1)
	req := api.submits[0]
	assert.Equal(t, int64(7), req.UserID)
	require.Len(t, req.Answers, 3)

	assert.Equal(t, int64(501), req.Answers[0].QuestionID)
	require.NotNil(t, req.Answers[0].SelectedOptionID)
	assert.Equal(t, int64(2), *req.Answers[0].SelectedOptionID)
	assert.Nil(t, req.Answers[0].AnswerText)

	assert.Equal(t, int64(502), req.Answers[1].QuestionID)
	assert.Nil(t, req.Answers[1].SelectedOptionID)
	assert.Nil(t, req.Answers[1].AnswerText)

	require.NotNil(t, req.Answers[2].AnswerText)
	assert.Equal(t, "Inertia", *req.Answers[2].AnswerText)
	assert.Nil(t, req.Answers[2].SelectedOptionID)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, model.SubmissionStatusSubmitted, rec.entries[0].Status)
	assert.Equal(t, 2, rec.entries[0].AnsweredCount)
	assert.Equal(t, "lab-3", rec.entries[0].DeviceID)
}

func TestSubmitTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c := loaded(t, api, Options{})

	_, err := c.Submit(ctx, model.SubmitTriggerManual)
	require.NoError(t, err)
	_, err = c.Submit(ctx, model.SubmitTriggerManual)

	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, api.submitCount())
}

func TestFailedSubmitReturnsToInProgress(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.submitErrs = []error{errBackend}
	rec := &memRecorder{}
	drafts := newMemDrafts()
	c := loaded(t, api, Options{Recorder: rec, Drafts: drafts})
	require.NoError(t, c.SelectOption(ctx, 2))

	_, err := c.Submit(ctx, model.SubmitTriggerManual)
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateInProgress, c.State())
	assert.False(t, drafts.cleared)

	_, err = c.Submit(ctx, model.SubmitTriggerManual)
	require.NoError(t, err)
	assert.True(t, drafts.cleared)

	require.Len(t, api.keys, 2)
	assert.Equal(t, api.keys[0], api.keys[1], "retries reuse the idempotency key")

	require.Len(t, rec.entries, 2)
	assert.Equal(t, model.SubmissionStatusFailed, rec.entries[0].Status)
	assert.NotEmpty(t, rec.entries[0].Error)
	assert.Equal(t, model.SubmissionStatusSubmitted, rec.entries[1].Status)
}

func TestSubmitRefetchFailure(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c := loaded(t, api, Options{})
	api.mu.Lock()
	api.getErr = errBackend
	api.mu.Unlock()

	_, err := c.Submit(ctx, model.SubmitTriggerManual)
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateInProgress, c.State())
	assert.Equal(t, 0, api.submitCount())
}

func TestConcurrentSubmitPostsOnce(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.submitBlock = make(chan struct{})
	c := loaded(t, api, Options{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = c.Submit(ctx, model.SubmitTriggerManual)
	}()

	require.Eventually(t, func() bool { return c.State() == StateSubmitting }, timeout, tick)
	_, errs[1] = c.Submit(ctx, model.SubmitTriggerTimer)
	close(api.submitBlock)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrSubmitInFlight)
	assert.Equal(t, 1, api.submitCount())
}

func TestNavigationBlockedAfterSubmit(t *testing.T) {
	ctx := context.Background()
	c := loaded(t, newFakeAPI(), Options{})
	_, err := c.Submit(ctx, model.SubmitTriggerManual)
	require.NoError(t, err)

	assert.ErrorIs(t, c.GoTo(2), ErrNotInProgress)
	assert.ErrorIs(t, c.SelectOption(ctx, 1), ErrNotInProgress)
	assert.ErrorIs(t, c.MarkForReview(ctx), ErrNotInProgress)
	assert.False(t, c.CanSaveAndNext())
}

func TestBuildAnswerRecordsUnknownOrder(t *testing.T) {
	questions := []model.AttemptQuestion{{QuestionID: 9, OrderNo: 5}}
	answers := map[int]model.Answer{1: model.OptionAnswer(3)}

	records := BuildAnswerRecords(questions, answers, map[int]int{1: 1})

	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].QuestionID)
	assert.Nil(t, records[0].SelectedOptionID)
}
