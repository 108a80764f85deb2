package attempt

import (
	"context"
	"fmt"
	"time"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/google/uuid"
)

// Submit sends the answer set exactly once. Only one submission can be in
// flight: a concurrent call gets ErrSubmitInFlight and a call after success
// gets ErrAlreadySubmitted. A failed submit returns to in-progress so the
// student can retry with the same idempotency key.
func (c *Controller) Submit(ctx context.Context, trigger model.SubmitTrigger) (*model.SubmitReceipt, error) {
	c.mu.Lock()
	switch c.state {
	case StateLoading:
		c.mu.Unlock()
		return nil, ErrNotLoaded
	case StateSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateSubmitted:
		c.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	c.state = StateSubmitting
	answers := make(map[int]model.Answer, len(c.answers))
	for n, a := range c.answers {
		answers[n] = a
	}
	orderIndex := c.orderIndex
	key := c.submitKey
	total := len(c.questions)
	answered := c.answeredCount()
	c.mu.Unlock()

	c.log.Info().
		Str("trigger", string(trigger)).
		Int("answered", answered).
		Int("total", total).
		Msg("Submitting attempt")

	receipt, err := c.send(ctx, answers, orderIndex, key)

	entry := &model.SubmissionEntry{
		ID:             uuid.New(),
		AttemptID:      c.opts.AttemptID,
		UserID:         c.opts.UserID,
		IdempotencyKey: key,
		Trigger:        trigger,
		AnsweredCount:  answered,
		TotalQuestions: total,
		DeviceID:       c.opts.DeviceID,
		CreatedAt:      time.Now().UTC(),
	}

	c.mu.Lock()
	if err != nil {
		c.state = StateInProgress
		c.mu.Unlock()

		c.log.Error().Err(err).Str("trigger", string(trigger)).Msg("Submit failed")
		entry.Status = model.SubmissionStatusFailed
		entry.Error = err.Error()
		c.record(ctx, entry)
		return nil, err
	}
	c.state = StateSubmitted
	c.receipt = receipt
	c.mu.Unlock()

	c.log.Info().Str("trigger", string(trigger)).Msg("Attempt submitted")
	entry.Status = model.SubmissionStatusSubmitted
	c.record(ctx, entry)

	if err := c.opts.Drafts.Clear(ctx, c.opts.AttemptID, c.opts.UserID); err != nil {
		c.log.Warn().Err(err).Msg("Failed to clear draft answers")
	}
	return receipt, nil
}

// send re-fetches the attempt to map local order numbers to backend question
// ids, then posts one record per question.
func (c *Controller) send(ctx context.Context, answers map[int]model.Answer, orderIndex map[int]int, key string) (*model.SubmitReceipt, error) {
	detail, err := c.api.GetAttempt(ctx, c.opts.AttemptID, c.opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("refetch attempt: %w", err)
	}

	req := &model.SubmitAttemptRequest{
		UserID:  c.opts.UserID,
		Answers: BuildAnswerRecords(detail.Questions, answers, orderIndex),
	}

	receipt, err := c.api.SubmitAttempt(ctx, c.opts.AttemptID, key, req)
	if err != nil {
		return nil, fmt.Errorf("submit attempt: %w", err)
	}
	if receipt == nil {
		receipt = &model.SubmitReceipt{}
	}
	return receipt, nil
}

// BuildAnswerRecords produces one record per backend question. Unanswered
// questions, and questions whose order number is unknown locally, carry
// neither an option nor text.
func BuildAnswerRecords(questions []model.AttemptQuestion, answers map[int]model.Answer, orderIndex map[int]int) []model.AnswerRecord {
	records := make([]model.AnswerRecord, 0, len(questions))
	for _, q := range questions {
		rec := model.AnswerRecord{QuestionID: q.QuestionID}
		if local, ok := orderIndex[q.OrderNo]; ok {
			a := answers[local]
			rec.SelectedOptionID = a.SelectedOptionID
			rec.AnswerText = a.AnswerText
		}
		records = append(records, rec)
	}
	return records
}

func (c *Controller) record(ctx context.Context, entry *model.SubmissionEntry) {
	if c.opts.Recorder == nil {
		return
	}
	if err := c.opts.Recorder.Record(ctx, entry); err != nil {
		c.log.Warn().Err(err).Msg("Failed to journal submission")
	}
}
