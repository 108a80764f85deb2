package attempt

import "github.com/examsetu/examsetu-client/internal/model"

// View is a consistent snapshot of everything the test screen renders.
type View struct {
	State          State
	Meta           Meta
	Current        int
	Total          int
	Remaining      int
	Question       model.Question
	Answer         model.Answer
	Statuses       []QuestionStatus
	AnsweredCount  int
	Progress       int
	CanGoPrevious  bool
	CanSaveAndNext bool
	SaveLabel      string
}

// Snapshot captures the controller state under a single lock.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:     c.state,
		Meta:      c.meta,
		Current:   c.current,
		Total:     len(c.questions),
		Remaining: c.remaining,
	}
	if len(c.questions) == 0 {
		return v
	}

	v.Question = c.questions[c.current-1]
	v.Answer = c.answers[c.current]
	v.Statuses = make([]QuestionStatus, len(c.questions))
	for i := range c.questions {
		v.Statuses[i] = c.status(i + 1)
	}
	v.AnsweredCount = c.answeredCount()
	v.Progress = c.progress()
	v.CanGoPrevious = c.state == StateInProgress && c.current > 1
	v.CanSaveAndNext = c.state == StateInProgress && c.hasAnswer(c.current)
	v.SaveLabel = c.saveLabel()
	return v
}
