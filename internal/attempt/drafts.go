package attempt

import (
	"context"

	"github.com/examsetu/examsetu-client/internal/model"
)

// Draft is an autosaved, not yet submitted answer set.
type Draft struct {
	Answers map[int]model.Answer
	Marked  map[int]bool
}

// DraftStore autosaves answers so an interrupted attempt can resume.
type DraftStore interface {
	SaveAnswer(ctx context.Context, attemptID, userID int64, orderNo int, a model.Answer) error
	SaveMarked(ctx context.Context, attemptID, userID int64, orderNo int, marked bool) error
	Load(ctx context.Context, attemptID, userID int64) (*Draft, error)
	Clear(ctx context.Context, attemptID, userID int64) error
}

// NopDrafts keeps nothing.
type NopDrafts struct{}

func (NopDrafts) SaveAnswer(context.Context, int64, int64, int, model.Answer) error { return nil }
func (NopDrafts) SaveMarked(context.Context, int64, int64, int, bool) error         { return nil }
func (NopDrafts) Load(context.Context, int64, int64) (*Draft, error)               { return nil, nil }
func (NopDrafts) Clear(context.Context, int64, int64) error                        { return nil }
