package attempt

import (
	"context"
	"errors"
	"sync"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/examsetu/examsetu-client/internal/portaltest"
)

type fakeAPI struct {
	mu          sync.Mutex
	detail      *model.AttemptDetail
	getErr      error
	submitErrs  []error
	gets        int
	submits     []*model.SubmitAttemptRequest
	keys        []string
	submitBlock chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{detail: portaltest.PhysicsAttempt()}
}

func (f *fakeAPI) GetAttempt(ctx context.Context, attemptID, userID int64) (*model.AttemptDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.detail, nil
}

func (f *fakeAPI) SubmitAttempt(ctx context.Context, attemptID int64, key string, req *model.SubmitAttemptRequest) (*model.SubmitReceipt, error) {
	if f.submitBlock != nil {
		<-f.submitBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if len(f.submitErrs) > 0 {
		err := f.submitErrs[0]
		f.submitErrs = f.submitErrs[1:]
		return nil, err
	}
	f.submits = append(f.submits, req)
	return &model.SubmitReceipt{AttemptID: attemptID, Status: "SUBMITTED"}, nil
}

func (f *fakeAPI) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submits)
}

var errBackend = errors.New("backend unavailable")

type memDrafts struct {
	mu      sync.Mutex
	answers map[int]model.Answer
	marked  map[int]bool
	cleared bool
}

func newMemDrafts() *memDrafts {
	return &memDrafts{answers: map[int]model.Answer{}, marked: map[int]bool{}}
}

func (m *memDrafts) SaveAnswer(_ context.Context, _, _ int64, n int, a model.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[n] = a
	return nil
}

func (m *memDrafts) SaveMarked(_ context.Context, _, _ int64, n int, marked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if marked {
		m.marked[n] = true
	} else {
		delete(m.marked, n)
	}
	return nil
}

func (m *memDrafts) Load(context.Context, int64, int64) (*Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &Draft{Answers: m.answers, Marked: m.marked}, nil
}

func (m *memDrafts) Clear(context.Context, int64, int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = true
	m.answers = map[int]model.Answer{}
	m.marked = map[int]bool{}
	return nil
}

type memRecorder struct {
	mu      sync.Mutex
	entries []*model.SubmissionEntry
}

func (r *memRecorder) Record(_ context.Context, e *model.SubmissionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}
