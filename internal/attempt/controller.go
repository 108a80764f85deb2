package attempt

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// API is the part of the backend the controller talks to.
type API interface {
	GetAttempt(ctx context.Context, attemptID, userID int64) (*model.AttemptDetail, error)
	SubmitAttempt(ctx context.Context, attemptID int64, idempotencyKey string, req *model.SubmitAttemptRequest) (*model.SubmitReceipt, error)
}

// Recorder keeps a journal of submission outcomes.
type Recorder interface {
	Record(ctx context.Context, entry *model.SubmissionEntry) error
}

// AnswerListener is told about every stored answer, e.g. a proctor stream.
type AnswerListener interface {
	AnswerSaved(ctx context.Context, attemptID int64, q model.Question, a model.Answer)
}

// Options configures a Controller.
type Options struct {
	AttemptID int64
	UserID    int64
	// CharacterLimit applies to subjective questions. Zero means 200.
	CharacterLimit int
	DeviceID       string
	Drafts         DraftStore
	Recorder       Recorder
	Listener       AnswerListener
	Log            zerolog.Logger
}

// Meta is the read-only attempt metadata.
type Meta struct {
	Subject        string
	TotalQuestions int
	DurationMin    int
}

// Controller drives one timed attempt. It is safe for concurrent use by the
// input loop and the timer goroutine.
type Controller struct {
	api  API
	opts Options
	log  zerolog.Logger

	mu         sync.Mutex
	state      State
	meta       Meta
	questions  []model.Question
	orderIndex map[int]int // backend order number → local order number
	answers    map[int]model.Answer
	marked     map[int]bool
	current    int
	remaining  int
	expired    bool
	submitKey  string
	receipt    *model.SubmitReceipt
}

// New creates a controller in the loading state.
func New(api API, opts Options) *Controller {
	if opts.CharacterLimit <= 0 {
		opts.CharacterLimit = 200
	}
	if opts.Drafts == nil {
		opts.Drafts = NopDrafts{}
	}
	return &Controller{
		api:  api,
		opts: opts,
		log: opts.Log.With().
			Str("component", "attempt").
			Int64("attempt_id", opts.AttemptID).
			Int64("user_id", opts.UserID).
			Logger(),
		state:   StateLoading,
		answers: make(map[int]model.Answer),
		marked:  make(map[int]bool),
	}
}

// Load fetches the attempt and enters the in-progress state. On failure the
// controller stays in the loading state; there is no retry.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.mu.Unlock()

	detail, err := c.api.GetAttempt(ctx, c.opts.AttemptID, c.opts.UserID)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to load attempt")
		return fmt.Errorf("load attempt: %w", err)
	}
	if len(detail.Questions) == 0 {
		c.log.Error().Msg("Attempt has no questions")
		return ErrNoQuestions
	}

	questions, orderIndex, err := c.buildQuestions(detail.Questions)
	if err != nil {
		c.log.Error().Err(err).Msg("Attempt has inconsistent question order")
		return err
	}

	draft, err := c.opts.Drafts.Load(ctx, c.opts.AttemptID, c.opts.UserID)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to restore draft answers")
		draft = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.meta = Meta{
		Subject:        detail.Subject,
		TotalQuestions: detail.TotalQuestions,
		DurationMin:    detail.DurationMin,
	}
	c.questions = questions
	c.orderIndex = orderIndex
	c.answers = make(map[int]model.Answer)
	c.marked = make(map[int]bool)
	c.current = 1
	c.remaining = detail.DurationMin * 60
	c.expired = false
	c.submitKey = uuid.NewString()
	c.restoreDraft(draft)
	c.state = StateInProgress

	c.log.Info().
		Str("subject", detail.Subject).
		Int("questions", len(questions)).
		Int("duration_min", detail.DurationMin).
		Int("restored_answers", len(c.answers)).
		Msg("Attempt loaded")

	return nil
}

// buildQuestions orders questions by their backend order number and numbers
// them 1..n locally. Order numbers must be unique.
func (c *Controller) buildQuestions(in []model.AttemptQuestion) ([]model.Question, map[int]int, error) {
	sorted := make([]model.AttemptQuestion, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderNo < sorted[j].OrderNo })

	questions := make([]model.Question, len(sorted))
	orderIndex := make(map[int]int, len(sorted))
	for i, q := range sorted {
		local := i + 1
		question := model.Question{
			OrderNo:    local,
			QuestionID: q.QuestionID,
			Type:       q.Type,
			Text:       q.QuestionText,
			Options:    append([]model.Option(nil), q.Options...),
		}
		if q.Type == model.QuestionTypeSubjective {
			question.CharacterLimit = c.opts.CharacterLimit
		}
		if _, dup := orderIndex[q.OrderNo]; dup {
			return nil, nil, fmt.Errorf("%w: %d", ErrDuplicateOrder, q.OrderNo)
		}
		questions[i] = question
		orderIndex[q.OrderNo] = local
	}
	return questions, orderIndex, nil
}

// restoreDraft applies autosaved answers that still fit the loaded questions.
// Callers must hold c.mu.
func (c *Controller) restoreDraft(d *Draft) {
	if d == nil {
		return
	}
	for n, a := range d.Answers {
		if n < 1 || n > len(c.questions) {
			continue
		}
		q := &c.questions[n-1]
		switch {
		case a.SelectedOptionID != nil && q.Type == model.QuestionTypeObjective && q.HasOption(*a.SelectedOptionID):
			c.answers[n] = model.OptionAnswer(*a.SelectedOptionID)
		case a.AnswerText != nil && q.Type == model.QuestionTypeSubjective && utf8.RuneCountInString(*a.AnswerText) <= q.CharacterLimit:
			c.answers[n] = model.TextAnswer(*a.AnswerText)
		}
	}
	for n, m := range d.Marked {
		if m && n >= 1 && n <= len(c.questions) {
			c.marked[n] = true
		}
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Meta returns the attempt metadata.
func (c *Controller) Meta() Meta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

// Total is the number of questions in the attempt.
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.questions)
}

// Current returns the active order number.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Remaining returns the remaining seconds.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Receipt returns the backend acknowledgement once submitted.
func (c *Controller) Receipt() *model.SubmitReceipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receipt
}

// IdempotencyKey is sent with every submit of this attempt.
func (c *Controller) IdempotencyKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitKey
}

// Answer returns the stored answer of question n.
func (c *Controller) Answer(n int) (model.Answer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.answers[n]
	return a, ok
}

// SelectOption answers the current objective question.
func (c *Controller) SelectOption(ctx context.Context, optionID int64) error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return ErrNotInProgress
	}
	q := c.questions[c.current-1]
	if q.Type != model.QuestionTypeObjective {
		c.mu.Unlock()
		return ErrWrongQuestionType
	}
	if !q.HasOption(optionID) {
		c.mu.Unlock()
		return ErrUnknownOption
	}
	a := model.OptionAnswer(optionID)
	c.answers[q.OrderNo] = a
	c.mu.Unlock()

	c.answerSaved(ctx, q, a)
	return nil
}

// SetAnswerText answers the current subjective question. Text beyond the
// character limit is rejected and the previous answer is kept.
func (c *Controller) SetAnswerText(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return ErrNotInProgress
	}
	q := c.questions[c.current-1]
	if q.Type != model.QuestionTypeSubjective {
		c.mu.Unlock()
		return ErrWrongQuestionType
	}
	if utf8.RuneCountInString(text) > q.CharacterLimit {
		c.mu.Unlock()
		return ErrCharacterLimit
	}
	a := model.TextAnswer(text)
	c.answers[q.OrderNo] = a
	c.mu.Unlock()

	c.answerSaved(ctx, q, a)
	return nil
}

func (c *Controller) answerSaved(ctx context.Context, q model.Question, a model.Answer) {
	if err := c.opts.Drafts.SaveAnswer(ctx, c.opts.AttemptID, c.opts.UserID, q.OrderNo, a); err != nil {
		c.log.Warn().Err(err).Int("order_no", q.OrderNo).Msg("Draft save failed")
	}
	if c.opts.Listener != nil {
		c.opts.Listener.AnswerSaved(ctx, c.opts.AttemptID, q, a)
	}
}

// CanGoPrevious reports whether Previous is enabled.
func (c *Controller) CanGoPrevious() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateInProgress && c.current > 1
}

// CanSaveAndNext reports whether the current question has a non-empty answer.
func (c *Controller) CanSaveAndNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateInProgress && c.hasAnswer(c.current)
}

// SaveLabel is "Save" on the last question and "Save & Next" elsewhere.
func (c *Controller) SaveLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLabel()
}

func (c *Controller) saveLabel() string {
	if c.current == len(c.questions) {
		return "Save"
	}
	return "Save & Next"
}

// Previous moves one question back.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return ErrNotInProgress
	}
	if c.current <= 1 {
		return ErrFirstQuestion
	}
	c.current--
	return nil
}

// SaveAndNext advances once the current question is answered. On the last
// question it only saves.
func (c *Controller) SaveAndNext() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return ErrNotInProgress
	}
	if !c.hasAnswer(c.current) {
		return ErrAnswerRequired
	}
	if c.current < len(c.questions) {
		c.current++
	}
	return nil
}

// MarkForReview toggles the current question in the marked set and advances
// whether or not it is answered.
func (c *Controller) MarkForReview(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return ErrNotInProgress
	}
	n := c.current
	marked := !c.marked[n]
	if marked {
		c.marked[n] = true
	} else {
		delete(c.marked, n)
	}
	if c.current < len(c.questions) {
		c.current++
	}
	c.mu.Unlock()

	if err := c.opts.Drafts.SaveMarked(ctx, c.opts.AttemptID, c.opts.UserID, n, marked); err != nil {
		c.log.Warn().Err(err).Int("order_no", n).Msg("Draft mark save failed")
	}
	return nil
}

// GoTo jumps to question n from the palette.
func (c *Controller) GoTo(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInProgress {
		return ErrNotInProgress
	}
	if n < 1 || n > len(c.questions) {
		return ErrOutOfRange
	}
	c.current = n
	return nil
}

// Status derives the palette status of question n.
func (c *Controller) Status(n int) QuestionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status(n)
}

func (c *Controller) status(n int) QuestionStatus {
	if c.marked[n] {
		return StatusMarked
	}
	if c.hasAnswer(n) {
		return StatusAnswered
	}
	return StatusNotAttempted
}

func (c *Controller) hasAnswer(n int) bool {
	a, ok := c.answers[n]
	return ok && !a.IsEmpty()
}

// AnsweredCount counts questions with a non-empty answer.
func (c *Controller) AnsweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answeredCount()
}

func (c *Controller) answeredCount() int {
	n := 0
	for _, a := range c.answers {
		if !a.IsEmpty() {
			n++
		}
	}
	return n
}

// Progress is the answered share in whole percent.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress()
}

func (c *Controller) progress() int {
	if len(c.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(c.answeredCount()) * 100 / float64(len(c.questions))))
}
