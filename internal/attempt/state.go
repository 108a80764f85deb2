package attempt

import "errors"

// State is the lifecycle stage of an attempt.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in-progress"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// QuestionStatus is derived from the answers and the marked set; it is never stored.
type QuestionStatus string

const (
	StatusAnswered     QuestionStatus = "answered"
	StatusMarked       QuestionStatus = "marked"
	StatusNotAttempted QuestionStatus = "not-attempted"
)

// Controller errors.
var (
	ErrNotLoaded         = errors.New("attempt is not loaded")
	ErrAlreadyLoaded     = errors.New("attempt is already loaded")
	ErrNoQuestions       = errors.New("attempt has no questions")
	ErrDuplicateOrder    = errors.New("attempt has duplicate question order number")
	ErrNotInProgress     = errors.New("attempt is not in progress")
	ErrSubmitInFlight    = errors.New("submission already in progress")
	ErrAlreadySubmitted  = errors.New("attempt already submitted")
	ErrFirstQuestion     = errors.New("already at the first question")
	ErrOutOfRange        = errors.New("question number out of range")
	ErrAnswerRequired    = errors.New("answer the question before saving")
	ErrWrongQuestionType = errors.New("answer kind does not match question type")
	ErrUnknownOption     = errors.New("option does not belong to the question")
	ErrCharacterLimit    = errors.New("answer exceeds the character limit")
)
