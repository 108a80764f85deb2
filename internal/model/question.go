package model

// QuestionType distinguishes single-choice from free-text questions.
type QuestionType string

const (
	QuestionTypeObjective  QuestionType = "objective"
	QuestionTypeSubjective QuestionType = "subjective"
)

// Option is one choice of an objective question.
type Option struct {
	ID   int64  `json:"id" validate:"required"`
	Text string `json:"text"`
}

// AttemptQuestion is a question as delivered inside an attempt detail.
type AttemptQuestion struct {
	Type         QuestionType `json:"type" validate:"required,oneof=objective subjective"`
	QuestionText string       `json:"questionText" validate:"required"`
	Options      []Option     `json:"options" validate:"dive"`
	OrderNo      int          `json:"orderNo" validate:"min=1"`
	QuestionID   int64        `json:"questionId" validate:"required"`
}

// Question is the in-memory form used during an attempt. It is immutable
// once the attempt has loaded.
type Question struct {
	OrderNo        int
	QuestionID     int64
	Type           QuestionType
	Text           string
	Options        []Option
	CharacterLimit int
}

// HasOption reports whether id is one of the question's options.
func (q *Question) HasOption(id int64) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}
