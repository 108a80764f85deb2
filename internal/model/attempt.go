package model

import "strings"

// AttemptDetail is the payload of GET /api/mock-tests/attempt/{id}.
type AttemptDetail struct {
	Subject        string            `json:"subject"`
	TotalQuestions int               `json:"totalQuestions" validate:"min=0"`
	DurationMin    int               `json:"durationMin" validate:"min=1"`
	Questions      []AttemptQuestion `json:"questions" validate:"dive"`
}

// Answer holds at most one answer value: a selected option or free text.
type Answer struct {
	SelectedOptionID *int64  `json:"selectedOptionId,omitempty"`
	AnswerText       *string `json:"answerText,omitempty"`
}

// OptionAnswer builds an answer selecting option id.
func OptionAnswer(id int64) Answer {
	return Answer{SelectedOptionID: &id}
}

// TextAnswer builds a free-text answer.
func TextAnswer(text string) Answer {
	return Answer{AnswerText: &text}
}

// IsEmpty reports whether the answer carries neither an option nor
// non-whitespace text.
func (a Answer) IsEmpty() bool {
	if a.SelectedOptionID != nil {
		return false
	}
	if a.AnswerText != nil && strings.TrimSpace(*a.AnswerText) != "" {
		return false
	}
	return true
}

// AnswerRecord is one entry of a submission.
type AnswerRecord struct {
	QuestionID       int64   `json:"questionId"`
	SelectedOptionID *int64  `json:"selectedOptionId,omitempty"`
	AnswerText       *string `json:"answerText,omitempty"`
}

// SubmitAttemptRequest is the body of POST /api/mock-tests/attempt/{id}/submit.
type SubmitAttemptRequest struct {
	UserID  int64          `json:"userId" validate:"required"`
	Answers []AnswerRecord `json:"answers" validate:"required"`
}

// SubmitReceipt is the backend acknowledgement of a submission.
type SubmitReceipt struct {
	AttemptID int64  `json:"attemptId,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

// StartMockTestRequest configures a new mock test attempt.
type StartMockTestRequest struct {
	UserID            int64  `json:"userId" validate:"required"`
	Subject           string `json:"subject" validate:"required,oneof=Physics Chemistry Maths Biology English History Geography Polity"`
	NumberOfQuestions int    `json:"numberOfQuestions" validate:"min=1,max=50"`
}

// StartMockTestResponse carries the attempt created by the backend.
type StartMockTestResponse struct {
	AttemptID int64 `json:"attemptId" validate:"required"`
}
