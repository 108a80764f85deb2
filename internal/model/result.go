package model

import "time"

// ResultSummary is one entry of GET /api/results.
type ResultSummary struct {
	ID             int64     `json:"id"`
	AttemptID      *int64    `json:"attemptId,omitempty"`
	Subject        string    `json:"subject"`
	TestType       string    `json:"testType"`
	Date           time.Time `json:"date"`
	Published      bool      `json:"published"`
	ObtainedMarks  float64   `json:"obtainedMarks"`
	TotalMarks     float64   `json:"totalMarks"`
	Percentage     float64   `json:"percentage"`
	TimeTakenSec   *float64  `json:"timeTakenSec,omitempty"`
	DurationMin    *int      `json:"durationMin,omitempty"`
	TotalQuestions int       `json:"totalQuestions"`
}

// QuestionResponse is one graded answer of a finished attempt.
type QuestionResponse struct {
	QuestionID      int64    `json:"questionId"`
	OrderNo         int      `json:"orderNo"`
	QuestionText    string   `json:"questionText"`
	QuestionType    string   `json:"questionType"`
	StudentAnswer   string   `json:"studentAnswer"`
	CorrectAnswer   string   `json:"correctAnswer"`
	Marks           *float64 `json:"marks,omitempty"`
	MarksObtained   *float64 `json:"marksObtained,omitempty"`
	SimilarityScore *float64 `json:"similarityScore,omitempty"`
}

// AttemptResponses wraps GET /api/mock-tests/attempt/{id}/responses.
type AttemptResponses struct {
	Responses []QuestionResponse `json:"responses"`
}
