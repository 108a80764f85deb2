package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmitTrigger records what started a submission.
type SubmitTrigger string

const (
	SubmitTriggerManual SubmitTrigger = "manual"
	SubmitTriggerTimer  SubmitTrigger = "timer"
)

// SubmissionStatus enumerates journal outcomes.
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// SubmissionEntry is one row of the local submission journal.
type SubmissionEntry struct {
	ID             uuid.UUID        `json:"id"`
	AttemptID      int64            `json:"attempt_id"`
	UserID         int64            `json:"user_id"`
	IdempotencyKey string           `json:"idempotency_key"`
	Trigger        SubmitTrigger    `json:"trigger"`
	Status         SubmissionStatus `json:"status"`
	AnsweredCount  int              `json:"answered_count"`
	TotalQuestions int              `json:"total_questions"`
	Error          string           `json:"error,omitempty"`
	DeviceID       string           `json:"device_id"`
	CreatedAt      time.Time        `json:"created_at"`
}
