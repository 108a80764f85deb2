package repository

import (
	"context"
	"fmt"

	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionRepository handles the local submission journal.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Insert stores one journal entry. Replaying the same entry is a no-op.
func (r *SubmissionRepository) Insert(ctx context.Context, e *model.SubmissionEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO submission_journal
		   (id, attempt_id, user_id, idempotency_key, trigger, status,
		    answered_count, total_questions, error, device_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.AttemptID, e.UserID, e.IdempotencyKey, e.Trigger, e.Status,
		e.AnsweredCount, e.TotalQuestions, e.Error, e.DeviceID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListByUser returns the newest journal entries of a user.
func (r *SubmissionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.SubmissionEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, user_id, idempotency_key, trigger, status,
		        answered_count, total_questions, error, device_id, created_at
		 FROM submission_journal
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var entries []model.SubmissionEntry
	for rows.Next() {
		var e model.SubmissionEntry
		if err := rows.Scan(
			&e.ID, &e.AttemptID, &e.UserID, &e.IdempotencyKey, &e.Trigger, &e.Status,
			&e.AnsweredCount, &e.TotalQuestions, &e.Error, &e.DeviceID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
