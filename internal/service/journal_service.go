package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrJournalDisabled is returned when no database is configured.
var ErrJournalDisabled = errors.New("submission journal is disabled, set DATABASE_URL")

// JournalRepository persists and lists journal entries.
type JournalRepository interface {
	Insert(ctx context.Context, e *model.SubmissionEntry) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.SubmissionEntry, error)
}

// JournalService records submission outcomes. With Redis configured entries
// are queued for the journal worker; otherwise they go straight to the
// repository. Without either, entries are only logged.
type JournalService struct {
	rdb  *redis.Client
	repo JournalRepository
	log  zerolog.Logger
}

// NewJournalService creates a new JournalService. rdb and repo may be nil.
func NewJournalService(rdb *redis.Client, repo JournalRepository, log zerolog.Logger) *JournalService {
	return &JournalService{
		rdb:  rdb,
		repo: repo,
		log:  log.With().Str("component", "journal_service").Logger(),
	}
}

var _ attempt.Recorder = (*JournalService)(nil)

// Record queues or stores one entry.
func (s *JournalService) Record(ctx context.Context, e *model.SubmissionEntry) error {
	s.log.Info().
		Int64("attempt_id", e.AttemptID).
		Str("trigger", string(e.Trigger)).
		Str("status", string(e.Status)).
		Msg("Submission recorded")

	switch {
	case s.rdb != nil && s.repo != nil:
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode journal entry: %w", err)
		}
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSubmissionsQueue, payload).Err(); err != nil {
			return fmt.Errorf("queue journal entry: %w", err)
		}
		return nil
	case s.repo != nil:
		return s.repo.Insert(ctx, e)
	default:
		return nil
	}
}

// History lists the newest journal entries of a user.
func (s *JournalService) History(ctx context.Context, userID int64, limit int) ([]model.SubmissionEntry, error) {
	if s.repo == nil {
		return nil, ErrJournalDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
