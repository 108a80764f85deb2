package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Inserter persists journal entries.
type Inserter interface {
	Insert(ctx context.Context, e *model.SubmissionEntry) error
}

// JournalWorker consumes persist_submissions_queue and inserts entries into PostgreSQL.
type JournalWorker struct {
	repo       Inserter
	rdb        *redis.Client
	log        zerolog.Logger
	retryDelay time.Duration
}

// NewJournalWorker creates a new JournalWorker.
func NewJournalWorker(repo Inserter, rdb *redis.Client, log zerolog.Logger) *JournalWorker {
	return &JournalWorker{
		repo:       repo,
		rdb:        rdb,
		log:        log.With().Str("component", "journal_worker").Logger(),
		retryDelay: 5 * time.Second,
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *JournalWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *JournalWorker) processNext(ctx context.Context) {
	queue := config.WorkerKey.PersistSubmissionsQueue

	result, err := w.rdb.BLPop(ctx, time.Second, queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		if errors.Is(err, errMalformed) {
			w.log.Error().Err(err).Msg("Dropping malformed entry")
			return
		}
		w.log.Error().Err(err).Msg("Persist error, retrying")
		w.rdb.RPush(ctx, queue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

var errMalformed = errors.New("malformed journal entry")

// handle decodes and persists one queued entry.
func (w *JournalWorker) handle(ctx context.Context, raw string) error {
	var entry model.SubmissionEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if entry.AttemptID == 0 || entry.UserID == 0 {
		return fmt.Errorf("%w: missing attempt or user", errMalformed)
	}
	if err := w.repo.Insert(ctx, &entry); err != nil {
		return err
	}
	w.log.Debug().
		Int64("attempt_id", entry.AttemptID).
		Str("status", string(entry.Status)).
		Msg("Journal entry persisted")
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *JournalWorker) drain(ctx context.Context) {
	queue := config.WorkerKey.PersistSubmissionsQueue
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, queue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, raw); err != nil {
			if errors.Is(err, errMalformed) {
				w.log.Error().Err(err).Msg("Drain dropped malformed entry")
				continue
			}
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, queue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
