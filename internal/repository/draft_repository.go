package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/redis/go-redis/v9"
)

// draftTTL keeps abandoned drafts from piling up in Redis.
const draftTTL = 24 * time.Hour

// DraftRepository autosaves attempt answers in Redis hashes and sets.
type DraftRepository struct {
	rdb *redis.Client
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(rdb *redis.Client) *DraftRepository {
	return &DraftRepository{rdb: rdb}
}

var _ attempt.DraftStore = (*DraftRepository)(nil)

// SaveAnswer stores one answer under its order number.
func (r *DraftRepository) SaveAnswer(ctx context.Context, attemptID, userID int64, orderNo int, a model.Answer) error {
	payload, err := EncodeAnswer(a)
	if err != nil {
		return err
	}
	key := config.CacheKey.AttemptAnswersKey(attemptID, userID)

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(orderNo), payload)
	pipe.Expire(ctx, key, draftTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft answer: %w", err)
	}
	return nil
}

// SaveMarked adds or removes an order number from the marked set.
func (r *DraftRepository) SaveMarked(ctx context.Context, attemptID, userID int64, orderNo int, marked bool) error {
	key := config.CacheKey.AttemptMarkedKey(attemptID, userID)

	pipe := r.rdb.TxPipeline()
	if marked {
		pipe.SAdd(ctx, key, orderNo)
	} else {
		pipe.SRem(ctx, key, orderNo)
	}
	pipe.Expire(ctx, key, draftTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft mark: %w", err)
	}
	return nil
}

// Load returns the saved draft, or nil when nothing was saved.
func (r *DraftRepository) Load(ctx context.Context, attemptID, userID int64) (*attempt.Draft, error) {
	raw, err := r.rdb.HGetAll(ctx, config.CacheKey.AttemptAnswersKey(attemptID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load draft answers: %w", err)
	}
	members, err := r.rdb.SMembers(ctx, config.CacheKey.AttemptMarkedKey(attemptID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load draft marks: %w", err)
	}
	if len(raw) == 0 && len(members) == 0 {
		return nil, nil
	}
	return DecodeDraft(raw, members), nil
}

// Clear removes the draft after a successful submission.
func (r *DraftRepository) Clear(ctx context.Context, attemptID, userID int64) error {
	return r.rdb.Del(ctx,
		config.CacheKey.AttemptAnswersKey(attemptID, userID),
		config.CacheKey.AttemptMarkedKey(attemptID, userID),
	).Err()
}

// EncodeAnswer serializes an answer for the draft hash.
func EncodeAnswer(a model.Answer) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode answer: %w", err)
	}
	return string(b), nil
}

// DecodeDraft rebuilds a draft from the hash fields and set members.
// Malformed entries are skipped.
func DecodeDraft(answers map[string]string, marked []string) *attempt.Draft {
	d := &attempt.Draft{
		Answers: make(map[int]model.Answer, len(answers)),
		Marked:  make(map[int]bool, len(marked)),
	}
	for field, payload := range answers {
		n, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		var a model.Answer
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			continue
		}
		d.Answers[n] = a
	}
	for _, m := range marked {
		if n, err := strconv.Atoi(m); err == nil {
			d.Marked[n] = true
		}
	}
	return d
}
