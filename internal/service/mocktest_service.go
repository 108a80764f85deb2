package service

import (
	"context"
	"errors"
	"strings"

	"github.com/examsetu/examsetu-client/internal/apiclient"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/rs/zerolog"
)

// Mock test configuration bounds.
const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 50
)

// Subjects lists the subjects a mock test can be generated for.
var Subjects = []string{
	"Physics", "Chemistry", "Maths", "Biology",
	"English", "History", "Geography", "Polity",
}

var (
	ErrUnknownSubject       = errors.New("unknown subject")
	ErrInvalidQuestionCount = errors.New("number of questions must be between 1 and 50")
)

// MockTestService starts mock test attempts.
type MockTestService struct {
	api *apiclient.Client
	log zerolog.Logger
}

// NewMockTestService creates a new MockTestService.
func NewMockTestService(api *apiclient.Client, log zerolog.Logger) *MockTestService {
	return &MockTestService{
		api: api,
		log: log.With().Str("component", "mocktest_service").Logger(),
	}
}

// CanonicalSubject matches a subject name case-insensitively.
func CanonicalSubject(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Subjects {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}

// Start creates a new attempt and returns its id. A zero count means the default.
func (s *MockTestService) Start(ctx context.Context, userID int64, subject string, count int) (int64, error) {
	canonical, ok := CanonicalSubject(subject)
	if !ok {
		return 0, ErrUnknownSubject
	}
	if count == 0 {
		count = DefaultQuestionCount
	}
	if count < 1 || count > MaxQuestionCount {
		return 0, ErrInvalidQuestionCount
	}

	resp, err := s.api.StartMockTest(ctx, &model.StartMockTestRequest{
		UserID:            userID,
		Subject:           canonical,
		NumberOfQuestions: count,
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("attempt_id", resp.AttemptID).Str("subject", canonical).
		Int("questions", count).Msg("Mock test started")
	return resp.AttemptID, nil
}
