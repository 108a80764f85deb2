package service

import (
	"context"

	"github.com/examsetu/examsetu-client/internal/apiclient"
	"github.com/examsetu/examsetu-client/internal/model"
	"github.com/rs/zerolog"
)

// PortalService reads results, responses, notifications and the profile.
type PortalService struct {
	api *apiclient.Client
	log zerolog.Logger
}

// NewPortalService creates a new PortalService.
func NewPortalService(api *apiclient.Client, log zerolog.Logger) *PortalService {
	return &PortalService{
		api: api,
		log: log.With().Str("component", "portal_service").Logger(),
	}
}

// Results lists the results of a student.
func (s *PortalService) Results(ctx context.Context, userID int64) ([]model.ResultSummary, error) {
	return s.api.ListResults(ctx, userID)
}

// Responses returns the graded answers of an attempt, ordered as asked.
func (s *PortalService) Responses(ctx context.Context, attemptID, userID int64) ([]model.QuestionResponse, error) {
	return s.api.GetResponses(ctx, attemptID, userID)
}

// Notifications never fails; errors degrade to an empty list.
func (s *PortalService) Notifications(ctx context.Context, userID int64) []model.Notification {
	list, err := s.api.ListNotifications(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load notifications")
		return nil
	}
	return list
}

// Profile never fails; errors degrade to an empty profile.
func (s *PortalService) Profile(ctx context.Context, userID int64) *model.StudentProfile {
	p, err := s.api.GetProfile(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load profile")
		return &model.StudentProfile{}
	}
	return p
}
