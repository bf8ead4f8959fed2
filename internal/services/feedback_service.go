package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/constants"
	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
)

var (
	ErrFeedbackTooShort     = errors.New("feedback is too short")
	ErrFeedbackTypeRequired = errors.New("feedback type is required")
)

// FeedbackService records product feedback. Insert-only.
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedbackRepo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// Submit stores a feedback entry for the user.
func (s *FeedbackService) Submit(userID uuid.UUID, content, feedbackType string) (*models.Feedback, error) {
	content = strings.TrimSpace(content)
	if len(content) < constants.MinFeedbackLength {
		return nil, ErrFeedbackTooShort
	}
	if strings.TrimSpace(feedbackType) == "" {
		return nil, ErrFeedbackTypeRequired
	}

	feedback := &models.Feedback{
		UserID:  userID,
		Content: content,
		Type:    feedbackType,
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}
	return feedback, nil
}
