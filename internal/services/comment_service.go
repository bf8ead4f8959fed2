package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dev-kristian/handoverplan-api/internal/models"
	"github.com/dev-kristian/handoverplan-api/internal/repository"
)

var ErrCommentEmpty = errors.New("comment cannot be empty")

// CommentService posts and lists plan comments. Comments are insert-only;
// there is no editing or moderation beyond insertion.
type CommentService struct {
	planRepo repository.PlanRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(planRepo repository.PlanRepository) *CommentService {
	return &CommentService{planRepo: planRepo}
}

// CreateComment posts a comment on a plan on behalf of authorID. Access has
// already been checked by the caller; any role on the plan may comment.
func (s *CommentService) CreateComment(planID, authorID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	comment := &models.Comment{
		PlanID:   planID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.planRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a plan's comments, oldest first.
func (s *CommentService) ListComments(planID uuid.UUID) ([]models.Comment, error) {
	comments, err := s.planRepo.ListComments(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
