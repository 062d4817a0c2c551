package services

import (
	"context"
	"fmt"
	"time"

	"github.com/criticdb/backend/internal/models"
	"github.com/criticdb/backend/internal/permissions"
	"go.uber.org/zap"
)

// CommentRepository is the interface that wraps methods for Comment table
// data access
type CommentRepository interface {
	// Method GetAllByReview retrieves a paginated list of comments for a review.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAllByReview(ctx context.Context, reviewID, page, count int) ([]models.Comment, error)
	// Method GetByID retrieves a comment scoped to its review.
	//
	// If no such comment exists under the review, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, reviewID, commentID int) (*models.Comment, error)
	// Method Create inserts a new comment.
	//
	// If some error occurs, the error will be returned.
	Create(ctx context.Context, comment *models.Comment) error
	// Method Update persists the text of an existing comment.
	//
	// If some error occurs, the error will be returned.
	Update(ctx context.Context, comment *models.Comment) error
	// Method Delete removes a comment.
	//
	// If no comment with such id exists, models.ErrNotFound will be returned.
	Delete(ctx context.Context, commentID int) error
}

// ReviewAnchorRepository anchors nested comment routes to an existing review
// under the right title
type ReviewAnchorRepository interface {
	// Method GetByID retrieves a review scoped to its title.
	//
	// If no such review exists under the title, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, titleID, reviewID int) (*models.Review, error)
}

// commentService implements comment operations under a review
type commentService struct {
	repo       CommentRepository
	reviewRepo ReviewAnchorRepository
	logger     *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(repo CommentRepository, reviewRepo ReviewAnchorRepository, logger *zap.Logger) *commentService {
	return &commentService{
		repo:       repo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// requireReview rejects operations against a review that does not exist
// under the given title
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int) error {
	_, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	return err
}

// List retrieves a paginated list of comments for a review
func (s *commentService) List(ctx context.Context, titleID, reviewID, page, count int) ([]models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	page, count = normalizePage(page, count)
	return s.repo.GetAllByReview(ctx, reviewID, page, count)
}

// Get retrieves one comment under a review
func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, reviewID, commentID)
}

// Create stores a new comment by the acting user
func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int, req *models.CreateCommentRequest) (*models.Comment, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("text cannot be empty: %w", models.ErrValidation)
	}

	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID:       reviewID,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
		PubDate:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Update applies a partial update to a comment. Only the author, a
// moderator, an admin or a superuser may edit.
func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int, req *models.UpdateCommentRequest) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanEditOwnedResource(actor, comment.AuthorID) {
		return nil, fmt.Errorf("cannot edit another user's comment: %w", models.ErrForbidden)
	}

	if req.Text != nil {
		if *req.Text == "" {
			return nil, fmt.Errorf("text cannot be empty: %w", models.ErrValidation)
		}
		comment.Text = *req.Text
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment, subject to the same object-level policy as
// Update
func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int) error {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return err
	}

	comment, err := s.repo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return err
	}

	if !permissions.CanEditOwnedResource(actor, comment.AuthorID) {
		return fmt.Errorf("cannot delete another user's comment: %w", models.ErrForbidden)
	}

	return s.repo.Delete(ctx, commentID)
}
