package services

import (
	"context"
	"fmt"
	"time"

	"github.com/criticdb/backend/internal/models"
	"github.com/criticdb/backend/internal/permissions"
	"go.uber.org/zap"
)

// ReviewRepository is the interface that wraps methods for Review table data
// access
type ReviewRepository interface {
	// Method GetAllByTitle retrieves a paginated list of reviews for a title.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAllByTitle(ctx context.Context, titleID, page, count int) ([]models.Review, error)
	// Method GetByID retrieves a review scoped to its title.
	//
	// If no such review exists under the title, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, titleID, reviewID int) (*models.Review, error)
	// Method ExistsByTitleAndAuthor checks whether the author already reviewed the title.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByTitleAndAuthor(ctx context.Context, titleID, authorID int) (bool, error)
	// Method Create inserts a new review.
	//
	// A concurrent duplicate insert maps to models.ErrAlreadyReviewed.
	Create(ctx context.Context, review *models.Review) error
	// Method Update persists the text and score of an existing review.
	//
	// If some error occurs, the error will be returned.
	Update(ctx context.Context, review *models.Review) error
	// Method Delete removes a review.
	//
	// If no review with such id exists, models.ErrNotFound will be returned.
	Delete(ctx context.Context, reviewID int) error
}

// TitleExistsRepository anchors nested review routes to an existing title
type TitleExistsRepository interface {
	// Method Exists reports whether a title with the given id exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	Exists(ctx context.Context, id int) (bool, error)
}

const (
	minScore = 1
	maxScore = 10
)

// reviewService implements review operations under a title
type reviewService struct {
	repo      ReviewRepository
	titleRepo TitleExistsRepository
	logger    *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(repo ReviewRepository, titleRepo TitleExistsRepository, logger *zap.Logger) *reviewService {
	return &reviewService{
		repo:      repo,
		titleRepo: titleRepo,
		logger:    logger,
	}
}

// requireTitle rejects operations against a title that does not exist
func (s *reviewService) requireTitle(ctx context.Context, titleID int) error {
	exists, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("title %d: %w", titleID, models.ErrNotFound)
	}
	return nil
}

// List retrieves a paginated list of reviews for a title
func (s *reviewService) List(ctx context.Context, titleID, page, count int) ([]models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	page, count = normalizePage(page, count)
	return s.repo.GetAllByTitle(ctx, titleID, page, count)
}

// Get retrieves one review under a title
func (s *reviewService) Get(ctx context.Context, titleID, reviewID int) (*models.Review, error) {
	return s.repo.GetByID(ctx, titleID, reviewID)
}

// Create stores a new review by the acting user. Each author may review a
// title once: the advisory existence check rejects the common case and the
// storage-level unique key settles the race.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int, req *models.CreateReviewRequest) (*models.Review, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("text cannot be empty: %w", models.ErrValidation)
	}
	if req.Score < minScore || req.Score > maxScore {
		return nil, fmt.Errorf("score must be between %d and %d: %w", minScore, maxScore, models.ErrValidation)
	}

	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByTitleAndAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrAlreadyReviewed
	}

	review := &models.Review{
		TitleID:        titleID,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
		Score:          req.Score,
		PubDate:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Update applies a partial update to a review. Only the author, a moderator,
// an admin or a superuser may edit; uniqueness is not re-checked since the
// (title, author) pair never changes.
func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanEditOwnedResource(actor, review.AuthorID) {
		return nil, fmt.Errorf("cannot edit another user's review: %w", models.ErrForbidden)
	}

	if req.Text != nil {
		if *req.Text == "" {
			return nil, fmt.Errorf("text cannot be empty: %w", models.ErrValidation)
		}
		review.Text = *req.Text
	}
	if req.Score != nil {
		if *req.Score < minScore || *req.Score > maxScore {
			return nil, fmt.Errorf("score must be between %d and %d: %w", minScore, maxScore, models.ErrValidation)
		}
		review.Score = *req.Score
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review, subject to the same object-level policy as Update
func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int) error {
	review, err := s.repo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !permissions.CanEditOwnedResource(actor, review.AuthorID) {
		return fmt.Errorf("cannot delete another user's review: %w", models.ErrForbidden)
	}

	return s.repo.Delete(ctx, reviewID)
}
