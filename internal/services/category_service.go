package services

import (
	"context"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// CategoryRepository is the interface that wraps methods for Category table
// data access
type CategoryRepository interface {
	// Method GetAll retrieves a paginated list of categories with an optional name search.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, count int, search string) ([]models.Category, error)
	// Method Create inserts a new category.
	//
	// A duplicate slug maps to models.ErrValidation.
	Create(ctx context.Context, category *models.Category) error
	// Method DeleteBySlug removes a category by slug.
	//
	// If no category with such slug exists, models.ErrNotFound will be returned.
	DeleteBySlug(ctx context.Context, slug string) error
}

// categoryService implements category catalog operations
type categoryService struct {
	repo   CategoryRepository
	logger *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(repo CategoryRepository, logger *zap.Logger) *categoryService {
	return &categoryService{
		repo:   repo,
		logger: logger,
	}
}

// List retrieves a paginated list of categories
func (s *categoryService) List(ctx context.Context, page, count int, search string) ([]models.Category, error) {
	page, count = normalizePage(page, count)
	return s.repo.GetAll(ctx, page, count, search)
}

// Create validates and stores a new category
func (s *categoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := validateNameAndSlug(req.Name, req.Slug); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name: req.Name,
		Slug: req.Slug,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes a category by slug
func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return s.repo.DeleteBySlug(ctx, slug)
}
