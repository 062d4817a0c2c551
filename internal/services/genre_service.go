package services

import (
	"context"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// GenreRepository is the interface that wraps methods for Genre table data
// access
type GenreRepository interface {
	// Method GetAll retrieves a paginated list of genres with an optional name search.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, count int, search string) ([]models.Genre, error)
	// Method Create inserts a new genre.
	//
	// A duplicate slug maps to models.ErrValidation.
	Create(ctx context.Context, genre *models.Genre) error
	// Method DeleteBySlug removes a genre by slug.
	//
	// If no genre with such slug exists, models.ErrNotFound will be returned.
	DeleteBySlug(ctx context.Context, slug string) error
}

// genreService implements genre catalog operations
type genreService struct {
	repo   GenreRepository
	logger *zap.Logger
}

// NewGenreService creates a new genre service
func NewGenreService(repo GenreRepository, logger *zap.Logger) *genreService {
	return &genreService{
		repo:   repo,
		logger: logger,
	}
}

// List retrieves a paginated list of genres
func (s *genreService) List(ctx context.Context, page, count int, search string) ([]models.Genre, error) {
	page, count = normalizePage(page, count)
	return s.repo.GetAll(ctx, page, count, search)
}

// Create validates and stores a new genre
func (s *genreService) Create(ctx context.Context, req *models.CreateGenreRequest) (*models.Genre, error) {
	if err := validateNameAndSlug(req.Name, req.Slug); err != nil {
		return nil, err
	}

	genre := &models.Genre{
		Name: req.Name,
		Slug: req.Slug,
	}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}

	return genre, nil
}

// Delete removes a genre by slug
func (s *genreService) Delete(ctx context.Context, slug string) error {
	return s.repo.DeleteBySlug(ctx, slug)
}
