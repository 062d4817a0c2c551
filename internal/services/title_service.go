package services

import (
	"context"
	"fmt"
	"time"

	"github.com/criticdb/backend/internal/models"
	"github.com/criticdb/backend/internal/repositories"
	"go.uber.org/zap"
)

// TitleRepository is the interface that wraps methods for Title table data
// access
type TitleRepository interface {
	// Method GetAll retrieves a paginated, filtered list of titles with rating and resolved category/genres.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, count int, filter repositories.TitleFilter) ([]models.TitleResponse, error)
	// Method GetByID retrieves one title with rating and resolved category/genres.
	//
	// If no title with such id exists, models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.TitleResponse, error)
	// Method GetRawByID retrieves the writable fields of a title, for partial updates.
	//
	// If no title with such id exists, models.ErrNotFound will be returned together with "nil" value.
	GetRawByID(ctx context.Context, id int) (*models.Title, error)
	// Method Create inserts a title and its genre links in one transaction.
	//
	// If some error occurs, the error will be returned.
	Create(ctx context.Context, title *models.Title, genreIDs []int) error
	// Method Update persists title fields and, when replaceGenres is set, rewrites the genre links.
	//
	// If some error occurs, the error will be returned.
	Update(ctx context.Context, title *models.Title, genreIDs []int, replaceGenres bool) error
	// Method Delete removes a title.
	//
	// If no title with such id exists, models.ErrNotFound will be returned.
	Delete(ctx context.Context, id int) error
}

// CategorySlugRepository resolves category slugs for title writes
type CategorySlugRepository interface {
	// Method GetBySlug retrieves a category by slug.
	//
	// If no category with such slug exists, models.ErrNotFound will be returned together with "nil" value.
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// GenreSlugRepository resolves genre slugs for title writes
type GenreSlugRepository interface {
	// Method GetBySlugs retrieves the genres matching the given slugs.
	//
	// Unknown slugs are silently absent from the result; the caller checks completeness.
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

// titleService implements title catalog operations
type titleService struct {
	repo         TitleRepository
	categoryRepo CategorySlugRepository
	genreRepo    GenreSlugRepository
	logger       *zap.Logger
}

// NewTitleService creates a new title service
func NewTitleService(
	repo TitleRepository,
	categoryRepo CategorySlugRepository,
	genreRepo GenreSlugRepository,
	logger *zap.Logger,
) *titleService {
	return &titleService{
		repo:         repo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		logger:       logger,
	}
}

// List retrieves a paginated, filtered list of titles
func (s *titleService) List(ctx context.Context, page, count int, filter repositories.TitleFilter) ([]models.TitleResponse, error) {
	page, count = normalizePage(page, count)
	return s.repo.GetAll(ctx, page, count, filter)
}

// Get retrieves one title
func (s *titleService) Get(ctx context.Context, id int) (*models.TitleResponse, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new title. The release year may not lie in
// the future; the bound is the calendar year at the moment of the request.
func (s *titleService) Create(ctx context.Context, req *models.CreateTitleRequest) (*models.TitleResponse, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", models.ErrValidation)
	}
	if len(req.Name) > maxNameLength {
		return nil, fmt.Errorf("name cannot exceed %d characters: %w", maxNameLength, models.ErrValidation)
	}
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genres)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}
	if err := s.repo.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, title.ID)
}

// Update applies a partial update to a title
func (s *titleService) Update(ctx context.Context, id int, req *models.UpdateTitleRequest) (*models.TitleResponse, error) {
	title, err := s.repo.GetRawByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", models.ErrValidation)
		}
		if len(*req.Name) > maxNameLength {
			return nil, fmt.Errorf("name cannot exceed %d characters: %w", maxNameLength, models.ErrValidation)
		}
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	var genreIDs []int
	replaceGenres := req.Genres != nil
	if replaceGenres {
		genreIDs, err = s.resolveGenres(ctx, req.Genres)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, title, genreIDs, replaceGenres); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a title
func (s *titleService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// validateYear rejects release years later than the current calendar year
func validateYear(year int) error {
	current := time.Now().Year()
	if year > current {
		return fmt.Errorf("year %d is in the future: %w", year, models.ErrValidation)
	}
	return nil
}

// resolveCategory maps a category slug to its id; an empty slug clears the
// category
func (s *titleService) resolveCategory(ctx context.Context, slug string) (*int, error) {
	if slug == "" {
		return nil, nil
	}

	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		// Referencing an unknown slug is a bad request, not a missing resource
		return nil, fmt.Errorf("unknown category %q: %w", slug, models.ErrValidation)
	}

	return &category.ID, nil
}

// resolveGenres maps genre slugs to ids, rejecting unknown slugs
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]int, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]int, len(genres))
	for _, genre := range genres {
		found[genre.Slug] = genre.ID
	}

	ids := make([]int, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := found[slug]
		if !ok {
			return nil, fmt.Errorf("unknown genre %q: %w", slug, models.ErrValidation)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
