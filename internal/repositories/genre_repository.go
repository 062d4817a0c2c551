package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// genreRepository provides access to the genres table
type genreRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *sql.DB, logger *zap.Logger) *genreRepository {
	return &genreRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves a paginated list of genres with an optional name search
func (r *genreRepository) GetAll(ctx context.Context, page, count int, search string) ([]models.Genre, error) {
	query := `SELECT id, name, slug FROM genres`
	args := []any{}

	if search != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list genres", zap.Error(err))
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			r.logger.Error("failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan genre row: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genre rows: %w", err)
	}

	return genres, nil
}

// GetBySlugs retrieves the genres matching the given slugs. The caller is
// responsible for checking that every slug resolved.
func (r *genreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(slugs))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT id, name, slug FROM genres WHERE slug IN (` + placeholders + `)`

	args := make([]any, len(slugs))
	for i, slug := range slugs {
		args[i] = slug
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to get genres by slugs", zap.Error(err))
		return nil, fmt.Errorf("failed to get genres by slugs: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan genre row: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genre rows: %w", err)
	}

	return genres, nil
}

// Create inserts a new genre
func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO genres (name, slug) VALUES (?, ?)`, genre.Name, genre.Slug)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("genre slug already exists: %w", models.ErrValidation)
		}
		r.logger.Error("failed to create genre", zap.Error(err))
		return fmt.Errorf("failed to create genre: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	genre.ID = int(id)
	return nil
}

// DeleteBySlug removes a genre by slug
func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE slug = ?`, slug)
	if err != nil {
		r.logger.Error("failed to delete genre", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("genre %q: %w", slug, models.ErrNotFound)
	}

	return nil
}
