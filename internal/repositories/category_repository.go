package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// categoryRepository provides access to the categories table
type categoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) *categoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves a paginated list of categories with an optional name search
func (r *categoryRepository) GetAll(ctx context.Context, page, count int, search string) ([]models.Category, error) {
	query := `SELECT id, name, slug FROM categories`
	args := []any{}

	if search != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY name LIMIT ? OFFSET ?`
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			r.logger.Error("failed to scan category row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return categories, nil
}

// GetBySlug retrieves a category by slug
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category := &models.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug FROM categories WHERE slug = ?`, slug).
		Scan(&category.ID, &category.Name, &category.Slug)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %q: %w", slug, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get category by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return category, nil
}

// Create inserts a new category
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, slug) VALUES (?, ?)`, category.Name, category.Slug)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("category slug already exists: %w", models.ErrValidation)
		}
		r.logger.Error("failed to create category", zap.Error(err))
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	category.ID = int(id)
	return nil
}

// DeleteBySlug removes a category by slug
func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE slug = ?`, slug)
	if err != nil {
		r.logger.Error("failed to delete category", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %q: %w", slug, models.ErrNotFound)
	}

	return nil
}
