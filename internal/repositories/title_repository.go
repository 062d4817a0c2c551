package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// TitleFilter narrows title listings. Zero values mean "no filter".
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

// titleRepository provides access to the titles table and its genre links
type titleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTitleRepository creates a new title repository
func NewTitleRepository(db *sql.DB, logger *zap.Logger) *titleRepository {
	return &titleRepository{
		db:     db,
		logger: logger,
	}
}

// Base query joining category and aggregating the review score. The rating
// is NULL for unreviewed titles.
const titleSelect = `
	SELECT t.id, t.name, t.year, t.description,
	       c.id, c.name, c.slug,
	       AVG(r.score)
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN reviews r ON r.title_id = t.id
`

// scanTitleRow reads one joined title row into a response value
func scanTitleRow(row interface{ Scan(...any) error }) (*models.TitleResponse, error) {
	var title models.TitleResponse
	var catID sql.NullInt64
	var catName, catSlug sql.NullString
	var rating sql.NullFloat64

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&catID,
		&catName,
		&catSlug,
		&rating,
	)
	if err != nil {
		return nil, err
	}

	if catID.Valid {
		title.Category = &models.Category{
			ID:   int(catID.Int64),
			Name: catName.String,
			Slug: catSlug.String,
		}
	}
	if rating.Valid {
		value := rating.Float64
		title.Rating = &value
	}
	title.Genres = []models.Genre{}

	return &title, nil
}

// GetAll retrieves a paginated, filtered list of titles with rating and
// resolved category/genres
func (r *titleRepository) GetAll(ctx context.Context, page, count int, filter TitleFilter) ([]models.TitleResponse, error) {
	query := titleSelect
	var conditions []string
	var args []any

	if filter.GenreSlug != "" {
		query += ` JOIN title_genres tg ON tg.title_id = t.id
			JOIN genres g ON g.id = tg.genre_id`
		conditions = append(conditions, "g.slug = ?")
		args = append(args, filter.GenreSlug)
	}
	if filter.CategorySlug != "" {
		conditions = append(conditions, "c.slug = ?")
		args = append(args, filter.CategorySlug)
	}
	if filter.Name != "" {
		conditions = append(conditions, "t.name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		conditions = append(conditions, "t.year = ?")
		args = append(args, filter.Year)
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` GROUP BY t.id, t.name, t.year, t.description, c.id, c.name, c.slug
		ORDER BY t.name LIMIT ? OFFSET ?`
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list titles", zap.Error(err))
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	defer rows.Close()

	var titles []models.TitleResponse
	var ids []int
	for rows.Next() {
		title, err := scanTitleRow(rows)
		if err != nil {
			r.logger.Error("failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan title row: %w", err)
		}
		titles = append(titles, *title)
		ids = append(ids, title.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate title rows: %w", err)
	}

	if err := r.attachGenres(ctx, titles, ids); err != nil {
		return nil, err
	}

	return titles, nil
}

// GetByID retrieves one title with rating and resolved category/genres
func (r *titleRepository) GetByID(ctx context.Context, id int) (*models.TitleResponse, error) {
	query := titleSelect + ` WHERE t.id = ?
		GROUP BY t.id, t.name, t.year, t.description, c.id, c.name, c.slug`

	title, err := scanTitleRow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("title %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get title", zap.Error(err), zap.Int("titleId", id))
		return nil, fmt.Errorf("failed to get title: %w", err)
	}

	titles := []models.TitleResponse{*title}
	if err := r.attachGenres(ctx, titles, []int{id}); err != nil {
		return nil, err
	}

	return &titles[0], nil
}

// attachGenres loads genre links for the given title ids in one query
func (r *titleRepository) attachGenres(ctx context.Context, titles []models.TitleResponse, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `
		SELECT tg.title_id, g.id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id IN (` + placeholders + `)
		ORDER BY g.name
	`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to load title genres", zap.Error(err))
		return fmt.Errorf("failed to load title genres: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*models.TitleResponse, len(titles))
	for i := range titles {
		byID[titles[i].ID] = &titles[i]
	}

	for rows.Next() {
		var titleID int
		var genre models.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return fmt.Errorf("failed to scan title genre row: %w", err)
		}
		if title, ok := byID[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}
	return rows.Err()
}

// Exists reports whether a title with the given id exists
func (r *titleRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT * FROM titles WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check title existence", zap.Error(err), zap.Int("titleId", id))
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}

	return exists, nil
}

// Create inserts a title and its genre links in one transaction
func (r *titleRepository) Create(ctx context.Context, title *models.Title, genreIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO titles (name, year, description, category_id) VALUES (?, ?, ?, ?)`,
		title.Name, title.Year, title.Description, title.CategoryID)
	if err != nil {
		r.logger.Error("failed to create title", zap.Error(err))
		return fmt.Errorf("failed to create title: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	title.ID = int(id)

	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)`,
			title.ID, genreID); err != nil {
			r.logger.Error("failed to link title genre", zap.Error(err))
			return fmt.Errorf("failed to link title genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update persists title fields and, when replaceGenres is set, rewrites the
// genre links
func (r *titleRepository) Update(ctx context.Context, title *models.Title, genreIDs []int, replaceGenres bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE titles SET name = ?, year = ?, description = ?, category_id = ? WHERE id = ?`,
		title.Name, title.Year, title.Description, title.CategoryID, title.ID)
	if err != nil {
		r.logger.Error("failed to update title", zap.Error(err), zap.Int("titleId", title.ID))
		return fmt.Errorf("failed to update title: %w", err)
	}

	if replaceGenres {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM title_genres WHERE title_id = ?`, title.ID); err != nil {
			return fmt.Errorf("failed to clear title genres: %w", err)
		}
		for _, genreID := range genreIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO title_genres (title_id, genre_id) VALUES (?, ?)`,
				title.ID, genreID); err != nil {
				return fmt.Errorf("failed to link title genre: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRawByID retrieves the writable fields of a title (no joins), for
// partial updates
func (r *titleRepository) GetRawByID(ctx context.Context, id int) (*models.Title, error) {
	title := &models.Title{}
	var categoryID sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, year, description, category_id FROM titles WHERE id = ?`, id).
		Scan(&title.ID, &title.Name, &title.Year, &title.Description, &categoryID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("title %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get title", zap.Error(err), zap.Int("titleId", id))
		return nil, fmt.Errorf("failed to get title: %w", err)
	}

	if categoryID.Valid {
		value := int(categoryID.Int64)
		title.CategoryID = &value
	}

	return title, nil
}

// Delete removes a title; reviews and comments cascade in the schema
func (r *titleRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM titles WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete title", zap.Error(err), zap.Int("titleId", id))
		return fmt.Errorf("failed to delete title: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("title %d: %w", id, models.ErrNotFound)
	}

	return nil
}
