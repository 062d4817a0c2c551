package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// reviewRepository provides access to the reviews table
type reviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB, logger *zap.Logger) *reviewRepository {
	return &reviewRepository{
		db:     db,
		logger: logger,
	}
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id
`

// scanReview reads one joined review row
func scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	review := &models.Review{}
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetAllByTitle retrieves a paginated list of reviews for a title, oldest
// first
func (r *reviewRepository) GetAllByTitle(ctx context.Context, titleID, page, count int) ([]models.Review, error) {
	query := reviewSelect + ` WHERE r.title_id = ? ORDER BY r.pub_date LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, titleID, count, (page-1)*count)
	if err != nil {
		r.logger.Error("failed to list reviews", zap.Error(err), zap.Int("titleId", titleID))
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.logger.Error("failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}

	return reviews, nil
}

// GetByID retrieves a review scoped to its title
func (r *reviewRepository) GetByID(ctx context.Context, titleID, reviewID int) (*models.Review, error) {
	query := reviewSelect + ` WHERE r.id = ? AND r.title_id = ?`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, reviewID, titleID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %d: %w", reviewID, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get review", zap.Error(err), zap.Int("reviewId", reviewID))
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// ExistsByTitleAndAuthor checks whether the author already reviewed the
// title. This is the advisory fast path; the unique key on (title_id,
// author_id) settles concurrent inserts.
func (r *reviewRepository) ExistsByTitleAndAuthor(ctx context.Context, titleID, authorID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT * FROM reviews WHERE title_id = ? AND author_id = ?)`,
		titleID, authorID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check review existence", zap.Error(err),
			zap.Int("titleId", titleID), zap.Int("authorId", authorID))
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new review. A duplicate (title, author) pair maps to
// models.ErrAlreadyReviewed.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (title_id, author_id, text, score, pub_date)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		review.TitleID, review.AuthorID, review.Text, review.Score, review.PubDate)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrAlreadyReviewed
		}
		r.logger.Error("failed to create review", zap.Error(err))
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	review.ID = int(id)
	return nil
}

// Update persists the text and score of an existing review
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET text = ?, score = ? WHERE id = ?`,
		review.Text, review.Score, review.ID)
	if err != nil {
		r.logger.Error("failed to update review", zap.Error(err), zap.Int("reviewId", review.ID))
		return fmt.Errorf("failed to update review: %w", err)
	}

	return nil
}

// Delete removes a review; comments cascade in the schema
func (r *reviewRepository) Delete(ctx context.Context, reviewID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, reviewID)
	if err != nil {
		r.logger.Error("failed to delete review", zap.Error(err), zap.Int("reviewId", reviewID))
		return fmt.Errorf("failed to delete review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review %d: %w", reviewID, models.ErrNotFound)
	}

	return nil
}
