package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// commentRepository provides access to the comments table
type commentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *sql.DB, logger *zap.Logger) *commentRepository {
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

// scanComment reads one joined comment row
func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	comment := &models.Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Text,
		&comment.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetAllByReview retrieves a paginated list of comments for a review, oldest
// first
func (r *commentRepository) GetAllByReview(ctx context.Context, reviewID, page, count int) ([]models.Comment, error) {
	query := commentSelect + ` WHERE c.review_id = ? ORDER BY c.pub_date LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, reviewID, count, (page-1)*count)
	if err != nil {
		r.logger.Error("failed to list comments", zap.Error(err), zap.Int("reviewId", reviewID))
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			r.logger.Error("failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %w", err)
	}

	return comments, nil
}

// GetByID retrieves a comment scoped to its review
func (r *commentRepository) GetByID(ctx context.Context, reviewID, commentID int) (*models.Comment, error) {
	query := commentSelect + ` WHERE c.id = ? AND c.review_id = ?`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, commentID, reviewID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comment %d: %w", commentID, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get comment", zap.Error(err), zap.Int("commentId", commentID))
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// Create inserts a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (review_id, author_id, text, pub_date)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		comment.ReviewID, comment.AuthorID, comment.Text, comment.PubDate)
	if err != nil {
		r.logger.Error("failed to create comment", zap.Error(err))
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	comment.ID = int(id)
	return nil
}

// Update persists the text of an existing comment
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = ? WHERE id = ?`, comment.Text, comment.ID)
	if err != nil {
		r.logger.Error("failed to update comment", zap.Error(err), zap.Int("commentId", comment.ID))
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

// Delete removes a comment
func (r *commentRepository) Delete(ctx context.Context, commentID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, commentID)
	if err != nil {
		r.logger.Error("failed to delete comment", zap.Error(err), zap.Int("commentId", commentID))
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment %d: %w", commentID, models.ErrNotFound)
	}

	return nil
}
