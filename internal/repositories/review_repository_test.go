package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/criticdb/backend/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupReviewRepository creates a review repository with a mock database
func setupReviewRepository(t *testing.T) (*reviewRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := NewReviewRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

var reviewRows = []string{"id", "title_id", "author_id", "username", "text", "score", "pub_date"}

func TestReviewRepository_GetAllByTitle(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(reviewRows).
					AddRow(1, 5, 10, "alice", "great", 9, time.Now()).
					AddRow(2, 5, 11, "bob", "meh", 5, time.Now())
				mock.ExpectQuery(`SELECT .+ FROM reviews r\s+JOIN users u ON u\.id = r\.author_id\s+WHERE r\.title_id = \? ORDER BY r\.pub_date LIMIT \? OFFSET \?`).
					WithArgs(5, 20, 0).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name: "empty result",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM reviews r`).
					WithArgs(5, 20, 0).
					WillReturnRows(sqlmock.NewRows(reviewRows))
			},
			expectedCount: 0,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM reviews r`).
					WithArgs(5, 20, 0).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			reviews, err := repo.GetAllByTitle(context.Background(), 5, 1, 20)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, reviews)
			} else {
				assert.NoError(t, err)
				assert.Len(t, reviews, tt.expectedCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_GetByID(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		notFound  bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(reviewRows).
					AddRow(3, 5, 10, "alice", "great", 9, time.Now())
				mock.ExpectQuery(`SELECT .+ WHERE r\.id = \? AND r\.title_id = \?`).
					WithArgs(3, 5).
					WillReturnRows(rows)
			},
		},
		{
			name: "not found under title",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ WHERE r\.id = \? AND r\.title_id = \?`).
					WithArgs(3, 5).
					WillReturnRows(sqlmock.NewRows(reviewRows))
			},
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			review, err := repo.GetByID(context.Background(), 5, 3)

			if tt.notFound {
				assert.ErrorIs(t, err, models.ErrNotFound)
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, review)
				assert.Equal(t, 3, review.ID)
				assert.Equal(t, "alice", review.AuthorUsername)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_ExistsByTitleAndAuthor(t *testing.T) {
	repo, mock, cleanup := setupReviewRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT \* FROM reviews WHERE title_id = \? AND author_id = \?\)`).
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByTitleAndAuthor(context.Background(), 5, 10)

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Create(t *testing.T) {
	pubDate := time.Now().UTC()

	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reviews`).
					WithArgs(5, 10, "great", 9, pubDate).
					WillReturnResult(sqlmock.NewResult(3, 1))
			},
		},
		{
			name: "duplicate review maps to already reviewed",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reviews`).
					WithArgs(5, 10, "great", 9, pubDate).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			expectedErr: models.ErrAlreadyReviewed,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO reviews`).
					WithArgs(5, 10, "great", 9, pubDate).
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			review := &models.Review{
				TitleID:  5,
				AuthorID: 10,
				Text:     "great",
				Score:    9,
				PubDate:  pubDate,
			}
			err := repo.Create(context.Background(), review)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedErr, models.ErrAlreadyReviewed) {
					assert.ErrorIs(t, err, models.ErrAlreadyReviewed)
					// ErrAlreadyReviewed chains to the validation sentinel
					assert.ErrorIs(t, err, models.ErrValidation)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 3, review.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		notFound bool
	}{
		{
			name:     "success",
			affected: 1,
		},
		{
			name:     "not found",
			affected: 0,
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewRepository(t)
			defer cleanup()

			mock.ExpectExec(`DELETE FROM reviews WHERE id = \?`).
				WithArgs(3).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), 3)

			if tt.notFound {
				assert.ErrorIs(t, err, models.ErrNotFound)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
