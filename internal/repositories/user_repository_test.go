package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/criticdb/backend/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupUserRepository creates a user repository with a mock database
func setupUserRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := NewUserRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

var userRows = []string{"id", "username", "email", "first_name", "last_name", "bio", "role", "is_superuser", "code_version"}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("reader", "reader@example.com", "", "", "", models.RoleUser, false).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "duplicate username or email",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("reader", "reader@example.com", "", "", "", models.RoleUser, false).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			expectedErr: models.ErrConflict,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("reader", "reader@example.com", "", "", "", models.RoleUser, false).
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user := &models.User{
				Username: "reader",
				Email:    "reader@example.com",
				Role:     models.RoleUser,
			}
			err := repo.Create(context.Background(), user)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedErr, models.ErrConflict) {
					assert.ErrorIs(t, err, models.ErrConflict)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, user.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		notFound      bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRows).
					AddRow(1, "reader", "reader@example.com", "", "", "", "user", false, 2)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \?`).
					WithArgs("reader").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \?`).
					WithArgs("reader").
					WillReturnRows(sqlmock.NewRows(userRows))
			},
			expectedError: true,
			notFound:      true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \?`).
					WithArgs("reader").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user, err := repo.GetByUsername(context.Background(), "reader")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, user)
				if tt.notFound {
					assert.ErrorIs(t, err, models.ErrNotFound)
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, "reader", user.Username)
				assert.Equal(t, int64(2), user.CodeVersion)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetAll(t *testing.T) {
	tests := []struct {
		name          string
		search        string
		setupMock     func(sqlmock.Sqlmock)
		expectedCount int
	}{
		{
			name: "no search",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRows).
					AddRow(1, "alice", "alice@example.com", "", "", "", "user", false, 0).
					AddRow(2, "bob", "bob@example.com", "", "", "", "moderator", false, 0)
				mock.ExpectQuery(`SELECT .+ FROM users ORDER BY username LIMIT \? OFFSET \?`).
					WithArgs(20, 0).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name:   "with search",
			search: "ali",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRows).
					AddRow(1, "alice", "alice@example.com", "", "", "", "user", false, 0)
				mock.ExpectQuery(`SELECT .+ FROM users WHERE username LIKE \? ORDER BY username LIMIT \? OFFSET \?`).
					WithArgs("%ali%", 20, 0).
					WillReturnRows(rows)
			},
			expectedCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			users, err := repo.GetAll(context.Background(), 1, 20, tt.search)

			assert.NoError(t, err)
			assert.Len(t, users, tt.expectedCount)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Delete(t *testing.T) {
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
			repo, mock, cleanup := setupUserRepository(t)
			defer cleanup()

			mock.ExpectExec(`DELETE FROM users WHERE username = \?`).
				WithArgs("reader").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), "reader")

			if tt.notFound {
				assert.ErrorIs(t, err, models.ErrNotFound)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_BumpCodeVersion(t *testing.T) {
	repo, mock, cleanup := setupUserRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE users SET code_version = code_version \+ 1 WHERE id = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT code_version FROM users WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"code_version"}).AddRow(3))

	version, err := repo.BumpCodeVersion(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
