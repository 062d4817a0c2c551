package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// userRepository provides access to the users table
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, code_version`

// scanUser reads one user row
func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.CodeVersion,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, bio, role, is_superuser)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.IsSuperuser)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("username or email already taken: %w", models.ErrConflict)
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user with email %q: %w", email, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetAll retrieves a paginated list of users with an optional username search
func (r *userRepository) GetAll(ctx context.Context, page, count int, search string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}

	if search != "" {
		query += ` WHERE username LIKE ?`
		args = append(args, "%"+search+"%")
	}

	query += ` ORDER BY username LIMIT ? OFFSET ?`
	args = append(args, count, (page-1)*count)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// Update persists profile fields and role for an existing user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, first_name = ?, last_name = ?, bio = ?, role = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.Bio, user.Role, user.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("email already taken: %w", models.ErrConflict)
		}
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("userId", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes a user by username
func (r *userRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}

	return nil
}

// BumpCodeVersion advances the user's confirmation code version and returns
// the new value. Outstanding confirmation codes stop validating at once.
func (r *userRepository) BumpCodeVersion(ctx context.Context, userID int) (int64, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET code_version = code_version + 1 WHERE id = ?`, userID)
	if err != nil {
		r.logger.Error("failed to bump code version", zap.Error(err), zap.Int("userId", userID))
		return 0, fmt.Errorf("failed to bump code version: %w", err)
	}

	var version int64
	err = r.db.QueryRowContext(ctx,
		`SELECT code_version FROM users WHERE id = ?`, userID).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read code version: %w", err)
	}

	return version, nil
}
