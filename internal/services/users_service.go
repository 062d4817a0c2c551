package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for User table data
// access used by user management
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByUsername retrieves a user by username.
	//
	// "username" parameter is used to retrieve a user by username.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Method GetAll retrieves a paginated list of users with an optional username search.
	//
	// "page" parameter is used for pagination (default: 1).
	// "count" parameter is used for page size (default: 20).
	// "search" parameter is an optional username substring filter.
	//
	// If some error occurs, the error will be returned together with "nil" value.
	GetAll(ctx context.Context, page, count int, search string) ([]models.User, error)
	// Method Update persists profile fields and role for an existing user.
	//
	// "user" parameter carries the updated fields.
	//
	// If some error occurs, the error will be returned.
	Update(ctx context.Context, user *models.User) error
	// Method Delete removes a user by username.
	//
	// "username" parameter identifies the user to delete.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, username string) error
}

// usersService implements user management and the self-scoped profile
// operations
type usersService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewUsersService creates a new users service
func NewUsersService(userRepo UserRepository, logger *zap.Logger) *usersService {
	return &usersService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// toResponse builds the public view of a user
func toResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      user.Role,
	}
}

// List retrieves a paginated list of users with an optional username search
func (s *usersService) List(ctx context.Context, page, count int, search string) ([]models.UserResponse, error) {
	page, count = normalizePage(page, count)

	users, err := s.userRepo.GetAll(ctx, page, count, search)
	if err != nil {
		return nil, err
	}

	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = *toResponse(&users[i])
	}

	return responses, nil
}

// Create registers a user on behalf of an administrator; any role may be
// assigned
func (s *usersService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, models.ErrValidation)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toResponse(user), nil
}

// Get retrieves a user by username
func (s *usersService) Get(ctx context.Context, username string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return toResponse(user), nil
}

// Update applies a partial update to the named user. Administrators may
// change the role through this path.
func (s *usersService) Update(ctx context.Context, username string, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := applyUserUpdate(user, req, true); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return toResponse(user), nil
}

// Delete removes a user by username
func (s *usersService) Delete(ctx context.Context, username string) error {
	return s.userRepo.Delete(ctx, username)
}

// GetMe retrieves the acting user's own account
func (s *usersService) GetMe(ctx context.Context, actor *models.User) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, actor.Username)
	if err != nil {
		return nil, err
	}
	return toResponse(user), nil
}

// UpdateMe applies a partial update to the acting user's own account. A role
// field in the request is ignored: the role is force-reset to its prior
// value, so users cannot promote themselves.
func (s *usersService) UpdateMe(ctx context.Context, actor *models.User, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, actor.Username)
	if err != nil {
		return nil, err
	}

	if err := applyUserUpdate(user, req, false); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return toResponse(user), nil
}

// applyUserUpdate copies the provided fields onto the user. Role changes are
// only honored when allowRole is set.
func applyUserUpdate(user *models.User, req *models.UpdateUserRequest, allowRole bool) error {
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validateEmail(email); err != nil {
			return err
		}
		user.Email = email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil && allowRole {
		if !req.Role.Valid() {
			return fmt.Errorf("unknown role %q: %w", *req.Role, models.ErrValidation)
		}
		user.Role = *req.Role
	}
	return nil
}
