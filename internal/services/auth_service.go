package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/criticdb/backend/internal/auth"
	"github.com/criticdb/backend/internal/models"
	"go.uber.org/zap"
)

// AuthUserRepository is the interface that wraps methods for User table data
// access needed by the signup/token flow
type AuthUserRepository interface {
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
	// Method GetByEmail retrieves a user by email.
	//
	// "email" parameter is used to retrieve a user by email.
	//
	// If user with such email does not exist, models.ErrNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method BumpCodeVersion advances the user's confirmation code version and returns the new value.
	//
	// "userID" parameter identifies the user.
	//
	// If some error occurs during the update, the error will be returned together with 0.
	BumpCodeVersion(ctx context.Context, userID int) (int64, error)
}

// EmailSender is the interface that wraps the out-of-band delivery channel
// for confirmation codes
type EmailSender interface {
	// Method Send delivers a single plain-text message.
	//
	// If delivery fails, the error is returned so the caller can surface it.
	Send(to, subject, body string) error
}

const confirmationSubject = "Your CriticDB confirmation code"

// authService implements the signup and token exchange flow
type authService struct {
	userRepo      AuthUserRepository
	codeGenerator *auth.CodeGenerator
	tokenGen      *auth.TokenGenerator
	mailer        EmailSender
	logger        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo AuthUserRepository,
	codeGenerator *auth.CodeGenerator,
	tokenGen *auth.TokenGenerator,
	mailer EmailSender,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:      userRepo,
		codeGenerator: codeGenerator,
		tokenGen:      tokenGen,
		mailer:        mailer,
		logger:        logger,
	}
}

// Signup registers an account (or recognizes an existing one) and emails a
// fresh confirmation code. Repeating a signup with the same username and
// email is idempotent; each call regenerates the code and invalidates any
// previously issued one.
func (s *authService) Signup(ctx context.Context, req *models.SignUpRequest) (*models.SignUpResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.resolveAccount(ctx, username, email)
	if err != nil {
		return nil, err
	}

	// Regenerating on every call invalidates any code issued earlier
	version, err := s.userRepo.BumpCodeVersion(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.CodeVersion = version

	code := s.codeGenerator.Generate(user)
	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.mailer.Send(email, confirmationSubject, body); err != nil {
		return nil, fmt.Errorf("failed to deliver confirmation code: %w", err)
	}

	s.logger.Info("confirmation code issued", zap.String("username", username))

	return &models.SignUpResponse{
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// resolveAccount fetches the account matching (username, email) or creates
// one. A username or email that is already bound to a different counterpart
// is a conflicting registration.
func (s *authService) resolveAccount(ctx context.Context, username, email string) (*models.User, error) {
	byUsername, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if byUsername != nil && byUsername.Email != email {
		return nil, fmt.Errorf("username %q is already registered with a different email: %w",
			username, models.ErrConflict)
	}

	byEmail, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if byEmail != nil && byEmail.Username != username {
		return nil, fmt.Errorf("email %q is already registered with a different username: %w",
			email, models.ErrConflict)
	}

	if byUsername != nil {
		return byUsername, nil
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// IssueToken exchanges a confirmation code for a signed access token. The
// error for a bad code does not reveal which part of the submission was
// wrong.
func (s *authService) IssueToken(ctx context.Context, req *models.TokenRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return "", fmt.Errorf("username cannot be empty: %w", models.ErrValidation)
	}
	if req.ConfirmationCode == "" {
		return "", fmt.Errorf("confirmation code cannot be empty: %w", models.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if !s.codeGenerator.Verify(user, req.ConfirmationCode) {
		return "", fmt.Errorf("invalid confirmation code: %w", models.ErrAuthentication)
	}

	token, err := s.tokenGen.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, nil
}
