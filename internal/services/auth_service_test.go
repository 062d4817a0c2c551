package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/criticdb/backend/internal/auth"
	"github.com/criticdb/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthUserRepo is a mock implementation of AuthUserRepository
type mockAuthUserRepo struct {
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
	createErr  error
	bumpErr    error

	created    []*models.User
	bumpedIDs  []int
	nextID     int
	nextCodeV  int64
	lastBumped int64
}

func newMockAuthUserRepo() *mockAuthUserRepo {
	return &mockAuthUserRepo{
		byUsername: map[string]*models.User{},
		byEmail:    map[string]*models.User{},
		nextID:     1,
		nextCodeV:  1,
	}
}

func (m *mockAuthUserRepo) add(user *models.User) {
	m.byUsername[user.Username] = user
	m.byEmail[user.Email] = user
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	m.add(user)
	m.created = append(m.created, user)
	return nil
}

func (m *mockAuthUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.byUsername[username]; ok {
		return user, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockAuthUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[email]; ok {
		return user, nil
	}
	return nil, models.ErrNotFound
}

func (m *mockAuthUserRepo) BumpCodeVersion(ctx context.Context, userID int) (int64, error) {
	if m.bumpErr != nil {
		return 0, m.bumpErr
	}
	m.bumpedIDs = append(m.bumpedIDs, userID)
	m.lastBumped = m.nextCodeV
	m.nextCodeV++
	return m.lastBumped, nil
}

// mockEmailSender is a mock implementation of EmailSender
type mockEmailSender struct {
	err  error
	sent []string
	body string
}

func (m *mockEmailSender) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	m.body = body
	return nil
}

func newTestAuthService(repo *mockAuthUserRepo, sender *mockEmailSender) *authService {
	logger, _ := zap.NewDevelopment()
	return NewAuthService(
		repo,
		auth.NewCodeGenerator("test-secret"),
		auth.NewTokenGenerator("test-secret", time.Hour),
		sender,
		logger,
	)
}

func TestAuthService_Signup_NewAccount(t *testing.T) {
	repo := newMockAuthUserRepo()
	sender := &mockEmailSender{}
	svc := newTestAuthService(repo, sender)

	resp, err := svc.Signup(context.Background(), &models.SignUpRequest{
		Username: "reader",
		Email:    "Reader@Example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Username)
	// Email is normalized to lower case
	assert.Equal(t, "reader@example.com", resp.Email)
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.RoleUser, repo.created[0].Role)
	assert.Equal(t, []string{"reader@example.com"}, sender.sent)
	assert.Contains(t, sender.body, "confirmation code")
}

func TestAuthService_Signup_IdempotentResend(t *testing.T) {
	repo := newMockAuthUserRepo()
	repo.add(&models.User{ID: 5, Username: "reader", Email: "reader@example.com", Role: models.RoleUser})
	sender := &mockEmailSender{}
	svc := newTestAuthService(repo, sender)

	resp, err := svc.Signup(context.Background(), &models.SignUpRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "reader", resp.Username)
	// No second account, but a fresh code version and a fresh email
	assert.Empty(t, repo.created)
	assert.Equal(t, []int{5}, repo.bumpedIDs)
	assert.Len(t, sender.sent, 1)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{
			name:     "empty username",
			username: "",
			email:    "reader@example.com",
		},
		{
			name:     "reserved username me",
			username: "me",
			email:    "reader@example.com",
		},
		{
			name:     "username with invalid characters",
			username: "rea der",
			email:    "reader@example.com",
		},
		{
			name:     "invalid email",
			username: "reader",
			email:    "not-an-email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(newMockAuthUserRepo(), &mockEmailSender{})

			resp, err := svc.Signup(context.Background(), &models.SignUpRequest{
				Username: tt.username,
				Email:    tt.email,
			})

			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Nil(t, resp)
		})
	}
}

func TestAuthService_Signup_CrossConflicts(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{
			name:     "username taken with different email",
			username: "reader",
			email:    "other@example.com",
		},
		{
			name:     "email taken with different username",
			username: "other",
			email:    "reader@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockAuthUserRepo()
			repo.add(&models.User{ID: 5, Username: "reader", Email: "reader@example.com", Role: models.RoleUser})
			sender := &mockEmailSender{}
			svc := newTestAuthService(repo, sender)

			resp, err := svc.Signup(context.Background(), &models.SignUpRequest{
				Username: tt.username,
				Email:    tt.email,
			})

			assert.ErrorIs(t, err, models.ErrConflict)
			assert.Nil(t, resp)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestAuthService_Signup_MailFailureSurfaces(t *testing.T) {
	repo := newMockAuthUserRepo()
	sender := &mockEmailSender{err: errors.New("smtp down")}
	svc := newTestAuthService(repo, sender)

	resp, err := svc.Signup(context.Background(), &models.SignUpRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestAuthService_IssueToken(t *testing.T) {
	repo := newMockAuthUserRepo()
	sender := &mockEmailSender{}
	svc := newTestAuthService(repo, sender)

	// Sign up to establish the account and its code version
	_, err := svc.Signup(context.Background(), &models.SignUpRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	user := repo.byUsername["reader"]
	user.CodeVersion = repo.lastBumped
	code := auth.NewCodeGenerator("test-secret").Generate(user)

	token, err := svc.IssueToken(context.Background(), &models.TokenRequest{
		Username:         "reader",
		ConfirmationCode: code,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token asserts the account identity
	validated, err := auth.NewTokenGenerator("test-secret", time.Hour).ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reader", validated.Username)
}

func TestAuthService_IssueToken_Errors(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		code        string
		expectedErr error
	}{
		{
			name:        "empty username",
			username:    "",
			code:        "abc",
			expectedErr: models.ErrValidation,
		},
		{
			name:        "empty code",
			username:    "reader",
			code:        "",
			expectedErr: models.ErrValidation,
		},
		{
			name:        "unknown username",
			username:    "ghost",
			code:        "abc",
			expectedErr: models.ErrNotFound,
		},
		{
			name:        "wrong code",
			username:    "reader",
			code:        "deadbeefdeadbeefdeadbeefdeadbeef",
			expectedErr: models.ErrAuthentication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockAuthUserRepo()
			repo.add(&models.User{ID: 5, Username: "reader", Email: "reader@example.com", Role: models.RoleUser, CodeVersion: 1})
			svc := newTestAuthService(repo, &mockEmailSender{})

			token, err := svc.IssueToken(context.Background(), &models.TokenRequest{
				Username:         tt.username,
				ConfirmationCode: tt.code,
			})

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Empty(t, token)
		})
	}
}

func TestAuthService_IssueToken_StaleCodeAfterResignup(t *testing.T) {
	repo := newMockAuthUserRepo()
	repo.add(&models.User{ID: 5, Username: "reader", Email: "reader@example.com", Role: models.RoleUser, CodeVersion: 1})
	svc := newTestAuthService(repo, &mockEmailSender{})

	staleCode := auth.NewCodeGenerator("test-secret").Generate(&models.User{
		ID: 5, Username: "reader", CodeVersion: 0,
	})

	token, err := svc.IssueToken(context.Background(), &models.TokenRequest{
		Username:         "reader",
		ConfirmationCode: staleCode,
	})

	assert.ErrorIs(t, err, models.ErrAuthentication)
	assert.Empty(t, token)
}
