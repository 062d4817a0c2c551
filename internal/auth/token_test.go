package auth

import (
	"testing"
	"time"

	"github.com/criticdb/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerator_GenerateAndValidate(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	user := &models.User{
		ID:          42,
		Username:    "reader",
		Role:        models.RoleModerator,
		IsSuperuser: true,
	}

	token, err := tg.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	validated, err := tg.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, validated.ID)
	assert.Equal(t, user.Username, validated.Username)
	assert.Equal(t, user.Role, validated.Role)
	assert.True(t, validated.IsSuperuser)
}

func TestTokenGenerator_ValidateAccessToken_Errors(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage token",
			token: func(t *testing.T) string {
				return "not.a.token"
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				other := NewTokenGenerator("different-secret", time.Hour)
				token, err := other.GenerateToken(&models.User{ID: 1, Username: "reader", Role: models.RoleUser})
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := NewTokenGenerator("test-secret", -time.Hour)
				token, err := expired.GenerateToken(&models.User{ID: 1, Username: "reader", Role: models.RoleUser})
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "wrong signing method",
			token: func(t *testing.T) string {
				// alg "none" must never validate
				token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
					"user_id":  float64(1),
					"username": "reader",
					"role":     "user",
				})
				signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return signed
			},
		},
		{
			name: "unknown role claim",
			token: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"user_id":  float64(1),
					"username": "reader",
					"role":     "owner",
					"exp":      time.Now().Add(time.Hour).Unix(),
				})
				signed, err := token.SignedString([]byte("test-secret"))
				require.NoError(t, err)
				return signed
			},
		},
		{
			name: "missing username claim",
			token: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"user_id": float64(1),
					"role":    "user",
					"exp":     time.Now().Add(time.Hour).Unix(),
				})
				signed, err := token.SignedString([]byte("test-secret"))
				require.NoError(t, err)
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := tg.ValidateAccessToken(tt.token(t))
			assert.Error(t, err)
			assert.Nil(t, user)
		})
	}
}
