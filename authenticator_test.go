package hikeusers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/salazarje1/hikeusers-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	mockProvider := new(MockIdentityProvider)
	mockConfig := newMockConfig()

	authenticator := hikeusers.NewAuthenticator(mockProvider, mockConfig)

	t.Run("Successful login", func(t *testing.T) {
		identity := TestIdentity{
			id:       uuid.New().String(),
			username: "testuser",
			email:    "test@example.com",
			isAdmin:  true,
		}

		mockProvider.On("VerifyIdentity", ctx, "testuser", "password123").
			Return(identity, nil).Once()

		token, err := authenticator.Login(ctx, "testuser", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		parsedToken, err := jwt.ParseWithClaims(token, &hikeusers.JWTClaims{}, func(t *jwt.Token) (any, error) {
			return []byte("test-signing-key"), nil
		})

		assert.NoError(t, err)
		assert.True(t, parsedToken.Valid)

		claims, ok := parsedToken.Claims.(*hikeusers.JWTClaims)
		assert.True(t, ok)
		assert.Equal(t, "testuser", claims.Subject())
		assert.Equal(t, identity.id, claims.UserID())
		assert.True(t, claims.IsAdmin())
		assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
		assert.Equal(t, jwt.ClaimStrings{"test:audience"}, claims.RegisteredClaims.Audience)
	})

	t.Run("Failed login - invalid credentials", func(t *testing.T) {
		mockProvider.On("VerifyIdentity", ctx, "baduser", "wrongpassword").
			Return(nil, errors.New("invalid credentials")).Once()

		token, err := authenticator.Login(ctx, "baduser", "wrongpassword")

		assert.Error(t, err)
		assert.Empty(t, token)
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("Failed login - identity not found", func(t *testing.T) {
		mockProvider.On("VerifyIdentity", ctx, "unknown", "password123").
			Return(nil, hikeusers.ErrIdentityNotFound).Once()

		token, err := authenticator.Login(ctx, "unknown", "password123")

		assert.Error(t, err)
		assert.Empty(t, token)
	})
}

func TestSessionFromToken(t *testing.T) {
	mockProvider := new(MockIdentityProvider)
	authenticator := hikeusers.NewAuthenticator(mockProvider, newMockConfig())

	token, err := authenticator.TokenService().Generate(TestIdentity{
		id:       "id-1",
		username: "walker",
		email:    "walker@example.com",
	})
	require.NoError(t, err)

	claims, err := authenticator.SessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "walker", claims.Username())
	assert.False(t, claims.IsAdmin())

	_, err = authenticator.SessionFromToken("garbage.token.value")
	assert.Error(t, err)
}

func TestIdentityFromSession(t *testing.T) {
	ctx := context.Background()
	mockProvider := new(MockIdentityProvider)
	authenticator := hikeusers.NewAuthenticator(mockProvider, newMockConfig())

	token, err := authenticator.TokenService().Generate(TestIdentity{
		id:       "id-1",
		username: "walker",
	})
	require.NoError(t, err)

	session, err := authenticator.SessionFromToken(token)
	require.NoError(t, err)

	mockProvider.On("FindIdentityByUsername", ctx, "walker").
		Return(TestIdentity{id: "id-1", username: "walker"}, nil).Once()

	identity, err := authenticator.IdentityFromSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "walker", identity.Username())
}

func TestLoginEndToEnd(t *testing.T) {
	ctx := context.Background()
	hasher := hikeusers.NewPasswordHasher(bcrypt.MinCost)
	store := newFakeUsers()
	provider := hikeusers.NewUserProvider(store, hasher)
	authenticator := hikeusers.NewAuthenticator(provider, newMockConfig())

	seedUser(t, store, hasher, "endtoend", "trail-pass", false)

	token, err := authenticator.Login(ctx, "endtoend", "trail-pass")
	require.NoError(t, err)

	session, err := authenticator.SessionFromToken(token)
	require.NoError(t, err)

	identity, err := authenticator.IdentityFromSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "endtoend", identity.Username())

	_, err = authenticator.Login(ctx, "endtoend", "wrong-pass")
	assert.ErrorIs(t, err, hikeusers.ErrInvalidCredentials)
}
