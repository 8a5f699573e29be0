package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandra/account-service/internal/domain/entity"
	repo "github.com/avandra/account-service/internal/domain/repository"
	"github.com/avandra/account-service/pkg/helpers"
)

func TestService_Authenticate(t *testing.T) {
	existing := testUser("u1", "alice@example.com", "secret12")
	mockRepo := &mockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
			if email == existing.Email {
				return existing, nil
			}
			return nil, repo.ErrNotFound
		},
	}
	svc := newTestService(mockRepo)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "alice@example.com", "secret12")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice@example.com", "nope1234")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "bob@example.com", "secret12")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_IssueTokens(t *testing.T) {
	existing := testUser("u1", "alice@example.com", "secret12")
	svc := newTestService(&mockUserRepository{})
	svc.JWT = helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	pair, err := svc.IssueTokens(context.Background(), existing)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.Before(pair.RefreshTokenExpiry))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	// Access token must not verify against the refresh secret.
	_, err = svc.JWT.ParseRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}
