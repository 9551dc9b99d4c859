package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/ticketing-service/internal/auth"
	"github.com/opsdeck/ticketing-service/internal/config"
	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/service/mocks"
)

func newTestAuthService(users *mocks.MockUserRepository) *AuthService {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = 4
	return NewAuthService(cfg, users)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with hashed password and default role", func(t *testing.T) {
		var created *domain.User
		users := &mocks.MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
			CreateFunc: func(ctx context.Context, user *domain.User) error {
				user.ID = "user-1"
				created = user
				return nil
			},
		}
		svc := newTestAuthService(users)

		user, err := svc.Register(ctx, "  alice ", "secret1", "")

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.NotEqual(t, "secret1", user.PasswordHash)
		assert.NoError(t, auth.ComparePassword(user.PasswordHash, "secret1"))
	})

	t.Run("duplicate username fails validation", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
				return &domain.User{ID: "user-1", Username: username}, nil
			},
		}
		svc := newTestAuthService(users)

		_, err := svc.Register(ctx, "alice", "secret1", "")

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := newTestAuthService(&mocks.MockUserRepository{})

		_, err := svc.Register(ctx, "alice", "secret1", domain.Role("superadmin"))

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc := newTestAuthService(&mocks.MockUserRepository{})

		_, err := svc.Register(ctx, "   ", "secret1", "")
		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)

		_, err = svc.Register(ctx, "alice", "", "")
		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("secret1", 4)
	require.NoError(t, err)
	stored := &domain.User{ID: "user-1", Username: "alice", PasswordHash: hash, Role: domain.RoleAdmin}

	t.Run("valid credentials yield a parseable token", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
				assert.Equal(t, "alice", username)
				return stored, nil
			},
		}
		svc := newTestAuthService(users)

		user, token, expiresAt, err := svc.Login(ctx, "alice", "secret1")

		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.False(t, expiresAt.IsZero())

		claims, err := svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("wrong password fails the same as unknown user", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
				return stored, nil
			},
		}
		svc := newTestAuthService(users)

		_, _, _, err := svc.Login(ctx, "alice", "wrong")
		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)

		users.GetByUsernameFunc = func(ctx context.Context, username string) (*domain.User, error) {
			return nil, pgx.ErrNoRows
		}
		_, _, _, err = svc.Login(ctx, "ghost", "secret1")
		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})
}
