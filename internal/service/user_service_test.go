package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/service/mocks"
)

func TestUserUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates username and role", func(t *testing.T) {
		var saved *domain.User
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Username: "old", Role: domain.RoleUser}, nil
			},
			UpdateFunc: func(ctx context.Context, user *domain.User) error {
				saved = user
				return nil
			},
		}
		svc := NewUserService(users)

		user, err := svc.Update(ctx, "user-1", " newname ", domain.RoleAdmin)

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "newname", user.Username)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})

	t.Run("blank fields keep the stored values", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Username: "bob", Role: domain.RoleUser}, nil
			},
			UpdateFunc: func(ctx context.Context, user *domain.User) error {
				return nil
			},
		}
		svc := NewUserService(users)

		user, err := svc.Update(ctx, "user-1", "", "")

		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, domain.RoleUser, user.Role)
	})

	t.Run("invalid role fails validation", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Username: "bob", Role: domain.RoleUser}, nil
			},
		}
		svc := NewUserService(users)

		_, err := svc.Update(ctx, "user-1", "", domain.Role("root"))

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := NewUserService(users)

		_, err := svc.Update(ctx, "missing", "x", "")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})
}
