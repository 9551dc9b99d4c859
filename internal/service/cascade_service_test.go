package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/events"
	"github.com/opsdeck/ticketing-service/internal/service/mocks"
)

func newTestCascadeService(tickets *mocks.MockTicketRepository, locations *mocks.MockLocationRepository, users *mocks.MockUserRepository) *CascadeService {
	return NewCascadeService(CascadeDependencies{
		TicketRepo:   tickets,
		LocationRepo: locations,
		UserRepo:     users,
		Dispatcher:   events.NewInMemoryDispatcher(),
		Logger:       zap.NewNop(),
	})
}

func TestDeleteLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes tickets before the location", func(t *testing.T) {
		var order []string
		tickets := &mocks.MockTicketRepository{
			DeleteByLocationFunc: func(ctx context.Context, locationID string) (int64, error) {
				assert.Equal(t, "loc-1", locationID)
				order = append(order, "tickets")
				return 3, nil
			},
		}
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return &domain.Location{ID: id, Name: "HQ"}, nil
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				order = append(order, "location")
				return nil
			},
		}
		svc := newTestCascadeService(tickets, locations, &mocks.MockUserRepository{})

		deleted, err := svc.DeleteLocation(ctx, adminCaller, "loc-1")

		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
		assert.Equal(t, []string{"tickets", "location"}, order)
	})

	t.Run("missing location is not found and nothing runs", func(t *testing.T) {
		cascaded := false
		tickets := &mocks.MockTicketRepository{
			DeleteByLocationFunc: func(ctx context.Context, locationID string) (int64, error) {
				cascaded = true
				return 0, nil
			},
		}
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := newTestCascadeService(tickets, locations, &mocks.MockUserRepository{})

		_, err := svc.DeleteLocation(ctx, adminCaller, "missing")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
		assert.False(t, cascaded)
	})

	t.Run("other-location tickets are untouched", func(t *testing.T) {
		// The scope is the repository query itself; the service must hand it
		// exactly the location under deletion.
		var scoped string
		tickets := &mocks.MockTicketRepository{
			DeleteByLocationFunc: func(ctx context.Context, locationID string) (int64, error) {
				scoped = locationID
				return 2, nil
			},
		}
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return &domain.Location{ID: id}, nil
			},
		}
		svc := newTestCascadeService(tickets, locations, &mocks.MockUserRepository{})

		_, err := svc.DeleteLocation(ctx, adminCaller, "loc-2")

		require.NoError(t, err)
		assert.Equal(t, "loc-2", scoped)
	})

	t.Run("failure after ticket cascade is an internal error", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			DeleteByLocationFunc: func(ctx context.Context, locationID string) (int64, error) {
				return 4, nil
			},
		}
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return &domain.Location{ID: id}, nil
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				return errors.New("connection reset")
			},
		}
		svc := newTestCascadeService(tickets, locations, &mocks.MockUserRepository{})

		deleted, err := svc.DeleteLocation(ctx, adminCaller, "loc-1")

		assertDomainError(t, err, "INTERNAL_ERROR", http.StatusInternalServerError)
		assert.Equal(t, int64(4), deleted)
	})

	t.Run("ticket cascade failure stops the location delete", func(t *testing.T) {
		locationDeleted := false
		tickets := &mocks.MockTicketRepository{
			DeleteByLocationFunc: func(ctx context.Context, locationID string) (int64, error) {
				return 0, errors.New("timeout")
			},
		}
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return &domain.Location{ID: id}, nil
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				locationDeleted = true
				return nil
			},
		}
		svc := newTestCascadeService(tickets, locations, &mocks.MockUserRepository{})

		_, err := svc.DeleteLocation(ctx, adminCaller, "loc-1")

		assertDomainError(t, err, "INTERNAL_ERROR", http.StatusInternalServerError)
		assert.False(t, locationDeleted)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("detaches tickets before removing the user", func(t *testing.T) {
		var order []string
		tickets := &mocks.MockTicketRepository{
			DetachAssigneeFunc: func(ctx context.Context, userID string) (int64, error) {
				assert.Equal(t, "user-1", userID)
				order = append(order, "detach")
				return 2, nil
			},
		}
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Username: "bob"}, nil
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				order = append(order, "user")
				return nil
			},
		}
		svc := newTestCascadeService(tickets, &mocks.MockLocationRepository{}, users)

		detached, err := svc.DeleteUser(ctx, adminCaller, "user-1")

		require.NoError(t, err)
		assert.Equal(t, int64(2), detached)
		assert.Equal(t, []string{"detach", "user"}, order)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := newTestCascadeService(&mocks.MockTicketRepository{}, &mocks.MockLocationRepository{}, users)

		_, err := svc.DeleteUser(ctx, adminCaller, "missing")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})

	t.Run("user delete failure after detach is an internal error", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			DetachAssigneeFunc: func(ctx context.Context, userID string) (int64, error) {
				return 5, nil
			},
		}
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id}, nil
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				return errors.New("connection reset")
			},
		}
		svc := newTestCascadeService(tickets, &mocks.MockLocationRepository{}, users)

		detached, err := svc.DeleteUser(ctx, adminCaller, "user-1")

		assertDomainError(t, err, "INTERNAL_ERROR", http.StatusInternalServerError)
		assert.Equal(t, int64(5), detached)
	})
}
