package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/events"
	"github.com/opsdeck/ticketing-service/internal/service/mocks"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

var (
	adminCaller = Caller{UserID: "admin-1", Role: domain.RoleAdmin}
	userCaller  = Caller{UserID: "user-1", Role: domain.RoleUser}
)

func newTestTicketService(tickets *mocks.MockTicketRepository, locations *mocks.MockLocationRepository, users *mocks.MockUserRepository, at time.Time) *TicketService {
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		LocationRepo: locations,
		UserRepo:     users,
		Dispatcher:   events.NewInMemoryDispatcher(),
		Logger:       zap.NewNop(),
	})
	svc.now = func() time.Time { return at }
	return svc
}

func assertDomainError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
	assert.Equal(t, status, domainErr.HTTPStatus)
}

func TestCreateTicket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("creates an open ticket with default priority", func(t *testing.T) {
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				assert.Equal(t, "loc-1", id)
				return &domain.Location{ID: "loc-1", Name: "HQ"}, nil
			},
		}
		tickets := &mocks.MockTicketRepository{
			CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				ticket.ID = "t-1"
				ticket.CreatedAt = now
				ticket.UpdatedAt = now
				return nil
			},
		}
		svc := newTestTicketService(tickets, locations, &mocks.MockUserRepository{}, now)

		ticket, err := svc.CreateTicket(ctx, adminCaller, TicketCreateInput{
			Title:      "  Printer jam  ",
			LocationID: "loc-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "Printer jam", ticket.Title)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
		assert.Nil(t, ticket.AssignedTo)
		assert.Nil(t, ticket.AssignedAt)
	})

	t.Run("rejects unknown location", func(t *testing.T) {
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return nil, pgx.ErrNoRows
			},
		}
		created := false
		tickets := &mocks.MockTicketRepository{
			CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				created = true
				return nil
			},
		}
		svc := newTestTicketService(tickets, locations, &mocks.MockUserRepository{}, now)

		_, err := svc.CreateTicket(ctx, adminCaller, TicketCreateInput{Title: "x", LocationID: "missing"})

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
		assert.False(t, created)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return &domain.Location{ID: id}, nil
			},
		}
		svc := newTestTicketService(&mocks.MockTicketRepository{}, locations, &mocks.MockUserRepository{}, now)

		_, err := svc.CreateTicket(ctx, adminCaller, TicketCreateInput{
			Title:      "x",
			LocationID: "loc-1",
			Priority:   domain.TicketPriority("Urgent"),
		})

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})
}

func TestAssignTicket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)

	t.Run("assigns an open ticket", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{ID: id, Status: domain.TicketStatusOpen}, nil
			},
			UpdateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				return nil
			},
		}
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Username: "bob", Role: domain.RoleUser}, nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, users, now)

		ticket, err := svc.AssignTicket(ctx, adminCaller, "t-1", "user-1")

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
		require.NotNil(t, ticket.AssignedTo)
		assert.Equal(t, "user-1", *ticket.AssignedTo)
		require.NotNil(t, ticket.AssignedAt)
		assert.Equal(t, now, *ticket.AssignedAt)
	})

	t.Run("missing ticket is not found", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, now)

		_, err := svc.AssignTicket(ctx, adminCaller, "missing", "user-1")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})

	t.Run("missing target user fails validation", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{ID: id, Status: domain.TicketStatusOpen}, nil
			},
		}
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, users, now)

		_, err := svc.AssignTicket(ctx, adminCaller, "t-1", "ghost")

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})

	t.Run("overwrites an already assigned ticket, last write wins", func(t *testing.T) {
		previous := "user-1"
		previousAt := now.Add(-time.Hour)
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &previous,
					AssignedAt: &previousAt,
				}, nil
			},
		}
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id}, nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, users, now)

		ticket, err := svc.AssignTicket(ctx, adminCaller, "t-1", "user-2")

		require.NoError(t, err)
		assert.Equal(t, "user-2", *ticket.AssignedTo)
		assert.Equal(t, now, *ticket.AssignedAt)
		assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	})

	t.Run("reassigns an escalated ticket", func(t *testing.T) {
		assignee := "user-1"
		assignedAt := now.Add(-2 * time.Hour)
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusEscalated,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
		}
		users := &mocks.MockUserRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id}, nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, users, now)

		ticket, err := svc.AssignTicket(ctx, adminCaller, "t-1", "user-2")

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
		assert.Equal(t, "user-2", *ticket.AssignedTo)
	})
}

func TestResolveTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("resolution computes minutes from assignment", func(t *testing.T) {
		assignedAt := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
		resolvedAt := assignedAt.Add(60 * time.Minute)
		assignee := "user-1"

		var saved *domain.Ticket
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
			UpdateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				saved = ticket
				return nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, resolvedAt)

		ticket, err := svc.ResolveTicket(ctx, userCaller, "t-1", "fixed")

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
		require.NotNil(t, ticket.ResolvedAt)
		assert.Equal(t, resolvedAt, *ticket.ResolvedAt)
		require.NotNil(t, ticket.TimeTakenInMinutes)
		assert.Equal(t, 60, *ticket.TimeTakenInMinutes)
		require.NotNil(t, ticket.ResolutionComment)
		assert.Equal(t, "fixed", *ticket.ResolutionComment)
	})

	t.Run("rounds partial minutes", func(t *testing.T) {
		assignedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		resolvedAt := assignedAt.Add(90*time.Second + 500*time.Millisecond)
		assignee := "user-1"

		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, resolvedAt)

		ticket, err := svc.ResolveTicket(ctx, userCaller, "t-1", "")

		require.NoError(t, err)
		require.NotNil(t, ticket.TimeTakenInMinutes)
		assert.Equal(t, 2, *ticket.TimeTakenInMinutes)
		assert.Nil(t, ticket.ResolutionComment)
	})

	t.Run("non-assignee gets not found", func(t *testing.T) {
		assignee := "someone-else"
		assignedAt := time.Now()
		updated := false
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
			UpdateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				updated = true
				return nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, time.Now())

		_, err := svc.ResolveTicket(ctx, userCaller, "t-1", "fixed")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
		assert.False(t, updated)
	})

	t.Run("missing ticket gets the same not found", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, time.Now())

		_, err := svc.ResolveTicket(ctx, userCaller, "missing", "fixed")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})
}

func TestEscalateTicket(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("escalates with a reason", func(t *testing.T) {
		assignee := "user-1"
		assignedAt := now.Add(-time.Hour)
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, now)

		ticket, err := svc.EscalateTicket(ctx, userCaller, "t-1", "needs vendor support")

		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusEscalated, ticket.Status)
		require.NotNil(t, ticket.EscalationComment)
		assert.Equal(t, "needs vendor support", *ticket.EscalationComment)
	})

	t.Run("empty comment fails and leaves the ticket assigned", func(t *testing.T) {
		assignee := "user-1"
		assignedAt := now.Add(-time.Hour)
		updated := false
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
			UpdateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				updated = true
				return nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, now)

		_, err := svc.EscalateTicket(ctx, userCaller, "t-1", "   ")

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
		assert.False(t, updated)
	})

	t.Run("non-assignee gets not found", func(t *testing.T) {
		assignee := "someone-else"
		assignedAt := now.Add(-time.Hour)
		tickets := &mocks.MockTicketRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
				return &domain.Ticket{
					ID:         id,
					Status:     domain.TicketStatusAssigned,
					AssignedTo: &assignee,
					AssignedAt: &assignedAt,
				}, nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, now)

		_, err := svc.EscalateTicket(ctx, userCaller, "t-1", "stuck")

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})
}

func TestTicketLifecycleScenario(t *testing.T) {
	// Created at T, assigned at T+5m, resolved at T+65m: 60 minutes taken.
	ctx := context.Background()
	createdAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assignAt := createdAt.Add(5 * time.Minute)
	resolveAt := createdAt.Add(65 * time.Minute)

	store := map[string]*domain.Ticket{}
	tickets := &mocks.MockTicketRepository{
		CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
			ticket.ID = "t-1"
			ticket.CreatedAt = createdAt
			store[ticket.ID] = ticket
			return nil
		},
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Ticket, error) {
			ticket, ok := store[id]
			if !ok {
				return nil, pgx.ErrNoRows
			}
			copied := *ticket
			return &copied, nil
		},
		UpdateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
			copied := *ticket
			store[ticket.ID] = &copied
			return nil
		},
	}
	locations := &mocks.MockLocationRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
			return &domain.Location{ID: id, Name: "HQ"}, nil
		},
	}
	users := &mocks.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	svc := newTestTicketService(tickets, locations, users, createdAt)

	ticket, err := svc.CreateTicket(ctx, adminCaller, TicketCreateInput{Title: "no network", LocationID: "loc-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)

	svc.now = func() time.Time { return assignAt }
	ticket, err = svc.AssignTicket(ctx, adminCaller, "t-1", userCaller.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	assert.Equal(t, assignAt, *ticket.AssignedAt)

	svc.now = func() time.Time { return resolveAt }
	ticket, err = svc.ResolveTicket(ctx, userCaller, "t-1", "fixed")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	assert.Equal(t, resolveAt, *ticket.ResolvedAt)
	assert.Equal(t, 60, *ticket.TimeTakenInMinutes)
}

func TestDeleteTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes existing ticket", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			DeleteFunc: func(ctx context.Context, id string) error {
				assert.Equal(t, "t-1", id)
				return nil
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, time.Now())

		assert.NoError(t, svc.DeleteTicket(ctx, adminCaller, "t-1"))
	})

	t.Run("missing ticket is not found", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			DeleteFunc: func(ctx context.Context, id string) error {
				return pgx.ErrNoRows
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, time.Now())

		err := svc.DeleteTicket(ctx, adminCaller, "missing")
		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		tickets := &mocks.MockTicketRepository{
			DeleteFunc: func(ctx context.Context, id string) error {
				return errors.New("connection reset")
			},
		}
		svc := newTestTicketService(tickets, &mocks.MockLocationRepository{}, &mocks.MockUserRepository{}, time.Now())

		err := svc.DeleteTicket(ctx, adminCaller, "t-1")
		assertDomainError(t, err, "INTERNAL_ERROR", http.StatusInternalServerError)
	})
}
