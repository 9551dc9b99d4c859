// Package mocks provides hand-rolled repository mocks for service tests.
package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/repository"
)

// MockTicketRepository implements repository.TicketRepository with
// overridable function fields.
type MockTicketRepository struct {
	CreateFunc                   func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc                   func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFunc                  func(ctx context.Context, id string) (*domain.Ticket, error)
	ListAllFunc                  func(ctx context.Context) ([]domain.Ticket, error)
	ListByAssigneeFunc           func(ctx context.Context, userID string) ([]domain.Ticket, error)
	DeleteFunc                   func(ctx context.Context, id string) error
	DeleteByLocationFunc         func(ctx context.Context, locationID string) (int64, error)
	DetachAssigneeFunc           func(ctx context.Context, userID string) (int64, error)
	CountFunc                    func(ctx context.Context, filter repository.TicketCountFilter) (int64, error)
	CountsByStatusFunc           func(ctx context.Context) (map[domain.TicketStatus]int64, error)
	ResolvedCountsByAssigneeFunc func(ctx context.Context) ([]repository.AssigneeResolvedCount, error)
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	return nil
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ticket)
	}
	return nil
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *MockTicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockTicketRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Ticket, error) {
	if m.ListByAssigneeFunc != nil {
		return m.ListByAssigneeFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTicketRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTicketRepository) DeleteByLocation(ctx context.Context, locationID string) (int64, error) {
	if m.DeleteByLocationFunc != nil {
		return m.DeleteByLocationFunc(ctx, locationID)
	}
	return 0, nil
}

func (m *MockTicketRepository) DetachAssignee(ctx context.Context, userID string) (int64, error) {
	if m.DetachAssigneeFunc != nil {
		return m.DetachAssigneeFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockTicketRepository) Count(ctx context.Context, filter repository.TicketCountFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockTicketRepository) CountsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	if m.CountsByStatusFunc != nil {
		return m.CountsByStatusFunc(ctx)
	}
	return map[domain.TicketStatus]int64{}, nil
}

func (m *MockTicketRepository) ResolvedCountsByAssignee(ctx context.Context) ([]repository.AssigneeResolvedCount, error) {
	if m.ResolvedCountsByAssigneeFunc != nil {
		return m.ResolvedCountsByAssigneeFunc(ctx)
	}
	return nil, nil
}

// MockLocationRepository implements repository.LocationRepository.
type MockLocationRepository struct {
	CreateFunc  func(ctx context.Context, location *domain.Location) error
	UpdateFunc  func(ctx context.Context, location *domain.Location) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Location, error)
	ListFunc    func(ctx context.Context) ([]domain.Location, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockLocationRepository) Create(ctx context.Context, location *domain.Location) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, location)
	}
	return nil
}

func (m *MockLocationRepository) Update(ctx context.Context, location *domain.Location) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, location)
	}
	return nil
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *MockLocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockLocationRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository implements repository.UserRepository.
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *domain.User) error
	UpdateFunc        func(ctx context.Context, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	ListFunc          func(ctx context.Context) ([]domain.User, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, pgx.ErrNoRows
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
