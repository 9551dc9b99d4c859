package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/events"
	"github.com/opsdeck/ticketing-service/internal/repository"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// Caller identifies the authenticated principal a service call acts for.
// Role gating happens in the transport guard; services only use the caller
// for ownership checks and event attribution.
type Caller struct {
	UserID string
	Role   domain.Role
}

// TicketService owns the ticket lifecycle: creation, assignment, resolution
// and escalation.
type TicketService struct {
	tickets    repository.TicketRepository
	locations  repository.LocationRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	LocationRepo repository.LocationRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	LocationID  string
	Priority    domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		locations:  deps.LocationRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTicket opens a new ticket against an existing location.
func (s *TicketService) CreateTicket(ctx context.Context, actor Caller, input TicketCreateInput) (*domain.Ticket, error) {
	if _, err := s.locations.GetByID(ctx, input.LocationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("location does not exist", map[string]any{"location_id": input.LocationID})
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		LocationID:  input.LocationID,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
	}
	if ticket.Title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    callerActor(actor),
		Payload: events.TicketCreatedPayload{
			LocationID: ticket.LocationID,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// AssignTicket puts the ticket in the Assigned state and hands it to the
// target user. The write is an unconditional overwrite: re-assigning an
// already Assigned or even Resolved ticket is permitted and the last write
// wins. Such re-assignments are logged so the race stays visible.
func (s *TicketService) AssignTicket(ctx context.Context, actor Caller, ticketID, userID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("user does not exist", map[string]any{"user_id": userID})
		}
		return nil, err
	}

	oldStatus := ticket.Status
	if oldStatus != domain.TicketStatusOpen && oldStatus != domain.TicketStatusEscalated {
		s.logger.Warn("assigning ticket outside Open/Escalated",
			zap.String("ticket_id", ticket.ID),
			zap.String("current_status", string(oldStatus)),
			zap.String("assignee_id", userID))
	}

	now := s.now()
	ticket.AssignedTo = &userID
	ticket.AssignedAt = &now
	ticket.Status = domain.TicketStatusAssigned
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    callerActor(actor),
		Payload: events.TicketAssignedPayload{
			AssigneeID: userID,
			OldStatus:  oldStatus,
		},
	})
	return ticket, nil
}

// ResolveTicket marks the ticket resolved by its assignee. A missing ticket
// and a caller who is not the assignee produce the same NotFound failure.
func (s *TicketService) ResolveTicket(ctx context.Context, actor Caller, ticketID, resolutionComment string) (*domain.Ticket, error) {
	ticket, err := s.getAssignedToCaller(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolvedAt = &now
	if comment := strings.TrimSpace(resolutionComment); comment != "" {
		ticket.ResolutionComment = &comment
	}
	minutes := int(math.Round(now.Sub(*ticket.AssignedAt).Minutes()))
	ticket.TimeTakenInMinutes = &minutes

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Actor:    callerActor(actor),
		Payload: events.TicketResolvedPayload{
			AssigneeID:         actor.UserID,
			TimeTakenInMinutes: minutes,
		},
	})
	return ticket, nil
}

// EscalateTicket flags the ticket back to the admin with a mandatory reason.
func (s *TicketService) EscalateTicket(ctx context.Context, actor Caller, ticketID, escalationComment string) (*domain.Ticket, error) {
	ticket, err := s.getAssignedToCaller(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(escalationComment)
	if comment == "" {
		return nil, apperrors.NewValidationError("escalation comment is required", nil)
	}

	ticket.Status = domain.TicketStatusEscalated
	ticket.EscalationComment = &comment
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		Actor:    callerActor(actor),
		Payload: events.TicketEscalatedPayload{
			AssigneeID: actor.UserID,
			Comment:    comment,
		},
	})
	return ticket, nil
}

// DeleteTicket removes a single ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, actor Caller, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    callerActor(actor),
	})
	return nil
}

// ListAllTickets returns every ticket, newest first.
func (s *TicketService) ListAllTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

// ListMyTickets returns the tickets assigned to the caller, newest first.
func (s *TicketService) ListMyTickets(ctx context.Context, actor Caller) ([]domain.Ticket, error) {
	return s.tickets.ListByAssignee(ctx, actor.UserID)
}

// getAssignedToCaller loads a ticket and verifies ownership. "Not found" and
// "not the assignee" are deliberately indistinguishable to the caller.
func (s *TicketService) getAssignedToCaller(ctx context.Context, actor Caller, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if ticket.AssignedTo == nil || *ticket.AssignedTo != actor.UserID || ticket.AssignedAt == nil {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func callerActor(actor Caller) events.Actor {
	return events.Actor{UserID: actor.UserID, Role: actor.Role}
}
