package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/opsdeck/ticketing-service/internal/events"
	"github.com/opsdeck/ticketing-service/internal/repository"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// CascadeService propagates location and user deletion into dependent
// tickets. Each cascade is two ordered statements with no surrounding
// transaction: the child step runs first and is idempotent, so a retry after
// a partial failure is safe. A failure between the steps surfaces as a 500
// and leaves the store in the state the completed step produced.
type CascadeService struct {
	tickets    repository.TicketRepository
	locations  repository.LocationRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CascadeDependencies bundles repositories for the cascade coordinator.
type CascadeDependencies struct {
	TicketRepo   repository.TicketRepository
	LocationRepo repository.LocationRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewCascadeService constructs the service.
func NewCascadeService(deps CascadeDependencies) *CascadeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CascadeService{
		tickets:    deps.TicketRepo,
		locations:  deps.LocationRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// DeleteLocation removes a location and every ticket it owns, tickets first.
func (s *CascadeService) DeleteLocation(ctx context.Context, actor Caller, locationID string) (int64, error) {
	if _, err := s.locations.GetByID(ctx, locationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFound("location", nil)
		}
		return 0, err
	}

	deleted, err := s.tickets.DeleteByLocation(ctx, locationID)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	if err := s.locations.Delete(ctx, locationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race with another delete; the tickets are already gone.
			return deleted, apperrors.NewNotFound("location", nil)
		}
		s.logger.Error("location delete failed after ticket cascade",
			zap.String("location_id", locationID),
			zap.Int64("tickets_deleted", deleted),
			zap.Error(err))
		return deleted, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventLocationCascaded,
		Actor: callerActor(actor),
		Payload: events.LocationCascadedPayload{
			LocationID:     locationID,
			TicketsDeleted: deleted,
		},
	})
	return deleted, nil
}

// DeleteUser detaches every ticket assigned to the user, resetting them to
// Open, then removes the user record.
func (s *CascadeService) DeleteUser(ctx context.Context, actor Caller, userID string) (int64, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFound("user", nil)
		}
		return 0, err
	}
	detached, err := s.tickets.DetachAssignee(ctx, userID)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return detached, apperrors.NewNotFound("user", nil)
		}
		s.logger.Error("user delete failed after ticket detach",
			zap.String("user_id", userID),
			zap.Int64("tickets_detached", detached),
			zap.Error(err))
		return detached, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:  events.EventUserCascaded,
		Actor: callerActor(actor),
		Payload: events.UserCascadedPayload{
			DeletedUserID:   userID,
			TicketsDetached: detached,
		},
	})
	return detached, nil
}

func (s *CascadeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
