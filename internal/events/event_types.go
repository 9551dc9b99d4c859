package events

import (
	"time"

	"github.com/opsdeck/ticketing-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketAssigned   EventType = "ticket_assigned"
	EventTicketResolved   EventType = "ticket_resolved"
	EventTicketEscalated  EventType = "ticket_escalated"
	EventTicketDeleted    EventType = "ticket_deleted"
	EventLocationCascaded EventType = "location_cascade_deleted"
	EventUserCascaded     EventType = "user_cascade_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	LocationID string                `json:"location_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID string              `json:"assignee_id"`
	OldStatus  domain.TicketStatus `json:"old_status"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	AssigneeID         string `json:"assignee_id"`
	TimeTakenInMinutes int    `json:"time_taken_minutes"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	AssigneeID string `json:"assignee_id"`
	Comment    string `json:"comment"`
}

// LocationCascadedPayload payload.
type LocationCascadedPayload struct {
	LocationID     string `json:"location_id"`
	TicketsDeleted int64  `json:"tickets_deleted"`
}

// UserCascadedPayload payload.
type UserCascadedPayload struct {
	DeletedUserID   string `json:"deleted_user_id"`
	TicketsDetached int64  `json:"tickets_detached"`
}
