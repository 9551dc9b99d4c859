package dto

import (
	"time"

	"github.com/opsdeck/ticketing-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	LocationID  string                `json:"locationId" validate:"required"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	ResolutionComment string `json:"resolutionComment"`
}

// EscalateTicketRequest payload.
type EscalateTicketRequest struct {
	EscalationComment string `json:"escalationComment"`
}

// TicketResponse mirrors the ticket record.
type TicketResponse struct {
	ID                 string                `json:"id"`
	Title              string                `json:"title"`
	Description        string                `json:"description,omitempty"`
	LocationID         string                `json:"locationId"`
	LocationName       *string               `json:"locationName,omitempty"`
	LocationIP         *string               `json:"locationIpAddress,omitempty"`
	Priority           domain.TicketPriority `json:"priority"`
	Status             domain.TicketStatus   `json:"status"`
	AssignedTo         *string               `json:"assignedTo,omitempty"`
	AssigneeUsername   *string               `json:"assigneeUsername,omitempty"`
	AssignedAt         *time.Time            `json:"assignedAt,omitempty"`
	ResolvedAt         *time.Time            `json:"resolvedAt,omitempty"`
	TimeTakenInMinutes *int                  `json:"timeTakenInMinutes,omitempty"`
	ResolutionComment  *string               `json:"resolutionComment,omitempty"`
	EscalationComment  *string               `json:"escalationComment,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                 ticket.ID,
		Title:              ticket.Title,
		Description:        ticket.Description,
		LocationID:         ticket.LocationID,
		LocationName:       ticket.LocationName,
		LocationIP:         ticket.LocationIP,
		Priority:           ticket.Priority,
		Status:             ticket.Status,
		AssignedTo:         ticket.AssignedTo,
		AssigneeUsername:   ticket.AssigneeUsername,
		AssignedAt:         ticket.AssignedAt,
		ResolvedAt:         ticket.ResolvedAt,
		TimeTakenInMinutes: ticket.TimeTakenInMinutes,
		ResolutionComment:  ticket.ResolutionComment,
		EscalationComment:  ticket.EscalationComment,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a ticket slice.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
