package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "Open"
	TicketStatusAssigned  TicketStatus = "Assigned"
	TicketStatusResolved  TicketStatus = "Resolved"
	TicketStatusEscalated TicketStatus = "Escalated"
)

// AllTicketStatuses lists every lifecycle state in display order.
var AllTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusAssigned,
	TicketStatusResolved,
	TicketStatusEscalated,
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support issues raised against a location.
type Ticket struct {
	ID                 string
	Title              string
	Description        string
	LocationID         string
	Priority           TicketPriority
	Status             TicketStatus
	AssignedTo         *string
	AssignedAt         *time.Time
	ResolvedAt         *time.Time
	TimeTakenInMinutes *int
	ResolutionComment  *string
	EscalationComment  *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Populated by list joins, never stored on the ticket row.
	LocationName     *string
	LocationIP       *string
	AssigneeUsername *string
}
