package domain

import "time"

// LocationStatus is informational only; the ticket state machine does not
// enforce it.
type LocationStatus string

const (
	LocationStatusAvailable LocationStatus = "Available"
	LocationStatusAssigned  LocationStatus = "Assigned"
)

// Location is a physical or network site tickets are raised against. It
// strongly owns its tickets: deleting a location cascades to them.
type Location struct {
	ID        string
	Name      string
	IPAddress *string
	Status    LocationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
