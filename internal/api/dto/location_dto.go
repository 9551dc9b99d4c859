package dto

import (
	"time"

	"github.com/opsdeck/ticketing-service/internal/domain"
)

// LocationRequest payload for create and update.
type LocationRequest struct {
	Name      string  `json:"name" validate:"required"`
	IPAddress *string `json:"ipAddress" validate:"omitempty,ip"`
}

// ImportLocationsRequest payload for bulk import.
type ImportLocationsRequest struct {
	Locations []LocationRequest `json:"locations" validate:"required,min=1,dive"`
}

// LocationResponse mirrors the location record.
type LocationResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	IPAddress *string               `json:"ipAddress,omitempty"`
	Status    domain.LocationStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// NewLocationResponse maps a domain location.
func NewLocationResponse(location *domain.Location) LocationResponse {
	return LocationResponse{
		ID:        location.ID,
		Name:      location.Name,
		IPAddress: location.IPAddress,
		Status:    location.Status,
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
	}
}

// NewLocationResponses maps a location slice.
func NewLocationResponses(locations []domain.Location) []LocationResponse {
	items := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		items = append(items, NewLocationResponse(&locations[i]))
	}
	return items
}
