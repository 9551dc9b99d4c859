package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/repository"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// LocationService covers location administration. Deletion lives in the
// cascade coordinator because of its ticket side effects.
type LocationService struct {
	locations repository.LocationRepository
}

// NewLocationService constructs the service.
func NewLocationService(locations repository.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// LocationInput describes a location create/update payload.
type LocationInput struct {
	Name      string
	IPAddress *string
}

// Create registers a new location.
func (s *LocationService) Create(ctx context.Context, input LocationInput) (*domain.Location, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	location := &domain.Location{
		Name:      name,
		IPAddress: input.IPAddress,
		Status:    domain.LocationStatusAvailable,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// List returns all locations sorted by name.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	return s.locations.List(ctx)
}

// Update renames a location or changes its address.
func (s *LocationService) Update(ctx context.Context, id string, input LocationInput) (*domain.Location, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("location", nil)
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		location.Name = name
	}
	if input.IPAddress != nil {
		location.IPAddress = input.IPAddress
	}

	if err := s.locations.Update(ctx, location); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("location", nil)
		}
		return nil, err
	}
	return location, nil
}

// Import bulk-creates locations from structured records. Rows that fail to
// insert are skipped; the count of successful inserts is returned.
func (s *LocationService) Import(ctx context.Context, inputs []LocationInput) (int, error) {
	if len(inputs) == 0 {
		return 0, apperrors.NewValidationError("no locations provided", nil)
	}

	imported := 0
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			continue
		}
		location := &domain.Location{
			Name:      name,
			IPAddress: input.IPAddress,
			Status:    domain.LocationStatusAvailable,
		}
		if err := s.locations.Create(ctx, location); err != nil {
			continue
		}
		imported++
	}
	return imported, nil
}
