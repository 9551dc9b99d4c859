package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/service/mocks"
)

func TestLocationCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an available location", func(t *testing.T) {
		locations := &mocks.MockLocationRepository{
			CreateFunc: func(ctx context.Context, location *domain.Location) error {
				location.ID = "loc-1"
				return nil
			},
		}
		svc := NewLocationService(locations)

		ip := "10.0.0.5"
		location, err := svc.Create(ctx, LocationInput{Name: " Front Desk ", IPAddress: &ip})

		require.NoError(t, err)
		assert.Equal(t, "Front Desk", location.Name)
		assert.Equal(t, domain.LocationStatusAvailable, location.Status)
		require.NotNil(t, location.IPAddress)
		assert.Equal(t, "10.0.0.5", *location.IPAddress)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc := NewLocationService(&mocks.MockLocationRepository{})

		_, err := svc.Create(ctx, LocationInput{Name: "  "})

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})
}

func TestLocationUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only provided fields", func(t *testing.T) {
		existingIP := "10.0.0.1"
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return &domain.Location{ID: id, Name: "Old", IPAddress: &existingIP}, nil
			},
			UpdateFunc: func(ctx context.Context, location *domain.Location) error {
				return nil
			},
		}
		svc := NewLocationService(locations)

		location, err := svc.Update(ctx, "loc-1", LocationInput{Name: "New"})

		require.NoError(t, err)
		assert.Equal(t, "New", location.Name)
		require.NotNil(t, location.IPAddress)
		assert.Equal(t, "10.0.0.1", *location.IPAddress)
	})

	t.Run("missing location is not found", func(t *testing.T) {
		locations := &mocks.MockLocationRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*domain.Location, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := NewLocationService(locations)

		_, err := svc.Update(ctx, "missing", LocationInput{Name: "New"})

		assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
	})
}

func TestLocationImport(t *testing.T) {
	ctx := context.Background()

	t.Run("imports rows and skips failures", func(t *testing.T) {
		locations := &mocks.MockLocationRepository{
			CreateFunc: func(ctx context.Context, location *domain.Location) error {
				if location.Name == "dup" {
					return errors.New("duplicate key")
				}
				return nil
			},
		}
		svc := NewLocationService(locations)

		imported, err := svc.Import(ctx, []LocationInput{
			{Name: "Lab A"},
			{Name: "dup"},
			{Name: "   "},
			{Name: "Lab B"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, imported)
	})

	t.Run("empty input fails validation", func(t *testing.T) {
		svc := NewLocationService(&mocks.MockLocationRepository{})

		_, err := svc.Import(ctx, nil)

		assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
	})
}
