package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdeck/ticketing-service/internal/api/dto"
	"github.com/opsdeck/ticketing-service/internal/auth"
	"github.com/opsdeck/ticketing-service/internal/service"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// LocationsHandler exposes location administration endpoints.
type LocationsHandler struct {
	locations *service.LocationService
	cascades  *service.CascadeService
}

// NewLocationsHandler constructs handler.
func NewLocationsHandler(locations *service.LocationService, cascades *service.CascadeService) *LocationsHandler {
	return &LocationsHandler{locations: locations, cascades: cascades}
}

// Create handles POST /api/locations.
func (h *LocationsHandler) Create(c *fiber.Ctx) error {
	var req dto.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	location, err := h.locations.Create(c.Context(), service.LocationInput{
		Name:      req.Name,
		IPAddress: req.IPAddress,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLocationResponse(location)})
}

// List handles GET /api/locations.
func (h *LocationsHandler) List(c *fiber.Ctx) error {
	locations, err := h.locations.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLocationResponses(locations)})
}

// Update handles PUT /api/locations/:id.
func (h *LocationsHandler) Update(c *fiber.Ctx) error {
	var req dto.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	location, err := h.locations.Update(c.Context(), c.Params("id"), service.LocationInput{
		Name:      req.Name,
		IPAddress: req.IPAddress,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLocationResponse(location)})
}

// Import handles POST /api/locations/import.
func (h *LocationsHandler) Import(c *fiber.Ctx) error {
	var req dto.ImportLocationsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Locations) == 0 {
		return apperrors.NewValidationError("invalid data format", nil)
	}

	inputs := make([]service.LocationInput, 0, len(req.Locations))
	for _, loc := range req.Locations {
		inputs = append(inputs, service.LocationInput{Name: loc.Name, IPAddress: loc.IPAddress})
	}
	imported, err := h.locations.Import(c.Context(), inputs)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"message": fmt.Sprintf("%d locations imported successfully", imported)},
	})
}

// Delete handles DELETE /api/locations/:id, cascading to owned tickets.
func (h *LocationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token, authorization denied")
	}
	if _, err := h.cascades.DeleteLocation(c.Context(), callerFrom(principal), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "location and all associated tickets have been deleted"},
	})
}
