package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdeck/ticketing-service/internal/api/dto"
	"github.com/opsdeck/ticketing-service/internal/auth"
	"github.com/opsdeck/ticketing-service/internal/service"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	authSvc  *service.AuthService
	users    *service.UserService
	cascades *service.CascadeService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authSvc *service.AuthService, users *service.UserService, cascades *service.CascadeService) *UsersHandler {
	return &UsersHandler{authSvc: authSvc, users: users, cascades: cascades}
}

// Register handles POST /api/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.authSvc.Register(c.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, exp, err := h.authSvc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Context(), c.Params("id"), req.Username, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /api/users/:id, detaching assigned tickets first.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token, authorization denied")
	}
	if _, err := h.cascades.DeleteUser(c.Context(), callerFrom(principal), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "user deleted and their tickets have been unassigned"},
	})
}
