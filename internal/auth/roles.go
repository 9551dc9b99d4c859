package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdeck/ticketing-service/internal/domain"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// RequireRole ensures the principal holds one of the allowed roles. A valid
// claim with an insufficient role yields 403, distinct from the 401 raised
// by AuthMiddleware for missing or invalid tokens.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("no token, authorization denied")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}

// RequireAdmin gates admin-only operations.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireAuthenticated only checks that a principal is present.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
