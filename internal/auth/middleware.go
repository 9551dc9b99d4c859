package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/opsdeck/ticketing-service/internal/domain"
	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

// TokenHeader carries the identity claim on every protected request.
const TokenHeader = "X-Auth-Token"

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID string
	Role   domain.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// AuthMiddleware validates identity tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes. A missing, malformed,
// or expired token is Unauthenticated; role checks happen downstream.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get(TokenHeader))
	if token == "" {
		return apperrors.NewUnauthorized("no token, authorization denied")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("token is not valid")
	}
	if !domain.ValidRole(claims.Role) {
		return apperrors.NewUnauthorized("token is not valid")
	}

	c.Locals(principalKey, &Principal{UserID: claims.UserID, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
