package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edge-fabric/api-gateway/internal/domain"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// CheckRole reports whether the identity's role appears in the allow-list.
// An empty allow-list permits any authenticated caller.
func CheckRole(identity domain.Identity, allowed ...domain.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if identity.Role == role {
			return true
		}
	}
	return false
}

// RequireRole ensures the authenticated caller has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !CheckRole(*identity, allowed...) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
