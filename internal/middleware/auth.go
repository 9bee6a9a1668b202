package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/services"
)

const principalContextKey = "principal"

// PrincipalResolver turns a bearer token into the acting principal.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*services.Principal, error)
}

// AuthMiddleware validates the bearer token and loads the principal into context.
func AuthMiddleware(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return services.ErrUnauthenticated
		}

		principal, err := resolver.ResolvePrincipal(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(principalContextKey, principal)
		return c.Next()
	}
}

// RequireRole rejects principals that do not hold role. It must run after
// AuthMiddleware.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := GetPrincipal(c).RequireRole(role); err != nil {
			return err
		}
		return c.Next()
	}
}

// GetPrincipal extracts the authenticated principal from context.
func GetPrincipal(c *fiber.Ctx) *services.Principal {
	if p, ok := c.Locals(principalContextKey).(*services.Principal); ok {
		return p
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
