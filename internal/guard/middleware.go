package guard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/session"
)

const principalKey = "guard_principal"

// Middleware applies the access policy to a protected route. The decision
// comes from Evaluate; this adapter only reads the session store and
// issues the redirect the decision names.
func Middleware(store *session.Store, required RequiredRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var principal *domain.Principal
		if p, ok := store.CurrentPrincipal(); ok {
			principal = &p
		}

		decision := Evaluate(required, principal)
		if !decision.Allow {
			return c.Redirect(decision.RedirectTo, fiber.StatusFound)
		}

		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the principal stored by the middleware.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
