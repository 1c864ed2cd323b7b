package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Middleware adapts the Authenticator and guard chains to fiber routes.
type Middleware struct {
	authenticator *Authenticator
}

// NewMiddleware constructs middleware.
func NewMiddleware(authenticator *Authenticator) *Middleware {
	return &Middleware{authenticator: authenticator}
}

// Protect authenticates the request and applies guards before the route handler runs.
// When an outer group already authenticated the request, its AuthContext is reused
// and only the guards run.
func (m *Middleware) Protect(guards ...Guard) fiber.Handler {
	chain := NewChain(guards...)
	return func(c *fiber.Ctx) error {
		ac, ok := FromCtx(c)
		if !ok {
			var err error
			ac, err = m.authenticator.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
			if err != nil {
				return HTTPError(err)
			}
		}
		ac, err := chain.Check(ac)
		if err != nil {
			return HTTPError(err)
		}

		c.Locals(authContextKey, ac)
		c.SetUserContext(WithAuthContext(c.UserContext(), ac))
		return c.Next()
	}
}

// MustFromCtx returns the AuthContext for a protected route.
// It fails with 401 when the route was registered without Protect.
func MustFromCtx(c *fiber.Ctx) (*AuthContext, error) {
	ac, ok := FromCtx(c)
	if !ok {
		return nil, HTTPError(ErrUnauthenticated)
	}
	return ac, nil
}
