package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

const authContextKey = "auth_context"

type ctxKey struct{}

// AuthContext is the per-request result of authenticating a bearer token.
// It can only be built by the Authenticator.
type AuthContext struct {
	identity *domain.User
	claims   TokenClaims
}

// Identity returns the resolved user.
func (a *AuthContext) Identity() *domain.User {
	return a.identity
}

// UserID returns the resolved user's id.
func (a *AuthContext) UserID() string {
	return a.identity.ID
}

// Claims returns the verified token claims the context was built from.
func (a *AuthContext) Claims() TokenClaims {
	return a.claims
}

// FromCtx returns the AuthContext stored by Middleware.Protect.
func FromCtx(c *fiber.Ctx) (*AuthContext, bool) {
	ac, ok := c.Locals(authContextKey).(*AuthContext)
	return ac, ok && ac != nil
}

// WithAuthContext attaches ac to ctx for code below the HTTP layer.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext returns the AuthContext attached by WithAuthContext.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(ctxKey{}).(*AuthContext)
	return ac, ok && ac != nil
}
