package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// Authenticator turns a bearer token into an AuthContext. It is the only place
// where token trust becomes an application identity.
type Authenticator struct {
	tokens *TokenManager
	store  IdentityStore
}

// NewAuthenticator constructs an authenticator.
func NewAuthenticator(tokens *TokenManager, store IdentityStore) *Authenticator {
	return &Authenticator{tokens: tokens, store: store}
}

// Authenticate validates the Authorization header value and resolves its subject.
func (a *Authenticator) Authenticate(ctx context.Context, authorization string) (*AuthContext, error) {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return nil, ErrMissingCredentials
	}

	scheme, token, ok := strings.Cut(authorization, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.tokens.VerifyFor(token, PurposeLogin)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := a.store.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &AuthContext{identity: user, claims: claims}, nil
}
