package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// Token-level errors. They stay inside the package boundary on the bearer path
// and are collapsed into ErrUnauthenticated by the Authenticator.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrPurposeMismatch  = errors.New("token purpose mismatch")
)

// Authenticator-level errors.
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Guard-level errors.
var (
	ErrInactiveAccount = errors.New("account inactive")
	ErrRoleMismatch    = errors.New("role mismatch")
)

// Credential-level errors.
var (
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// HTTPError converts an auth sentinel into the DomainError rendered to clients.
// Token-level errors are never described beyond a generic invalid-token message.
func HTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingCredentials):
		return apperrors.Wrap(err, "UNAUTHENTICATED", "missing authorization header", http.StatusUnauthorized)
	case errors.Is(err, ErrUnauthenticated):
		return apperrors.Wrap(err, "UNAUTHENTICATED", "invalid or expired token", http.StatusUnauthorized)
	case errors.Is(err, ErrInactiveAccount):
		return apperrors.Wrap(err, "INACTIVE_ACCOUNT", "account inactive", http.StatusForbidden)
	case errors.Is(err, ErrRoleMismatch):
		return apperrors.Wrap(err, "ROLE_MISMATCH", roleMessage(err), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		return apperrors.Wrap(err, "NOT_FOUND", "account not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidCredentials):
		return apperrors.Wrap(err, "INVALID_CREDENTIALS", "wrong username or password", http.StatusUnauthorized)
	case isTokenError(err):
		return apperrors.Wrap(err, "INVALID_TOKEN", "invalid or expired token", http.StatusBadRequest)
	}
	return apperrors.MapError(err)
}

func isTokenError(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrPurposeMismatch)
}

func roleMessage(err error) string {
	var re *roleError
	if errors.As(err, &re) {
		if re.wantSeller {
			return "seller account required"
		}
		return "buyer account required"
	}
	return "role not permitted"
}

// roleError records which role a RoleGuard demanded.
type roleError struct {
	wantSeller bool
}

func (e *roleError) Error() string { return ErrRoleMismatch.Error() }

func (e *roleError) Unwrap() error { return ErrRoleMismatch }
