package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// IdentityStore is the read-only view of accounts the auth core needs.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CredentialVerifier checks username/password pairs against stored hashes.
type CredentialVerifier struct {
	store IdentityStore
	// dummyHash is compared on the not-found branch. It uses the same cost as
	// stored hashes so both branches take the same time.
	dummyHash []byte
}

// NewCredentialVerifier constructs a verifier whose not-found branch hashes at
// cost, the bcrypt cost used for stored passwords.
func NewCredentialVerifier(store IdentityStore, cost int) *CredentialVerifier {
	dummy, err := HashPassword("marketplace-dummy-password", cost)
	if err != nil {
		dummy, _ = HashPassword("marketplace-dummy-password", bcrypt.DefaultCost)
	}
	return &CredentialVerifier{store: store, dummyHash: []byte(dummy)}
}

// Verify returns the identity when password matches the hash stored for identifier.
// It does not issue tokens.
func (v *CredentialVerifier) Verify(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, err := v.store.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup identity: %w", err)
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
