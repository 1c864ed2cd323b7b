package service

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

// notFound turns a repository miss into a 404 naming resource.
func notFound(resource string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return errorutil.NewNotFound(resource, nil)
	}
	return err
}

// parseID rejects malformed uuids before they reach the database.
func parseID(field, value string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", errorutil.NewValidationError("invalid "+field, map[string]any{"field": field})
	}
	return id.String(), nil
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", errorutil.NewValidationError("invalid email address", map[string]any{"field": "email"})
	}
	return strings.ToLower(addr.Address), nil
}

// setIfPresent applies non-blank optional string updates.
func setIfPresent(dst *string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		*dst = strings.TrimSpace(*v)
	}
}
