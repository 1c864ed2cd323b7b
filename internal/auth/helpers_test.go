package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

var epoch = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type memoryStore struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	lookups int
	err     error
}

func newMemoryStore(users ...*domain.User) *memoryStore {
	s := &memoryStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memoryStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memoryStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func loginToken(t *testing.T, tm *TokenManager, subject string) string {
	t.Helper()
	tok, _, err := tm.Issue(subject, PurposeLogin, time.Hour)
	require.NoError(t, err)
	return tok
}
