package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/storage"
	"github.com/spec-kit/marketplace-service/internal/worker"
	"github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

type userStore struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	saves int
}

func newUserStore() *userStore {
	return &userStore{byID: map[string]*domain.User{}}
}

func (s *userStore) add(u domain.User) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.byID[u.ID] = &u
	cp := u
	return &cp
}

func (s *userStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *userStore) Update(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range s.byID {
		if id != u.ID && (existing.Username == u.Username || existing.Email == u.Email) {
			return domain.ErrConflict
		}
	}
	cp := *u
	s.byID[u.ID] = &cp
	s.saves++
	return nil
}

func (s *userStore) find(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.ID == id })
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.Username == username })
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.Email == email })
}

func (s *userStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, err := s.find(func(u *domain.User) bool { return u.Username == username || u.Email == email })
	return err == nil, nil
}

type artistStore struct {
	mu   sync.Mutex
	byID map[string]*domain.ArtistProfile
}

func newArtistStore() *artistStore {
	return &artistStore{byID: map[string]*domain.ArtistProfile{}}
}

func (s *artistStore) Create(_ context.Context, p *domain.ArtistProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.UserID == p.UserID || existing.Slug == p.Slug {
			return domain.ErrConflict
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *artistStore) Update(_ context.Context, p *domain.ArtistProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *artistStore) find(match func(*domain.ArtistProfile) bool) (*domain.ArtistProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *artistStore) GetByID(_ context.Context, id string) (*domain.ArtistProfile, error) {
	return s.find(func(p *domain.ArtistProfile) bool { return p.ID == id })
}

func (s *artistStore) GetByUserID(_ context.Context, userID string) (*domain.ArtistProfile, error) {
	return s.find(func(p *domain.ArtistProfile) bool { return p.UserID == userID })
}

func (s *artistStore) GetBySlug(_ context.Context, slug string) (*domain.ArtistProfile, error) {
	return s.find(func(p *domain.ArtistProfile) bool { return p.Slug == slug })
}

func (s *artistStore) SlugExists(_ context.Context, slug string) (bool, error) {
	_, err := s.find(func(p *domain.ArtistProfile) bool { return p.Slug == slug })
	return err == nil, nil
}

type categoryStore struct {
	items []domain.Category
}

func (s *categoryStore) List(context.Context) ([]domain.Category, error) {
	return append([]domain.Category{}, s.items...), nil
}

func (s *categoryStore) GetByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range s.items {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *categoryStore) ListWithProducts(context.Context) ([]domain.CategoryWithProducts, error) {
	return nil, nil
}

type productStore struct {
	mu        sync.Mutex
	items     map[string]*domain.Product
	favorites map[string][]string
	filters   []repository.ProductFilter
}

func newProductStore() *productStore {
	return &productStore{items: map[string]*domain.Product{}, favorites: map[string][]string{}}
}

func (s *productStore) add(p domain.Product) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.items[p.ID] = &p
	cp := p
	return &cp
}

func (s *productStore) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *productStore) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[p.ID]
	if !ok || existing.ArtistID != p.ArtistID {
		return domain.ErrNotFound
	}
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *productStore) Delete(_ context.Context, artistID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[id]
	if !ok || existing.ArtistID != artistID {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *productStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *productStore) GetOwned(ctx context.Context, artistID, id string) (*domain.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil || p.ArtistID != artistID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *productStore) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	out := []domain.Product{}
	for _, p := range s.items {
		if filter.ArtistID != nil && p.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *productStore) ListFavoritedBy(_ context.Context, userID string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Product{}
	for _, id := range s.favorites[userID] {
		if p, ok := s.items[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *productStore) SetProviderProductID(_ context.Context, id, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ProviderProductID = &providerID
	return nil
}

type fakeUploader struct {
	uploads []storage.Object
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, obj storage.Object) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if obj.Body != nil {
		_, _ = io.ReadAll(obj.Body)
	}
	u.uploads = append(u.uploads, obj)
	return fmt.Sprintf("https://cdn.test/%s/%d.png", obj.Folder, len(u.uploads)), nil
}

type memoryQueue struct {
	mu   sync.Mutex
	jobs []worker.Job
	err  error
}

func (q *memoryQueue) Push(_ context.Context, job worker.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memoryQueue) Pop(context.Context, time.Duration) (*worker.Job, error) {
	return nil, nil
}

func (q *memoryQueue) Bury(context.Context, worker.Job) error {
	return nil
}

func (q *memoryQueue) ofType(jobType worker.JobType) []worker.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []worker.Job
	for _, j := range q.jobs {
		if j.Type == jobType {
			out = append(out, j)
		}
	}
	return out
}

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret",
			AccessTokenTTL:       time.Hour,
			VerificationTokenTTL: time.Hour,
			PasswordResetTTL:     30 * time.Minute,
			BcryptCost:           4,
		},
		Links: config.LinksConfig{
			BuyerFrontendURL:  "https://buy.test",
			SellerFrontendURL: "https://sell.test",
		},
	}
}

// harness wires services over in-memory stores the way cmd/api wires them over Postgres.
type harness struct {
	users      *userStore
	artists    *artistStore
	products   *productStore
	categories *categoryStore
	queue      *memoryQueue
	uploader   *fakeUploader
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:      newUserStore(),
		artists:    newArtistStore(),
		products:   newProductStore(),
		categories: &categoryStore{},
		queue:      &memoryQueue{},
		uploader:   &fakeUploader{},
		tokens:     auth.NewTokenManager("test-secret").WithClock(func() time.Time { return testEpoch }),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	NewNotificationService(h.dispatcher, h.queue, zaptest.NewLogger(t)).RegisterHandlers()
	return h
}

func (h *harness) authService(t *testing.T) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo:   h.users,
		Tokens:     h.tokens,
		Dispatcher: h.dispatcher,
		Logger:     zaptest.NewLogger(t),
	})
}

func (h *harness) addUser(t *testing.T, username, password string, active, artist bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return h.users.add(domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     active,
		IsArtist:     artist,
	})
}

func requireDomainError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	de := errorutil.ToDomainError(err)
	require.Equal(t, code, de.Code, de.Message)
	require.Equal(t, status, de.HTTPStatus)
}
