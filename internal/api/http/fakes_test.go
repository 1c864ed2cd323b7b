package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/storage"
)

type users struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

func (s *users) put(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.byID[u.ID] = u
	return u
}

func (s *users) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	s.byID[u.ID] = *u
	return nil
}

func (s *users) Update(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	s.byID[u.ID] = *u
	return nil
}

func (s *users) find(match func(domain.User) bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *users) GetByID(_ context.Context, id string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.ID == id })
}

func (s *users) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username })
}

func (s *users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Email == email })
}

func (s *users) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, err := s.find(func(u domain.User) bool { return u.Username == username || u.Email == email })
	return err == nil, nil
}

type artists struct {
	mu    sync.Mutex
	items []domain.ArtistProfile
}

func (s *artists) Create(_ context.Context, p *domain.ArtistProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.items = append(s.items, *p)
	return nil
}

func (s *artists) Update(_ context.Context, p *domain.ArtistProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *artists) find(match func(domain.ArtistProfile) bool) (*domain.ArtistProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if match(p) {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *artists) GetByID(_ context.Context, id string) (*domain.ArtistProfile, error) {
	return s.find(func(p domain.ArtistProfile) bool { return p.ID == id })
}

func (s *artists) GetByUserID(_ context.Context, userID string) (*domain.ArtistProfile, error) {
	return s.find(func(p domain.ArtistProfile) bool { return p.UserID == userID })
}

func (s *artists) GetBySlug(_ context.Context, slug string) (*domain.ArtistProfile, error) {
	return s.find(func(p domain.ArtistProfile) bool { return p.Slug == slug })
}

func (s *artists) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := s.GetBySlug(ctx, slug)
	return err == nil, nil
}

type categories struct {
	items []domain.Category
}

func (s *categories) List(context.Context) ([]domain.Category, error) {
	return s.items, nil
}

func (s *categories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range s.items {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *categories) ListWithProducts(context.Context) ([]domain.CategoryWithProducts, error) {
	out := make([]domain.CategoryWithProducts, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, domain.CategoryWithProducts{Category: c, Products: []domain.Product{}})
	}
	return out, nil
}

type products struct {
	mu    sync.Mutex
	items map[string]domain.Product
}

func (s *products) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.items[p.ID] = *p
	return nil
}

func (s *products) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = *p
	return nil
}

func (s *products) Delete(_ context.Context, artistID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok || p.ArtistID != artistID {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *products) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *products) GetOwned(ctx context.Context, artistID, id string) (*domain.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil || p.ArtistID != artistID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *products) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Product{}
	for _, p := range s.items {
		if filter.ArtistID != nil && p.ArtistID != *filter.ArtistID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *products) ListFavoritedBy(context.Context, string) ([]domain.Product, error) {
	return []domain.Product{}, nil
}

func (s *products) SetProviderProductID(context.Context, string, string) error {
	return nil
}

type reviews struct{}

func (reviews) Create(context.Context, *domain.Review) error { return nil }
func (reviews) Update(context.Context, *domain.Review) error { return nil }
func (reviews) Delete(context.Context, string, string) error { return domain.ErrNotFound }
func (reviews) GetOwned(context.Context, string, string) (*domain.Review, error) {
	return nil, domain.ErrNotFound
}
func (reviews) ListByProduct(context.Context, string) ([]domain.Review, error) {
	return []domain.Review{}, nil
}
func (reviews) ListByProductAndUser(context.Context, string, string) ([]domain.Review, error) {
	return []domain.Review{}, nil
}
func (reviews) ListForArtist(context.Context, string) ([]domain.Review, error) {
	return []domain.Review{}, nil
}

type favorites struct{}

func (favorites) Add(context.Context, string, string) error { return nil }
func (favorites) Remove(context.Context, string, string) error { return domain.ErrNotFound }

type analytics struct{}

func (analytics) ProductsPerCategory(context.Context) ([]domain.CategoryProductCount, error) {
	return []domain.CategoryProductCount{{CategoryID: "c-1", CategoryName: "Ceramics", ProductCount: 2}}, nil
}

func (analytics) ProductRatings(context.Context) ([]domain.ProductRating, error) {
	return []domain.ProductRating{}, nil
}

func (analytics) ProductFavorites(context.Context) ([]domain.ProductFavorites, error) {
	return []domain.ProductFavorites{}, nil
}

func (analytics) Summary(context.Context) (domain.AnalyticsSummary, error) {
	return domain.AnalyticsSummary{TotalCategories: 1, TotalProducts: 2}, nil
}

type uploader struct{ n int }

func (u *uploader) Upload(_ context.Context, obj storage.Object) (string, error) {
	if _, err := io.ReadAll(obj.Body); err != nil {
		return "", err
	}
	u.n++
	return fmt.Sprintf("https://cdn.test/%s/%d", obj.Folder, u.n), nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

var errDown = errors.New("connection refused")
