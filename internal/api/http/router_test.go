package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/secrets"
	"github.com/spec-kit/marketplace-service/internal/service"
)

type testServer struct {
	app        *fiber.App
	tokens     *auth.TokenManager
	users      *users
	artists    *artists
	products   *products
	categories *categories
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T, readiness map[string]handlers.Pinger) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := config.Config{
		App: config.AppConfig{Name: "marketplace-service", Version: "test"},
		Auth: config.AuthConfig{
			AccessTokenTTL:       time.Hour,
			VerificationTokenTTL: time.Hour,
			PasswordResetTTL:     time.Hour,
			BcryptCost:           4,
		},
	}
	s := &testServer{
		tokens:     auth.NewTokenManager("router-secret"),
		users:      &users{byID: map[string]domain.User{}},
		artists:    &artists{},
		products:   &products{items: map[string]domain.Product{}},
		categories: &categories{items: []domain.Category{{ID: uuid.NewString(), Name: "Ceramics", Slug: "ceramics"}}},
	}
	cipher, err := secrets.NewCipher("router-key")
	require.NoError(t, err)
	dispatcher := events.NewInMemoryDispatcher()
	store := &uploader{}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   s.users,
		Tokens:     s.tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	accounts := service.NewAccountService(service.AccountDependencies{
		UserRepo:   s.users,
		ArtistRepo: s.artists,
		Uploader:   store,
		Sealer:     cipher,
		Logger:     logger,
	})
	catalog := service.NewCatalogService(service.CatalogDependencies{
		ProductRepo:  s.products,
		CategoryRepo: s.categories,
		ArtistRepo:   s.artists,
		Uploader:     store,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	metrics := observability.NewMetrics()
	s.app = fiber.New()
	RegisterMiddlewares(s.app, logger, metrics, time.Second)
	RegisterRoutes(s.app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:           handlers.NewAuthHandler(authService),
		Accounts:       handlers.NewAccountHandler(accounts),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Reviews:        handlers.NewReviewHandler(service.NewReviewService(reviews{}, s.products, s.artists)),
		Favorites:      handlers.NewFavoriteHandler(service.NewFavoriteService(favorites{}, s.products)),
		Analytics:      handlers.NewAnalyticsHandler(service.NewAnalyticsService(analytics{})),
		AuthMiddleware: auth.NewMiddleware(auth.NewAuthenticator(s.tokens, s.users)),
		Metrics:        metrics,
	})
	return s
}

func (s *testServer) addUser(t *testing.T, username string, active, artist bool) (domain.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123", 4)
	require.NoError(t, err)
	u := s.users.put(domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     active,
		IsArtist:     artist,
	})
	token, _, err := s.tokens.Issue(u.ID, auth.PurposeLogin, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) do(t *testing.T, req *nethttp.Request) (*nethttp.Response, envelope) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(body, &env), string(body))
	}
	return resp, env
}

func jsonRequest(method, target, token string, payload any) *nethttp.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, map[string]handlers.Pinger{"postgres": pinger{}, "redis": pinger{}})

	resp, _ := s.do(t, jsonRequest(nethttp.MethodGet, "/health/live", "", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(observability.RequestIDHeader))

	resp, _ = s.do(t, jsonRequest(nethttp.MethodGet, "/health/ready", "", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	down := newTestServer(t, map[string]handlers.Pinger{"postgres": pinger{}, "redis": pinger{err: errDown}})
	resp, env := down.do(t, jsonRequest(nethttp.MethodGet, "/health/ready", "", nil))
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, "connection refused", env.Error.Details["redis"])
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	s := newTestServer(t, nil)

	resp, env := s.do(t, jsonRequest(nethttp.MethodGet, "/auth/account", "", nil))
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
	assert.Equal(t, "missing authorization header", env.Error.Message)

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/auth/account", "not-a-jwt", nil))
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)
}

func TestGuardsOnRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	_, buyerToken := s.addUser(t, "buyer", true, false)
	_, sellerToken := s.addUser(t, "seller", true, true)
	_, inactiveToken := s.addUser(t, "sleepy", false, true)

	resp, env := s.do(t, jsonRequest(nethttp.MethodGet, "/api/analytics/summary", buyerToken, nil))
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ROLE_MISMATCH", env.Error.Code)

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/api/analytics/summary", inactiveToken, nil))
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INACTIVE_ACCOUNT", env.Error.Code)

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/api/analytics/summary", sellerToken, nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var summary map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, int64(2), summary["total_products"])

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/api/reviews/product/"+uuid.NewString(), sellerToken, nil))
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ROLE_MISMATCH", env.Error.Code)
}

func TestLoginAndProfile(t *testing.T) {
	s := newTestServer(t, nil)
	s.addUser(t, "buyer", true, false)

	resp, env := s.do(t, jsonRequest(nethttp.MethodPost, "/auth/login-seller", "", map[string]string{
		"username": "buyer", "password": "password123",
	}))
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	resp, env = s.do(t, jsonRequest(nethttp.MethodPost, "/auth/login-buyer", "", map[string]string{
		"username": "buyer", "password": "password123",
	}))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var login struct {
		Token    string `json:"token"`
		Username string `json:"username"`
		IsArtist bool   `json:"is_artist"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "buyer", login.Username)
	assert.False(t, login.IsArtist)

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/auth/account", login.Token, nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var profile struct {
		Kind string         `json:"kind"`
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "buyer", profile.Kind)
	assert.Equal(t, "buyer@example.com", profile.User["email"])
}

func TestCreateAccountRejectsWrongPurpose(t *testing.T) {
	s := newTestServer(t, nil)
	_, loginToken := s.addUser(t, "buyer", true, false)

	resp, env := s.do(t, jsonRequest(nethttp.MethodPost, "/auth/account?verification_token="+loginToken, "", map[string]any{
		"username": "newbie", "password": "password123", "confirm_password": "password123",
	}))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
}

func TestProductLookupValidatesID(t *testing.T) {
	s := newTestServer(t, nil)

	resp, env := s.do(t, jsonRequest(nethttp.MethodGet, "/api/products/not-a-uuid", "", nil))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/api/products/"+uuid.NewString(), "", nil))
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/api/nowhere", "", nil))
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSellerCreatesProduct(t *testing.T) {
	s := newTestServer(t, nil)
	seller, token := s.addUser(t, "seller", true, true)
	require.NoError(t, s.artists.Create(t.Context(), &domain.ArtistProfile{UserID: seller.ID, StoreName: "Shop", Slug: "shop"}))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("name", "Vase"))
	require.NoError(t, form.WriteField("price", "19.90"))
	require.NoError(t, form.WriteField("stock", "4"))
	require.NoError(t, form.WriteField("category_id", s.categories.items[0].ID))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="vase.png"`)
	header.Set("Content-Type", "image/png")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(nethttp.MethodPost, "/api/products", &body)
	req.Header.Set(fiber.HeaderContentType, form.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, env := s.do(t, req)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, env.Error.Message)
	var product map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &product))
	assert.Equal(t, "Vase", product["name"])
	assert.Equal(t, 19.9, product["price"])
	assert.Equal(t, "https://cdn.test/products/1", product["image"])

	resp, env = s.do(t, jsonRequest(nethttp.MethodGet, "/api/products/store/shop", "", nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	var store struct {
		Products []map[string]any `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &store))
	assert.Len(t, store.Products, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, jsonRequest(nethttp.MethodGet, "/api/categories", "", nil))

	resp, err := s.app.Test(jsonRequest(nethttp.MethodGet, "/metrics", "", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "marketplace_api_http_requests_total")
	assert.Contains(t, string(body), `route="/api/categories"`)
}
