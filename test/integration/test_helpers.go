//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"agri-assist-api/internal/config"
	"agri-assist-api/internal/handler"
	"agri-assist-api/internal/middleware"
	"agri-assist-api/internal/model"
	"agri-assist-api/internal/pricecache"
	"agri-assist-api/internal/router"
	"agri-assist-api/internal/service"
)

// memAccountStore is an in-memory stand-in for the PostgreSQL account
// repository, good enough for exercising the full HTTP stack.
type memAccountStore struct {
	mu       sync.Mutex
	accounts map[string]model.Account
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: map[string]model.Account{}}
}

func (s *memAccountStore) Create(_ context.Context, a model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Email] = a
	return nil
}

func (s *memAccountStore) FindByEmail(_ context.Context, email string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (s *memAccountStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[email]
	return ok, nil
}

func (s *memAccountStore) UpdateRole(_ context.Context, email string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[email]
	if !ok {
		return model.ErrAccountNotFound
	}
	a.Role = role
	s.accounts[email] = a
	return nil
}

type memListingStore struct {
	mu       sync.Mutex
	listings map[string]model.Listing
}

func newMemListingStore() *memListingStore {
	return &memListingStore{listings: map[string]model.Listing{}}
}

func (s *memListingStore) Create(_ context.Context, l model.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = l
	return nil
}

func (s *memListingStore) FindByID(_ context.Context, id string) (model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return model.Listing{}, model.ErrListingNotFound
	}
	return l, nil
}

func (s *memListingStore) List(_ context.Context) ([]model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	return out, nil
}

func (s *memListingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return model.ErrListingNotFound
	}
	delete(s.listings, id)
	return nil
}

func (s *memListingStore) MarkVerified(_ context.Context, id string, verifierID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return model.ErrListingNotFound
	}
	l.Verified = true
	l.VerifiedAt = &at
	l.VerifiedBy = &verifierID
	s.listings[id] = l
	return nil
}

type memEquipmentStore struct {
	mu       sync.Mutex
	requests map[string]model.EquipmentRequest
}

func newMemEquipmentStore() *memEquipmentStore {
	return &memEquipmentStore{requests: map[string]model.EquipmentRequest{}}
}

func (s *memEquipmentStore) Create(_ context.Context, e model.EquipmentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[e.ID] = e
	return nil
}

func (s *memEquipmentStore) List(_ context.Context) ([]model.EquipmentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EquipmentRequest, 0, len(s.requests))
	for _, e := range s.requests {
		out = append(out, e)
	}
	return out, nil
}

func (s *memEquipmentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return model.ErrEquipmentNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *memEquipmentStore) MarkVerified(_ context.Context, id string, verifierID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.requests[id]
	if !ok {
		return model.ErrEquipmentNotFound
	}
	e.Verified = true
	e.VerifiedAt = &at
	e.VerifiedBy = &verifierID
	s.requests[id] = e
	return nil
}

// cannedLLM answers every prompt with the same text.
type cannedLLM struct {
	text string
}

func (c *cannedLLM) GenerateText(_ context.Context, _ string) (string, error) {
	return c.text, nil
}

// cannedWeather serves both geocoding and forecasts.
type cannedWeather struct{}

func (c *cannedWeather) Geocode(_ context.Context, _ string) (float64, float64, error) {
	return 15.3647, 75.124, nil
}

func (c *cannedWeather) Forecast(_ context.Context, _ string) ([]model.ForecastEntry, error) {
	return []model.ForecastEntry{{Datetime: "2025-06-01 12:00:00", Temp: 31.5, Humidity: 60}}, nil
}

const testAdminSecret = "integration-admin-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	authService, err := service.NewAuthService(newMemAccountStore(), "integration-jwt-secret", 7*24*time.Hour, testAdminSecret)
	require.NoError(t, err)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	llm := &cannedLLM{text: "Around 2,100 per quintal at Hubli APMC."}
	priceService := service.NewPriceService(llm, pricecache.New(3*time.Hour))
	marketService := service.NewMarketService(newMemListingStore(), newMemEquipmentStore())
	weather := &cannedWeather{}

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	h := router.Handlers{
		Auth:          authHandler,
		Prices:        handler.NewPricesHandler(priceService),
		Marketplace:   handler.NewMarketplaceHandler(marketService),
		Superuser:     handler.NewSuperuserHandler(marketService),
		Certification: handler.NewCertificationHandler(marketService),
		Insight:       handler.NewInsightHandler(service.NewInsightService(weather)),
		Weather:       handler.NewWeatherHandler(service.NewWeatherService(weather)),
		Advisor:       handler.NewAdvisorHandler(service.NewAdvisorService(llm)),
	}

	server := httptest.NewServer(router.New(cfg, authMiddleware, h))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method string, url string, payload any, token string) (*http.Response, model.APIResponse) {
	t.Helper()

	var reader io.Reader = strings.NewReader("")
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var parsed model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func registerUser(t *testing.T, baseURL string, email string) string {
	t.Helper()

	resp, parsed := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", map[string]string{
		"name":     "Test Farmer",
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func superuserToken(t *testing.T, baseURL string) string {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/auth/su-login", strings.NewReader("{}"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", testAdminSecret)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	data, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}
