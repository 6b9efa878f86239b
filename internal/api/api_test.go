package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/goureshmadye/tripbuddy/internal/auth"
	"github.com/goureshmadye/tripbuddy/internal/cache"
	"github.com/goureshmadye/tripbuddy/internal/middleware"
	"github.com/goureshmadye/tripbuddy/internal/service"
	"github.com/goureshmadye/tripbuddy/internal/storage/sqlite"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, f.err
}

type fakeTileFetcher struct {
	data []byte
	err  error
}

func (f *fakeTileFetcher) FetchRegion(ctx context.Context, region cache.RegionRequest) ([]byte, cache.TileStats, error) {
	return f.data, cache.TileStats{}, f.err
}

type testEnv struct {
	router  *httprouter.Router
	fetcher *fakeFetcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	blobs, err := cache.NewDiskBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}

	fetcher := &fakeFetcher{data: []byte("document bytes")}
	manager := cache.NewManager(store, blobs, fetcher, &fakeTileFetcher{data: []byte("tiles")})

	jwtManager := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	a := New(
		auth.NewPasswordAuthenticator(store),
		jwtManager,
		service.NewTripService(store),
		service.NewExpenseService(store),
		manager,
	)
	return &testEnv{
		router:  a.Router(middleware.NewRateLimiter(1000, 1000)),
		fetcher: fetcher,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.0.0.1:12345"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// register creates an account and returns the session token and user ID.
func (e *testEnv) register(t *testing.T, email string) (token, userID string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        email,
		"display_name": email,
		"password":     "correct horse battery",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var session sessionResponse
	decode(t, rec, &session)
	return session.Token, session.User.ID
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "alice@example.com")

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "alice@example.com",
			"password": "another password",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("valid credentials", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var session sessionResponse
		decode(t, rec, &session)
		if session.Token == "" {
			t.Error("expected a session token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/trips", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestTripExpenseFlow(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/trips", token, map[string]any{
		"name":        "Tokyo 2026",
		"destination": "Tokyo",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create trip returned %d: %s", rec.Code, rec.Body.String())
	}
	var trip tripResponse
	decode(t, rec, &trip)
	if trip.OwnerID != userID {
		t.Errorf("owner = %q, want %q", trip.OwnerID, userID)
	}

	rec = env.do(t, http.MethodPost, "/api/trips/"+trip.ID+"/expenses", token, map[string]any{
		"paid_by":      userID,
		"description":  "Dinner",
		"amount_minor": 10000,
		"policy":       "equal",
		"participants": []string{userID, "bob", "carol"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add expense returned %d: %s", rec.Code, rec.Body.String())
	}
	var expense expenseResponse
	decode(t, rec, &expense)
	var sum int64
	for _, s := range expense.Splits {
		sum += s.AmountMinor
	}
	if sum != 10000 {
		t.Errorf("splits sum to %d, want exactly 10000", sum)
	}

	rec = env.do(t, http.MethodGet, "/api/trips/"+trip.ID+"/balances", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances returned %d: %s", rec.Code, rec.Body.String())
	}
	var balances balancesResponse
	decode(t, rec, &balances)
	if len(balances.Members) != 3 {
		t.Errorf("got %d members, want 3", len(balances.Members))
	}

	t.Run("invalid split input is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/trips/"+trip.ID+"/expenses", token, map[string]any{
			"amount_minor": 10000,
			"policy":       "percentage",
			"participants": []string{userID, "bob"},
			"percentages":  map[string]float64{userID: 60, "bob": 30},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestLimitDeniedResponse(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	// Free tier allows 3 trips.
	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodPost, "/api/trips", token, map[string]string{"name": "Trip"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create trip %d returned %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodPost, "/api/trips", token, map[string]string{"name": "One too many"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Kind     string `json:"kind"`
		Decision struct {
			Allowed      bool   `json:"allowed"`
			Reason       string `json:"reason"`
			CurrentUsage int    `json:"current_usage"`
			Limit        int    `json:"limit"`
		} `json:"decision"`
	}
	decode(t, rec, &payload)
	if payload.Kind != "trip" {
		t.Errorf("kind = %q, want %q", payload.Kind, "trip")
	}
	if payload.Decision.Allowed || payload.Decision.Reason != "limit_reached" {
		t.Errorf("decision = %+v, want denied with limit_reached", payload.Decision)
	}
	if payload.Decision.CurrentUsage != 3 || payload.Decision.Limit != 3 {
		t.Errorf("decision usage/limit = %d/%d, want 3/3", payload.Decision.CurrentUsage, payload.Decision.Limit)
	}
}

func TestOfflineDocumentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com")

	rec := env.do(t, http.MethodPost, "/api/offline/documents", token, map[string]string{
		"id":        "doc-1",
		"trip_id":   "trip-1",
		"file_name": "itinerary.pdf",
		"url":       "https://files.example.com/itinerary.pdf",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("download returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/offline/documents/doc-1", token, nil)
	var status map[string]bool
	decode(t, rec, &status)
	if !status["cached"] {
		t.Error("expected document to be cached")
	}

	t.Run("failed download is a 502 with no record", func(t *testing.T) {
		env.fetcher.err = errors.New("connection refused")
		defer func() { env.fetcher.err = nil }()

		rec := env.do(t, http.MethodPost, "/api/offline/documents", token, map[string]string{
			"id":  "doc-2",
			"url": "https://files.example.com/missing.pdf",
		})
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
		var resp downloadResponse
		decode(t, rec, &resp)
		if resp.Success {
			t.Error("expected success=false")
		}

		rec = env.do(t, http.MethodGet, "/api/offline/documents/doc-2", token, nil)
		var status map[string]bool
		decode(t, rec, &status)
		if status["cached"] {
			t.Error("failed download must not leave a record")
		}
	})

	t.Run("clear cache zeroes the summary", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/offline", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("clear returned %d: %s", rec.Code, rec.Body.String())
		}
		var size cacheSizeResponse
		decode(t, rec, &size)
		if size.TotalBytes != 0 {
			t.Errorf("total = %d after clear, want exactly 0", size.TotalBytes)
		}
	})
}
