package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"evently/server/internal/auth"
	"evently/server/internal/guard"
	"evently/server/internal/metrics"
	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/session"
	"evently/server/internal/store"
)

var testMetrics = metrics.NewMetricsRegistry()

func newTestRegistry() *session.Registry {
	// The store never reaches Postgres or Redis in these tests; bound
	// clients only feed the controller's loading state.
	return session.NewRegistry(store.New(nil, nil, "test-secret"), time.Minute)
}

func withClientKey(req *http.Request, key string) *http.Request {
	return req.WithContext(auth.SetClientKey(req.Context(), key))
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) responses.SessionResponse {
	t.Helper()
	var resp responses.APIResponse[responses.SessionResponse]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data == nil {
		t.Fatal("expected session data in response")
	}
	return *resp.Data
}

func TestSessionHandlerAnonymous(t *testing.T) {
	reg := newTestRegistry()
	handler := SessionHandler(reg, testMetrics)

	req := withClientKey(httptest.NewRequest("GET", "/api/auth/session", nil), "client-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	view := decodeSession(t, rr)
	if view.IsLoading {
		t.Error("an unknown client has no pending session work, must not be loading")
	}
	if view.User != nil {
		t.Errorf("expected nil user, got %+v", view.User)
	}
	if view.LandingAt != guard.LoginPath {
		t.Errorf("landing_at = %q, want %q", view.LandingAt, guard.LoginPath)
	}
}

func TestSessionHandlerWhileLoading(t *testing.T) {
	reg := newTestRegistry()
	reg.Obtain("client-1") // fresh controller, no session event yet

	handler := SessionHandler(reg, testMetrics)
	req := withClientKey(httptest.NewRequest("GET", "/api/auth/session", nil), "client-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	view := decodeSession(t, rr)
	if !view.IsLoading {
		t.Error("a fresh controller must report loading")
	}
	if view.LandingAt != "" {
		t.Errorf("no landing path while loading, got %q", view.LandingAt)
	}
}

func TestSelectRoleWithoutSession(t *testing.T) {
	reg := newTestRegistry()
	handler := SelectRoleHandler(reg, testMetrics, validator.New())

	body, _ := json.Marshal(requests.SelectRoleRequest{Role: "attendee"})
	req := withClientKey(httptest.NewRequest("POST", "/api/auth/role", bytes.NewReader(body)), "client-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", rr.Code)
	}

	var resp responses.APIResponse[any]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.RedirectTo != guard.LoginPath {
		t.Errorf("redirect_to = %q, want %q", resp.RedirectTo, guard.LoginPath)
	}
}

func TestSignUpRejectsInvalidBody(t *testing.T) {
	reg := newTestRegistry()
	handler := SignUpHandler(reg, testMetrics, validator.New())

	// role outside the self-service set
	body, _ := json.Marshal(requests.SignUpRequest{
		Email:    "ada@example.com",
		Password: "hunter2222",
		Name:     "Ada",
		Role:     "admin",
	})
	req := withClientKey(httptest.NewRequest("POST", "/api/auth/signup", bytes.NewReader(body)), "client-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}

func TestLoginRejectsInvalidJSON(t *testing.T) {
	reg := newTestRegistry()
	handler := LoginHandler(reg, testMetrics, validator.New())

	req := withClientKey(httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte("{not json"))), "client-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
}
