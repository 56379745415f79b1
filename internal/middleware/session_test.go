package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"evently/server/internal/auth"
	"evently/server/internal/constants"
	"evently/server/internal/guard"
	"evently/server/internal/metrics"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/session"
	"evently/server/internal/store"
)

var testMetrics = metrics.NewMetricsRegistry()

func newTestRegistry() *session.Registry {
	return session.NewRegistry(store.New(nil, nil, "test-secret"), time.Minute)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestClientSessionIssuesCookie(t *testing.T) {
	reg := newTestRegistry()
	var seenKey string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenKey = auth.GetClientKey(r.Context())
	})

	handler := ClientSession(reg)(next)
	req := httptest.NewRequest("GET", "/api/events", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seenKey == "" {
		t.Fatal("expected a client key in the request context")
	}

	cookies := rr.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == constants.ClientCookieName && c.Value == seenKey {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s cookie matching the context key, got %v", constants.ClientCookieName, cookies)
	}
}

func TestClientSessionReusesExistingCookie(t *testing.T) {
	reg := newTestRegistry()
	var seenKey string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenKey = auth.GetClientKey(r.Context())
	})

	handler := ClientSession(reg)(next)
	req := httptest.NewRequest("GET", "/api/events", nil)
	req.AddCookie(&http.Cookie{Name: constants.ClientCookieName, Value: "client-42"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seenKey != "client-42" {
		t.Errorf("expected existing client key to be reused, got %q", seenKey)
	}
}

func TestGuardWaitsWhileLoading(t *testing.T) {
	reg := newTestRegistry()
	reg.Obtain("client-1") // controller with no session event yet

	handler := RequireRole(reg, testMetrics, constants.RoleAttendee)(okHandler())
	req := httptest.NewRequest("GET", "/api/tickets", nil)
	req = req.WithContext(auth.SetClientKey(req.Context(), "client-1"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202 while loading, got %d", rr.Code)
	}

	var resp responses.APIResponse[any]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "loading" {
		t.Errorf("status = %q, want loading", resp.Status)
	}
	if resp.RedirectTo != "" {
		t.Errorf("a loading view must never carry a redirect, got %q", resp.RedirectTo)
	}
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	reg := newTestRegistry()

	handler := RequireRole(reg, testMetrics, constants.RoleAttendee)(okHandler())
	req := httptest.NewRequest("GET", "/api/tickets", nil)
	req = req.WithContext(auth.SetClientKey(req.Context(), "client-unknown"))
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

func TestRequireAuthenticatedRedirectsAnonymous(t *testing.T) {
	reg := newTestRegistry()

	handler := RequireAuthenticated(reg, testMetrics)(okHandler())
	req := httptest.NewRequest("GET", "/api/venues", nil)
	req = req.WithContext(auth.SetClientKey(req.Context(), "client-unknown"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", rr.Code)
	}
}
