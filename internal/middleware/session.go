package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"evently/server/internal/auth"
	"evently/server/internal/constants"
	"evently/server/internal/guard"
	"evently/server/internal/metrics"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/session"
)

// ClientSession tags every request with its browser-session key and
// revives a controller from a persisted session token after a server
// restart. It never blocks on the revival; the guard's waiting state
// covers the gap.
func ClientSession(reg *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if c, err := r.Cookie(constants.ClientCookieName); err == nil {
				key = c.Value
			}
			if key == "" {
				key = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     constants.ClientCookieName,
					Value:    key,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
			}

			if reg.Lookup(key) == nil {
				if c, err := r.Cookie(constants.SessionCookieName); err == nil && c.Value != "" {
					reg.RestoreToken(key, c.Value)
				}
			}

			ctx := auth.SetClientKey(r.Context(), key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on one specific role using the three-state
// guard contract. While the session view is still loading it answers
// 202 and never redirects.
func RequireRole(reg *session.Registry, metricsReg *metrics.MetricsRegistry, role constants.Role) func(http.Handler) http.Handler {
	return guardMiddleware(reg, metricsReg, func(v session.View) guard.Result {
		return guard.Evaluate(v, role)
	})
}

// RequireAuthenticated gates a route on any signed-in viewer with a
// role.
func RequireAuthenticated(reg *session.Registry, metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return guardMiddleware(reg, metricsReg, guard.EvaluateAny)
}

func guardMiddleware(reg *session.Registry, metricsReg *metrics.MetricsRegistry, evaluate func(session.View) guard.Result) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view := session.View{IsLoading: false}
			if ctrl := reg.Lookup(auth.GetClientKey(r.Context())); ctrl != nil {
				view = ctrl.State()
			}

			res := evaluate(view)
			switch res.Decision {
			case guard.Wait:
				metricsReg.GuardDecisionsTotal.WithLabelValues("wait").Inc()
				writeGuardResponse(w, http.StatusAccepted, "session still loading", "")
			case guard.Redirect:
				metricsReg.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				code := http.StatusUnauthorized
				if res.RedirectTo == guard.SelectRolePath {
					code = http.StatusForbidden
				}
				writeGuardResponse(w, code, "not authorized for this page", res.RedirectTo)
			case guard.Proceed:
				metricsReg.GuardDecisionsTotal.WithLabelValues("proceed").Inc()
				ctx := auth.SetSessionView(r.Context(), view)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

func writeGuardResponse(w http.ResponseWriter, code int, message, redirectTo string) {
	resp := responses.APIResponse[any]{
		Status:     "error",
		Timestamp:  time.Now().UTC(),
		Error:      message,
		RedirectTo: redirectTo,
	}
	if code == http.StatusAccepted {
		resp.Status = "loading"
		resp.Error = ""
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
