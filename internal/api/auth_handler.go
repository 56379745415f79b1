package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"evently/server/internal/auth"
	"evently/server/internal/constants"
	"evently/server/internal/guard"
	"evently/server/internal/metrics"
	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/session"
	"evently/server/internal/store"
)

// SignUpHandler handles POST /api/auth/signup. The account and profile
// are created through the session controller; the response reports the
// in-flight session view, which the client polls until it settles.
func SignUpHandler(reg *session.Registry, metricsReg *metrics.MetricsRegistry, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.SignUpRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		clientKey := auth.GetClientKey(r.Context())
		if clientKey == "" {
			respondWithError(w, http.StatusInternalServerError, "no client session")
			return
		}

		ctrl := reg.Obtain(clientKey)
		draft := session.ProfileDraft{
			Email:             req.Email,
			Name:              req.Name,
			OrganizationName:  req.OrganizationName,
			Bio:               req.Bio,
			ProfilePictureURL: req.ProfilePictureURL,
		}

		err := ctrl.SignUp(r.Context(), draft, constants.Role(req.Role), req.Password)
		if err != nil {
			metricsReg.AuthOperationsTotal.WithLabelValues("signup", "failure").Inc()
			writeSessionError(w, err)
			return
		}

		metricsReg.AuthOperationsTotal.WithLabelValues("signup", "success").Inc()
		setSessionCookie(w, reg.SessionToken(clientKey))
		respondSessionView(w, http.StatusCreated, ctrl.State())
	}
}

// LoginHandler handles POST /api/auth/login. On success the settled
// identity is not available yet; clients poll GET /api/auth/session.
func LoginHandler(reg *session.Registry, metricsReg *metrics.MetricsRegistry, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.LoginRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		clientKey := auth.GetClientKey(r.Context())
		if clientKey == "" {
			respondWithError(w, http.StatusInternalServerError, "no client session")
			return
		}

		ctrl := reg.Obtain(clientKey)
		if err := ctrl.SignIn(r.Context(), req.Email, req.Password); err != nil {
			metricsReg.AuthOperationsTotal.WithLabelValues("login", "failure").Inc()
			writeSessionError(w, err)
			return
		}

		metricsReg.AuthOperationsTotal.WithLabelValues("login", "success").Inc()
		setSessionCookie(w, reg.SessionToken(clientKey))
		respondSessionView(w, http.StatusOK, ctrl.State())
	}
}

// LogoutHandler handles POST /api/auth/logout.
func LogoutHandler(reg *session.Registry, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientKey := auth.GetClientKey(r.Context())
		if ctrl := reg.Lookup(clientKey); ctrl != nil {
			if err := ctrl.Logout(r.Context()); err != nil {
				respondWithError(w, http.StatusInternalServerError, "logout failed")
				return
			}
		}

		metricsReg.AuthOperationsTotal.WithLabelValues("logout", "success").Inc()
		clearSessionCookie(w)
		respondSessionView(w, http.StatusOK, session.View{})
	}
}

// SelectRoleHandler handles POST /api/auth/role, the first-time role
// choice for an account whose profile has no role yet.
func SelectRoleHandler(reg *session.Registry, metricsReg *metrics.MetricsRegistry, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.SelectRoleRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		clientKey := auth.GetClientKey(r.Context())
		ctrl := reg.Lookup(clientKey)
		if ctrl == nil {
			respondWithRedirect(w, http.StatusUnauthorized, constants.MsgNoActiveUser, guard.LoginPath)
			return
		}

		if err := ctrl.SelectRole(r.Context(), constants.Role(req.Role)); err != nil {
			metricsReg.AuthOperationsTotal.WithLabelValues("select_role", "failure").Inc()
			writeSessionError(w, err)
			return
		}

		metricsReg.AuthOperationsTotal.WithLabelValues("select_role", "success").Inc()
		respondSessionView(w, http.StatusOK, ctrl.State())
	}
}

// SessionHandler handles GET /api/auth/session, the polling endpoint
// behind every page load. It always answers 200; IsLoading tells the
// client whether the triple has settled.
func SessionHandler(reg *session.Registry, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := session.View{}
		clientKey := auth.GetClientKey(r.Context())
		if ctrl := reg.Lookup(clientKey); ctrl != nil {
			view = ctrl.State()
		}

		if !view.IsLoading {
			metricsReg.SessionsSettledTotal.Inc()
			// The persisted token tracks the store's active session, so a
			// settled sign-in refreshes the cookie and a settled sign-out
			// clears it.
			if token := reg.SessionToken(clientKey); token != "" {
				setSessionCookie(w, token)
			} else if view.User == nil {
				clearSessionCookie(w)
			}
		}

		respondSessionView(w, http.StatusOK, view)
	}
}

func respondSessionView(w http.ResponseWriter, statusCode int, view session.View) {
	resp := responses.SessionResponse{
		User:      view.User,
		Role:      view.Role.String(),
		IsLoading: view.IsLoading,
	}
	if !view.IsLoading {
		resp.LandingAt = guard.LandingPath(view)
	}
	respondWithSuccess(w, statusCode, &resp)
}

// writeSessionError maps the session error taxonomy onto HTTP codes.
func writeSessionError(w http.ResponseWriter, err error) {
	var verr *session.ValidationError
	var cerr *session.CredentialError
	var aerr *session.AccountCreationError
	var perr *session.ProfileCreationError
	var rerr *session.RoleUpdateError

	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &cerr):
		respondWithError(w, http.StatusUnauthorized, constants.MsgInvalidCredentials)
	case errors.As(err, &aerr):
		if store.CodeOf(aerr.Err) == store.CodeConflict {
			respondWithError(w, http.StatusConflict, constants.MsgAccountExists)
			return
		}
		respondWithError(w, http.StatusInternalServerError, aerr.Error())
	case errors.As(err, &perr):
		respondWithError(w, http.StatusInternalServerError, constants.MsgProfileCreateFailed)
	case errors.As(err, &rerr):
		if rerr.Reason != "" {
			respondWithError(w, http.StatusConflict, rerr.Reason)
			return
		}
		respondWithError(w, http.StatusInternalServerError, rerr.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	if token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
