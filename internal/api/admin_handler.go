package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"evently/server/internal/auth"
	"evently/server/internal/constants"
	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/services"
)

// ListUsersHandler handles GET /api/admin/users.
func ListUsersHandler(userSvc *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		users, err := userSvc.List(r.Context(), page, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list users")
			return
		}
		respondWithSuccess(w, http.StatusOK, &users)
	}
}

// ReassignRoleHandler handles PUT /api/admin/users/{accountID}/role.
// Unlike the first-time self-service selection, this path may overwrite
// an existing role and is only reachable behind the admin guard.
func ReassignRoleHandler(userSvc *services.UserService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ReassignRoleRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		err := userSvc.ReassignRole(r.Context(), auth.CurrentUserID(r.Context()), chi.URLParam(r, "accountID"), constants.Role(req.Role))
		if err != nil {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		resp := map[string]string{"account_id": chi.URLParam(r, "accountID"), "role": req.Role}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// PendingBookingsHandler handles GET /api/admin/bookings.
func PendingBookingsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := eventSvc.ListPendingBookings(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list pending bookings")
			return
		}

		events := make([]responses.EventResponse, 0, len(rows))
		for i := range rows {
			events = append(events, services.ToEventResponse(&rows[i]))
		}
		respondWithSuccess(w, http.StatusOK, &events)
	}
}

// DecideBookingHandler handles POST /api/admin/bookings/{eventID},
// the approve/reject decision on a pending venue booking.
func DecideBookingHandler(eventSvc *services.EventService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.BookingDecisionRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		eventID := chi.URLParam(r, "eventID")
		err := eventSvc.DecideVenueBooking(r.Context(), eventID, constants.BookingStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				respondWithError(w, http.StatusNotFound, "event not found")
			case errors.Is(err, services.ErrNoBooking):
				respondWithError(w, http.StatusConflict, "event has no pending venue booking")
			default:
				respondWithError(w, http.StatusInternalServerError, "booking decision failed")
			}
			return
		}

		resp := map[string]string{"event_id": eventID, "status": req.Status}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// AnalyticsHandler handles GET /api/admin/analytics.
func AnalyticsHandler(analyticsSvc *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := analyticsSvc.Overview(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to load analytics")
			return
		}
		respondWithSuccess(w, http.StatusOK, overview)
	}
}
