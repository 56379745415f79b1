package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"evently/server/internal/auth"
	"evently/server/internal/constants"
	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/models/dtos/responses"
	"evently/server/internal/services"
)

// ListVenuesHandler handles GET /api/venues.
func ListVenuesHandler(venueSvc *services.VenueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := venueSvc.List(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list venues")
			return
		}

		venues := make([]responses.VenueResponse, 0, len(rows))
		for i := range rows {
			venues = append(venues, services.ToVenueResponse(&rows[i]))
		}
		respondWithSuccess(w, http.StatusOK, &venues)
	}
}

// CreateVenueHandler handles POST /api/organizer/venues.
func CreateVenueHandler(venueSvc *services.VenueService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateVenueRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		venue, err := venueSvc.Create(r.Context(), auth.CurrentUserID(r.Context()), &req)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to create venue")
			return
		}

		resp := services.ToVenueResponse(venue)
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// UpdateVenueHandler handles PUT /api/organizer/venues/{venueID}.
func UpdateVenueHandler(venueSvc *services.VenueService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateVenueRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		venue, err := venueSvc.Update(r.Context(), auth.CurrentUserID(r.Context()), isAdmin(r), chi.URLParam(r, "venueID"), &req)
		if err != nil {
			writeVenueError(w, err)
			return
		}

		resp := services.ToVenueResponse(venue)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// DeleteVenueHandler handles DELETE /api/organizer/venues/{venueID}.
func DeleteVenueHandler(venueSvc *services.VenueService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := venueSvc.Delete(r.Context(), auth.CurrentUserID(r.Context()), isAdmin(r), chi.URLParam(r, "venueID"))
		if err != nil {
			writeVenueError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func isAdmin(r *http.Request) bool {
	if v, ok := auth.GetSessionView(r.Context()); ok {
		return v.Role == constants.RoleAdmin
	}
	return false
}

func writeVenueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "venue not found")
	case errors.Is(err, services.ErrForbidden):
		respondWithError(w, http.StatusForbidden, constants.MsgNotVenueOwner)
	default:
		respondWithError(w, http.StatusInternalServerError, "venue operation failed")
	}
}
