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

// BrowseEventsHandler handles GET /api/events, the public listing and
// search endpoint. No identity required.
func BrowseEventsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))

		rows, err := eventSvc.Browse(r.Context(), q.Get("q"), q.Get("category"), page, limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list events")
			return
		}

		events := make([]responses.EventResponse, 0, len(rows))
		for i := range rows {
			events = append(events, services.ToSearchResponse(&rows[i]))
		}
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 20
		}

		resp := responses.EventListResponse{Events: events, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetEventHandler handles GET /api/events/{eventID}.
func GetEventHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := eventSvc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			respondWithError(w, http.StatusNotFound, "event not found")
			return
		}

		resp := services.ToEventResponse(event)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// CreateEventHandler handles POST /api/organizer/events.
func CreateEventHandler(eventSvc *services.EventService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateEventRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		event, err := eventSvc.Create(r.Context(), auth.CurrentUserID(r.Context()), &req)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "venue not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to create event")
			return
		}

		resp := services.ToEventResponse(event)
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// UpdateEventHandler handles PATCH /api/organizer/events/{eventID}.
func UpdateEventHandler(eventSvc *services.EventService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.UpdateEventRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		event, err := eventSvc.Update(r.Context(), auth.CurrentUserID(r.Context()), chi.URLParam(r, "eventID"), &req)
		if err != nil {
			writeEventError(w, err)
			return
		}

		resp := services.ToEventResponse(event)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// MyEventsHandler handles GET /api/organizer/events.
func MyEventsHandler(eventSvc *services.EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := eventSvc.ListByOrganizer(r.Context(), auth.CurrentUserID(r.Context()))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list events")
			return
		}

		events := make([]responses.EventResponse, 0, len(rows))
		for i := range rows {
			events = append(events, services.ToEventResponse(&rows[i]))
		}
		resp := responses.EventListResponse{Events: events, Page: 1, Limit: len(events)}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// RequestVenueBookingHandler handles POST
// /api/organizer/events/{eventID}/booking. The booking lands pending and
// suspends ticket sales until an admin decides.
func RequestVenueBookingHandler(eventSvc *services.EventService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RequestVenueBookingRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		event, err := eventSvc.RequestVenueBooking(r.Context(), auth.CurrentUserID(r.Context()), chi.URLParam(r, "eventID"), req.VenueID)
		if err != nil {
			writeEventError(w, err)
			return
		}

		resp := services.ToEventResponse(event)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, services.ErrForbidden):
		respondWithError(w, http.StatusForbidden, constants.MsgNotEventOwner)
	case errors.Is(err, services.ErrNoBooking):
		respondWithError(w, http.StatusConflict, "no pending venue booking for this event")
	default:
		respondWithError(w, http.StatusInternalServerError, "event operation failed")
	}
}
