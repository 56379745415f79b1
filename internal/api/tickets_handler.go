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

// PurchaseTicketsHandler handles POST /api/events/{eventID}/tickets.
// Attendee-gated; the sale itself enforces the venue-booking gate and
// capacity inside one transaction.
func PurchaseTicketsHandler(ticketSvc *services.TicketService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.PurchaseTicketsRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		view, ok := auth.GetSessionView(r.Context())
		if !ok || view.User == nil {
			respondWithError(w, http.StatusUnauthorized, constants.MsgNoActiveUser)
			return
		}

		purchase, err := ticketSvc.Purchase(r.Context(), chi.URLParam(r, "eventID"), view.User, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotFound):
				respondWithError(w, http.StatusNotFound, "event not found")
			case errors.Is(err, services.ErrSalesClosed):
				respondWithError(w, http.StatusConflict, constants.MsgSalesClosed)
			case errors.Is(err, services.ErrSoldOut):
				respondWithError(w, http.StatusConflict, constants.MsgSoldOut)
			default:
				respondWithError(w, http.StatusInternalServerError, "purchase failed")
			}
			return
		}

		resp := responses.PurchaseResponse{
			PurchaseID: purchase.ID,
			EventID:    purchase.EventID,
			Quantity:   purchase.Quantity,
			TotalPrice: purchase.TotalPrice,
		}
		respondWithSuccess(w, http.StatusCreated, &resp)
	}
}

// MyTicketsHandler handles GET /api/tickets.
func MyTicketsHandler(ticketSvc *services.TicketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchases, err := ticketSvc.ListByAttendee(r.Context(), auth.CurrentUserID(r.Context()))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list tickets")
			return
		}

		tickets := make([]responses.TicketResponse, 0, len(purchases))
		for _, p := range purchases {
			tickets = append(tickets, responses.TicketResponse{
				PurchaseID:  p.ID,
				EventID:     p.EventID,
				EventTitle:  p.Event.Title,
				StartTime:   p.Event.StartTime,
				Quantity:    p.Quantity,
				TotalPrice:  p.TotalPrice,
				PurchasedAt: p.PurchasedAt,
			})
		}
		respondWithSuccess(w, http.StatusOK, &tickets)
	}
}
