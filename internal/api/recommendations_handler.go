package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"evently/server/internal/models/dtos/requests"
	"evently/server/internal/services"
)

// RecommendHandler handles POST /api/recommendations. Degrades to a
// static list when the completion backend is unavailable, so the widget
// never errors out a page.
func RecommendHandler(recSvc *services.RecommendationService, validate *validator.Validate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.RecommendationRequest
		if !decodeAndValidate(w, r, validate, &req) {
			return
		}

		resp, err := recSvc.Recommend(r.Context(), req.Interests, req.City)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to build recommendations")
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}
