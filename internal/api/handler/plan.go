// Package handler provides HTTP handlers for the trip-planning API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripgate/tripgate/internal/api/models"
	"github.com/tripgate/tripgate/internal/api/response"
	"github.com/tripgate/tripgate/internal/plan"
	"github.com/tripgate/tripgate/pkg/polyline"
)

// PlanHandler handles the routing endpoints.
type PlanHandler struct {
	service *plan.Service
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(service *plan.Service) *PlanHandler {
	return &PlanHandler{service: service}
}

// Plan handles POST /v1/routing/plan - plan a trip and cache its itineraries.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var input models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	summaries, err := h.service.Plan(r.Context(), input.ToDomain())
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewPlanResponse(summaries))
}

// GetItinerary handles GET /v1/routing/itineraries/{itineraryId} - fetch one
// cached itinerary. With ?geometry=points each leg's polyline is expanded
// into coordinates.
func (h *PlanHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itineraryId")

	it, err := h.service.Itinerary(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, plan.ErrNotFound):
			response.NotFound(w, r, "no itinerary exists for this id; it may have expired")
		case errors.Is(err, plan.ErrCorruptRecord):
			response.InternalError(w, r, "the stored itinerary could not be read")
		default:
			response.InternalError(w, r, "failed to read itinerary")
		}
		return
	}

	out := models.NewItineraryDetailed(it)
	if r.URL.Query().Get("geometry") == "points" {
		for i := range out.Legs {
			for _, c := range polyline.Decode(out.Legs[i].Geometry) {
				out.Legs[i].Points = append(out.Legs[i].Points, models.Coordinates{Lat: c.Lat, Lon: c.Lon})
			}
		}
	}

	response.JSON(w, r, http.StatusOK, out)
}

// writePlanError maps domain plan errors to problem responses.
func (h *PlanHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, plan.ErrInvalidRequest):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, plan.ErrEngineUnavailable):
		response.ServiceUnavailable(w, r, "the routing engine cannot be reached; try again later")
	case errors.Is(err, plan.ErrEngineError):
		response.BadGateway(w, r, "the routing engine rejected the plan query")
	default:
		response.InternalError(w, r, "failed to plan trip")
	}
}
