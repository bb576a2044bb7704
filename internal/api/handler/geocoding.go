package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tripgate/tripgate/internal/api/models"
	"github.com/tripgate/tripgate/internal/api/response"
	"github.com/tripgate/tripgate/internal/geocoding"
)

// GeocodingHandler handles the geocoding endpoints.
type GeocodingHandler struct {
	service *geocoding.Service
}

// NewGeocodingHandler creates a new GeocodingHandler.
func NewGeocodingHandler(service *geocoding.Service) *GeocodingHandler {
	return &GeocodingHandler{service: service}
}

// Autocomplete handles GET /v1/geocoding/autocomplete - place search.
func (h *GeocodingHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := geocoding.AutocompleteRequest{
		Query: query.Get("query"),
	}

	if limitParam := query.Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		req.Limit = limit
	}

	latParam := query.Get("focus_point_lat")
	lonParam := query.Get("focus_point_lon")
	if latParam != "" && lonParam != "" {
		lat, latErr := strconv.ParseFloat(latParam, 64)
		lon, lonErr := strconv.ParseFloat(lonParam, 64)
		if latErr != nil || lonErr != nil {
			response.BadRequest(w, r, "focus point coordinates must be numeric", nil)
			return
		}
		req.FocusPoint = &geocoding.Coordinates{Lat: lat, Lon: lon}
	}

	places, err := h.service.Autocomplete(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, geocoding.ErrEmptyQuery):
			response.BadRequest(w, r, "query parameter is required", nil)
		case errors.Is(err, geocoding.ErrProviderUnavailable):
			response.ServiceUnavailable(w, r, "the geocoding provider cannot be reached; try again later")
		case errors.Is(err, geocoding.ErrProviderError):
			response.BadGateway(w, r, "the geocoding provider rejected the request")
		default:
			response.InternalError(w, r, "failed to search places")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewPlaces(places))
}
