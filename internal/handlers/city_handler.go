package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type CityHandler struct {
	repo      interfaces.CityRepository
	validator *validator.Validate
}

func NewCityHandler(repo interfaces.CityRepository) *CityHandler {
	return &CityHandler{repo: repo, validator: validator.New()}
}

// CreateCity handles POST /api/v1/cities
func (h *CityHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	city := &models.City{Name: req.Name, State: req.State}
	if err := h.repo.Create(r.Context(), city); err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_city_failed", "Failed to create city")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(city)
}

// ListCities handles GET /api/v1/cities
func (h *CityHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.repo.List(r.Context())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_cities_failed", "Failed to list cities")
		return
	}

	if cities == nil {
		cities = []*models.City{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cities)
}

// GetCity handles GET /api/v1/cities/{id}
func (h *CityHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "City ID is required")
		return
	}

	city, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "city not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_city_failed", "Failed to fetch city")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(city)
}
