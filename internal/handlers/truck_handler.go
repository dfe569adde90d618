package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"fleetboard/internal/audit"
	"fleetboard/internal/interfaces"
	"fleetboard/internal/middleware"
	"fleetboard/internal/models"
	"fleetboard/internal/services"
)

type TruckHandler struct {
	repo      interfaces.TruckRepository
	liveness  *services.LivenessTracker
	recorder  *audit.Recorder
	validator *validator.Validate
}

func NewTruckHandler(repo interfaces.TruckRepository, liveness *services.LivenessTracker, recorder *audit.Recorder) *TruckHandler {
	return &TruckHandler{
		repo:      repo,
		liveness:  liveness,
		recorder:  recorder,
		validator: validator.New(),
	}
}

type truckResponse struct {
	*models.Truck
	IsOnline bool `json:"is_online"`
}

// CreateTruck handles POST /api/v1/trucks
func (h *TruckHandler) CreateTruck(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	truck := &models.Truck{
		CityID:       req.CityID,
		TruckNumber:  req.TruckNumber,
		RouteName:    req.RouteName,
		ControllerID: req.ControllerID,
		Status:       models.TruckStatusOffline,
		PlayerStatus: models.PlayerStatus{Status: models.PlayerStateStopped},
		ErrorLogs:    models.ErrorLogs{},
	}

	if err := h.repo.Create(r.Context(), truck); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				writeJSONErrorResponse(w, http.StatusConflict, "duplicate_truck", "Truck number or controller id already exists")
				return
			case "23503":
				writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_city_id", "City not found")
				return
			}
		}
		log.Printf("failed to create truck: %v", err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_truck_failed", "Failed to create truck")
		return
	}

	h.recorder.Record(middleware.ActorFromContext(r.Context()), "create", "truck", truck.ID, truck.TruckNumber)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(truck)
}

// GetTruck handles GET /api/v1/trucks/{id}
func (h *TruckHandler) GetTruck(w http.ResponseWriter, r *http.Request) {
	truck, ok := h.fetch(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(truckResponse{Truck: truck, IsOnline: h.liveness.IsOnline(truck)})
}

// ListTrucks handles GET /api/v1/trucks
func (h *TruckHandler) ListTrucks(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.repo.List(r.Context(), 100, 0)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_trucks_failed", "Failed to list trucks")
		return
	}

	resp := make([]truckResponse, 0, len(trucks))
	for _, truck := range trucks {
		resp = append(resp, truckResponse{Truck: truck, IsOnline: h.liveness.IsOnline(truck)})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdateTruck handles PUT /api/v1/trucks/{id}
func (h *TruckHandler) UpdateTruck(w http.ResponseWriter, r *http.Request) {
	truck, ok := h.fetch(w, r)
	if !ok {
		return
	}

	var req models.UpdateTruckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if req.CityID != nil {
		truck.CityID = *req.CityID
	}
	if req.TruckNumber != nil {
		truck.TruckNumber = *req.TruckNumber
	}
	if req.RouteName != nil {
		truck.RouteName = *req.RouteName
	}

	if err := h.repo.Update(r.Context(), truck.ID, truck); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "truck not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "update_truck_failed", "Failed to update truck")
		return
	}

	h.recorder.Record(middleware.ActorFromContext(r.Context()), "update", "truck", truck.ID, truck.TruckNumber)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(truck)
}

// GetTruckTelemetry handles GET /api/v1/trucks/{id}/telemetry
func (h *TruckHandler) GetTruckTelemetry(w http.ResponseWriter, r *http.Request) {
	truck, ok := h.fetch(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"truck_id":          truck.ID,
		"truck_number":      truck.TruckNumber,
		"is_online":         h.liveness.IsOnline(truck),
		"status":            truck.Status,
		"last_heartbeat_at": truck.LastHeartbeatAt,
		"telemetry":         truck.Telemetry,
		"player_status":     truck.PlayerStatus,
		"error_logs":        truck.ErrorLogs,
	})
}

func (h *TruckHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Truck, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Truck ID is required")
		return nil, false
	}

	truck, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "truck not found")
			return nil, false
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_truck_failed", "Failed to fetch truck")
		return nil, false
	}
	return truck, true
}
