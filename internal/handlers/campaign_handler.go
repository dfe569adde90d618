// internal/handlers/campaign_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"fleetboard/internal/audit"
	"fleetboard/internal/booking"
	"fleetboard/internal/interfaces"
	"fleetboard/internal/middleware"
	"fleetboard/internal/models"
)

type CampaignHandler struct {
	repo      interfaces.CampaignRepository
	allocator *booking.Allocator
	recorder  *audit.Recorder
	validator *validator.Validate
}

func NewCampaignHandler(repo interfaces.CampaignRepository, allocator *booking.Allocator, recorder *audit.Recorder) *CampaignHandler {
	return &CampaignHandler{
		repo:      repo,
		allocator: allocator,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// CreateCampaign handles POST /api/v1/campaigns.
// Dates are derived from the pure cycle validator before anything touches the
// store; the capacity check runs against a snapshot count (see Admit).
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	end, cycle, err := booking.Validate(req.StartDate, req.PackageType)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			writeJSONErrorResponse(w, http.StatusBadRequest, verr.Code, verr.Message)
			return
		}
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	start := booking.DayStart(req.StartDate)
	if err := h.allocator.Admit(r.Context(), req.TruckID, start, end, req.PackageType, ""); err != nil {
		h.writeAdmitError(w, err)
		return
	}

	campaign := &models.Campaign{
		TruckID:      req.TruckID,
		Name:         req.Name,
		Company:      req.Company,
		VideoID:      req.VideoID,
		StartDate:    start,
		EndDate:      end,
		PackageType:  req.PackageType,
		PlayOrder:    req.PlayOrder,
		Status:       models.CampaignStatusActive,
		BookingCycle: cycle,
	}

	if err := h.repo.Create(r.Context(), campaign); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			writeJSONErrorResponse(w, http.StatusBadRequest, "foreign_key_violation", "Referenced truck or video not found")
			return
		}
		log.Printf("failed to create campaign: %v", err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "create_campaign_failed", "Failed to create campaign")
		return
	}

	h.recorder.Record(middleware.ActorFromContext(r.Context()), "create", "campaign", campaign.ID, campaign.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(campaign)
}

// GetCampaign handles GET /api/v1/campaigns/{id}
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	if campaignID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Campaign ID is required")
		return
	}

	campaign, err := h.repo.GetByID(r.Context(), campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "campaign not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_campaign_failed", "Failed to fetch campaign")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaign)
}

// ListCampaigns handles GET /api/v1/campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	filter := interfaces.CampaignFilter{
		TruckID: r.URL.Query().Get("truck_id"),
		Status:  r.URL.Query().Get("status"),
		Limit:   100,
	}

	campaigns, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "list_campaigns_failed", "Failed to list campaigns")
		return
	}

	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(campaigns)
}

// UpdateCampaign handles PUT /api/v1/campaigns/{id}. Changing dates or the
// package re-runs validation and admission, excluding this campaign from the
// capacity count so it does not collide with itself.
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Campaign ID is required")
		return
	}

	var req models.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "campaign not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "get_campaign_failed", "Failed to get campaign")
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Company != nil {
		existing.Company = *req.Company
	}
	if req.VideoID != nil {
		existing.VideoID = *req.VideoID
	}
	if req.PlayOrder != nil {
		existing.PlayOrder = *req.PlayOrder
	}

	rebook := req.StartDate != nil || req.PackageType != nil
	if req.StartDate != nil {
		existing.StartDate = booking.DayStart(*req.StartDate)
	}
	if req.PackageType != nil {
		existing.PackageType = *req.PackageType
	}

	if rebook {
		end, cycle, err := booking.Validate(existing.StartDate, existing.PackageType)
		if err != nil {
			var verr *booking.ValidationError
			if errors.As(err, &verr) {
				writeJSONErrorResponse(w, http.StatusBadRequest, verr.Code, verr.Message)
				return
			}
			writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		existing.EndDate = end
		existing.BookingCycle = cycle

		if err := h.allocator.Admit(r.Context(), existing.TruckID, existing.StartDate, end, existing.PackageType, id); err != nil {
			h.writeAdmitError(w, err)
			return
		}
	}

	if err := h.repo.Update(r.Context(), id, existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "campaign not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "update_campaign_failed", "Failed to update campaign")
		return
	}

	h.recorder.Record(middleware.ActorFromContext(r.Context()), "update", "campaign", id, existing.Name)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existing)
}

// CancelCampaign handles POST /api/v1/campaigns/{id}/cancel. Campaigns are
// never hard-deleted; cancellation frees the slot for later admissions.
func (h *CampaignHandler) CancelCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Campaign ID is required")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, models.CampaignStatusCancelled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "campaign not found")
			return
		}
		log.Printf("failed to cancel campaign %s: %v", id, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "cancel_campaign_failed", "Failed to cancel campaign")
		return
	}

	h.recorder.Record(middleware.ActorFromContext(r.Context()), "cancel", "campaign", id, "")

	writeJSONMessage(w, http.StatusOK, "campaign cancelled")
}

// AvailableCycles handles GET /api/v1/trucks/{id}/available-cycles
func (h *CampaignHandler) AvailableCycles(w http.ResponseWriter, r *http.Request) {
	truckID := chi.URLParam(r, "id")
	if truckID == "" {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Truck ID is required")
		return
	}

	monthsAhead := 6
	if v := r.URL.Query().Get("months"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 12 {
			monthsAhead = n
		}
	}

	cycles, err := h.allocator.AvailableCycles(r.Context(), truckID, monthsAhead)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "available_cycles_failed", "Failed to list available cycles")
		return
	}

	if cycles == nil {
		cycles = []booking.CycleOption{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"cycles": cycles})
}

func (h *CampaignHandler) writeAdmitError(w http.ResponseWriter, err error) {
	var capErr *booking.CapacityError
	if errors.As(err, &capErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":          "cycle_full",
			"message":        capErr.Error(),
			"cycle":          capErr.Window,
			"next_available": capErr.NextAvailable,
		})
		return
	}
	log.Printf("admission check failed: %v", err)
	writeJSONErrorResponse(w, http.StatusInternalServerError, "admission_check_failed", "Failed to check cycle capacity")
}
