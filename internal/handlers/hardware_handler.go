package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/middleware"
	"fleetboard/internal/models"
	"fleetboard/internal/services"
)

// HardwareHandler serves the truck-facing API: heartbeats, playlist pulls
// and the monitoring snapshot. Every route sits behind DeviceAuth.
type HardwareHandler struct {
	trucks    interfaces.TruckRepository
	playlists interfaces.PlaylistRepository
	compiler  *services.PlaylistCompiler
	liveness  *services.LivenessTracker
	throttle  *services.HeartbeatThrottle
	validator *validator.Validate
	now       func() time.Time
}

func NewHardwareHandler(
	trucks interfaces.TruckRepository,
	playlists interfaces.PlaylistRepository,
	compiler *services.PlaylistCompiler,
	liveness *services.LivenessTracker,
	throttle *services.HeartbeatThrottle,
	now func() time.Time,
) *HardwareHandler {
	if now == nil {
		now = time.Now
	}
	return &HardwareHandler{
		trucks:    trucks,
		playlists: playlists,
		compiler:  compiler,
		liveness:  liveness,
		throttle:  throttle,
		validator: validator.New(),
		now:       now,
	}
}

// Heartbeat handles POST /api/hardware/status. The truck state mutation is
// synchronous; only side effects like auditing run detached elsewhere.
func (h *HardwareHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	truck := middleware.TruckFromContext(r.Context())
	if truck == nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Device not authenticated")
		return
	}

	if !h.throttle.Allow(r.Context(), truck.ControllerID) {
		writeJSONErrorResponse(w, http.StatusTooManyRequests, "too_many_requests", "Heartbeat rate limit exceeded")
		return
	}

	var req models.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.liveness.RecordHeartbeat(r.Context(), truck, &req); err != nil {
		log.Printf("heartbeat update failed for truck %s: %v", truck.TruckNumber, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "heartbeat_failed", "Failed to update status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"message":   "Status updated successfully",
		"timestamp": h.now().UTC(),
	})
}

// Playlist handles GET /api/hardware/playlist: today's playlist, compiled on
// the spot when the nightly job has not produced one yet. A successful pull
// flips push_status to synced and refreshes the truck's last_sync_at.
func (h *HardwareHandler) Playlist(w http.ResponseWriter, r *http.Request) {
	truck := middleware.TruckFromContext(r.Context())
	if truck == nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Device not authenticated")
		return
	}

	today := h.now()
	playlist, err := h.compiler.GetOrGenerate(r.Context(), truck.ID, today)
	if err != nil {
		log.Printf("playlist fetch failed for truck %s: %v", truck.TruckNumber, err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "playlist_failed", "Failed to fetch playlist")
		return
	}

	now := h.now().UTC()
	if err := h.trucks.TouchLastSync(r.Context(), truck.ID, now); err != nil {
		log.Printf("last_sync update failed for truck %s: %v", truck.TruckNumber, err)
	}
	if err := h.playlists.MarkSynced(r.Context(), playlist.ID, now); err != nil {
		log.Printf("mark synced failed for playlist %s: %v", playlist.ID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"timestamp": now,
		"version":   playlist.Version,
		"playlist":  playlist.Items,
	})
}

// Telemetry handles GET /api/hardware/telemetry, the monitoring snapshot the
// backend exposes back to depot tooling.
func (h *HardwareHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	truck := middleware.TruckFromContext(r.Context())
	if truck == nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Device not authenticated")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"device": map[string]any{
			"id":           truck.ControllerID,
			"truck_number": truck.TruckNumber,
			"is_online":    h.liveness.IsOnline(truck),
			"telemetry":    truck.Telemetry,
		},
		"player":     truck.PlayerStatus,
		"error_logs": truck.ErrorLogs,
	})
}
