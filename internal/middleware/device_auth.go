package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

const CtxTruck ctxKey = "truck"

// DeviceAuth authenticates truck hardware by its controller id, sent in the
// X-Device-Id header, and loads the matching truck into the request context.
func DeviceAuth(trucks interfaces.TruckRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := r.Header.Get("X-Device-Id")
			if deviceID == "" {
				writeDeviceError(w, http.StatusUnauthorized, "Device ID required")
				return
			}

			truck, err := trucks.GetByControllerID(r.Context(), deviceID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					writeDeviceError(w, http.StatusUnauthorized, "Invalid device ID")
					return
				}
				writeDeviceError(w, http.StatusInternalServerError, "Authentication error")
				return
			}

			ctx := context.WithValue(r.Context(), CtxTruck, truck)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TruckFromContext returns the truck loaded by DeviceAuth, or nil.
func TruckFromContext(ctx context.Context) *models.Truck {
	truck, _ := ctx.Value(CtxTruck).(*models.Truck)
	return truck
}

func writeDeviceError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
