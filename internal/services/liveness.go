package services

import (
	"context"
	"fmt"
	"time"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

const (
	// HeartbeatWindow is how recent the last heartbeat must be for a truck
	// to count as online.
	HeartbeatWindow = 10 * time.Minute

	// maxErrorLogEntries bounds the persisted hardware error log.
	maxErrorLogEntries = 100
)

// LivenessTracker derives and persists truck online/offline state. The
// derived predicate (IsOnline) and the persisted status column are separate
// signals: the column only converges on the next sweep.
type LivenessTracker struct {
	trucks interfaces.TruckRepository
	window time.Duration
	now    func() time.Time
}

func NewLivenessTracker(trucks interfaces.TruckRepository, now func() time.Time) *LivenessTracker {
	if now == nil {
		now = time.Now
	}
	return &LivenessTracker{trucks: trucks, window: HeartbeatWindow, now: now}
}

// IsOnline reports whether the truck's last heartbeat falls inside the
// liveness window. Read-only; ignores the persisted status column.
func (t *LivenessTracker) IsOnline(truck *models.Truck) bool {
	if truck.LastHeartbeatAt == nil {
		return false
	}
	return t.now().Sub(*truck.LastHeartbeatAt) < t.window
}

// RecordHeartbeat persists a heartbeat: status online, refreshed timestamp,
// last-write-wins merge of telemetry and player state, and a bounded append
// to the hardware error log.
func (t *LivenessTracker) RecordHeartbeat(ctx context.Context, truck *models.Truck, req *models.HeartbeatRequest) error {
	now := t.now()

	hb := interfaces.HeartbeatUpdate{
		At:             now,
		GPSLat:         req.GPSLat,
		GPSLng:         req.GPSLng,
		StorageMB:      req.StorageMB,
		BatteryPercent: req.BatteryPercent,
		PlayerStatus:   req.PlayerStatus,
	}

	if req.Telemetry != nil {
		telemetry := *req.Telemetry
		telemetry.LastUpdated = &now
		hb.Telemetry = &telemetry
	}

	if len(req.Errors) > 0 {
		logs := append(models.ErrorLogs{}, truck.ErrorLogs...)
		for _, e := range req.Errors {
			level := e.Level
			if level == "" {
				level = "info"
			}
			logs = append(logs, models.ErrorLogEntry{
				Time:    now,
				Level:   level,
				Message: e.Message,
			})
		}
		if len(logs) > maxErrorLogEntries {
			logs = logs[len(logs)-maxErrorLogEntries:]
		}
		hb.ErrorLogs = logs
	}

	if err := t.trucks.ApplyHeartbeat(ctx, truck.ID, hb); err != nil {
		return fmt.Errorf("record heartbeat for truck %s: %w", truck.ID, err)
	}
	return nil
}

// SweepStale demotes trucks whose heartbeat has aged out of the window.
// Persisted status lags the derived predicate by at most the sweep interval.
func (t *LivenessTracker) SweepStale(ctx context.Context) (int64, error) {
	cutoff := t.now().Add(-t.window)
	return t.trucks.MarkOfflineStaleSince(ctx, cutoff)
}
