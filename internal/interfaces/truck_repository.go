package interfaces

import (
	"context"
	"time"

	"fleetboard/internal/models"
)

// HeartbeatUpdate carries the per-field heartbeat merge the tracker persists.
// Pointer fields follow last-write-wins: nil leaves the stored value alone.
type HeartbeatUpdate struct {
	At             time.Time
	GPSLat         *float64
	GPSLng         *float64
	StorageMB      *float64
	BatteryPercent *float64
	Telemetry      *models.Telemetry
	PlayerStatus   *models.PlayerStatus
	ErrorLogs      models.ErrorLogs // full replacement, already bounded
}

// TruckRepository defines the interface for truck data operations
type TruckRepository interface {
	Create(ctx context.Context, truck *models.Truck) error
	GetByID(ctx context.Context, id string) (*models.Truck, error)
	GetByControllerID(ctx context.Context, controllerID string) (*models.Truck, error)
	List(ctx context.Context, limit, offset int) ([]*models.Truck, error)
	Update(ctx context.Context, id string, truck *models.Truck) error

	// ApplyHeartbeat sets status online, refreshes last_heartbeat_at and
	// merges the provided fields.
	ApplyHeartbeat(ctx context.Context, id string, hb HeartbeatUpdate) error

	// MarkOfflineStaleSince flips trucks whose last heartbeat predates the
	// cutoff (or was never recorded) to offline; returns rows changed.
	MarkOfflineStaleSince(ctx context.Context, cutoff time.Time) (int64, error)

	// TouchLastSync records a successful playlist pull by the hardware.
	TouchLastSync(ctx context.Context, id string, at time.Time) error
}
