package interfaces

import (
	"context"
	"time"

	"fleetboard/internal/models"
)

// AuditLogRepository defines the interface for audit trail operations
type AuditLogRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error

	// DeleteOlderThan removes audit rows created before the cutoff and
	// reports how many rows were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
