package interfaces

import (
	"context"
	"time"

	"fleetboard/internal/models"
)

// PlaylistRepository defines the interface for playlist data operations.
// Playlists are uniquely keyed by (truck_id, date).
type PlaylistRepository interface {
	// Upsert atomically replaces-or-inserts the playlist for its
	// (truck_id, date) key, overwriting playlist_data wholesale.
	Upsert(ctx context.Context, playlist *models.Playlist) error

	GetByTruckAndDate(ctx context.Context, truckID string, date time.Time) (*models.Playlist, error)

	// MarkSynced records a successful pull by the truck hardware.
	MarkSynced(ctx context.Context, id string, at time.Time) error

	// DeleteSyncedBefore removes synced playlists older than the cutoff and
	// reports how many rows were deleted.
	DeleteSyncedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
