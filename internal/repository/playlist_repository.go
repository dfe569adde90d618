package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type playlistRepository struct {
	db *sql.DB
}

func NewPlaylistRepository(db *sql.DB) interfaces.PlaylistRepository {
	return &playlistRepository{db: db}
}

// Upsert is a single atomic replace-or-insert on the (truck_id, date) key.
// playlist_data is overwritten wholesale; there is no merge.
func (r *playlistRepository) Upsert(ctx context.Context, playlist *models.Playlist) error {
	query := `
		INSERT INTO playlists (
			truck_id, date, playlist_data, version, push_status
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (truck_id, date) DO UPDATE SET
			playlist_data = EXCLUDED.playlist_data,
			version = EXCLUDED.version,
			push_status = EXCLUDED.push_status,
			pushed_at = NULL,
			updated_at = NOW() AT TIME ZONE 'UTC'
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		playlist.TruckID,
		playlist.Date,
		playlist.Items,
		playlist.Version,
		playlist.PushStatus,
	).Scan(&playlist.ID, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert playlist: %w", err)
	}
	return nil
}

func (r *playlistRepository) GetByTruckAndDate(ctx context.Context, truckID string, date time.Time) (*models.Playlist, error) {
	query := `
		SELECT id, truck_id, date, playlist_data, version, push_status,
			pushed_at, created_at, updated_at
		FROM playlists
		WHERE truck_id = $1 AND date = $2
	`

	var playlist models.Playlist
	err := r.db.QueryRowContext(ctx, query, truckID, date).Scan(
		&playlist.ID,
		&playlist.TruckID,
		&playlist.Date,
		&playlist.Items,
		&playlist.Version,
		&playlist.PushStatus,
		&playlist.PushedAt,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &playlist, nil
}

func (r *playlistRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE playlists
		SET push_status = 'synced', pushed_at = $1, updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $2
	`, at, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *playlistRepository) DeleteSyncedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM playlists WHERE push_status = 'synced' AND date < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
