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

type truckRepository struct {
	db *sql.DB
}

func NewTruckRepository(db *sql.DB) interfaces.TruckRepository {
	return &truckRepository{db: db}
}

const truckColumns = `
		id, city_id, truck_number, route_name, controller_id, status,
		last_heartbeat_at, last_sync_at, gps_lat, gps_lng, storage_mb,
		battery_percent, telemetry, player_status, error_logs,
		created_at, updated_at
`

func (r *truckRepository) Create(ctx context.Context, truck *models.Truck) error {
	query := `
		INSERT INTO trucks (
			city_id, truck_number, route_name, controller_id, status,
			gps_lat, gps_lng, storage_mb, battery_percent,
			telemetry, player_status, error_logs
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		truck.CityID,
		truck.TruckNumber,
		truck.RouteName,
		truck.ControllerID,
		truck.Status,
		truck.GPSLat,
		truck.GPSLng,
		truck.StorageMB,
		truck.BatteryPercent,
		truck.Telemetry,
		truck.PlayerStatus,
		truck.ErrorLogs,
	).Scan(&truck.ID, &truck.CreatedAt, &truck.UpdatedAt)
	return err
}

func (r *truckRepository) GetByID(ctx context.Context, id string) (*models.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *truckRepository) GetByControllerID(ctx context.Context, controllerID string) (*models.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks WHERE controller_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, controllerID))
}

func (r *truckRepository) List(ctx context.Context, limit, offset int) ([]*models.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks ORDER BY truck_number ASC`

	args := []interface{}{}
	argPos := 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit)
		argPos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trucks: %w", err)
	}
	defer rows.Close()

	var trucks []*models.Truck
	for rows.Next() {
		truck, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, truck)
	}
	return trucks, rows.Err()
}

func (r *truckRepository) Update(ctx context.Context, id string, truck *models.Truck) error {
	query := `
		UPDATE trucks
		SET city_id = $1,
			truck_number = $2,
			route_name = $3,
			updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $4
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query, truck.CityID, truck.TruckNumber, truck.RouteName, id).
		Scan(&truck.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("failed to update truck: %w", err)
	}
	return nil
}

// ApplyHeartbeat persists a heartbeat: status goes online, the timestamp is
// refreshed and provided fields win over stored ones (COALESCE keeps the rest).
func (r *truckRepository) ApplyHeartbeat(ctx context.Context, id string, hb interfaces.HeartbeatUpdate) error {
	query := `
		UPDATE trucks
		SET status = 'online',
			last_heartbeat_at = $1,
			gps_lat = COALESCE($2, gps_lat),
			gps_lng = COALESCE($3, gps_lng),
			storage_mb = COALESCE($4, storage_mb),
			battery_percent = COALESCE($5, battery_percent),
			telemetry = COALESCE($6, telemetry),
			player_status = COALESCE($7, player_status),
			error_logs = COALESCE($8, error_logs),
			updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE id = $9
	`

	var telemetry, playerStatus, errorLogs interface{}
	if hb.Telemetry != nil {
		telemetry = *hb.Telemetry
	}
	if hb.PlayerStatus != nil {
		playerStatus = *hb.PlayerStatus
	}
	if hb.ErrorLogs != nil {
		errorLogs = hb.ErrorLogs
	}

	result, err := r.db.ExecContext(ctx, query,
		hb.At,
		hb.GPSLat,
		hb.GPSLng,
		hb.StorageMB,
		hb.BatteryPercent,
		telemetry,
		playerStatus,
		errorLogs,
		id,
	)
	if err != nil {
		return fmt.Errorf("apply heartbeat: %w", err)
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

// MarkOfflineStaleSince demotes trucks whose heartbeat predates the cutoff.
func (r *truckRepository) MarkOfflineStaleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE trucks
		SET status = 'offline', updated_at = NOW() AT TIME ZONE 'UTC'
		WHERE status = 'online'
		  AND (last_heartbeat_at IS NULL OR last_heartbeat_at < $1)
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *truckRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE trucks SET last_sync_at = $1, updated_at = NOW() AT TIME ZONE 'UTC' WHERE id = $2
	`, at, id)
	return err
}

func (r *truckRepository) scanOne(row *sql.Row) (*models.Truck, error) {
	var truck models.Truck
	err := row.Scan(
		&truck.ID,
		&truck.CityID,
		&truck.TruckNumber,
		&truck.RouteName,
		&truck.ControllerID,
		&truck.Status,
		&truck.LastHeartbeatAt,
		&truck.LastSyncAt,
		&truck.GPSLat,
		&truck.GPSLng,
		&truck.StorageMB,
		&truck.BatteryPercent,
		&truck.Telemetry,
		&truck.PlayerStatus,
		&truck.ErrorLogs,
		&truck.CreatedAt,
		&truck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get truck: %w", err)
	}
	return &truck, nil
}

func (r *truckRepository) scanRow(rows *sql.Rows) (*models.Truck, error) {
	var truck models.Truck
	err := rows.Scan(
		&truck.ID,
		&truck.CityID,
		&truck.TruckNumber,
		&truck.RouteName,
		&truck.ControllerID,
		&truck.Status,
		&truck.LastHeartbeatAt,
		&truck.LastSyncAt,
		&truck.GPSLat,
		&truck.GPSLng,
		&truck.StorageMB,
		&truck.BatteryPercent,
		&truck.Telemetry,
		&truck.PlayerStatus,
		&truck.ErrorLogs,
		&truck.CreatedAt,
		&truck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &truck, nil
}
