package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

func TestApplyHeartbeat(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTruckRepository(db)

	at := time.Date(2025, 4, 16, 10, 0, 0, 0, time.UTC)
	lat, lng := 17.4, 78.4
	telemetry := models.Telemetry{CPUUsage: 42}

	mock.ExpectExec(regexp.QuoteMeta("SET status = 'online'")).
		WithArgs(at, &lat, &lng, nil, nil, telemetry, nil, nil, "truck-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	hb := interfaces.HeartbeatUpdate{
		At:        at,
		GPSLat:    &lat,
		GPSLng:    &lng,
		Telemetry: &telemetry,
	}
	if err := repo.ApplyHeartbeat(context.Background(), "truck-1", hb); err != nil {
		t.Fatalf("ApplyHeartbeat: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkOfflineStaleSince(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTruckRepository(db)

	cutoff := time.Date(2025, 4, 16, 9, 50, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("SET status = 'offline'")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	swept, err := repo.MarkOfflineStaleSince(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("MarkOfflineStaleSince: %v", err)
	}
	if swept != 2 {
		t.Fatalf("expected 2 rows, got %d", swept)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTouchLastSync(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTruckRepository(db)

	at := time.Date(2025, 4, 16, 6, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("SET last_sync_at = $1")).
		WithArgs(at, "truck-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.TouchLastSync(context.Background(), "truck-1", at); err != nil {
		t.Fatalf("TouchLastSync: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByControllerID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTruckRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "city_id", "truck_number", "route_name", "controller_id", "status",
		"last_heartbeat_at", "last_sync_at", "gps_lat", "gps_lng", "storage_mb",
		"battery_percent", "telemetry", "player_status", "error_logs",
		"created_at", "updated_at",
	}).AddRow("truck-1", "city-1", "TS-09-AB-1234", "Hitech City Loop", "ctrl-1", "online",
		nil, nil, 17.4, 78.4, 512.0, 90.0,
		[]byte(`{"cpu_usage":42}`), []byte(`{"status":"playing"}`), []byte(`[]`),
		now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE controller_id = $1")).
		WithArgs("ctrl-1").
		WillReturnRows(rows)

	truck, err := repo.GetByControllerID(context.Background(), "ctrl-1")
	if err != nil {
		t.Fatalf("GetByControllerID: %v", err)
	}
	if truck.TruckNumber != "TS-09-AB-1234" {
		t.Fatalf("unexpected truck: %+v", truck)
	}
	if truck.Telemetry.CPUUsage != 42 {
		t.Fatalf("telemetry not scanned: %+v", truck.Telemetry)
	}
	if truck.PlayerStatus.Status != models.PlayerStatePlaying {
		t.Fatalf("player status not scanned: %+v", truck.PlayerStatus)
	}
}
