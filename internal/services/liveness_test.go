package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type fakeTruckRepo struct {
	interfaces.TruckRepository
	heartbeats  []interfaces.HeartbeatUpdate
	sweepCutoff time.Time
	swept       int64
}

func (f *fakeTruckRepo) ApplyHeartbeat(_ context.Context, _ string, hb interfaces.HeartbeatUpdate) error {
	f.heartbeats = append(f.heartbeats, hb)
	return nil
}

func (f *fakeTruckRepo) MarkOfflineStaleSince(_ context.Context, cutoff time.Time) (int64, error) {
	f.sweepCutoff = cutoff
	return f.swept, nil
}

func TestIsOnline(t *testing.T) {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewLivenessTracker(&fakeTruckRepo{}, func() time.Time { return now })

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"never heartbeated", nil, false},
		{"one minute ago", timePtr(now.Add(-time.Minute)), true},
		{"nine minutes ago", timePtr(now.Add(-9 * time.Minute)), true},
		{"exactly ten minutes ago", timePtr(now.Add(-10 * time.Minute)), false},
		{"eleven minutes ago", timePtr(now.Add(-11 * time.Minute)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			truck := &models.Truck{LastHeartbeatAt: tt.last}
			assert.Equal(t, tt.want, tracker.IsOnline(truck))
		})
	}
}

func TestRecordHeartbeat(t *testing.T) {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeTruckRepo{}
	tracker := NewLivenessTracker(repo, func() time.Time { return now })

	lat, battery := 17.4, 82.0
	req := &models.HeartbeatRequest{
		GPSLat:         &lat,
		BatteryPercent: &battery,
		Telemetry:      &models.Telemetry{CPUUsage: 40},
		Errors: []models.HeartbeatError{
			{Message: "sd card slow"},
			{Level: "error", Message: "player crashed"},
		},
	}
	truck := &models.Truck{ID: "truck-1"}

	require.NoError(t, tracker.RecordHeartbeat(context.Background(), truck, req))
	require.Len(t, repo.heartbeats, 1)

	hb := repo.heartbeats[0]
	assert.Equal(t, now, hb.At)
	assert.Equal(t, &lat, hb.GPSLat)
	assert.Nil(t, hb.GPSLng)
	assert.Equal(t, &battery, hb.BatteryPercent)

	require.NotNil(t, hb.Telemetry)
	assert.Equal(t, 40.0, hb.Telemetry.CPUUsage)
	require.NotNil(t, hb.Telemetry.LastUpdated)
	assert.Equal(t, now, *hb.Telemetry.LastUpdated)

	require.Len(t, hb.ErrorLogs, 2)
	assert.Equal(t, "info", hb.ErrorLogs[0].Level) // missing level defaults
	assert.Equal(t, "error", hb.ErrorLogs[1].Level)
	assert.Equal(t, now, hb.ErrorLogs[0].Time)
}

func TestRecordHeartbeatBoundsErrorLog(t *testing.T) {
	now := time.Now()
	repo := &fakeTruckRepo{}
	tracker := NewLivenessTracker(repo, func() time.Time { return now })

	existing := make(models.ErrorLogs, maxErrorLogEntries)
	for i := range existing {
		existing[i] = models.ErrorLogEntry{Level: "info", Message: "old"}
	}
	truck := &models.Truck{ID: "truck-1", ErrorLogs: existing}

	req := &models.HeartbeatRequest{
		Errors: []models.HeartbeatError{{Level: "error", Message: "new"}},
	}
	require.NoError(t, tracker.RecordHeartbeat(context.Background(), truck, req))

	logs := repo.heartbeats[0].ErrorLogs
	require.Len(t, logs, maxErrorLogEntries)
	assert.Equal(t, "new", logs[maxErrorLogEntries-1].Message) // oldest dropped
	assert.Equal(t, "old", logs[0].Message)
}

func TestRecordHeartbeatLeavesErrorLogAloneWhenEmpty(t *testing.T) {
	repo := &fakeTruckRepo{}
	tracker := NewLivenessTracker(repo, nil)

	truck := &models.Truck{ID: "truck-1", ErrorLogs: models.ErrorLogs{{Message: "old"}}}
	require.NoError(t, tracker.RecordHeartbeat(context.Background(), truck, &models.HeartbeatRequest{}))
	assert.Nil(t, repo.heartbeats[0].ErrorLogs)
}

// A truck whose heartbeat aged out reads offline before any sweep runs, the
// sweep persists that state, and a fresh heartbeat brings it back.
func TestLivenessConvergence(t *testing.T) {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeTruckRepo{swept: 1}
	tracker := NewLivenessTracker(repo, func() time.Time { return now })

	truck := &models.Truck{
		ID:              "truck-1",
		Status:          models.TruckStatusOnline, // stale column
		LastHeartbeatAt: timePtr(now.Add(-11 * time.Minute)),
	}

	// Derived state is already offline even though the column says online.
	assert.False(t, tracker.IsOnline(truck))

	swept, err := tracker.SweepStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)
	assert.Equal(t, now.Add(-HeartbeatWindow), repo.sweepCutoff)

	// A new heartbeat flips it back.
	require.NoError(t, tracker.RecordHeartbeat(context.Background(), truck, &models.HeartbeatRequest{}))
	hb := repo.heartbeats[0]
	truck.LastHeartbeatAt = &hb.At
	assert.True(t, tracker.IsOnline(truck))
}

func timePtr(t time.Time) *time.Time { return &t }
