package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type TruckStatus string

const (
	TruckStatusOnline  TruckStatus = "online"
	TruckStatusOffline TruckStatus = "offline"
)

type Truck struct {
	ID              string       `json:"id"`
	CityID          string       `json:"city_id"`
	TruckNumber     string       `json:"truck_number"` // used as business key
	RouteName       string       `json:"route_name"`
	ControllerID    string       `json:"controller_id"` // hardware device id
	Status          TruckStatus  `json:"status"`
	LastHeartbeatAt *time.Time   `json:"last_heartbeat_at"`
	LastSyncAt      *time.Time   `json:"last_sync_at"`
	GPSLat          float64      `json:"gps_lat"`
	GPSLng          float64      `json:"gps_lng"`
	StorageMB       float64      `json:"storage_mb"`
	BatteryPercent  float64      `json:"battery_percent"`
	Telemetry       Telemetry    `json:"telemetry"`
	PlayerStatus    PlayerStatus `json:"player_status"`
	ErrorLogs       ErrorLogs    `json:"error_logs"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Telemetry struct {
	UptimeSec   int64      `json:"uptime"`
	CPUUsage    float64    `json:"cpu_usage"`
	MemoryUsage float64    `json:"memory_usage"`
	DiskFree    float64    `json:"disk_free"`
	NetworkRSSI int        `json:"network_rssi"`
	Temperature float64    `json:"temperature"`
	LastUpdated *time.Time `json:"last_updated"`
}

type PlayerState string

const (
	PlayerStatePlaying PlayerState = "playing"
	PlayerStatePaused  PlayerState = "paused"
	PlayerStateStopped PlayerState = "stopped"
	PlayerStateError   PlayerState = "error"
)

type PlayerStatus struct {
	Status          PlayerState `json:"status"`
	CurrentItem     string      `json:"current_item"`
	PositionSec     float64     `json:"position_sec"`
	PlaylistVersion string      `json:"playlist_version"`
}

type ErrorLogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"` // info, warning, error, critical
	Message string    `json:"message"`
}

type ErrorLogs []ErrorLogEntry

// Value implements driver.Valuer for JSONB serialization
func (t Telemetry) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for JSONB deserialization
func (t *Telemetry) Scan(value interface{}) error {
	if value == nil {
		*t = Telemetry{}
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, t)
	}
	return nil
}

// Value implements driver.Valuer for JSONB serialization
func (p PlayerStatus) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB deserialization
func (p *PlayerStatus) Scan(value interface{}) error {
	if value == nil {
		*p = PlayerStatus{Status: PlayerStateStopped}
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, p)
	}
	return nil
}

// Value implements driver.Valuer for JSONB serialization
func (e ErrorLogs) Value() (driver.Value, error) {
	if e == nil {
		e = ErrorLogs{}
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for JSONB deserialization
func (e *ErrorLogs) Scan(value interface{}) error {
	if value == nil {
		*e = ErrorLogs{}
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, e)
	}
	return nil
}

type CreateTruckRequest struct {
	CityID       string `json:"city_id" validate:"required,uuid4"`
	TruckNumber  string `json:"truck_number" validate:"required"`
	RouteName    string `json:"route_name" validate:"required"`
	ControllerID string `json:"controller_id" validate:"required"`
}

type UpdateTruckRequest struct {
	CityID      *string `json:"city_id,omitempty" validate:"omitempty,uuid4"`
	TruckNumber *string `json:"truck_number,omitempty"`
	RouteName   *string `json:"route_name,omitempty"`
}

// HeartbeatRequest is the payload truck hardware posts periodically.
type HeartbeatRequest struct {
	GPSLat         *float64           `json:"gps_lat,omitempty"`
	GPSLng         *float64           `json:"gps_lng,omitempty"`
	StorageMB      *float64           `json:"storage_mb,omitempty"`
	BatteryPercent *float64           `json:"battery_percent,omitempty" validate:"omitempty,min=0,max=100"`
	Telemetry      *Telemetry         `json:"telemetry,omitempty"`
	PlayerStatus   *PlayerStatus      `json:"player_status,omitempty"`
	Errors         []HeartbeatError   `json:"errors,omitempty" validate:"omitempty,dive"`
}

type HeartbeatError struct {
	Level   string `json:"level" validate:"omitempty,oneof=info warning error critical"`
	Message string `json:"message" validate:"required"`
}
