package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type PushStatus string

const (
	PushStatusPending PushStatus = "pending"
	PushStatusSynced  PushStatus = "synced"
	PushStatusFailed  PushStatus = "failed"
)

// PlaylistItem is one entry the truck player loops through.
type PlaylistItem struct {
	ID        string  `json:"id"` // campaign id
	Type      string  `json:"type"`
	URL       string  `json:"url"`
	Checksum  string  `json:"checksum"`
	Duration  float64 `json:"duration"`
	Loop      bool    `json:"loop"`
	PlayOrder int     `json:"play_order"`
}

type PlaylistItems []PlaylistItem

// Value implements driver.Valuer for JSONB serialization
func (p PlaylistItems) Value() (driver.Value, error) {
	if p == nil {
		p = PlaylistItems{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB deserialization
func (p *PlaylistItems) Scan(value interface{}) error {
	if value == nil {
		*p = PlaylistItems{}
		return nil
	}
	if bytes, ok := value.([]byte); ok {
		return json.Unmarshal(bytes, p)
	}
	return nil
}

// Playlist is unique per (truck, date). Regeneration replaces Items
// wholesale and produces a new Version.
type Playlist struct {
	ID         string        `json:"id"`
	TruckID    string        `json:"truck_id"`
	Date       time.Time     `json:"date"`
	Items      PlaylistItems `json:"playlist_data"`
	Version    string        `json:"version"`
	PushStatus PushStatus    `json:"push_status"`
	PushedAt   *time.Time    `json:"pushed_at"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
