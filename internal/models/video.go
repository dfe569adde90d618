package models

import "time"

type VideoStatus string

const (
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusFailed     VideoStatus = "failed"
)

type Video struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	ObjectKey   string      `json:"object_key"` // S3 key; empty for externally hosted videos
	URL         string      `json:"url"`
	Checksum    string      `json:"checksum"`
	DurationSec float64     `json:"duration_sec"`
	SizeBytes   int64       `json:"size_bytes"`
	Status      VideoStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
