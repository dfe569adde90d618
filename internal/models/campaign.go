// internal/models/campaign.go
package models

import "time"

type PackageType string

const (
	PackageHalfMonth PackageType = "half_month"
	PackageFullMonth PackageType = "full_month"
)

type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusExpired   CampaignStatus = "expired"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// BookingCycle is derived metadata fixed at admission time.
// CycleNumber is 1 for the 1st-15th half and 2 for the 16th-30th half.
type BookingCycle struct {
	CycleNumber int `json:"cycle_number"`
	Month       int `json:"month"`
	Year        int `json:"year"`
}

type Campaign struct {
	ID           string         `json:"id"`
	TruckID      string         `json:"truck_id"`
	Name         string         `json:"name"`
	Company      string         `json:"company"`
	VideoID      string         `json:"video_id"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	PackageType  PackageType    `json:"package_type"`
	PlayOrder    int            `json:"play_order"`
	Status       CampaignStatus `json:"status"`
	BookingCycle BookingCycle   `json:"booking_cycle"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type CreateCampaignRequest struct {
	TruckID     string      `json:"truck_id" validate:"required,uuid4"`
	Name        string      `json:"name" validate:"required"`
	Company     string      `json:"company" validate:"required"`
	VideoID     string      `json:"video_id" validate:"required,uuid4"`
	StartDate   time.Time   `json:"start_date" validate:"required"`
	PackageType PackageType `json:"package_type" validate:"required,oneof=half_month full_month"`
	PlayOrder   int         `json:"play_order" validate:"required,min=1,max=7"`
}

type UpdateCampaignRequest struct {
	Name        *string      `json:"name,omitempty"`
	Company     *string      `json:"company,omitempty"`
	VideoID     *string      `json:"video_id,omitempty" validate:"omitempty,uuid4"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	PackageType *PackageType `json:"package_type,omitempty" validate:"omitempty,oneof=half_month full_month"`
	PlayOrder   *int         `json:"play_order,omitempty" validate:"omitempty,min=1,max=7"`
}
