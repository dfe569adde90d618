// internal/interfaces/campaign_repository.go
package interfaces

import (
	"context"
	"time"

	"fleetboard/internal/models"
)

// CampaignFilter defines the filter criteria for listing campaigns
type CampaignFilter struct {
	TruckID   string
	Status    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	List(ctx context.Context, filter CampaignFilter) ([]*models.Campaign, error)
	Update(ctx context.Context, id string, campaign *models.Campaign) error
	UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error

	// CountActiveOverlapping counts active campaigns on the truck whose
	// [start_date, end_date] interval intersects [from, to]. excludeID, when
	// non-empty, skips the campaign being updated.
	CountActiveOverlapping(ctx context.Context, truckID string, from, to time.Time, excludeID string) (int, error)

	// ListActiveOn returns active campaigns playing on the given day,
	// ordered by play_order ascending.
	ListActiveOn(ctx context.Context, truckID string, date time.Time) ([]*models.Campaign, error)

	// ExpireEndedBefore flips active campaigns whose end_date is before the
	// cutoff to expired and reports how many rows changed.
	ExpireEndedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
