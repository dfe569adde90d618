package interfaces

import (
	"context"

	"fleetboard/internal/models"
)

// VideoRepository defines the interface for video metadata operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, limit, offset int) ([]*models.Video, error)
}
