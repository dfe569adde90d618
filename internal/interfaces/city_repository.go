package interfaces

import (
	"context"

	"fleetboard/internal/models"
)

// CityRepository defines the interface for city data operations
type CityRepository interface {
	Create(ctx context.Context, city *models.City) error
	GetByID(ctx context.Context, id string) (*models.City, error)
	List(ctx context.Context) ([]*models.City, error)
}
