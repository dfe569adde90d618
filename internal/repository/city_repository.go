package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

type cityRepository struct {
	db *sql.DB
}

func NewCityRepository(db *sql.DB) interfaces.CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) Create(ctx context.Context, city *models.City) error {
	query := `
		INSERT INTO cities (name, state) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, city.Name, city.State).
		Scan(&city.ID, &city.CreatedAt, &city.UpdatedAt)
}

func (r *cityRepository) GetByID(ctx context.Context, id string) (*models.City, error) {
	query := `SELECT id, name, state, created_at, updated_at FROM cities WHERE id = $1`

	var city models.City
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&city.ID, &city.Name, &city.State, &city.CreatedAt, &city.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get city: %w", err)
	}
	return &city, nil
}

func (r *cityRepository) List(ctx context.Context) ([]*models.City, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, state, created_at, updated_at FROM cities ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var cities []*models.City
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Name, &city.State, &city.CreatedAt, &city.UpdatedAt); err != nil {
			return nil, err
		}
		cities = append(cities, &city)
	}
	return cities, rows.Err()
}
