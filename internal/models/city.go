package models

import "time"

type City struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCityRequest struct {
	Name  string `json:"name" validate:"required"`
	State string `json:"state" validate:"required"`
}
