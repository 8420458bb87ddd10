package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a registered delivery vehicle.
type Vehicle struct {
	ID        uuid.UUID `json:"id"`
	Plate     string    `json:"plate"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
