package entity

import (
	"time"

	"github.com/google/uuid"
)

// Court is an entry of the court registry. Name is unique and is the canonical display form.
type Court struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	District  *string   `json:"district,omitempty"`
	Type      *string   `json:"type,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Contact   *string   `json:"contact,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
