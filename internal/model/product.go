package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a sellable item in the catalogue.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Stock       int        `json:"stock" db:"stock"`
	CategoryID  *uuid.UUID `json:"-" db:"category_id"`
	Category    *Category  `json:"category,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedBy   uuid.UUID  `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// ProductInput carries the fields of a product create or update,
// parsed from the multipart form. Nil means the field was absent;
// updates keep the existing value for absent fields. Image bytes
// travel separately.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}
