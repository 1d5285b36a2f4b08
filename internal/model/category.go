package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the catalogue. Categories referenced by
// name from product writes are created on first use.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CategoryRequest represents the payload for creating a category.
type CategoryRequest struct {
	Name string `json:"name"`
}
