package models

import "github.com/google/uuid"

// SortItem is one (id, sortOrder) pair of a reorder batch.
type SortItem struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	SortOrder int       `json:"sortOrder" validate:"gte=0"`
}
