package model

import (
	"time"
)

// Base contains common fields for the /api/v1 entities
type Base struct {
	ID        int64      `json:"id" db:"id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}
