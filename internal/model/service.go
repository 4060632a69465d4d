package model

import (
	"github.com/google/uuid"
)

// Service is a bookable catalog entry. Duration drives end-time
// computation for bookings; soft-deleted services are treated as
// not-found for booking purposes.
type Service struct {
	Base
	SalonID     uuid.UUID `db:"salon_id" json:"salon_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Duration    int       `db:"duration" json:"duration"`
	IsDeleted   bool      `db:"is_deleted" json:"is_deleted"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Duration    int     `json:"duration" binding:"required,min=1"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
}

type ServiceCatalog struct {
	Services     []*Service `json:"services"`
	ActiveCount  int        `json:"active_count"`
	DeletedCount int        `json:"deleted_count"`
}
