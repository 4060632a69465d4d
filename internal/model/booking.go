package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking holds a slot reservation. BookingDate is a calendar date
// (time-of-day is normalized to midnight); StartTime and EndTime are
// zero-padded 24-hour "HH:MM" wall-clock strings, with EndTime always
// derived from the service duration.
type Booking struct {
	Base
	UserID      uuid.UUID     `db:"user_id" json:"user_id"`
	SalonID     uuid.UUID     `db:"salon_id" json:"salon_id"`
	ServiceID   uuid.UUID     `db:"service_id" json:"service_id"`
	BookingDate time.Time     `db:"booking_date" json:"booking_date"`
	StartTime   string        `db:"start_time" json:"start_time"`
	EndTime     string        `db:"end_time" json:"end_time"`
	Status      BookingStatus `db:"status" json:"status"`
	Notes       string        `db:"notes" json:"notes,omitempty"`
}

// BookingDetail is a booking joined with salon and service summary
// fields for list/detail responses.
type BookingDetail struct {
	Booking
	SalonName       string  `db:"salon_name" json:"salon_name"`
	SalonLocation   string  `db:"salon_location" json:"salon_location"`
	ServiceName     string  `db:"service_name" json:"service_name"`
	ServicePrice    float64 `db:"service_price" json:"service_price"`
	ServiceDuration int     `db:"service_duration" json:"service_duration"`
	CustomerName    string  `db:"customer_name" json:"customer_name"`
}

// BookingSummary counts a salon's bookings by status.
type BookingSummary struct {
	Pending   int `db:"pending" json:"pending"`
	Confirmed int `db:"confirmed" json:"confirmed"`
	Completed int `db:"completed" json:"completed"`
	Cancelled int `db:"cancelled" json:"cancelled"`
}

type CreateBookingRequest struct {
	SalonID     uuid.UUID `json:"salon_id" binding:"required"`
	ServiceID   uuid.UUID `json:"service_id" binding:"required"`
	BookingDate string    `json:"booking_date" binding:"required"`
	StartTime   string    `json:"start_time" binding:"required,hhmm"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

type RescheduleBookingRequest struct {
	BookingDate string `json:"new_booking_date" binding:"required"`
	StartTime   string `json:"new_start_time" binding:"required,hhmm"`
}

type RejectBookingRequest struct {
	Reason string `json:"rejection_reason"`
}
