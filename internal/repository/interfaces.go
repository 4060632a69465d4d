package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
)

// Sentinel errors returned by repositories. Services translate these
// into the caller-facing error kinds.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrSlotTaken is returned by the scheduling writes when the
	// conflict re-check under lock finds the slot occupied.
	ErrSlotTaken = errors.New("time slot is already booked")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type TokenRepository interface {
	StoreResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken deletes a live token and returns its owner.
	// Expired or unknown tokens yield ErrNotFound.
	ConsumeResetToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
}

type SalonFilter struct {
	Status *model.SalonStatus
}

type SalonRepository interface {
	Create(ctx context.Context, salon *model.Salon) error
	Get(ctx context.Context, id uuid.UUID) (*model.Salon, error)
	List(ctx context.Context, filter SalonFilter) ([]*model.Salon, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SalonStatus) error
	UpdateWorkingHours(ctx context.Context, id uuid.UUID, hours model.WorkingHours) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddHoliday(ctx context.Context, holiday *model.Holiday) error
	ListHolidays(ctx context.Context, salonID uuid.UUID) ([]*model.Holiday, error)
	DeleteHoliday(ctx context.Context, salonID, holidayID uuid.UUID) error
}

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	// Get returns an active (non-deleted) service scoped to the salon.
	Get(ctx context.Context, salonID, serviceID uuid.UUID) (*model.Service, error)
	// GetByID looks a service up regardless of deletion; reschedule
	// still needs the duration of a service retired after booking.
	GetByID(ctx context.Context, serviceID uuid.UUID) (*model.Service, error)
	ListActive(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error)
	ListAll(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error)
	Update(ctx context.Context, svc *model.Service) error
	SoftDelete(ctx context.Context, salonID, serviceID uuid.UUID) error
}

type BookingRepository interface {
	// CreateScheduled inserts the booking inside a transaction holding
	// an advisory lock on (salon, day) and re-running the conflict
	// predicate; returns ErrSlotTaken when the slot is occupied.
	CreateScheduled(ctx context.Context, booking *model.Booking) error
	// Reschedule replaces date/time fields and resets status under the
	// same lock discipline, excluding the booking's own row from the
	// conflict predicate.
	Reschedule(ctx context.Context, booking *model.Booking) error

	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error

	// HasConflict reports whether any non-cancelled booking for the
	// salon on the given calendar day overlaps [start, end).
	HasConflict(ctx context.Context, salonID uuid.UUID, day time.Time, start, end string, excludeID *uuid.UUID) (bool, error)

	ListByCustomer(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error)
	ListBySalon(ctx context.Context, salonID uuid.UUID) ([]*model.BookingDetail, error)
	SummaryBySalon(ctx context.Context, salonID uuid.UUID) (*model.BookingSummary, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
