package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

const bookingColumns = `
	id, user_id, salon_id, service_id, booking_date,
	start_time, end_time, status, notes, created_at, updated_at
`

const bookingDetailColumns = `
	b.id, b.user_id, b.salon_id, b.service_id, b.booking_date,
	b.start_time, b.end_time, b.status, b.notes, b.created_at, b.updated_at,
	sl.name AS salon_name, sl.location AS salon_location,
	sv.name AS service_name, sv.price AS service_price, sv.duration AS service_duration,
	u.first_name AS customer_name
`

const bookingDetailJoins = `
	FROM bookings b
	JOIN salons sl ON sl.id = b.salon_id
	JOIN services sv ON sv.id = b.service_id
	JOIN users u ON u.id = b.user_id
`

// conflictPredicate is the half-open interval overlap check:
// [s1,e1) and [s2,e2) conflict iff s1 < e2 AND e1 > s2. Slots that
// merely touch do not conflict. booking_date is compared as a calendar
// day via the [day, day+24h) range, and cancelled bookings never block.
const conflictPredicate = `
	salon_id = $1
	AND booking_date >= $2 AND booking_date < $3
	AND status <> 'cancelled'
	AND start_time < $4 AND end_time > $5
`

// dayRange bounds a calendar day regardless of the time-of-day stored
// on the incoming value.
func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.Add(24 * time.Hour)
}

func (r *bookingRepository) HasConflict(ctx context.Context, salonID uuid.UUID, day time.Time, start, end string, excludeID *uuid.UUID) (bool, error) {
	dayStart, dayEnd := dayRange(day)

	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE` + conflictPredicate
	args := []interface{}{salonID, dayStart, dayEnd, end, start}

	if excludeID != nil {
		query += " AND id <> $6"
		args = append(args, *excludeID)
	}
	query += ")"

	var hasConflict bool
	if err := r.db.GetContext(ctx, &hasConflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return hasConflict, nil
}

// lockSlot serializes scheduling writes for one salon/day pair. The
// advisory lock is transaction-scoped, so concurrent create/reschedule
// requests for the same salon and day cannot both pass the conflict
// re-check before either write commits.
func lockSlot(ctx context.Context, tx *sqlx.Tx, salonID uuid.UUID, dayStart time.Time) error {
	_, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`,
		salonID.String(), dayStart.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return nil
}

func (r *bookingRepository) CreateScheduled(ctx context.Context, booking *model.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dayStart, dayEnd := dayRange(booking.BookingDate)
	if err := lockSlot(ctx, tx, booking.SalonID, dayStart); err != nil {
		return err
	}

	var taken bool
	err = tx.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE`+conflictPredicate+`)`,
		booking.SalonID, dayStart, dayEnd, booking.EndTime, booking.StartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	if taken {
		return repository.ErrSlotTaken
	}

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		booking.ID,
		booking.UserID,
		booking.SalonID,
		booking.ServiceID,
		dayStart,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.BookingDate = dayStart

	return tx.Commit()
}

func (r *bookingRepository) Reschedule(ctx context.Context, booking *model.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dayStart, dayEnd := dayRange(booking.BookingDate)
	if err := lockSlot(ctx, tx, booking.SalonID, dayStart); err != nil {
		return err
	}

	var taken bool
	err = tx.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE`+conflictPredicate+` AND id <> $6)`,
		booking.SalonID, dayStart, dayEnd, booking.EndTime, booking.StartTime, booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	if taken {
		return repository.ErrSlotTaken
	}

	booking.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET booking_date = $1, start_time = $2, end_time = $3, status = $4, updated_at = $5
		WHERE id = $6
	`,
		dayStart,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to reschedule booking: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}
	booking.BookingDate = dayStart

	return tx.Commit()
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT` + bookingColumns + `FROM bookings WHERE id = $1`

	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	query := `SELECT` + bookingDetailColumns + bookingDetailJoins + `WHERE b.id = $1`

	var detail model.BookingDetail
	err := r.db.GetContext(ctx, &detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking detail: %w", err)
	}
	return &detail, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return requireRow(result)
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error) {
	query := `SELECT` + bookingDetailColumns + bookingDetailJoins + `
		WHERE b.user_id = $1
		ORDER BY b.booking_date DESC, b.start_time DESC
	`
	var bookings []*model.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list customer bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]*model.BookingDetail, error) {
	query := `SELECT` + bookingDetailColumns + bookingDetailJoins + `
		WHERE b.salon_id = $1
		ORDER BY b.booking_date DESC, b.start_time DESC
	`
	var bookings []*model.BookingDetail
	if err := r.db.SelectContext(ctx, &bookings, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to list salon bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) SummaryBySalon(ctx context.Context, salonID uuid.UUID) (*model.BookingSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending')   AS pending,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM bookings
		WHERE salon_id = $1
	`
	var summary model.BookingSummary
	if err := r.db.GetContext(ctx, &summary, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to summarize salon bookings: %w", err)
	}
	return &summary, nil
}
