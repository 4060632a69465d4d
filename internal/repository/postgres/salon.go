package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

func (r *salonRepository) Create(ctx context.Context, salon *model.Salon) error {
	query := `
		INSERT INTO salons (
			id, name, location, phone, email, description,
			status, owner_id, working_hours, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	salon.ID = uuid.New()
	salon.CreatedAt = time.Now()
	salon.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		salon.ID,
		salon.Name,
		salon.Location,
		salon.Phone,
		salon.Email,
		salon.Description,
		salon.Status,
		salon.OwnerID,
		salon.WorkingHours,
		salon.CreatedAt,
		salon.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create salon: %w", err)
	}
	return nil
}

func (r *salonRepository) Get(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	query := `
		SELECT id, name, location, phone, email, description,
			   status, owner_id, working_hours, created_at, updated_at
		FROM salons
		WHERE id = $1
	`
	var salon model.Salon
	err := r.db.GetContext(ctx, &salon, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return &salon, nil
}

func (r *salonRepository) List(ctx context.Context, filter repository.SalonFilter) ([]*model.Salon, error) {
	query := `
		SELECT id, name, location, phone, email, description,
			   status, owner_id, working_hours, created_at, updated_at
		FROM salons
	`
	args := []interface{}{}
	if filter.Status != nil {
		query += " WHERE status = $1"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY created_at DESC"

	var salons []*model.Salon
	err := r.db.SelectContext(ctx, &salons, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salons: %w", err)
	}
	return salons, nil
}

func (r *salonRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SalonStatus) error {
	query := `
		UPDATE salons
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update salon status: %w", err)
	}
	return requireRow(result)
}

func (r *salonRepository) UpdateWorkingHours(ctx context.Context, id uuid.UUID, hours model.WorkingHours) error {
	query := `
		UPDATE salons
		SET working_hours = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, hours, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update working hours: %w", err)
	}
	return requireRow(result)
}

func (r *salonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM salons
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete salon: %w", err)
	}
	return requireRow(result)
}

func (r *salonRepository) AddHoliday(ctx context.Context, holiday *model.Holiday) error {
	query := `
		INSERT INTO salon_holidays (id, salon_id, holiday_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	holiday.ID = uuid.New()
	holiday.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		holiday.ID,
		holiday.SalonID,
		holiday.Date,
		holiday.Description,
		holiday.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add holiday: %w", err)
	}
	return nil
}

func (r *salonRepository) ListHolidays(ctx context.Context, salonID uuid.UUID) ([]*model.Holiday, error) {
	query := `
		SELECT id, salon_id, holiday_date, description, created_at
		FROM salon_holidays
		WHERE salon_id = $1
		ORDER BY holiday_date ASC
	`
	var holidays []*model.Holiday
	err := r.db.SelectContext(ctx, &holidays, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

func (r *salonRepository) DeleteHoliday(ctx context.Context, salonID, holidayID uuid.UUID) error {
	query := `
		DELETE FROM salon_holidays
		WHERE id = $1 AND salon_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, holidayID, salonID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return requireRow(result)
}

// requireRow converts a zero-row update/delete into ErrNotFound.
func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
