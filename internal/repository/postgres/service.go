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

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (
			id, salon_id, name, description, price, duration,
			is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	svc.ID = uuid.New()
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.SalonID,
		svc.Name,
		svc.Description,
		svc.Price,
		svc.Duration,
		svc.IsDeleted,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, salonID, serviceID uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, salon_id, name, description, price, duration,
			   is_deleted, created_at, updated_at
		FROM services
		WHERE id = $1 AND salon_id = $2 AND is_deleted = FALSE
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, serviceID, salonID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, salon_id, name, description, price, duration,
			   is_deleted, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, serviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) ListActive(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	return r.list(ctx, salonID, true)
}

func (r *serviceRepository) ListAll(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	return r.list(ctx, salonID, false)
}

func (r *serviceRepository) list(ctx context.Context, salonID uuid.UUID, activeOnly bool) ([]*model.Service, error) {
	query := `
		SELECT id, salon_id, name, description, price, duration,
			   is_deleted, created_at, updated_at
		FROM services
		WHERE salon_id = $1
	`
	if activeOnly {
		query += " AND is_deleted = FALSE"
	}
	query += " ORDER BY created_at ASC"

	var services []*model.Service
	err := r.db.SelectContext(ctx, &services, query, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price = $3, duration = $4, updated_at = $5
		WHERE id = $6 AND salon_id = $7 AND is_deleted = FALSE
	`
	svc.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		svc.Name,
		svc.Description,
		svc.Price,
		svc.Duration,
		svc.UpdatedAt,
		svc.ID,
		svc.SalonID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	return requireRow(result)
}

func (r *serviceRepository) SoftDelete(ctx context.Context, salonID, serviceID uuid.UUID) error {
	query := `
		UPDATE services
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND salon_id = $3 AND is_deleted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), serviceID, salonID)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return requireRow(result)
}
