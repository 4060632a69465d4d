package catalog

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

// Service manages a salon's bookable catalog. Deletion is soft: retired
// entries disappear from listings but keep their row so historical
// bookings can still resolve name and duration.
type Service struct {
	services repository.ServiceRepository
	salons   repository.SalonRepository
	clock    clock.Clock
	logger   *logger.Logger
}

func NewService(
	services repository.ServiceRepository,
	salons repository.SalonRepository,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		services: services,
		salons:   salons,
		clock:    clk,
		logger:   log,
	}
}

func (s *Service) Create(ctx context.Context, actor model.Actor, salonID uuid.UUID, req *model.CreateServiceRequest) (*model.Service, error) {
	if _, err := s.ownedSalon(ctx, actor, salonID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	svc := &model.Service{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SalonID:     salonID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, errors.Internal(err)
	}

	s.logger.Info("service created", "service_id", svc.ID, "salon_id", salonID)
	return svc, nil
}

// List returns the active catalog, the only view customers see.
func (s *Service) List(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	services, err := s.services.ListActive(ctx, salonID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return services, nil
}

// ListAll returns active and retired entries with counts, for the
// owner's management view.
func (s *Service) ListAll(ctx context.Context, actor model.Actor, salonID uuid.UUID) (*model.ServiceCatalog, error) {
	if _, err := s.ownedSalon(ctx, actor, salonID); err != nil {
		return nil, err
	}

	services, err := s.services.ListAll(ctx, salonID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	catalog := &model.ServiceCatalog{Services: services}
	for _, svc := range services {
		if svc.IsDeleted {
			catalog.DeletedCount++
		} else {
			catalog.ActiveCount++
		}
	}
	return catalog, nil
}

func (s *Service) Get(ctx context.Context, salonID, serviceID uuid.UUID) (*model.Service, error) {
	svc, err := s.services.Get(ctx, salonID, serviceID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return svc, nil
}

// Update applies a partial update; nil fields keep their value.
func (s *Service) Update(ctx context.Context, actor model.Actor, salonID, serviceID uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	if _, err := s.ownedSalon(ctx, actor, salonID); err != nil {
		return nil, err
	}

	svc, err := s.services.Get(ctx, salonID, serviceID)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.Validation("price cannot be negative")
		}
		svc.Price = *req.Price
	}
	if req.Duration != nil {
		if *req.Duration < 1 {
			return nil, errors.Validation("duration must be at least one minute")
		}
		svc.Duration = *req.Duration
	}
	svc.UpdatedAt = s.clock.Now()

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, s.mapRepoErr(err)
	}
	return svc, nil
}

// Delete retires the service from the catalog. Existing bookings keep
// their slot; only new bookings are prevented.
func (s *Service) Delete(ctx context.Context, actor model.Actor, salonID, serviceID uuid.UUID) error {
	if _, err := s.ownedSalon(ctx, actor, salonID); err != nil {
		return err
	}
	if err := s.services.SoftDelete(ctx, salonID, serviceID); err != nil {
		return s.mapRepoErr(err)
	}
	s.logger.Info("service retired", "service_id", serviceID, "salon_id", salonID)
	return nil
}

func (s *Service) ownedSalon(ctx context.Context, actor model.Actor, salonID uuid.UUID) (*model.Salon, error) {
	salon, err := s.salons.Get(ctx, salonID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("salon")
		}
		return nil, errors.Internal(err)
	}
	if actor.Role != model.RoleAdmin && salon.OwnerID != actor.UserID {
		return nil, errors.Forbidden("you do not own this salon")
	}
	return salon, nil
}

func (s *Service) mapRepoErr(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("service")
	}
	return errors.Internal(err)
}
