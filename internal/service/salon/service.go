package salon

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/booking"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

const (
	dateLayout = "2006-01-02"

	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type Service struct {
	salons repository.SalonRepository
	clock  clock.Clock
	logger *logger.Logger

	// cache holds salon records keyed by id; every mutation drops the
	// entry so reads after a write see fresh status.
	cache *gocache.Cache
}

func NewService(salons repository.SalonRepository, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{
		salons: salons,
		clock:  clk,
		logger: log,
		cache:  gocache.New(cacheTTL, cacheCleanup),
	}
}

// Create registers a salon for the acting owner. New salons start
// pending and stay invisible to customers until an admin approves them.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateSalonRequest) (*model.Salon, error) {
	if actor.Role != model.RoleSalonOwner {
		return nil, errors.Forbidden("only salon owners can register salons")
	}

	now := s.clock.Now()
	salon := &model.Salon{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Location:    req.Location,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		Status:      model.SalonStatusPending,
		OwnerID:     actor.UserID,
	}

	if err := s.salons.Create(ctx, salon); err != nil {
		return nil, errors.Internal(err)
	}

	s.logger.Info("salon registered", "salon_id", salon.ID, "owner_id", actor.UserID)
	return salon, nil
}

// List returns approved salons only; pending and blocked salons never
// appear in the public directory.
func (s *Service) List(ctx context.Context) ([]*model.Salon, error) {
	status := model.SalonStatusApproved
	salons, err := s.salons.List(ctx, repository.SalonFilter{Status: &status})
	if err != nil {
		return nil, errors.Internal(err)
	}
	return salons, nil
}

// Get returns a salon visible to the actor: approved salons are public,
// pending and blocked ones only their owner or an admin can see.
func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Salon, error) {
	salon, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if salon.Status != model.SalonStatusApproved && !s.canManage(actor, salon) {
		return nil, errors.NotFound("salon")
	}
	return salon, nil
}

// ListOwned returns the acting owner's salons in every status.
func (s *Service) ListOwned(ctx context.Context, actor model.Actor) ([]*model.Salon, error) {
	salons, err := s.salons.List(ctx, repository.SalonFilter{})
	if err != nil {
		return nil, errors.Internal(err)
	}
	owned := make([]*model.Salon, 0, len(salons))
	for _, salon := range salons {
		if salon.OwnerID == actor.UserID {
			owned = append(owned, salon)
		}
	}
	return owned, nil
}

// Delete removes the salon. Only the owner or an admin may.
func (s *Service) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	salon, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !s.canManage(actor, salon) {
		return errors.Forbidden("you do not own this salon")
	}
	if err := s.salons.Delete(ctx, id); err != nil {
		return s.mapRepoErr(err)
	}
	s.invalidate(id)
	s.logger.Info("salon deleted", "salon_id", id)
	return nil
}

// SetWorkingHours replaces the salon's weekly schedule. Every entry
// must name a real weekday, and open days need a valid HH:MM window
// with opening strictly before closing.
func (s *Service) SetWorkingHours(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.SetWorkingHoursRequest) (*model.Salon, error) {
	salon, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, salon) {
		return nil, errors.Forbidden("you do not own this salon")
	}

	hours := model.WorkingHours(req.WorkingHours)
	if err := validateWorkingHours(hours); err != nil {
		return nil, err
	}

	if err := s.salons.UpdateWorkingHours(ctx, id, hours); err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.invalidate(id)

	salon.WorkingHours = hours
	return salon, nil
}

// AddHoliday records a closure date for the salon.
func (s *Service) AddHoliday(ctx context.Context, actor model.Actor, salonID uuid.UUID, req *model.AddHolidayRequest) (*model.Holiday, error) {
	salon, err := s.get(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, salon) {
		return nil, errors.Forbidden("you do not own this salon")
	}

	day, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		return nil, errors.Validation("date must be in YYYY-MM-DD format")
	}

	holiday := &model.Holiday{
		ID:          uuid.New(),
		SalonID:     salonID,
		Date:        day,
		Description: req.Description,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.salons.AddHoliday(ctx, holiday); err != nil {
		return nil, errors.Internal(err)
	}
	return holiday, nil
}

func (s *Service) ListHolidays(ctx context.Context, salonID uuid.UUID) ([]*model.Holiday, error) {
	if _, err := s.get(ctx, salonID); err != nil {
		return nil, err
	}
	holidays, err := s.salons.ListHolidays(ctx, salonID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return holidays, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, actor model.Actor, salonID, holidayID uuid.UUID) error {
	salon, err := s.get(ctx, salonID)
	if err != nil {
		return err
	}
	if !s.canManage(actor, salon) {
		return errors.Forbidden("you do not own this salon")
	}
	if err := s.salons.DeleteHoliday(ctx, salonID, holidayID); err != nil {
		return s.mapRepoErr(err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.Salon), nil
	}
	salon, err := s.salons.Get(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	s.cache.Set(id.String(), salon, cacheTTL)
	return salon, nil
}

func (s *Service) invalidate(id uuid.UUID) {
	s.cache.Delete(id.String())
}

func (s *Service) canManage(actor model.Actor, salon *model.Salon) bool {
	return actor.Role == model.RoleAdmin || salon.OwnerID == actor.UserID
}

func (s *Service) mapRepoErr(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("salon")
	}
	return errors.Internal(err)
}

func validateWorkingHours(hours model.WorkingHours) error {
	seen := make(map[string]bool, len(hours))
	for _, day := range hours {
		if !model.ValidWeekday(day.Day) {
			return errors.Validation(fmt.Sprintf("invalid day: %s", day.Day))
		}
		if seen[day.Day] {
			return errors.Validation(fmt.Sprintf("duplicate day: %s", day.Day))
		}
		seen[day.Day] = true

		if !day.IsOpen {
			continue
		}
		openH, openM, err := booking.ParseClock(day.OpeningTime)
		if err != nil {
			return errors.Validation(fmt.Sprintf("invalid opening time for %s", day.Day))
		}
		closeH, closeM, err := booking.ParseClock(day.ClosingTime)
		if err != nil {
			return errors.Validation(fmt.Sprintf("invalid closing time for %s", day.Day))
		}
		if openH*60+openM >= closeH*60+closeM {
			return errors.Validation(fmt.Sprintf("opening time must be before closing time for %s", day.Day))
		}
	}
	return nil
}
