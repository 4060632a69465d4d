package salon

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/event"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

// AdminService covers the moderation surface: listing salons in any
// status and moving them through pending -> approved -> blocked.
type AdminService struct {
	salons repository.SalonRepository
	users  repository.UserRepository

	emailSvc email.Service
	events   *event.Service
	logger   *logger.Logger

	// public is the customer-facing salon service; status changes must
	// drop its cached copy of the salon.
	public *Service
}

func NewAdminService(
	salons repository.SalonRepository,
	users repository.UserRepository,
	emailSvc email.Service,
	events *event.Service,
	log *logger.Logger,
	public *Service,
) *AdminService {
	return &AdminService{
		salons:   salons,
		users:    users,
		emailSvc: emailSvc,
		events:   events,
		logger:   log,
		public:   public,
	}
}

// ListAll returns salons in every status, optionally filtered.
func (s *AdminService) ListAll(ctx context.Context, status *model.SalonStatus) ([]*model.Salon, error) {
	if status != nil {
		switch *status {
		case model.SalonStatusPending, model.SalonStatusApproved, model.SalonStatusBlocked:
		default:
			return nil, errors.Validation(fmt.Sprintf("invalid status filter: %s", *status))
		}
	}
	salons, err := s.salons.List(ctx, repository.SalonFilter{Status: status})
	if err != nil {
		return nil, errors.Internal(err)
	}
	return salons, nil
}

func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	salon, err := s.salons.Get(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return salon, nil
}

// Approve moves a pending salon into the public directory.
func (s *AdminService) Approve(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	return s.transition(ctx, id, model.SalonStatusPending, model.SalonStatusApproved,
		model.EventSalonApproved, "Salon Approved",
		"Congratulations! Your salon <strong>%s</strong> has been approved and is now visible to customers.")
}

// Block takes an approved salon out of the public directory. Its
// existing bookings stay intact.
func (s *AdminService) Block(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	return s.transition(ctx, id, model.SalonStatusApproved, model.SalonStatusBlocked,
		model.EventSalonBlocked, "Salon Blocked",
		"Your salon <strong>%s</strong> has been blocked and is no longer visible to customers. Please contact support for details.")
}

// Reactivate returns a blocked salon to pending so it passes through
// review again before reappearing in the public directory.
func (s *AdminService) Reactivate(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	return s.transition(ctx, id, model.SalonStatusBlocked, model.SalonStatusPending,
		model.EventSalonReactivated, "Salon Reactivated",
		"Your salon <strong>%s</strong> has been reactivated and is pending review. You will be notified once it is approved.")
}

func (s *AdminService) transition(
	ctx context.Context,
	id uuid.UUID,
	from, to model.SalonStatus,
	eventType, subject, bodyFormat string,
) (*model.Salon, error) {
	salon, err := s.salons.Get(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	if salon.Status != from {
		return nil, errors.InvalidTransition(fmt.Sprintf("salon is %s, expected %s", salon.Status, from))
	}

	if err := s.salons.UpdateStatus(ctx, id, to); err != nil {
		return nil, s.mapRepoErr(err)
	}
	salon.Status = to
	s.public.invalidate(id)

	s.events.Emit(ctx, eventType, salon)
	s.logger.Info("salon status changed", "salon_id", id, "from", from, "to", to)

	if owner, err := s.users.Get(ctx, salon.OwnerID); err != nil {
		s.logger.Error(err, "failed to load salon owner for notification", "salon_id", id)
	} else {
		body := fmt.Sprintf("<h2>%s</h2><p>Hi %s,</p><p>"+bodyFormat+"</p>",
			subject, owner.FirstName, salon.Name)
		if err := s.emailSvc.Send(ctx, owner.Email, subject, body); err != nil {
			s.logger.Error(err, "failed to send salon status email", "salon_id", id)
		}
	}

	return salon, nil
}

func (s *AdminService) mapRepoErr(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("salon")
	}
	return errors.Internal(err)
}
