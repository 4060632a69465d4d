package booking

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/event"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// defaultNotifyTimeout bounds each outbound notification so a slow
// mail host cannot stall anything; the booking write has already
// committed by the time notifications go out.
const defaultNotifyTimeout = 10 * time.Second

type Service struct {
	bookings repository.BookingRepository
	salons   repository.SalonRepository
	services repository.ServiceRepository
	users    repository.UserRepository

	emailSvc email.Service
	events   *event.Service
	clock    clock.Clock
	logger   *logger.Logger
	metrics  *metrics.Metrics

	notifyTimeout time.Duration
	// notifyAsync is flipped off in tests so notification content is
	// observable synchronously.
	notifyAsync bool
}

func NewService(
	bookings repository.BookingRepository,
	salons repository.SalonRepository,
	services repository.ServiceRepository,
	users repository.UserRepository,
	emailSvc email.Service,
	events *event.Service,
	clk clock.Clock,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookings:      bookings,
		salons:        salons,
		services:      services,
		users:         users,
		emailSvc:      emailSvc,
		events:        events,
		clock:         clk,
		logger:        log,
		metrics:       m,
		notifyTimeout: defaultNotifyTimeout,
		notifyAsync:   true,
	}
}

// ListResult pairs a salon's bookings with its status counts.
type ListResult struct {
	Bookings []*model.BookingDetail `json:"bookings"`
	Summary  *model.BookingSummary  `json:"summary"`
}

// Create validates and persists a new pending booking for the acting
// customer, then notifies both parties.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Booking, error) {
	day, err := s.parseFutureDate(req.BookingDate)
	if err != nil {
		return nil, err
	}

	salon, err := s.salons.Get(ctx, req.SalonID)
	if err != nil {
		return nil, s.mapRepoErr(err, "salon")
	}

	svc, err := s.services.Get(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		return nil, s.mapRepoErr(err, "service")
	}

	endTime, err := ComputeEndTime(req.StartTime, svc.Duration)
	if err != nil {
		return nil, err
	}

	conflict, err := s.bookings.HasConflict(ctx, req.SalonID, day, req.StartTime, endTime, nil)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if conflict {
		s.countConflict()
		return nil, errors.Conflict("time slot is already booked")
	}

	booking := &model.Booking{
		UserID:      actor.UserID,
		SalonID:     req.SalonID,
		ServiceID:   req.ServiceID,
		BookingDate: day,
		StartTime:   req.StartTime,
		EndTime:     endTime,
		Status:      model.BookingStatusPending,
		Notes:       req.Notes,
	}
	if err := s.bookings.CreateScheduled(ctx, booking); err != nil {
		if stderrors.Is(err, repository.ErrSlotTaken) {
			s.countConflict()
			return nil, errors.Conflict("time slot is already booked")
		}
		return nil, errors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.events.Emit(ctx, model.EventBookingCreated, booking)
	s.notifyCreated(actor.UserID, salon, svc, booking)

	return booking, nil
}

// ListForCustomer returns the acting customer's bookings, newest
// booking date first, with salon and service summaries joined in.
func (s *Service) ListForCustomer(ctx context.Context, actor model.Actor) ([]*model.BookingDetail, error) {
	bookings, err := s.bookings.ListByCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return bookings, nil
}

// Cancel moves one of the acting customer's bookings to cancelled.
func (s *Service) Cancel(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, s.mapRepoErr(err, "booking")
	}

	if booking.UserID != actor.UserID {
		return nil, errors.Forbidden("you don't have permission to cancel this booking")
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, errors.InvalidTransition("booking is already cancelled")
	}
	if !CanTransition(booking.Status, model.BookingStatusCancelled) {
		return nil, errors.InvalidTransition(fmt.Sprintf("cannot cancel a %s booking", booking.Status))
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		return nil, errors.Internal(err)
	}
	booking.Status = model.BookingStatusCancelled

	s.countTransition("cancelled")
	s.events.Emit(ctx, model.EventBookingCancelled, booking)
	s.notifyCancelled(booking)

	return booking, nil
}

// Reschedule moves a live booking to a new slot. The end time is
// recomputed from the booked service's duration and the booking's own
// row is excluded from conflict detection; on success the status
// resets to pending for re-approval.
func (s *Service) Reschedule(ctx context.Context, actor model.Actor, bookingID uuid.UUID, req *model.RescheduleBookingRequest) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, s.mapRepoErr(err, "booking")
	}

	if booking.UserID != actor.UserID {
		return nil, errors.Forbidden("you don't have permission to reschedule this booking")
	}
	if IsTerminal(booking.Status) {
		return nil, errors.InvalidTransition(fmt.Sprintf("cannot reschedule a %s booking", booking.Status))
	}

	day, err := s.parseFutureDate(req.BookingDate)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, booking.ServiceID)
	if err != nil {
		return nil, s.mapRepoErr(err, "service")
	}

	endTime, err := ComputeEndTime(req.StartTime, svc.Duration)
	if err != nil {
		return nil, err
	}

	conflict, err := s.bookings.HasConflict(ctx, booking.SalonID, day, req.StartTime, endTime, &booking.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if conflict {
		s.countConflict()
		return nil, errors.Conflict("new time slot is already booked")
	}

	oldDate, oldStart := booking.BookingDate, booking.StartTime

	booking.BookingDate = day
	booking.StartTime = req.StartTime
	booking.EndTime = endTime
	booking.Status = model.BookingStatusPending

	if err := s.bookings.Reschedule(ctx, booking); err != nil {
		if stderrors.Is(err, repository.ErrSlotTaken) {
			s.countConflict()
			return nil, errors.Conflict("new time slot is already booked")
		}
		return nil, errors.Internal(err)
	}

	s.countTransition("rescheduled")
	s.events.Emit(ctx, model.EventBookingRescheduled, booking)
	s.notifyRescheduled(booking, oldDate, oldStart)

	return booking, nil
}

// ListForSalon returns all bookings for a salon the actor owns, newest
// first, along with status counts.
func (s *Service) ListForSalon(ctx context.Context, actor model.Actor, salonID uuid.UUID) (*ListResult, error) {
	salon, err := s.salons.Get(ctx, salonID)
	if err != nil {
		return nil, s.mapRepoErr(err, "salon")
	}
	if salon.OwnerID != actor.UserID {
		return nil, errors.Forbidden("you don't own this salon")
	}

	bookings, err := s.bookings.ListBySalon(ctx, salonID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	summary, err := s.bookings.SummaryBySalon(ctx, salonID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &ListResult{Bookings: bookings, Summary: summary}, nil
}

// Approve confirms a pending booking; only the salon's owner may.
func (s *Service) Approve(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.ownedByActor(ctx, actor, bookingID, "approve")
	if err != nil {
		return nil, err
	}

	if booking.Status != model.BookingStatusPending {
		return nil, errors.InvalidTransition("only pending bookings can be approved")
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingStatusConfirmed); err != nil {
		return nil, errors.Internal(err)
	}
	booking.Status = model.BookingStatusConfirmed

	s.countTransition("approved")
	s.events.Emit(ctx, model.EventBookingApproved, booking)
	s.notifyApproved(booking)

	return booking, nil
}

// Reject cancels a pending booking with an optional reason; only the
// salon's owner may.
func (s *Service) Reject(ctx context.Context, actor model.Actor, bookingID uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.ownedByActor(ctx, actor, bookingID, "reject")
	if err != nil {
		return nil, err
	}

	if booking.Status != model.BookingStatusPending {
		return nil, errors.InvalidTransition("only pending bookings can be rejected")
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		return nil, errors.Internal(err)
	}
	booking.Status = model.BookingStatusCancelled

	s.countTransition("rejected")
	s.events.Emit(ctx, model.EventBookingRejected, struct {
		*model.Booking
		Reason string `json:"reason,omitempty"`
	}{booking, reason})
	s.notifyRejected(booking, reason)

	return booking, nil
}

// Get returns booking detail to the owning customer or the owning
// salon's owner; everyone else is forbidden.
func (s *Service) Get(ctx context.Context, actor model.Actor, bookingID uuid.UUID) (*model.BookingDetail, error) {
	detail, err := s.bookings.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, s.mapRepoErr(err, "booking")
	}

	if detail.UserID == actor.UserID {
		return detail, nil
	}
	salon, err := s.salons.Get(ctx, detail.SalonID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if salon.OwnerID != actor.UserID {
		return nil, errors.Forbidden("you don't have permission to view this booking")
	}
	return detail, nil
}

// ownedByActor loads a booking and verifies the actor owns its salon.
func (s *Service) ownedByActor(ctx context.Context, actor model.Actor, bookingID uuid.UUID, action string) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, s.mapRepoErr(err, "booking")
	}

	salon, err := s.salons.Get(ctx, booking.SalonID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if salon.OwnerID != actor.UserID {
		return nil, errors.Forbidden(fmt.Sprintf("you don't have permission to %s this booking", action))
	}
	return booking, nil
}

// parseFutureDate parses a calendar date and rejects anything not
// strictly in the future relative to the injected clock.
func (s *Service) parseFutureDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, errors.Validation(fmt.Sprintf("invalid booking date %q, expected YYYY-MM-DD", value))
	}
	if !day.After(s.clock.Now()) {
		return time.Time{}, errors.Validation("booking date must be in the future")
	}
	return day, nil
}

func (s *Service) mapRepoErr(err error, resource string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(resource)
	}
	return errors.Internal(err)
}

func (s *Service) countConflict() {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
}

func (s *Service) countTransition(transition string) {
	if s.metrics != nil {
		s.metrics.BookingsByOutcome.WithLabelValues(transition).Inc()
	}
}
