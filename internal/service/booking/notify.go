package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
)

// Notifications are fire-and-forget: the booking mutation has already
// committed, so delivery runs detached from the request context under
// its own deadline, and failures are logged, never surfaced.

func (s *Service) notify(name string, fn func(ctx context.Context) error) {
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			if s.metrics != nil {
				s.metrics.NotificationsFailed.Inc()
			}
			s.logger.Error(err, "booking notification failed", "notification", name)
			return
		}
		if s.metrics != nil {
			s.metrics.NotificationsSent.Inc()
		}
	}
	if s.notifyAsync {
		go run()
		return
	}
	run()
}

func (s *Service) notifyCreated(customerID uuid.UUID, salon *model.Salon, svc *model.Service, booking *model.Booking) {
	s.notify("booking_created", func(ctx context.Context) error {
		customer, err := s.users.Get(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}
		owner, err := s.users.Get(ctx, salon.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to load salon owner: %w", err)
		}

		date := booking.BookingDate.Format(dateLayout)

		customerBody := fmt.Sprintf(`
			<h2>Booking Confirmation</h2>
			<p>Hi %s,</p>
			<p>Your booking has been received and is awaiting approval.</p>
			<hr/>
			<h3>Booking Details:</h3>
			<p><strong>Salon:</strong> %s</p>
			<p><strong>Service:</strong> %s</p>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s - %s</p>
			<p><strong>Duration:</strong> %d minutes</p>
			<p><strong>Price:</strong> $%.2f</p>
			<hr/>
			<p>The salon owner will review and confirm your booking shortly.</p>
		`, customer.FirstName, salon.Name, svc.Name, date, booking.StartTime, booking.EndTime, svc.Duration, svc.Price)

		if err := s.emailSvc.Send(ctx, customer.Email, "Booking Confirmation", customerBody); err != nil {
			return err
		}

		ownerBody := fmt.Sprintf(`
			<h2>New Booking Request</h2>
			<p>Hi %s,</p>
			<p>You have received a new booking request.</p>
			<hr/>
			<h3>Booking Details:</h3>
			<p><strong>Customer:</strong> %s</p>
			<p><strong>Service:</strong> %s</p>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s - %s</p>
			<p><strong>Price:</strong> $%.2f</p>
			<hr/>
			<p>Please log in to your dashboard to approve or reject this booking.</p>
		`, owner.FirstName, customer.FirstName, svc.Name, date, booking.StartTime, booking.EndTime, svc.Price)

		return s.emailSvc.Send(ctx, owner.Email, "New Booking Request", ownerBody)
	})
}

func (s *Service) notifyCancelled(booking *model.Booking) {
	s.notify("booking_cancelled", func(ctx context.Context) error {
		customer, err := s.users.Get(ctx, booking.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}
		salon, err := s.salons.Get(ctx, booking.SalonID)
		if err != nil {
			return fmt.Errorf("failed to load salon: %w", err)
		}
		owner, err := s.users.Get(ctx, salon.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to load salon owner: %w", err)
		}

		customerBody := fmt.Sprintf(`
			<h2>Booking Cancelled</h2>
			<p>Hi %s,</p>
			<p>Your booking has been cancelled.</p>
			<hr/>
			<p><strong>Booking ID:</strong> %s</p>
			<p>If you have any questions, please contact the salon.</p>
		`, customer.FirstName, booking.ID)

		if err := s.emailSvc.Send(ctx, customer.Email, "Booking Cancelled", customerBody); err != nil {
			return err
		}

		ownerBody := fmt.Sprintf(`
			<h2>Booking Cancelled</h2>
			<p>Hi %s,</p>
			<p>A customer has cancelled their booking.</p>
			<hr/>
			<p><strong>Booking ID:</strong> %s</p>
		`, owner.FirstName, booking.ID)

		return s.emailSvc.Send(ctx, owner.Email, "Booking Cancelled", ownerBody)
	})
}

func (s *Service) notifyRescheduled(booking *model.Booking, oldDate time.Time, oldStart string) {
	s.notify("booking_rescheduled", func(ctx context.Context) error {
		customer, err := s.users.Get(ctx, booking.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		body := fmt.Sprintf(`
			<h2>Booking Rescheduled</h2>
			<p>Hi %s,</p>
			<p>Your booking has been rescheduled and is awaiting approval.</p>
			<hr/>
			<h3>Old Booking Details:</h3>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s</p>
			<hr/>
			<h3>New Booking Details:</h3>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s - %s</p>
			<hr/>
			<p>The salon owner will review your reschedule request.</p>
		`, customer.FirstName, oldDate.Format(dateLayout), oldStart,
			booking.BookingDate.Format(dateLayout), booking.StartTime, booking.EndTime)

		return s.emailSvc.Send(ctx, customer.Email, "Booking Rescheduled", body)
	})
}

func (s *Service) notifyApproved(booking *model.Booking) {
	s.notify("booking_approved", func(ctx context.Context) error {
		customer, err := s.users.Get(ctx, booking.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}
		salon, err := s.salons.Get(ctx, booking.SalonID)
		if err != nil {
			return fmt.Errorf("failed to load salon: %w", err)
		}
		svc, err := s.services.GetByID(ctx, booking.ServiceID)
		if err != nil {
			return fmt.Errorf("failed to load service: %w", err)
		}

		body := fmt.Sprintf(`
			<h2>Booking Confirmed</h2>
			<p>Hi %s,</p>
			<p>Great news! Your booking has been approved and confirmed.</p>
			<hr/>
			<h3>Booking Details:</h3>
			<p><strong>Salon:</strong> %s</p>
			<p><strong>Service:</strong> %s</p>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s - %s</p>
			<p><strong>Price:</strong> $%.2f</p>
			<hr/>
			<p>Thank you for booking with us!</p>
		`, customer.FirstName, salon.Name, svc.Name,
			booking.BookingDate.Format(dateLayout), booking.StartTime, booking.EndTime, svc.Price)

		return s.emailSvc.Send(ctx, customer.Email, "Booking Confirmed", body)
	})
}

func (s *Service) notifyRejected(booking *model.Booking, reason string) {
	s.notify("booking_rejected", func(ctx context.Context) error {
		customer, err := s.users.Get(ctx, booking.UserID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		reasonLine := ""
		if reason != "" {
			reasonLine = fmt.Sprintf("<p><strong>Reason:</strong> %s</p>", reason)
		}

		body := fmt.Sprintf(`
			<h2>Booking Rejected</h2>
			<p>Hi %s,</p>
			<p>Unfortunately, your booking has been rejected.</p>
			<hr/>
			%s
			<hr/>
			<p>Please feel free to try another time slot or contact the salon for more information.</p>
		`, customer.FirstName, reasonLine)

		return s.emailSvc.Send(ctx, customer.Email, "Booking Rejected", body)
	})
}
