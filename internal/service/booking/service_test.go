package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/event"
	"github.com/jwalitptl/salon-api/pkg/clock"
	"github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

// In-memory fakes. The booking fake applies the same half-open overlap
// predicate the SQL conflict check uses.

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*model.Booking)}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (r *fakeBookingRepo) conflicts(salonID uuid.UUID, day time.Time, start, end string, excludeID *uuid.UUID) bool {
	for _, b := range r.bookings {
		if b.SalonID != salonID || !sameDay(b.BookingDate, day) {
			continue
		}
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if Overlaps(b.StartTime, b.EndTime, start, end) {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) CreateScheduled(ctx context.Context, booking *model.Booking) error {
	if r.conflicts(booking.SalonID, booking.BookingDate, booking.StartTime, booking.EndTime, nil) {
		return repository.ErrSlotTaken
	}
	booking.ID = uuid.New()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) Reschedule(ctx context.Context, booking *model.Booking) error {
	if _, ok := r.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.conflicts(booking.SalonID, booking.BookingDate, booking.StartTime, booking.EndTime, &booking.ID) {
		return repository.ErrSlotTaken
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.BookingDetail{Booking: *b}, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) HasConflict(ctx context.Context, salonID uuid.UUID, day time.Time, start, end string, excludeID *uuid.UUID) (bool, error) {
	return r.conflicts(salonID, day, start, end, excludeID), nil
}

// newestFirst applies the same ordering as the SQL lists: booking date
// descending, then start time descending.
func newestFirst(out []*model.BookingDetail) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].StartTime > out[j].StartTime
	})
}

func (r *fakeBookingRepo) ListByCustomer(ctx context.Context, userID uuid.UUID) ([]*model.BookingDetail, error) {
	var out []*model.BookingDetail
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, &model.BookingDetail{Booking: *b})
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *fakeBookingRepo) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]*model.BookingDetail, error) {
	var out []*model.BookingDetail
	for _, b := range r.bookings {
		if b.SalonID == salonID {
			out = append(out, &model.BookingDetail{Booking: *b})
		}
	}
	newestFirst(out)
	return out, nil
}

func (r *fakeBookingRepo) SummaryBySalon(ctx context.Context, salonID uuid.UUID) (*model.BookingSummary, error) {
	summary := &model.BookingSummary{}
	for _, b := range r.bookings {
		if b.SalonID != salonID {
			continue
		}
		switch b.Status {
		case model.BookingStatusPending:
			summary.Pending++
		case model.BookingStatusConfirmed:
			summary.Confirmed++
		case model.BookingStatusCompleted:
			summary.Completed++
		case model.BookingStatusCancelled:
			summary.Cancelled++
		}
	}
	return summary, nil
}

type fakeSalonRepo struct {
	salons map[uuid.UUID]*model.Salon
}

func (r *fakeSalonRepo) Create(ctx context.Context, salon *model.Salon) error {
	r.salons[salon.ID] = salon
	return nil
}

func (r *fakeSalonRepo) Get(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	s, ok := r.salons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeSalonRepo) List(ctx context.Context, filter repository.SalonFilter) ([]*model.Salon, error) {
	var out []*model.Salon
	for _, s := range r.salons {
		if filter.Status == nil || s.Status == *filter.Status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSalonRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SalonStatus) error {
	s, ok := r.salons[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSalonRepo) UpdateWorkingHours(ctx context.Context, id uuid.UUID, hours model.WorkingHours) error {
	s, ok := r.salons[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.WorkingHours = hours
	return nil
}

func (r *fakeSalonRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.salons, id)
	return nil
}

func (r *fakeSalonRepo) AddHoliday(ctx context.Context, holiday *model.Holiday) error { return nil }
func (r *fakeSalonRepo) ListHolidays(ctx context.Context, salonID uuid.UUID) ([]*model.Holiday, error) {
	return nil, nil
}
func (r *fakeSalonRepo) DeleteHoliday(ctx context.Context, salonID, holidayID uuid.UUID) error {
	return nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (r *fakeServiceRepo) Create(ctx context.Context, svc *model.Service) error {
	r.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) Get(ctx context.Context, salonID, serviceID uuid.UUID) (*model.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.SalonID != salonID || s.IsDeleted {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, serviceID uuid.UUID) (*model.Service, error) {
	s, ok := r.services[serviceID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeServiceRepo) ListActive(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	var out []*model.Service
	for _, s := range r.services {
		if s.SalonID == salonID && !s.IsDeleted {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) ListAll(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	var out []*model.Service
	for _, s := range r.services {
		if s.SalonID == salonID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, svc *model.Service) error {
	r.services[svc.ID] = svc
	return nil
}

func (r *fakeServiceRepo) SoftDelete(ctx context.Context, salonID, serviceID uuid.UUID) error {
	s, ok := r.services[serviceID]
	if !ok || s.SalonID != salonID {
		return repository.ErrNotFound
	}
	s.IsDeleted = true
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeEmail struct {
	sent []sentMail
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject})
	return nil
}

func (f *fakeEmail) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: "Password Reset Request"})
	return nil
}

func (f *fakeEmail) SendPasswordResetConfirmation(ctx context.Context, to string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: "Password Reset Successful"})
	return nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(ctx context.Context, evt *model.OutboxEvent) error {
	r.events = append(r.events, evt)
	return nil
}

func (r *fakeOutboxRepo) GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeOutboxRepo) eventTypes() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type fixture struct {
	svc      *Service
	bookings *fakeBookingRepo
	emails   *fakeEmail
	outbox   *fakeOutboxRepo

	customer model.Actor
	owner    model.Actor
	salonID  uuid.UUID
	shortcut uuid.UUID // 30-minute service
	long     uuid.UUID // 90-minute service
}

// now is frozen so "2025-06-16" is always a valid future booking date.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

const futureDate = "2025-06-16"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ownerID := uuid.New()
	customerID := uuid.New()
	salonID := uuid.New()
	shortID := uuid.New()
	longID := uuid.New()

	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		ownerID: {
			Base:      model.Base{ID: ownerID},
			FirstName: "Olive",
			Email:     "owner@example.com",
			Role:      model.RoleSalonOwner,
		},
		customerID: {
			Base:      model.Base{ID: customerID},
			FirstName: "Casey",
			Email:     "customer@example.com",
			Role:      model.RoleCustomer,
		},
	}}
	salons := &fakeSalonRepo{salons: map[uuid.UUID]*model.Salon{
		salonID: {
			Base:    model.Base{ID: salonID},
			Name:    "Shear Genius",
			Status:  model.SalonStatusApproved,
			OwnerID: ownerID,
		},
	}}
	services := &fakeServiceRepo{services: map[uuid.UUID]*model.Service{
		shortID: {
			Base:     model.Base{ID: shortID},
			SalonID:  salonID,
			Name:     "Haircut",
			Price:    35,
			Duration: 30,
		},
		longID: {
			Base:     model.Base{ID: longID},
			SalonID:  salonID,
			Name:     "Color",
			Price:    120,
			Duration: 90,
		},
	}}

	bookings := newFakeBookingRepo()
	emails := &fakeEmail{}
	outbox := &fakeOutboxRepo{}
	log := logger.NewLogger(nil)

	svc := NewService(
		bookings, salons, services, users,
		emails, event.NewService(outbox, log),
		clock.Fixed(testNow), log, nil,
	)
	// Run notifications inline so sends are observable.
	svc.notifyAsync = false

	return &fixture{
		svc:      svc,
		bookings: bookings,
		emails:   emails,
		outbox:   outbox,
		customer: model.Actor{UserID: customerID, Role: model.RoleCustomer},
		owner:    model.Actor{UserID: ownerID, Role: model.RoleSalonOwner},
		salonID:  salonID,
		shortcut: shortID,
		long:     longID,
	}
}

func (f *fixture) create(t *testing.T, start string) *model.Booking {
	t.Helper()
	return f.createOn(t, futureDate, start)
}

func (f *fixture) createOn(t *testing.T, date, start string) *model.Booking {
	t.Helper()
	booking, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: date,
		StartTime:   start,
	})
	require.NoError(t, err)
	return booking
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "10:00",
		Notes:       "first visit",
	})
	require.NoError(t, err)

	assert.Equal(t, "10:30", booking.EndTime)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, f.customer.UserID, booking.UserID)
	assert.Equal(t, []string{model.EventBookingCreated}, f.outbox.eventTypes())

	// Both the customer and the salon owner get notified.
	require.Len(t, f.emails.sent, 2)
	assert.Equal(t, "customer@example.com", f.emails.sent[0].to)
	assert.Equal(t, "owner@example.com", f.emails.sent[1].to)
}

func TestCreateBookingConflicts(t *testing.T) {
	f := newFixture(t)
	f.create(t, "10:00") // occupies [10:00, 10:30)

	_, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "10:15",
	})
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	// Touching slots do not conflict.
	touching, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "11:00", touching.EndTime)

	// Same slot on another day is free.
	_, err = f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: "2025-06-17",
		StartTime:   "10:15",
	})
	assert.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)

	// Today or earlier is rejected.
	for _, date := range []string{"2025-06-15", "2025-06-14", "15-06-2025", "not-a-date"} {
		_, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
			SalonID:     f.salonID,
			ServiceID:   f.shortcut,
			BookingDate: date,
			StartTime:   "10:00",
		})
		assert.True(t, errors.IsKind(err, errors.KindValidation), "date %q", date)
	}

	_, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "23:45",
	})
	assert.True(t, errors.IsKind(err, errors.KindCrossesMidnight))

	_, err = f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     uuid.New(),
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "10:00",
	})
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	_, err = f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   uuid.New(),
		BookingDate: futureDate,
		StartTime:   "10:00",
	})
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestCreateBookingRejectsRetiredService(t *testing.T) {
	f := newFixture(t)
	f.svc.services.(*fakeServiceRepo).services[f.shortcut].IsDeleted = true

	_, err := f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "10:00",
	})
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
	assert.Empty(t, f.outbox.eventTypes())
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	cancelled, err := f.svc.Cancel(context.Background(), f.customer, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	// Cancelling twice is an invalid transition.
	_, err = f.svc.Cancel(context.Background(), f.customer, booking.ID)
	assert.True(t, errors.IsKind(err, errors.KindInvalidTransition))

	// A cancelled booking frees its slot.
	_, err = f.svc.Create(context.Background(), f.customer, &model.CreateBookingRequest{
		SalonID:     f.salonID,
		ServiceID:   f.shortcut,
		BookingDate: futureDate,
		StartTime:   "10:00",
	})
	assert.NoError(t, err)
}

func TestCancelBookingOwnership(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	stranger := model.Actor{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err := f.svc.Cancel(context.Background(), stranger, booking.ID)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	_, err = f.svc.Cancel(context.Background(), f.customer, uuid.New())
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	// Only the salon owner may approve.
	_, err := f.svc.Approve(context.Background(), f.customer, booking.ID)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	approved, err := f.svc.Approve(context.Background(), f.owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, approved.Status)

	// A confirmed booking can no longer be approved or rejected.
	_, err = f.svc.Approve(context.Background(), f.owner, booking.ID)
	assert.True(t, errors.IsKind(err, errors.KindInvalidTransition))
	_, err = f.svc.Reject(context.Background(), f.owner, booking.ID, "too late")
	assert.True(t, errors.IsKind(err, errors.KindInvalidTransition))

	second := f.create(t, "11:00")
	rejected, err := f.svc.Reject(context.Background(), f.owner, second.ID, "fully booked")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, rejected.Status)

	assert.Contains(t, f.outbox.eventTypes(), model.EventBookingApproved)
	assert.Contains(t, f.outbox.eventTypes(), model.EventBookingRejected)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	_, err := f.svc.Approve(context.Background(), f.owner, booking.ID)
	require.NoError(t, err)

	moved, err := f.svc.Reschedule(context.Background(), f.customer, booking.ID, &model.RescheduleBookingRequest{
		BookingDate: "2025-06-18",
		StartTime:   "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "14:00", moved.StartTime)
	assert.Equal(t, "14:30", moved.EndTime)
	// Reschedule re-enters pending for owner re-approval.
	assert.Equal(t, model.BookingStatusPending, moved.Status)
}

func TestRescheduleExcludesSelf(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	// Moving within the booking's own window must not self-conflict.
	moved, err := f.svc.Reschedule(context.Background(), f.customer, booking.ID, &model.RescheduleBookingRequest{
		BookingDate: futureDate,
		StartTime:   "10:15",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:45", moved.EndTime)

	// But another booking's window still blocks.
	f.create(t, "12:00")
	_, err = f.svc.Reschedule(context.Background(), f.customer, booking.ID, &model.RescheduleBookingRequest{
		BookingDate: futureDate,
		StartTime:   "11:45",
	})
	assert.True(t, errors.IsKind(err, errors.KindConflict))
}

func TestRescheduleGuards(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	stranger := model.Actor{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err := f.svc.Reschedule(context.Background(), stranger, booking.ID, &model.RescheduleBookingRequest{
		BookingDate: futureDate,
		StartTime:   "11:00",
	})
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	_, err = f.svc.Cancel(context.Background(), f.customer, booking.ID)
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), f.customer, booking.ID, &model.RescheduleBookingRequest{
		BookingDate: futureDate,
		StartTime:   "11:00",
	})
	assert.True(t, errors.IsKind(err, errors.KindInvalidTransition))
}

func TestListForSalon(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "10:00")
	f.create(t, "11:00")

	_, err := f.svc.Approve(context.Background(), f.owner, first.ID)
	require.NoError(t, err)

	result, err := f.svc.ListForSalon(context.Background(), f.owner, f.salonID)
	require.NoError(t, err)
	assert.Len(t, result.Bookings, 2)
	assert.Equal(t, 1, result.Summary.Pending)
	assert.Equal(t, 1, result.Summary.Confirmed)

	_, err = f.svc.ListForSalon(context.Background(), f.customer, f.salonID)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))
}

func TestListsOrderNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.createOn(t, "2025-06-16", "09:00")
	f.createOn(t, "2025-06-18", "11:00")
	f.createOn(t, "2025-06-16", "15:00")

	slot := func(d *model.BookingDetail) string {
		return d.BookingDate.Format("2006-01-02") + " " + d.StartTime
	}
	want := []string{"2025-06-18 11:00", "2025-06-16 15:00", "2025-06-16 09:00"}

	mine, err := f.svc.ListForCustomer(context.Background(), f.customer)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	for i, d := range mine {
		assert.Equal(t, want[i], slot(d))
	}

	result, err := f.svc.ListForSalon(context.Background(), f.owner, f.salonID)
	require.NoError(t, err)
	require.Len(t, result.Bookings, 3)
	for i, d := range result.Bookings {
		assert.Equal(t, want[i], slot(d))
	}
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	detail, err := f.svc.Get(context.Background(), f.customer, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, detail.ID)

	_, err = f.svc.Get(context.Background(), f.owner, booking.ID)
	assert.NoError(t, err)

	stranger := model.Actor{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err = f.svc.Get(context.Background(), stranger, booking.ID)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))
}

func TestRescheduleUsesRetiredServiceDuration(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, "10:00")

	// Retiring the service must not strand the existing booking.
	f.bookings.bookings[booking.ID].ServiceID = f.long
	svcRepo := f.svc.services.(*fakeServiceRepo)
	svcRepo.services[f.long].IsDeleted = true

	moved, err := f.svc.Reschedule(context.Background(), f.customer, booking.ID, &model.RescheduleBookingRequest{
		BookingDate: futureDate,
		StartTime:   "13:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "14:30", moved.EndTime)
}
