// Package booking implements the booking lifecycle: a pending record is
// created on submission and moves to confirmed or cancelled exactly once,
// driven by emailed admin actions or an owner cancel.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lessonbook/internal/availability"
	"lessonbook/internal/events"
	"lessonbook/internal/metrics"
	"lessonbook/internal/models"
	"lessonbook/internal/notify"
)

// Store is the persistence surface the lifecycle controller needs.
type Store interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status string) error
	ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListActiveBookings(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

// transitions lists the allowed status moves. confirmed and cancelled are
// terminal; nothing returns to pending.
var transitions = map[string][]string{
	models.StatusPending: {models.StatusConfirmed, models.StatusCancelled},
}

func canTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Result reports a committed state change together with the outcome of its
// best-effort notification. NotifyErr being non-nil never means the booking
// state is wrong; delivery and persistence succeed or fail independently.
type Result struct {
	Booking   *models.Booking
	NotifyErr error
}

// SubmitRequest carries the user's form fields plus the selected slot.
type SubmitRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	LessonType  string `json:"lesson_type"`
	Notes       string `json:"notes,omitempty"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
}

// Service is the booking lifecycle controller.
type Service struct {
	store    Store
	engine   *availability.Engine
	notifier notify.Notifier
	bus      *events.Bus
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService wires the controller. bus may be nil when nothing subscribes.
func NewService(store Store, engine *availability.Engine, notifier notify.Notifier, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		engine:   engine,
		notifier: notifier,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Engine exposes the availability engine for the HTTP layer.
func (s *Service) Engine() *availability.Engine { return s.engine }

// CheckSlot validates a candidate start against the availability rules and
// the day's committed bookings. The snapshot is read here and the insert
// happens later in Submit; two near-simultaneous users can both pass this
// check. Known limitation, kept from the original design.
func (s *Service) CheckSlot(ctx context.Context, start time.Time) error {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	existing, err := s.store.ListActiveBookings(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	return s.engine.Check(s.now(), start, existing)
}

// Submit validates the request, stores a pending booking and fires the admin
// notification. The notification is fire-and-forget: its failure lands in
// Result.NotifyErr and is logged, the stored booking stands either way.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, ownerID string) (*Result, error) {
	b := &models.Booking{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		LessonType:  req.LessonType,
		Notes:       req.Notes,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		Status:      models.StatusPending,
		CreatedAt:   s.now(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	start, err := b.Start()
	if err != nil {
		return nil, err
	}
	if err := s.CheckSlot(ctx, start); err != nil {
		if reason, ok := availability.RejectionReason(err); ok {
			metrics.IncSlotRejected(string(reason))
		}
		return nil, err
	}

	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	metrics.IncBookingCreated()
	s.publish(events.TypeBookingCreated, b)
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("lesson_type", b.LessonType).
		Str("date", b.BookingDate).
		Str("time", b.BookingTime).
		Msg("booking created")

	notifyErr := s.notifier.AdminBookingRequest(ctx, b)
	if notifyErr != nil {
		s.logger.Error().Err(notifyErr).Str("booking_id", b.ID).Msg("admin notification failed")
	}
	return &Result{Booking: b, NotifyErr: notifyErr}, nil
}

// Approve moves a pending booking to confirmed and tells the requester.
// Approving an already-confirmed booking is a no-op success and sends
// nothing a second time.
func (s *Service) Approve(ctx context.Context, id string) (*Result, error) {
	return s.decide(ctx, id, models.StatusConfirmed, notify.OutcomeConfirmed)
}

// Deny moves a pending booking to cancelled and tells the requester.
func (s *Service) Deny(ctx context.Context, id string) (*Result, error) {
	return s.decide(ctx, id, models.StatusCancelled, notify.OutcomeDenied)
}

func (s *Service) decide(ctx context.Context, id, target string, outcome notify.Outcome) (*Result, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == target {
		return &Result{Booking: b}, nil
	}
	if !canTransition(b.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrTerminalState, b.Status, target)
	}

	if err := s.store.UpdateBookingStatus(ctx, id, target); err != nil {
		return nil, err
	}
	b.Status = target
	metrics.IncAdminDecision(string(outcome))
	if target == models.StatusConfirmed {
		s.publish(events.TypeBookingConfirmed, b)
	} else {
		s.publish(events.TypeBookingCancelled, b)
	}
	s.logger.Info().
		Str("booking_id", b.ID).
		Str("decision", string(outcome)).
		Msg("admin decision applied")

	notifyErr := s.notifier.RequesterDecision(ctx, b, outcome)
	if notifyErr != nil {
		s.logger.Error().Err(notifyErr).Str("booking_id", b.ID).Msg("requester notification failed")
	}
	return &Result{Booking: b, NotifyErr: notifyErr}, nil
}

// Cancel lets the owner cancel their own pending booking. No notification is
// sent on this path. Cancelling an already-cancelled booking is a no-op.
func (s *Service) Cancel(ctx context.Context, id, ownerID string) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if b.UserID != ownerID {
		return models.ErrNotOwner
	}
	if b.Status == models.StatusCancelled {
		return nil
	}
	if !canTransition(b.Status, models.StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", models.ErrTerminalState, b.Status, models.StatusCancelled)
	}
	if err := s.store.UpdateBookingStatus(ctx, id, models.StatusCancelled); err != nil {
		return err
	}
	b.Status = models.StatusCancelled
	metrics.IncBookingCancelled()
	s.publish(events.TypeBookingCancelled, b)
	s.logger.Info().Str("booking_id", id).Msg("booking cancelled by owner")
	return nil
}

// ListForOwner returns the owner's bookings, newest first, all statuses.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]models.Booking, error) {
	return s.store.ListBookingsByUser(ctx, ownerID)
}

// CalendarView is the render-ready availability payload for one horizon.
type CalendarView struct {
	From              string               `json:"from"`
	Days              int                  `json:"days"`
	UnavailableBlocks []availability.Block `json:"unavailable_blocks"`
	Slots             []availability.Slot  `json:"slots"`
}

// Calendar assembles coalesced unavailable blocks plus booked/user-booking
// slots over the horizon. Cancelled bookings are filtered out here; the
// profile listing keeps them.
func (s *Service) Calendar(ctx context.Context, ownerID string, fromDay time.Time, days int) (*CalendarView, error) {
	if days <= 0 || days > s.engine.HorizonDays() {
		days = s.engine.HorizonDays()
	}
	dayStart := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, fromDay.Location())

	bookings, err := s.store.ListActiveBookings(ctx, dayStart, dayStart.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	view := &CalendarView{
		From:              dayStart.Format("2006-01-02"),
		Days:              days,
		UnavailableBlocks: s.engine.UnavailableBlocks(s.now(), dayStart, days),
	}
	for d := 0; d < days; d++ {
		day := dayStart.AddDate(0, 0, d)
		view.Slots = append(view.Slots, s.engine.DaySlots(day, bookings, ownerID)...)
	}
	return view, nil
}

func (s *Service) publish(eventType string, b *models.Booking) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{Type: eventType, BookingID: b.ID, OwnerID: b.UserID})
}
