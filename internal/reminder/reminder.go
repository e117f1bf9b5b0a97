// Package reminder emails students the day before a confirmed lesson.
// Reminders are derived from the bookings table on each run; nothing extra
// is persisted, so a restart may re-send at most one day's batch.
package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lessonbook/internal/models"
)

// Store lists the bookings a reminder run considers.
type Store interface {
	ListActiveBookings(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

// Sender delivers one reminder. Delivery is best effort, like every other
// notification in the service.
type Sender interface {
	LessonReminder(ctx context.Context, b *models.Booking) error
}

// Service sends reminders for tomorrow's confirmed lessons.
type Service struct {
	store  Store
	sender Sender
	logger zerolog.Logger
	now    func() time.Time

	mu   sync.Mutex
	sent map[string]bool // booking IDs reminded this process lifetime
}

// NewService constructs the reminder service.
func NewService(store Store, sender Sender, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		sender: sender,
		logger: logger,
		now:    time.Now,
		sent:   make(map[string]bool),
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RunOnce sends reminders for every confirmed booking starting tomorrow that
// has not been reminded yet. Returns how many reminders went out.
func (s *Service) RunOnce(ctx context.Context) int {
	now := s.now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

	bookings, err := s.store.ListActiveBookings(ctx, tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error().Err(err).Msg("reminder run: load bookings failed")
		return 0
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		if b.Status != models.StatusConfirmed {
			continue
		}
		if s.alreadySent(b.ID) {
			continue
		}

		if err := s.sender.LessonReminder(ctx, b); err != nil {
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("reminder send failed")
			remindersTotal.WithLabelValues("failed").Inc()
			continue
		}
		s.markSent(b.ID)
		remindersTotal.WithLabelValues("ok").Inc()
		sent++
	}

	if sent > 0 {
		s.logger.Info().Int("sent", sent).Str("date", tomorrow.Format("2006-01-02")).Msg("lesson reminders sent")
	}
	return sent
}

func (s *Service) alreadySent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[id]
}

func (s *Service) markSent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[id] = true
}
