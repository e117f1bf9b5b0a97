package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Booking statuses. A denied booking and an owner-cancelled booking both end
// up as StatusCancelled; there is no separate "denied" terminal state.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// LessonDuration is fixed for every booking and is not stored.
const LessonDuration = time.Hour

// LessonTypes is the fixed set of bookable lesson categories.
var LessonTypes = []string{"guitar", "piano", "vocals", "drums", "bass", "theory"}

// Booking represents a lesson booking record.
type Booking struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	LessonType  string    `json:"lesson_type"`
	Notes       string    `json:"notes,omitempty"`
	BookingDate string    `json:"booking_date"` // YYYY-MM-DD
	BookingTime string    `json:"booking_time"` // HH:MM, local
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Start returns the booking start as a local time.Time.
func (b *Booking) Start() (time.Time, error) {
	return ParseSlot(b.BookingDate, b.BookingTime)
}

// End returns the booking end (start + one hour).
func (b *Booking) End() (time.Time, error) {
	start, err := b.Start()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(LessonDuration), nil
}

// IsTerminal reports whether the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCancelled
}

// IsActive reports whether the booking blocks its time slot.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// Overlaps checks whether two bookings occupy intersecting intervals.
// Half-open semantics: [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1,
// so back-to-back lessons do not conflict.
func (b *Booking) Overlaps(other *Booking) bool {
	s1, err := b.Start()
	if err != nil {
		return false
	}
	s2, err := other.Start()
	if err != nil {
		return false
	}
	e1 := s1.Add(LessonDuration)
	e2 := s2.Add(LessonDuration)
	return s1.Before(e2) && s2.Before(e1)
}

// Validate checks required fields on a submission.
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.TrimSpace(b.Email) == "" {
		return fmt.Errorf("%w: email", ErrMissingField)
	}
	if _, err := mail.ParseAddress(b.Email); err != nil {
		return fmt.Errorf("%w: email", ErrInvalidField)
	}
	if !ValidLessonType(b.LessonType) {
		return fmt.Errorf("%w: lesson_type", ErrInvalidField)
	}
	if b.BookingDate == "" || b.BookingTime == "" {
		return fmt.Errorf("%w: booking slot", ErrMissingField)
	}
	if _, err := b.Start(); err != nil {
		return fmt.Errorf("%w: booking slot", ErrInvalidField)
	}
	return nil
}

// ValidLessonType reports whether t is one of the known lesson categories.
func ValidLessonType(t string) bool {
	for _, lt := range LessonTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// ParseSlot parses a YYYY-MM-DD date and HH:MM time into a local time.Time.
func ParseSlot(date, clock string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// SplitSlot formats a start time back into (date, time) column values.
func SplitSlot(start time.Time) (date, clock string) {
	return start.Format("2006-01-02"), start.Format("15:04")
}
