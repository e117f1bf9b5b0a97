package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonbook/internal/models"
)

// 2024-03-16 is a Saturday, 2024-03-19 is a Tuesday.
func slot(day string, hour int) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", day, time.Local)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.Local)
}

func booked(userID, day, clock string) models.Booking {
	return models.Booking{
		ID:          "b-" + day + "-" + clock,
		UserID:      userID,
		Name:        "Existing Student",
		Email:       "existing@example.com",
		LessonType:  "guitar",
		BookingDate: day,
		BookingTime: clock,
		Status:      models.StatusPending,
	}
}

func TestEngineCheck(t *testing.T) {
	now := slot("2024-03-15", 12) // Friday noon
	existing := []models.Booking{
		booked("u1", "2024-03-16", "14:00"),
		booked("u1", "2024-03-16", "15:00"),
	}

	tests := []struct {
		name   string
		start  time.Time
		reason Reason
		ok     bool
	}{
		{"saturday morning free", slot("2024-03-16", 9), "", true},
		{"saturday last slot of day", slot("2024-03-16", 19), "", true},
		{"overlaps existing block", slot("2024-03-16", 14), ReasonConflict, false},
		{"mid-block start", slot("2024-03-16", 15), ReasonConflict, false},
		{"half-hour offset overlaps", slot("2024-03-16", 14).Add(30 * time.Minute), ReasonConflict, false},
		{"back to back after block", slot("2024-03-16", 16), "", true},
		{"back to back before block", slot("2024-03-16", 13), "", true},
		{"weekday before opening", slot("2024-03-19", 17), ReasonOutsideHours, false},
		{"weekday evening ok", slot("2024-03-19", 18), "", true},
		{"weekday slot would spill past close", slot("2024-03-19", 20), ReasonOutsideHours, false},
		{"weekend before opening", slot("2024-03-16", 7), ReasonOutsideHours, false},
		{"in the past", slot("2024-03-15", 11), ReasonPast, false},
		{"one minute before now", now.Add(-time.Minute), ReasonPast, false},
	}

	engine := NewEngine(DefaultHours(), 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Check(now, tt.start, existing)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			reason, isRejection := RejectionReason(err)
			require.True(t, isRejection)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

// A past slot that is also outside hours and conflicting must report past;
// a future outside-hours slot that also conflicts must report outside_hours.
func TestEngineCheckPrecedence(t *testing.T) {
	engine := NewEngine(DefaultHours(), 0)
	now := slot("2024-03-16", 23)
	conflicting := []models.Booking{booked("u1", "2024-03-16", "22:00")}

	err := engine.Check(now, slot("2024-03-16", 22), conflicting)
	reason, ok := RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, ReasonPast, reason)

	err = engine.Check(slot("2024-03-16", 6), slot("2024-03-16", 22), conflicting)
	reason, ok = RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOutsideHours, reason)
}

func TestEngineCheckIgnoresCancelled(t *testing.T) {
	engine := NewEngine(DefaultHours(), 0)
	cancelled := booked("u1", "2024-03-16", "14:00")
	cancelled.Status = models.StatusCancelled

	err := engine.Check(slot("2024-03-15", 12), slot("2024-03-16", 14), []models.Booking{cancelled})
	assert.NoError(t, err)
}

// The requester's own booking blocks the slot too; one body, one hour.
func TestEngineCheckOwnBookingConflicts(t *testing.T) {
	engine := NewEngine(DefaultHours(), 0)
	mine := booked("me", "2024-03-16", "10:00")

	err := engine.Check(slot("2024-03-15", 12), slot("2024-03-16", 10), []models.Booking{mine})
	reason, ok := RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, ReasonConflict, reason)
}

func TestIsOverlapping(t *testing.T) {
	a := slot("2024-03-16", 14)
	tests := []struct {
		name     string
		s2       time.Time
		overlaps bool
	}{
		{"identical", a, true},
		{"adjacent after", a.Add(time.Hour), false},
		{"adjacent before", a.Add(-time.Hour), false},
		{"partial overlap", a.Add(30 * time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isOverlapping(a, a.Add(time.Hour), tt.s2, tt.s2.Add(time.Hour))
			assert.Equal(t, tt.overlaps, got)
		})
	}
}

func TestHoursIsOpen(t *testing.T) {
	h := DefaultHours()

	assert.True(t, h.IsOpen(slot("2024-03-16", 8)))   // Sat open
	assert.True(t, h.IsOpen(slot("2024-03-16", 19)))  // Sat last hour
	assert.False(t, h.IsOpen(slot("2024-03-16", 20))) // Close is exclusive
	assert.True(t, h.IsOpen(slot("2024-03-19", 18)))  // Tue evening
	assert.False(t, h.IsOpen(slot("2024-03-19", 17)))
}

func TestClosedDay(t *testing.T) {
	h := Hours{time.Saturday: {Open: 8, Close: 20}}
	engine := NewEngine(h, 0)

	// Sunday missing from the map means closed all day.
	err := engine.Check(slot("2024-03-15", 0), slot("2024-03-17", 12), nil)
	reason, ok := RejectionReason(err)
	require.True(t, ok)
	assert.Equal(t, ReasonOutsideHours, reason)
}
