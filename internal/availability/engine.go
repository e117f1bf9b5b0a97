// Package availability computes which calendar slots are selectable given
// the studio's business hours, the current time and the committed bookings.
// Everything here is a pure function of its inputs; persistence and session
// state live elsewhere.
package availability

import (
	"fmt"
	"time"

	"lessonbook/internal/models"
)

// Reason classifies why a candidate slot was rejected. The three values are
// distinct user-displayable categories, never collapsed into a generic error.
type Reason string

const (
	ReasonPast         Reason = "past"
	ReasonOutsideHours Reason = "outside_hours"
	ReasonConflict     Reason = "conflict"
)

// RejectionError reports an unavailable slot together with the reason.
type RejectionError struct {
	Start  time.Time
	Reason Reason
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("slot %s unavailable: %s", e.Start.Format("2006-01-02 15:04"), e.Reason)
}

// RejectionReason extracts the Reason from err, if it is a RejectionError.
func RejectionReason(err error) (Reason, bool) {
	if re, ok := err.(*RejectionError); ok {
		return re.Reason, true
	}
	return "", false
}

// DefaultHorizonDays bounds how far ahead the calendar is rendered.
const DefaultHorizonDays = 30

// Engine validates candidate slots and derives render-ready calendar data.
type Engine struct {
	hours       Hours
	horizonDays int
}

// NewEngine creates an engine for the given business hours.
func NewEngine(hours Hours, horizonDays int) *Engine {
	if hours == nil {
		hours = DefaultHours()
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Engine{hours: hours, horizonDays: horizonDays}
}

// Hours returns the engine's business-hours policy.
func (e *Engine) Hours() Hours { return e.hours }

// HorizonDays returns the configured rendering horizon.
func (e *Engine) HorizonDays() int { return e.horizonDays }

// Check decides whether a one-hour lesson may start at start. Rejections are
// checked in fixed precedence: past time first, then business hours, then
// conflicts against every non-cancelled booking (other users' and the
// requester's own).
func (e *Engine) Check(now, start time.Time, existing []models.Booking) error {
	end := start.Add(models.LessonDuration)

	if start.Before(now) {
		return &RejectionError{Start: start, Reason: ReasonPast}
	}
	if !e.hours.slotFits(start, end) {
		return &RejectionError{Start: start, Reason: ReasonOutsideHours}
	}
	for i := range existing {
		b := &existing[i]
		if !b.IsActive() {
			continue
		}
		bs, err := b.Start()
		if err != nil {
			continue
		}
		if isOverlapping(start, end, bs, bs.Add(models.LessonDuration)) {
			return &RejectionError{Start: start, Reason: ReasonConflict}
		}
	}
	return nil
}

// isOverlapping implements half-open interval overlap: [s1,e1) and [s2,e2)
// intersect iff s1 < e2 && s2 < e1.
func isOverlapping(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
