package availability

import (
	"time"

	"lessonbook/internal/models"
)

// Block is a maximal contiguous interval in which every slot would be
// rejected for the same reason. Only ReasonPast and ReasonOutsideHours occur
// here; conflicts are rendered separately as booked slots.
type Block struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason Reason    `json:"reason"`
}

// SlotTag classifies one calendar slot for rendering.
type SlotTag string

const (
	TagFree        SlotTag = "free"
	TagBooked      SlotTag = "booked"       // another user's active booking
	TagUserBooking SlotTag = "user_booking" // the calling user's own booking
)

// Slot is one hour-long interval on the rendered calendar. Computed fresh on
// each request, never stored.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Tag   SlotTag   `json:"tag"`
}

// UnavailableBlocks walks the horizon hour by hour and returns coalesced
// intervals where a slot would be rejected as past or outside business
// hours. Adjacent hours sharing a reason merge into a single block; emitting
// them one by one would flood the calendar renderer.
func (e *Engine) UnavailableBlocks(now, fromDay time.Time, horizonDays int) []Block {
	if horizonDays <= 0 {
		horizonDays = e.horizonDays
	}

	dayStart := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, fromDay.Location())
	horizonEnd := dayStart.AddDate(0, 0, horizonDays)

	var blocks []Block
	for cursor := dayStart; cursor.Before(horizonEnd); cursor = cursor.Add(time.Hour) {
		reason, blocked := e.classify(now, cursor)
		if !blocked {
			continue
		}
		end := cursor.Add(time.Hour)
		if n := len(blocks); n > 0 && blocks[n-1].Reason == reason && blocks[n-1].End.Equal(cursor) {
			blocks[n-1].End = end
			continue
		}
		blocks = append(blocks, Block{Start: cursor, End: end, Reason: reason})
	}
	return blocks
}

// classify mirrors Check's precedence for the two render-level reasons.
func (e *Engine) classify(now, start time.Time) (Reason, bool) {
	if start.Before(now) {
		return ReasonPast, true
	}
	if !e.hours.slotFits(start, start.Add(time.Hour)) {
		return ReasonOutsideHours, true
	}
	return "", false
}

// DaySlots tags the committed bookings of a single day as booked or
// user-booking slots for the calendar. Cancelled bookings never appear.
func (e *Engine) DaySlots(day time.Time, bookings []models.Booking, ownerID string) []Slot {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var slots []Slot
	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive() {
			continue
		}
		start, err := b.Start()
		if err != nil {
			continue
		}
		if start.Before(dayStart) || !start.Before(dayEnd) {
			continue
		}
		tag := TagBooked
		if ownerID != "" && b.UserID == ownerID {
			tag = TagUserBooking
		}
		slots = append(slots, Slot{Start: start, End: start.Add(models.LessonDuration), Tag: tag})
	}
	return slots
}

// Selection is the user's current calendar pick. Selecting the same start
// twice yields identical values; the session keeps at most one.
type Selection struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Select derives the selection for a candidate start time.
func Select(start time.Time) Selection {
	return Selection{Start: start, End: start.Add(models.LessonDuration)}
}
