package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonbook/internal/models"
)

func TestUnavailableBlocksCoalescing(t *testing.T) {
	engine := NewEngine(DefaultHours(), 30)
	day := slot("2024-03-16", 0) // Saturday
	now := slot("2024-03-16", 10)

	blocks := engine.UnavailableBlocks(now, day, 1)

	// Expected shape for the one Saturday:
	//   00:00-08:00 past   (hours 0-7 precede now and past wins precedence)
	//   08:00-10:00 past   (open but already gone)
	//   20:00-24:00 outside_hours
	// The first two must coalesce into one block, not twelve.
	require.Len(t, blocks, 2)

	assert.Equal(t, ReasonPast, blocks[0].Reason)
	assert.Equal(t, slot("2024-03-16", 0), blocks[0].Start)
	assert.Equal(t, slot("2024-03-16", 10), blocks[0].End)

	assert.Equal(t, ReasonOutsideHours, blocks[1].Reason)
	assert.Equal(t, slot("2024-03-16", 20), blocks[1].Start)
	assert.Equal(t, slot("2024-03-17", 0), blocks[1].End)
}

func TestUnavailableBlocksReasonBoundary(t *testing.T) {
	engine := NewEngine(DefaultHours(), 30)
	day := slot("2024-03-19", 0) // Tuesday, open 18-20
	now := slot("2024-03-18", 0)

	blocks := engine.UnavailableBlocks(now, day, 1)

	// Whole Tuesday outside 18:00-20:00 is blocked, nothing is past.
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Start: slot("2024-03-19", 0), End: slot("2024-03-19", 18), Reason: ReasonOutsideHours}, blocks[0])
	assert.Equal(t, Block{Start: slot("2024-03-19", 20), End: slot("2024-03-20", 0), Reason: ReasonOutsideHours}, blocks[1])
}

func TestUnavailableBlocksHorizonBound(t *testing.T) {
	engine := NewEngine(DefaultHours(), 3)
	day := slot("2024-03-16", 0)

	blocks := engine.UnavailableBlocks(slot("2024-03-16", 0), day, 0)

	horizonEnd := slot("2024-03-19", 0)
	for _, b := range blocks {
		assert.False(t, b.End.After(horizonEnd), "block %v exceeds horizon", b)
	}
}

func TestDaySlotsTagging(t *testing.T) {
	engine := NewEngine(DefaultHours(), 30)
	day := slot("2024-03-16", 0)

	cancelled := booked("u2", "2024-03-16", "11:00")
	cancelled.Status = models.StatusCancelled

	bookings := []models.Booking{
		booked("me", "2024-03-16", "09:00"),
		booked("u2", "2024-03-16", "14:00"),
		cancelled,
		booked("u2", "2024-03-17", "10:00"), // other day, filtered
	}

	slots := engine.DaySlots(day, bookings, "me")
	require.Len(t, slots, 2)

	assert.Equal(t, TagUserBooking, slots[0].Tag)
	assert.Equal(t, slot("2024-03-16", 9), slots[0].Start)
	assert.Equal(t, slot("2024-03-16", 10), slots[0].End)

	assert.Equal(t, TagBooked, slots[1].Tag)
	assert.Equal(t, slot("2024-03-16", 14), slots[1].Start)
}

func TestDaySlotsAnonymousViewer(t *testing.T) {
	engine := NewEngine(DefaultHours(), 30)
	slots := engine.DaySlots(slot("2024-03-16", 0), []models.Booking{booked("u1", "2024-03-16", "09:00")}, "")
	require.Len(t, slots, 1)
	assert.Equal(t, TagBooked, slots[0].Tag)
}

func TestSelectDeterministic(t *testing.T) {
	start := slot("2024-03-16", 9)

	first := Select(start)
	second := Select(start)

	assert.Equal(t, first, second)
	assert.Equal(t, start.Add(models.LessonDuration), first.End)
}
