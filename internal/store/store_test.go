package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonbook/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleBooking(id, userID, date, clock string) *models.Booking {
	return &models.Booking{
		ID:          id,
		UserID:      userID,
		Name:        "Ada Student",
		Email:       "ada@example.com",
		Phone:       "555-0101",
		LessonType:  "guitar",
		Notes:       "beginner",
		BookingDate: date,
		BookingTime: clock,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	b := sampleBooking("b1", "u1", "2024-03-16", "09:00")
	require.NoError(t, db.CreateBooking(ctx, b))

	got, err := db.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.UserID, got.UserID)
	assert.Equal(t, b.Phone, got.Phone)
	assert.Equal(t, b.Notes, got.Notes)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestGetBookingNotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetBooking(context.Background(), "nope")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestCreateBookingNullableFields(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	b := sampleBooking("b1", "u1", "2024-03-16", "09:00")
	b.Phone = ""
	b.Notes = ""
	require.NoError(t, db.CreateBooking(ctx, b))

	got, err := db.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
	assert.Empty(t, got.Notes)
}

func TestCreateBookingDuplicateID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	b := sampleBooking("b1", "u1", "2024-03-16", "09:00")
	require.NoError(t, db.CreateBooking(ctx, b))
	assert.Error(t, db.CreateBooking(ctx, b))
}

func TestUpdateBookingStatus(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateBooking(ctx, sampleBooking("b1", "u1", "2024-03-16", "09:00")))
	require.NoError(t, db.UpdateBookingStatus(ctx, "b1", models.StatusConfirmed))

	got, err := db.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestUpdateBookingStatusNotFound(t *testing.T) {
	db := testDB(t)

	err := db.UpdateBookingStatus(context.Background(), "nope", models.StatusConfirmed)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestListBookingsByUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := sampleBooking("b1", "u1", "2024-03-16", "09:00")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	second := sampleBooking("b2", "u1", "2024-03-17", "10:00")
	other := sampleBooking("b3", "u2", "2024-03-16", "11:00")

	for _, b := range []*models.Booking{first, second, other} {
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	got, err := db.ListBookingsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b2", got[0].ID, "newest first")
	assert.Equal(t, "b1", got[1].ID)
}

func TestListActiveBookings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	inRange := sampleBooking("b1", "u1", "2024-03-16", "09:00")
	cancelled := sampleBooking("b2", "u1", "2024-03-16", "10:00")
	cancelled.Status = models.StatusCancelled
	confirmed := sampleBooking("b3", "u2", "2024-03-16", "11:00")
	confirmed.Status = models.StatusConfirmed
	outOfRange := sampleBooking("b4", "u1", "2024-03-17", "09:00")

	for _, b := range []*models.Booking{inRange, cancelled, confirmed, outOfRange} {
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	from := time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local)
	got, err := db.ListActiveBookings(ctx, from, from.AddDate(0, 0, 1))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b3", got[1].ID, "confirmed bookings still block slots")
}

func TestListAllBookings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	old := sampleBooking("b1", "u1", "2024-03-16", "09:00")
	old.CreatedAt = time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	recent := sampleBooking("b2", "u2", "2024-03-17", "10:00")

	require.NoError(t, db.CreateBooking(ctx, old))
	require.NoError(t, db.CreateBooking(ctx, recent))

	got, err := db.ListAllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID, "oldest first")
}
