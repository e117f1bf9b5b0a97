package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lessonbook/internal/models"
)

// CreateBooking inserts a new booking row. ID and CreatedAt must already be
// set by the caller.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, user_id, name, email, phone, lesson_type, notes,
			booking_date, booking_time, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.Email, nullable(b.Phone), b.LessonType, nullable(b.Notes),
		b.BookingDate, b.BookingTime, b.Status, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetBooking returns the booking with the given id.
func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, email, phone, lesson_type, notes,
		       booking_date, booking_time, status, created_at
		FROM bookings WHERE id = ?`, id)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// UpdateBookingStatus sets the status of a booking. Last writer wins; there
// is no optimistic-concurrency token on this table.
func (db *DB) UpdateBookingStatus(ctx context.Context, id, status string) error {
	res, err := db.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListBookingsByUser returns every booking owned by userID regardless of
// status, most recent first.
func (db *DB) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, email, phone, lesson_type, notes,
		       booking_date, booking_time, status, created_at
		FROM bookings
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListActiveBookings returns all non-cancelled bookings with a date inside
// [from, to). This is the conflict-check snapshot; the later insert is not
// transactional with it.
func (db *DB) ListActiveBookings(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, email, phone, lesson_type, notes,
		       booking_date, booking_time, status, created_at
		FROM bookings
		WHERE booking_date >= ? AND booking_date < ? AND status != ?
		ORDER BY booking_date, booking_time`,
		from.Format("2006-01-02"), to.Format("2006-01-02"), models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListAllBookings returns every booking, oldest first, for the admin export.
func (db *DB) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, name, email, phone, lesson_type, notes,
		       booking_date, booking_time, status, created_at
		FROM bookings
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*models.Booking, error) {
	var b models.Booking
	var phone, notes sql.NullString
	err := s.Scan(
		&b.ID, &b.UserID, &b.Name, &b.Email, &phone, &b.LessonType, &notes,
		&b.BookingDate, &b.BookingTime, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		b.Phone = phone.String
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
