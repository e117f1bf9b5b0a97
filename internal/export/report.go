package export

import (
	"fmt"
	"io"
	"time"

	"lessonbook/internal/models"
)

var bookingColumns = []string{
	"ID", "Student", "Email", "Phone", "Lesson", "Date", "Time", "Status", "Notes", "Created",
}

// Filename generates the export filename, e.g. "bookings_2026-09.xlsx".
func Filename(t time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", t.Format("2006-01"))
}

// WriteBookingsReport renders all bookings onto one sheet and writes the
// workbook to w.
func WriteBookingsReport(w io.Writer, writer ExcelWriter, bookings []models.Booking) error {
	if err := writer.AddSheet("Bookings"); err != nil {
		return err
	}
	if err := writer.WriteHeader(bookingColumns); err != nil {
		return err
	}
	for i := range bookings {
		b := &bookings[i]
		row := []any{
			b.ID, b.Name, b.Email, b.Phone, b.LessonType,
			b.BookingDate, b.BookingTime, b.Status, b.Notes,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := writer.WriteRow(row); err != nil {
			return fmt.Errorf("write booking %s: %w", b.ID, err)
		}
	}
	return writer.Save(w)
}
