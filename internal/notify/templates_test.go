package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lessonbook/internal/models"
)

func templateBooking() *models.Booking {
	return &models.Booking{
		ID:          "b-123",
		Name:        "Ada Student",
		Email:       "ada@example.com",
		LessonType:  "guitar",
		BookingDate: "2024-03-16",
		BookingTime: "09:00",
		CreatedAt:   time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestAdminRequestBody(t *testing.T) {
	body := adminRequestBody(templateBooking(), "https://booking.example.org")

	assert.Contains(t, body, "Ada Student")
	assert.Contains(t, body, `href="https://booking.example.org/approve?id=b-123"`)
	assert.Contains(t, body, `href="https://booking.example.org/deny?id=b-123"`)
	assert.Contains(t, body, "Not provided", "empty phone gets a fallback")
	assert.Contains(t, body, "None", "empty notes get a fallback")
}

func TestAdminRequestBodyEscapesHTML(t *testing.T) {
	b := templateBooking()
	b.Name = `<script>alert("x")</script>`
	b.Notes = "likes <b>loud</b> music"

	body := adminRequestBody(b, "https://booking.example.org")

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<b>loud</b>")
}

func TestRequesterDecisionBody(t *testing.T) {
	confirmed := requesterDecisionBody(templateBooking(), OutcomeConfirmed)
	assert.Contains(t, confirmed, "confirmed")
	assert.Contains(t, confirmed, "2024-03-16")
	assert.Contains(t, confirmed, "09:00")

	denied := requesterDecisionBody(templateBooking(), OutcomeDenied)
	assert.Contains(t, denied, "can't accommodate")
	assert.Contains(t, denied, "booking calendar")
}

func TestContactBodyPreservesLineBreaks(t *testing.T) {
	body := contactBody(ContactMessage{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Hours",
		Message: "line one\nline two",
	})

	assert.Contains(t, body, "line one<br>line two")
	assert.Contains(t, body, "visitor@example.com")
}

func TestDonationBodyOptionalFields(t *testing.T) {
	minimal := donationBody(DonationOffer{
		Name:           "Donor",
		Email:          "donor@example.com",
		InstrumentType: "violin",
	})
	assert.Contains(t, minimal, "violin")
	assert.Contains(t, minimal, "Not specified")
	assert.NotContains(t, minimal, "Additional Details")

	full := donationBody(DonationOffer{
		Name:           "Donor",
		Email:          "donor@example.com",
		InstrumentType: "violin",
		Condition:      "good",
		Description:    "slightly scratched",
	})
	assert.Contains(t, full, "Additional Details")
	assert.Contains(t, full, "slightly scratched")
}
