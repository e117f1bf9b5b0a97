package notify

import (
	"fmt"
	"html"
	"strings"

	"lessonbook/internal/models"
)

func orText(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return html.EscapeString(s)
}

// adminRequestBody renders the admin-facing booking request email with
// approve and deny action links.
func adminRequestBody(b *models.Booking, actionBaseURL string) string {
	approveURL := fmt.Sprintf("%s/approve?id=%s", actionBaseURL, b.ID)
	denyURL := fmt.Sprintf("%s/deny?id=%s", actionBaseURL, b.ID)

	return fmt.Sprintf(`
		<h2>New Booking Request</h2>
		<p><strong>Student:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Phone:</strong> %s</p>
		<p><strong>Lesson Type:</strong> %s</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		<p><strong>Notes:</strong> %s</p>

		<div style="margin: 30px 0;">
			<a href="%s" style="background: #22c55e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-right: 10px;">Approve Booking</a>
			<a href="%s" style="background: #ef4444; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Deny Booking</a>
		</div>

		<p style="font-size: 12px; color: #666;">This booking was submitted on %s</p>`,
		html.EscapeString(b.Name),
		html.EscapeString(b.Email),
		orText(b.Phone, "Not provided"),
		html.EscapeString(b.LessonType),
		b.BookingDate,
		b.BookingTime,
		orText(b.Notes, "None"),
		approveURL,
		denyURL,
		b.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
	)
}

// requesterDecisionBody renders the requester-facing decision email.
func requesterDecisionBody(b *models.Booking, outcome Outcome) string {
	if outcome == OutcomeConfirmed {
		return fmt.Sprintf(`
			<h2>Your booking is confirmed!</h2>
			<p>Hi %s,</p>
			<p>Your <strong>%s</strong> lesson on <strong>%s</strong> at <strong>%s</strong> has been confirmed.</p>
			<p>See you there!</p>`,
			html.EscapeString(b.Name),
			html.EscapeString(b.LessonType),
			b.BookingDate,
			b.BookingTime,
		)
	}
	return fmt.Sprintf(`
		<h2>About your lesson request</h2>
		<p>Hi %s,</p>
		<p>Unfortunately we can't accommodate your <strong>%s</strong> lesson request for <strong>%s</strong> at <strong>%s</strong>.</p>
		<p>Please pick another time on our booking calendar, or reply to this email if you have questions.</p>`,
		html.EscapeString(b.Name),
		html.EscapeString(b.LessonType),
		b.BookingDate,
		b.BookingTime,
	)
}

// reminderBody renders the day-before lesson reminder.
func reminderBody(b *models.Booking) string {
	return fmt.Sprintf(`
		<h2>See you tomorrow!</h2>
		<p>Hi %s,</p>
		<p>A quick reminder about your <strong>%s</strong> lesson tomorrow, <strong>%s</strong> at <strong>%s</strong>.</p>
		<p>If you can't make it, please cancel through your profile so the slot frees up.</p>`,
		html.EscapeString(b.Name),
		html.EscapeString(b.LessonType),
		b.BookingDate,
		b.BookingTime,
	)
}

// contactBody renders a contact-form relay email.
func contactBody(m ContactMessage) string {
	return fmt.Sprintf(`
		<h2>New Contact Form Submission</h2>
		<p><strong>Contact Information:</strong></p>
		<ul>
			<li><strong>Name:</strong> %s</li>
			<li><strong>Email:</strong> %s</li>
			<li><strong>Phone:</strong> %s</li>
			<li><strong>Subject:</strong> %s</li>
		</ul>

		<p><strong>Message:</strong></p>
		<div style="background-color: #f5f5f5; padding: 15px; border-left: 4px solid #007cba; margin: 15px 0;">
			%s
		</div>

		<p><strong>Reply to:</strong> %s</p>`,
		html.EscapeString(m.Name),
		html.EscapeString(m.Email),
		orText(m.Phone, "Not provided"),
		html.EscapeString(m.Subject),
		strings.ReplaceAll(html.EscapeString(m.Message), "\n", "<br>"),
		html.EscapeString(m.Email),
	)
}

// donationBody renders an instrument-donation relay email.
func donationBody(o DonationOffer) string {
	var extra string
	if strings.TrimSpace(o.Description) != "" {
		extra = fmt.Sprintf("<p><strong>Additional Details:</strong><br>%s</p>", html.EscapeString(o.Description))
	}
	return fmt.Sprintf(`
		<h2>New Instrument Donation Offer</h2>
		<ul>
			<li><strong>Name:</strong> %s</li>
			<li><strong>Email:</strong> %s</li>
			<li><strong>Phone:</strong> %s</li>
			<li><strong>Type:</strong> %s</li>
			<li><strong>Condition:</strong> %s</li>
		</ul>
		%s
		<p>Please contact the donor to arrange pickup/delivery of the instrument.</p>`,
		html.EscapeString(o.Name),
		html.EscapeString(o.Email),
		orText(o.Phone, "Not provided"),
		html.EscapeString(o.InstrumentType),
		orText(o.Condition, "Not specified"),
		extra,
	)
}
