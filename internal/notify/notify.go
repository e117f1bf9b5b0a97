// Package notify delivers transactional email through a Resend-compatible
// HTTP API, with an optional Telegram alert channel for admins. Delivery is
// best effort: callers log failures and proceed, booking state never depends
// on it.
package notify

import (
	"context"
	"errors"

	"lessonbook/internal/models"
)

// Outcome of an admin decision, as shown to the requester.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeDenied    Outcome = "denied"
)

// Notifier sends booking-related notifications.
type Notifier interface {
	// AdminBookingRequest tells the admin about a new pending booking and
	// carries the approve/deny links.
	AdminBookingRequest(ctx context.Context, b *models.Booking) error

	// RequesterDecision tells the requester the admin's decision.
	RequesterDecision(ctx context.Context, b *models.Booking, outcome Outcome) error
}

// ContactMessage is a contact-form submission relayed to the admin inbox.
// Nothing is persisted for these.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// DonationOffer is a donation-form submission relayed to the admin inbox.
type DonationOffer struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	InstrumentType string `json:"instrument_type"`
	Condition      string `json:"condition,omitempty"`
	Description    string `json:"description,omitempty"`
}

// Fanout delivers each notification through every channel and joins the
// failures. A booking alert should still reach Telegram when email is down.
type Fanout []Notifier

func (f Fanout) AdminBookingRequest(ctx context.Context, b *models.Booking) error {
	var errs []error
	for _, n := range f {
		if err := n.AdminBookingRequest(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) RequesterDecision(ctx context.Context, b *models.Booking, outcome Outcome) error {
	var errs []error
	for _, n := range f {
		if err := n.RequesterDecision(ctx, b, outcome); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
