package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"lessonbook/internal/models"
)

// RetryConfig holds the retry schedule for email delivery. There is no
// queueing: once the delays are exhausted the send fails for good.
type RetryConfig struct {
	MaxRetries  int
	RetryDelays []time.Duration
}

// DefaultRetryConfig returns the default retry schedule.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelays: []time.Duration{
			1 * time.Second,
			5 * time.Second,
			30 * time.Second,
		},
	}
}

// EmailSenderConfig configures the Resend client.
type EmailSenderConfig struct {
	BaseURL    string // default https://api.resend.com
	APIKey     string
	From       string // e.g. "Beats2Bridges <bookings@beats2bridges.org>"
	AdminEmail string
	// ActionBaseURL is the public URL prefix for approve/deny links,
	// e.g. "https://booking.beats2bridges.org".
	ActionBaseURL string
	Retry         RetryConfig
	// Rate bounds outbound sends; provider limits apply account-wide.
	Rate  float64
	Burst int
}

// EmailSender delivers notifications through the Resend HTTP API.
type EmailSender struct {
	cfg        EmailSenderConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewEmailSender constructs a sender. Zero-valued config fields take
// defaults.
func NewEmailSender(cfg EmailSenderConfig, logger zerolog.Logger) *EmailSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	if cfg.Retry.MaxRetries == 0 && len(cfg.Retry.RetryDelays) == 0 {
		cfg.Retry = DefaultRetryConfig()
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	return &EmailSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		logger:     logger,
	}
}

type email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// AdminBookingRequest emails the admin the booking details plus approve and
// deny links.
func (s *EmailSender) AdminBookingRequest(ctx context.Context, b *models.Booking) error {
	msg := email{
		From:    s.cfg.From,
		To:      []string{s.cfg.AdminEmail},
		Subject: fmt.Sprintf("New Booking Request - %s", b.Name),
		HTML:    adminRequestBody(b, s.cfg.ActionBaseURL),
	}
	return s.send(ctx, "admin_request", msg)
}

// RequesterDecision emails the requester the admin's decision.
func (s *EmailSender) RequesterDecision(ctx context.Context, b *models.Booking, outcome Outcome) error {
	subject := "Your lesson is confirmed!"
	if outcome == OutcomeDenied {
		subject = "About your lesson request"
	}
	msg := email{
		From:    s.cfg.From,
		To:      []string{b.Email},
		Subject: subject,
		HTML:    requesterDecisionBody(b, outcome),
	}
	return s.send(ctx, "requester_decision", msg)
}

// LessonReminder emails the requester the day before a confirmed lesson.
func (s *EmailSender) LessonReminder(ctx context.Context, b *models.Booking) error {
	msg := email{
		From:    s.cfg.From,
		To:      []string{b.Email},
		Subject: "Reminder: your lesson is tomorrow",
		HTML:    reminderBody(b),
	}
	return s.send(ctx, "reminder", msg)
}

// ContactMessage relays a contact-form submission to the admin inbox with
// reply-to set to the sender.
func (s *EmailSender) ContactMessage(ctx context.Context, m ContactMessage) error {
	msg := email{
		From:    s.cfg.From,
		To:      []string{s.cfg.AdminEmail},
		Subject: fmt.Sprintf("Contact Form: %s", m.Subject),
		HTML:    contactBody(m),
		ReplyTo: m.Email,
	}
	return s.send(ctx, "contact", msg)
}

// DonationOffer relays an instrument-donation form submission to the admin.
func (s *EmailSender) DonationOffer(ctx context.Context, o DonationOffer) error {
	msg := email{
		From:    s.cfg.From,
		To:      []string{s.cfg.AdminEmail},
		Subject: fmt.Sprintf("New Instrument Donation: %s", o.InstrumentType),
		HTML:    donationBody(o),
		ReplyTo: o.Email,
	}
	return s.send(ctx, "donation", msg)
}

// send posts one email with rate limiting and retry. 4xx responses are not
// retried; retrying a rejected payload only burns quota.
func (s *EmailSender) send(ctx context.Context, kind string, msg email) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var lastErr error
	delays := s.cfg.Retry.RetryDelays
	for attempt := 0; attempt <= s.cfg.Retry.MaxRetries; attempt++ {
		err := s.post(ctx, msg)
		if err == nil {
			sendsTotal.WithLabelValues(kind, "ok").Inc()
			return nil
		}
		lastErr = err

		var he *httpError
		if errors.As(err, &he) && he.Status >= 400 && he.Status < 500 && he.Status != http.StatusTooManyRequests {
			break
		}

		if attempt < s.cfg.Retry.MaxRetries {
			delay := delays[min(attempt, len(delays)-1)]
			s.logger.Info().
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Err(err).
				Msg("retrying email send")
			sendRetries.Inc()

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	sendsTotal.WithLabelValues(kind, "failed").Inc()
	return fmt.Errorf("send %s email: %w", kind, lastErr)
}

type httpError struct {
	Status int
	Body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("resend http %d: %s", e.Status, e.Body)
}

func (s *EmailSender) post(ctx context.Context, msg email) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/emails", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}
