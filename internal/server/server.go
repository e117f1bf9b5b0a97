// Package server exposes the booking service over HTTP. The JSON API under
// /api requires an identity-provider token; the approve/deny endpoints are
// deliberately plain GET links reachable from the admin email, matching the
// original design (documented weakness, not an oversight).
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"lessonbook/internal/booking"
	"lessonbook/internal/models"
	"lessonbook/internal/notify"
	"lessonbook/internal/selection"
)

// Mailer relays contact and donation form submissions.
type Mailer interface {
	ContactMessage(ctx context.Context, m notify.ContactMessage) error
	DonationOffer(ctx context.Context, o notify.DonationOffer) error
}

// Exporter feeds the admin spreadsheet export.
type Exporter interface {
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
}

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	svc         *booking.Service
	selections  selection.Store
	mailer      Mailer
	exporter    Exporter
	logger      zerolog.Logger
	jwtSecret   []byte
	adminAPIKey string
}

// New constructs the server.
func New(svc *booking.Service, selections selection.Store, mailer Mailer, exporter Exporter, jwtSecret []byte, adminAPIKey string, logger zerolog.Logger) *Server {
	return &Server{
		svc:         svc,
		selections:  selections,
		mailer:      mailer,
		exporter:    exporter,
		logger:      logger,
		jwtSecret:   jwtSecret,
		adminAPIKey: adminAPIKey,
	}
}

// Router builds the route table.
func (s *Server) Router() *httprouter.Router {
	router := httprouter.New()

	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.POST("/api/bookings", s.authenticate(s.handleSubmit))
	router.GET("/api/bookings", s.authenticate(s.handleListBookings))
	router.POST("/api/bookings/:id/cancel", s.authenticate(s.handleCancel))

	router.GET("/api/availability", s.optionalAuth(s.handleAvailability))
	router.POST("/api/selection", s.authenticate(s.handleSelect))
	router.GET("/api/selection", s.authenticate(s.handleGetSelection))

	// Unauthenticated by design: these are the links in the admin email.
	router.GET("/approve", s.handleApprove)
	router.GET("/deny", s.handleDeny)

	router.POST("/api/contact", s.handleContact)
	router.POST("/api/donate", s.handleDonate)

	router.GET("/admin/export", s.requireAPIKey(s.handleExport))

	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
