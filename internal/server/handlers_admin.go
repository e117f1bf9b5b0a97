package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"lessonbook/internal/booking"
	"lessonbook/internal/export"
	"lessonbook/internal/metrics"
	"lessonbook/internal/models"
)

const decisionPage = `<html>
  <body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
    <h1 style="color: %s;">%s</h1>
    <p>%s</p>
  </body>
</html>`

func writeDecisionPage(w http.ResponseWriter, status int, color, heading, detail string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, decisionPage, color, heading, detail)
}

// handleApprove confirms a booking via the emailed link. These render HTML,
// not JSON: the admin clicks them in a mail client.
// GET /approve?id=<booking id>
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("approve")
	s.handleDecision(w, r, s.svc.Approve, "#22c55e", "✓ Booking Approved", "The booking has been successfully approved.")
}

// handleDeny cancels a booking via the emailed link.
// GET /deny?id=<booking id>
func (s *Server) handleDeny(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("deny")
	s.handleDecision(w, r, s.svc.Deny, "#ef4444", "✗ Booking Denied", "The booking has been denied.")
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, id string) (*booking.Result, error), color, heading, detail string) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeDecisionPage(w, http.StatusBadRequest, "#ef4444", "Invalid Link", "The booking id is missing from this link.")
		return
	}

	_, err := decide(r.Context(), id)
	switch {
	case err == nil:
		writeDecisionPage(w, http.StatusOK, color, heading, detail)
	case errors.Is(err, models.ErrNotFound):
		writeDecisionPage(w, http.StatusNotFound, "#ef4444", "Booking Not Found", "No booking exists for this link.")
	case errors.Is(err, models.ErrTerminalState):
		writeDecisionPage(w, http.StatusConflict, "#ef4444", "Already Decided", "This booking was already finalized with a different decision.")
	default:
		s.logger.Error().Err(err).Str("booking_id", id).Msg("admin decision failed")
		writeDecisionPage(w, http.StatusInternalServerError, "#ef4444", "Something Went Wrong", "The decision could not be applied. Please try again.")
	}
}

// handleExport streams all bookings as an xlsx workbook.
// GET /admin/export
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("export")

	bookings, err := s.exporter.ListAllBookings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("export: load bookings failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	writer := export.NewExcelizeWriter()
	defer writer.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	if err := export.WriteBookingsReport(w, writer, bookings); err != nil {
		s.logger.Error().Err(err).Msg("export: write workbook failed")
	}
}
