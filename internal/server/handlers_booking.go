package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"lessonbook/internal/availability"
	"lessonbook/internal/booking"
	"lessonbook/internal/metrics"
	"lessonbook/internal/models"
)

// handleSubmit stores a new pending booking.
// POST /api/bookings
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("submit")

	var req booking.SubmitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.svc.Submit(r.Context(), req, UserID(r.Context()))
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result.Booking)
}

// writeSubmitError maps rejection categories to distinct user-displayable
// responses. Only persistence failures collapse to a generic message.
func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	if reason, ok := availability.RejectionReason(err); ok {
		msg := map[availability.Reason]string{
			availability.ReasonPast:         "that time has already passed",
			availability.ReasonOutsideHours: "that time is outside our business hours",
			availability.ReasonConflict:     "that time slot is already booked",
		}[reason]
		writeJSON(w, http.StatusConflict, map[string]string{"error": msg, "reason": string(reason)})
		return
	}
	if errors.Is(err, models.ErrMissingField) || errors.Is(err, models.ErrInvalidField) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error().Err(err).Msg("booking submit failed")
	writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
}

// handleListBookings returns the caller's bookings, newest first.
// GET /api/bookings
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("list_bookings")

	bookings, err := s.svc.ListForOwner(r.Context(), UserID(r.Context()))
	if err != nil {
		s.logger.Error().Err(err).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// handleCancel cancels the caller's own booking.
// POST /api/bookings/:id/cancel
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics.IncHTTP("cancel")

	err := s.svc.Cancel(r.Context(), ps.ByName("id"), UserID(r.Context()))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, models.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not your booking")
	case errors.Is(err, models.ErrTerminalState):
		writeError(w, http.StatusConflict, "booking already finalized")
	default:
		s.logger.Error().Err(err).Msg("cancel failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}

// handleAvailability returns the coalesced unavailable blocks and tagged
// booked slots for the requested window.
// GET /api/availability?from=YYYY-MM-DD&days=N
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("availability")

	from := time.Now()
	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
			return
		}
		from = parsed
	}

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	view, err := s.svc.Calendar(r.Context(), UserID(r.Context()), from, days)
	if err != nil {
		s.logger.Error().Err(err).Msg("availability failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type selectRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

// handleSelect validates and stores the caller's slot selection. Selecting
// the same slot again returns the identical selection; a different slot
// replaces it.
// POST /api/selection
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("select")

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	start, err := models.ParseSlot(req.Date, req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date or time")
		return
	}

	if err := s.svc.CheckSlot(r.Context(), start); err != nil {
		s.writeSubmitError(w, err)
		return
	}

	sel, err := s.selections.Select(r.Context(), UserID(r.Context()), start)
	if err != nil {
		s.logger.Error().Err(err).Msg("store selection failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// handleGetSelection returns the caller's current selection, if any.
// GET /api/selection
func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sel, ok, err := s.selections.Get(r.Context(), UserID(r.Context()))
	if err != nil {
		s.logger.Error().Err(err).Msg("get selection failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"selection": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"selection": sel})
}
