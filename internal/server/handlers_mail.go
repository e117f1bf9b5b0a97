package server

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/julienschmidt/httprouter"

	"lessonbook/internal/metrics"
	"lessonbook/internal/notify"
)

// handleContact relays a contact-form submission to the admin inbox.
// Nothing is stored; a failed relay is a failed request.
// POST /api/contact
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("contact")

	var m notify.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg, ok := validateContact(m); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.mailer.ContactMessage(r.Context(), m); err != nil {
		s.logger.Error().Err(err).Msg("contact relay failed")
		writeError(w, http.StatusInternalServerError, "could not send your message, please try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleDonate relays an instrument donation offer to the admin inbox.
// POST /api/donate
func (s *Server) handleDonate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	metrics.IncHTTP("donate")

	var o notify.DonationOffer
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg, ok := validateDonation(o); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.mailer.DonationOffer(r.Context(), o); err != nil {
		s.logger.Error().Err(err).Msg("donation relay failed")
		writeError(w, http.StatusInternalServerError, "could not send your offer, please try again")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func validateContact(m notify.ContactMessage) (string, bool) {
	switch {
	case strings.TrimSpace(m.Name) == "":
		return "name is required", false
	case strings.TrimSpace(m.Message) == "":
		return "message is required", false
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return "a valid email is required", false
	}
	return "", true
}

func validateDonation(o notify.DonationOffer) (string, bool) {
	switch {
	case strings.TrimSpace(o.Name) == "":
		return "name is required", false
	case strings.TrimSpace(o.InstrumentType) == "":
		return "instrument type is required", false
	}
	if _, err := mail.ParseAddress(o.Email); err != nil {
		return "a valid email is required", false
	}
	return "", true
}
