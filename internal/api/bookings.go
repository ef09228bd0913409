package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/models"
	"admissions-platform/internal/notification"
	"admissions-platform/internal/store"
)

const defaultBookingMinutes = 60

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.BookingFilter{
		StudentID: q.Get("studentId"),
		MentorID:  q.Get("mentorId"),
		Status:    models.BookingStatus(q.Get("status")),
	}
	if raw := q.Get("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			s.writeError(w, r, errors.NewValidationError("invalid query parameter",
				errors.FieldError{Field: "from", Message: "from must be a date (YYYY-MM-DD) or RFC 3339 time"}))
			return
		}
		filter.From = &from
	}

	bookings, err := s.store.Bookings.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(bookings))
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	student, err := s.store.Users.Get(r.Context(), req.StudentID)
	if err != nil {
		s.writeError(w, r, missing(err, "user", req.StudentID))
		return
	}
	mentor, err := s.store.Mentors.Get(r.Context(), req.MentorID)
	if err != nil {
		s.writeError(w, r, missing(err, "mentor", req.MentorID))
		return
	}
	if !mentor.Available {
		s.writeError(w, r, errors.NewConflictError("booking", "mentor "+mentor.ID+" is not accepting bookings"))
		return
	}

	booking := &models.Booking{
		StudentID:       req.StudentID,
		MentorID:        req.MentorID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          models.BookingPending,
		Topic:           strings.TrimSpace(req.Topic),
		Notes:           req.Notes,
	}
	if booking.DurationMinutes == 0 {
		booking.DurationMinutes = defaultBookingMinutes
	}
	if err := s.store.Bookings.Create(r.Context(), booking); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.notifyBooking(r, booking, student, mentor)
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	booking, err := s.store.Bookings.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = errors.NewBookingNotFoundError(id)
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Bookings.Delete(r.Context(), id); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = errors.NewBookingNotFoundError(id)
		}
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateBookingStatus moves a booking along pending -> confirmed -> completed, with
// cancellation allowed from either open status.
func (s *Server) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.UpdateBookingStatusRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	booking, err := s.store.Bookings.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = errors.NewBookingNotFoundError(id)
		}
		s.writeError(w, r, err)
		return
	}
	if !booking.Status.CanTransition(req.Status) {
		s.writeError(w, r, errors.NewInvalidBookingStatusError(string(booking.Status), string(req.Status)))
		return
	}

	booking.Status = req.Status
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	if err := s.store.Bookings.Update(r.Context(), booking); err != nil {
		s.writeError(w, r, err)
		return
	}

	student, _ := s.store.Users.Get(r.Context(), booking.StudentID)
	mentor, _ := s.store.Mentors.Get(r.Context(), booking.MentorID)
	s.notifyBooking(r, booking, student, mentor)
	writeJSON(w, http.StatusOK, booking)
}

// notifyBooking never fails the request; delivery problems are logged.
func (s *Server) notifyBooking(r *http.Request, b *models.Booking, student *models.User, mentor *models.Mentor) {
	log := logger.FromContext(r.Context(), s.logger)
	result, err := s.notifier.Send(r.Context(), notification.BookingMessage(b, student, mentor))
	if err != nil {
		log.Warn("booking notification failed", map[string]interface{}{
			"bookingId": b.ID,
			"status":    b.Status,
			"error":     err.Error(),
		})
		return
	}
	log.Debug("booking notification", map[string]interface{}{
		"bookingId":      b.ID,
		"notificationId": result.NotificationID,
		"result":         result.Status,
	})
}
