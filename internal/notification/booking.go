package notification

import "admissions-platform/internal/models"

// TypeForStatus maps a booking status to its notification type.
func TypeForStatus(status models.BookingStatus) string {
	switch status {
	case models.BookingConfirmed:
		return TypeBookingConfirmed
	case models.BookingCancelled:
		return TypeBookingCancelled
	case models.BookingCompleted:
		return TypeBookingCompleted
	default:
		return TypeBookingRequested
	}
}

// BookingMessage addresses a booking update to the student and the mentor. student and
// mentor may be nil when the records are gone.
func BookingMessage(b *models.Booking, student *models.User, mentor *models.Mentor) Message {
	msg := Message{
		Type: TypeForStatus(b.Status),
		Data: map[string]interface{}{
			"bookingId":   b.ID,
			"scheduledAt": b.ScheduledAt,
			"topic":       b.Topic,
			"status":      string(b.Status),
		},
	}
	if student != nil {
		msg.Data["studentName"] = student.Name
		msg.Recipients = append(msg.Recipients, Recipient{Email: student.Email, Phone: student.Phone})
	}
	if mentor != nil {
		msg.Data["mentorName"] = mentor.Name
		msg.Recipients = append(msg.Recipients, Recipient{Email: mentor.Email})
	}
	return msg
}
