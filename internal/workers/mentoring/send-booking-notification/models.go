// internal/workers/mentoring/send-booking-notification/models.go
package sendbookingnotification

import "time"

// Input names the booking to announce. Email and Phone override the student's stored
// contact details; Channels restricts delivery to "email" and/or "sms".
type Input struct {
	BookingID string   `json:"bookingId"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Channels  []string `json:"channels,omitempty"`
}

type Output struct {
	NotificationID   string    `json:"notificationId"`
	Status           string    `json:"status"`
	NotificationType string    `json:"notificationType"`
	Channels         []string  `json:"channels"`
	SentAt           time.Time `json:"sentAt"`
}
