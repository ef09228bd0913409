package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// bookingTransitions lists the statuses reachable from each status.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              string        `json:"id"`
	StudentID       string        `json:"studentId"`
	MentorID        string        `json:"mentorId"`
	ScheduledAt     time.Time     `json:"scheduledAt"`
	DurationMinutes int           `json:"durationMinutes"`
	Status          BookingStatus `json:"status"`
	Topic           string        `json:"topic,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type CreateBookingRequest struct {
	StudentID       string    `json:"studentId" validate:"notblank"`
	MentorID        string    `json:"mentorId" validate:"notblank"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"omitempty,gte=15,lte=240"`
	Topic           string    `json:"topic" validate:"max=200"`
	Notes           string    `json:"notes" validate:"max=2000"`
}

type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Notes  *string       `json:"notes" validate:"omitempty,max=2000"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	StudentID string
	MentorID  string
	Status    BookingStatus
	From      *time.Time
}
