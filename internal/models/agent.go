package models

import "time"

// AgentConfig controls the periodic digest pushed to a student.
type AgentConfig struct {
	StudentID             string    `json:"studentId"`
	Enabled               bool      `json:"enabled"`
	DigestIntervalMinutes int       `json:"digestIntervalMinutes" validate:"gte=0,lte=10080"`
	Channels              []string  `json:"channels" validate:"dive,oneof=push email sms"`
	Focus                 []string  `json:"focus" validate:"dive,oneof=colleges scholarships mentors bookings actionPlans"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// DefaultAgentConfig is returned for students who never saved one.
func DefaultAgentConfig(studentID string) *AgentConfig {
	return &AgentConfig{
		StudentID:             studentID,
		Enabled:               true,
		DigestIntervalMinutes: 60,
		Channels:              []string{"push"},
		Focus:                 []string{"colleges", "scholarships", "bookings", "actionPlans"},
	}
}
