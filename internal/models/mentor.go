package models

import (
	"time"

	"admissions-platform/internal/matching"
)

type Mentor struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId,omitempty"`
	Name            string   `json:"name" validate:"notblank,max=120"`
	Email           string   `json:"email,omitempty" validate:"omitempty,email"`
	Title           string   `json:"title,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	Colleges        []string `json:"colleges,omitempty"`
	States          []string `json:"states,omitempty"`
	HourlyRate      *int     `json:"hourlyRate,omitempty" validate:"omitempty,gte=0"`
	MinGPA          *float64 `json:"minGpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	FirstGenFocus   bool     `json:"firstGenFocus"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5"`
	Available       bool     `json:"available"`

	MatchScore int `json:"matchScore"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Mentor) Criteria() matching.Criteria {
	return matching.Criteria{
		MinGPA:           m.MinGPA,
		RequiredStates:   m.States,
		FirstGenRequired: m.FirstGenFocus,
		Specializations:  m.Specializations,
		TargetColleges:   m.Colleges,
		HourlyRate:       m.HourlyRate,
	}
}

// MentorFilter narrows mentor listings.
type MentorFilter struct {
	Specialization string
	AvailableOnly  bool
	Limit          int
	Offset         int
}
