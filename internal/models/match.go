package models

import (
	"time"

	"admissions-platform/internal/matching"
)

// MatchRequest selects the profile to score against: a stored one by student id,
// or one supplied inline.
type MatchRequest struct {
	StudentID string          `json:"studentId" validate:"required_without=Profile"`
	Profile   *StudentProfile `json:"profile"`
	Limit     int             `json:"limit" validate:"gte=0"`
	Category  string          `json:"category" validate:"omitempty,oneof=safe target reach extremeReach"`
	MinScore  int             `json:"minScore" validate:"gte=0,lte=100"`
}

type CollegeMatch struct {
	College    *College            `json:"college"`
	MatchScore int                 `json:"matchScore"`
	Factors    []matching.Factor   `json:"factors"`
	Assessment matching.Assessment `json:"assessment"`
}

type CollegeMatchResponse struct {
	StudentID string                    `json:"studentId,omitempty"`
	Matches   []CollegeMatch            `json:"matches"`
	Counts    map[matching.Category]int `json:"counts"`
	Total     int                       `json:"total"`
}

type ScholarshipMatch struct {
	Scholarship *Scholarship      `json:"scholarship"`
	MatchScore  int               `json:"matchScore"`
	Factors     []matching.Factor `json:"factors"`
}

type MentorMatch struct {
	Mentor     *Mentor           `json:"mentor"`
	MatchScore int               `json:"matchScore"`
	Factors    []matching.Factor `json:"factors"`
}

// Digest is the payload of an agent digest event.
type Digest struct {
	StudentID        string             `json:"studentId"`
	TopColleges      []CollegeMatch     `json:"topColleges,omitempty"`
	TopScholarships  []ScholarshipMatch `json:"topScholarships,omitempty"`
	TopMentors       []MentorMatch      `json:"topMentors,omitempty"`
	UpcomingBookings []Booking          `json:"upcomingBookings,omitempty"`
	OpenActionItems  []ActionItem       `json:"openActionItems,omitempty"`
	GeneratedAt      time.Time          `json:"generatedAt"`
}
