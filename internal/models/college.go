package models

import (
	"time"

	"admissions-platform/internal/matching"
)

type College struct {
	ID             string   `json:"id"`
	Name           string   `json:"name" validate:"notblank,max=200"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Region         string   `json:"region,omitempty"`
	Type           string   `json:"type,omitempty" validate:"omitempty,oneof=public private"`
	Size           string   `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	Tuition        int      `json:"tuition" validate:"gte=0"`
	AcceptanceRate float64  `json:"acceptanceRate" validate:"gte=0,lte=1"`
	AvgGPA         *float64 `json:"avgGpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	AvgSAT         *int     `json:"avgSat,omitempty" validate:"omitempty,gte=400,lte=1600"`
	AvgACT         *int     `json:"avgAct,omitempty" validate:"omitempty,gte=1,lte=36"`
	Majors         []string `json:"majors,omitempty"`
	Website        string   `json:"website,omitempty" validate:"omitempty,url"`

	Eligibility

	// MatchScore is a display placeholder; it is recomputed before every response.
	MatchScore int `json:"matchScore"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *College) Stats() matching.CollegeStats {
	return matching.CollegeStats{
		AvgGPA:         c.AvgGPA,
		AvgSAT:         c.AvgSAT,
		AvgACT:         c.AvgACT,
		AcceptanceRate: c.AcceptanceRate,
		Type:           c.Type,
		Region:         c.Region,
		Size:           c.Size,
		Majors:         c.Majors,
		Tuition:        c.Tuition,
	}
}

// CollegeFilter narrows college listings. Zero values match everything.
type CollegeFilter struct {
	Query      string
	State      string
	Type       string
	MaxTuition int
	Limit      int
	Offset     int
}
