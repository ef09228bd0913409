package models

import (
	"time"

	"admissions-platform/internal/matching"
)

// StudentProfile holds the academic, financial, demographic and activity
// attributes of a student, keyed by user id.
type StudentProfile struct {
	UserID string `json:"userId"`

	GPA      *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	SATScore *int     `json:"satScore,omitempty" validate:"omitempty,gte=400,lte=1600"`
	ACTScore *int     `json:"actScore,omitempty" validate:"omitempty,gte=1,lte=36"`

	FamilyIncome *int `json:"familyIncome,omitempty" validate:"omitempty,gte=0"`
	Budget       *int `json:"budget,omitempty" validate:"omitempty,gte=0"`
	MentorBudget *int `json:"mentorBudget,omitempty" validate:"omitempty,gte=0"`

	State     string `json:"state,omitempty" validate:"omitempty,max=64"`
	Ethnicity string `json:"ethnicity,omitempty" validate:"omitempty,max=64"`
	FirstGen  bool   `json:"firstGen"`

	LeadershipRoles       int      `json:"leadershipRoles" validate:"gte=0"`
	CommunityServiceHours int      `json:"communityService" validate:"gte=0"`
	ResearchExperience    bool     `json:"researchExperience"`
	IntendedMajors        []string `json:"intendedMajors,omitempty" validate:"dive,notblank"`
	TargetColleges        []string `json:"targetColleges,omitempty" validate:"dive,notblank"`

	PreferredTypes   []string `json:"preferredTypes,omitempty"`
	PreferredRegions []string `json:"preferredRegions,omitempty"`
	PreferredSizes   []string `json:"preferredSizes,omitempty"`
	MaxTuition       *int     `json:"maxTuition,omitempty" validate:"omitempty,gte=0"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// MatchProfile converts the profile into the scorer's view.
func (p *StudentProfile) MatchProfile() matching.Profile {
	if p == nil {
		return matching.Profile{}
	}
	return matching.Profile{
		GPA:                   p.GPA,
		SAT:                   p.SATScore,
		ACT:                   p.ACTScore,
		FamilyIncome:          p.FamilyIncome,
		Budget:                p.Budget,
		MentorBudget:          p.MentorBudget,
		State:                 p.State,
		Ethnicity:             p.Ethnicity,
		FirstGen:              p.FirstGen,
		LeadershipRoles:       p.LeadershipRoles,
		CommunityServiceHours: p.CommunityServiceHours,
		ResearchExperience:    p.ResearchExperience,
		IntendedMajors:        p.IntendedMajors,
		TargetColleges:        p.TargetColleges,
		PreferredTypes:        p.PreferredTypes,
		PreferredRegions:      p.PreferredRegions,
		PreferredSizes:        p.PreferredSizes,
		MaxTuition:            p.MaxTuition,
	}
}
