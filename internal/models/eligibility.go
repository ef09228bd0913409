package models

import "admissions-platform/internal/matching"

// Eligibility is the set of thresholds a college or scholarship may define.
// It is embedded, so its fields appear inline in JSON.
type Eligibility struct {
	MinGPA                   *float64 `json:"minGpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	MinSAT                   *int     `json:"minSat,omitempty" validate:"omitempty,gte=400,lte=1600"`
	MinACT                   *int     `json:"minAct,omitempty" validate:"omitempty,gte=1,lte=36"`
	MaxFamilyIncome          *int     `json:"maxFamilyIncome,omitempty" validate:"omitempty,gte=0"`
	RequiredStates           []string `json:"requiredStates,omitempty"`
	RequiredMajors           []string `json:"requiredMajors,omitempty"`
	LeadershipRequired       bool     `json:"leadershipRequired,omitempty"`
	CommunityServiceRequired int      `json:"communityServiceRequired,omitempty" validate:"gte=0"`
	ResearchRequired         bool     `json:"researchRequired,omitempty"`
	FirstGenRequired         bool     `json:"firstGenRequired,omitempty"`
	RequiredEthnicities      []string `json:"requiredEthnicities,omitempty"`
}

func (e Eligibility) Criteria() matching.Criteria {
	return matching.Criteria{
		MinGPA:                   e.MinGPA,
		MinSAT:                   e.MinSAT,
		MinACT:                   e.MinACT,
		MaxFamilyIncome:          e.MaxFamilyIncome,
		RequiredStates:           e.RequiredStates,
		RequiredMajors:           e.RequiredMajors,
		LeadershipRequired:       e.LeadershipRequired,
		CommunityServiceRequired: e.CommunityServiceRequired,
		ResearchRequired:         e.ResearchRequired,
		FirstGenRequired:         e.FirstGenRequired,
		RequiredEthnicities:      e.RequiredEthnicities,
	}
}
