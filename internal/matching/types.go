// Package matching scores colleges, scholarships and mentors against a student profile
// and sorts colleges into admission categories.
package matching

// Profile is the scorer's view of a student. Nil pointers and empty strings mean
// the value is unknown.
type Profile struct {
	GPA                   *float64
	SAT                   *int
	ACT                   *int
	FamilyIncome          *int
	Budget                *int
	MentorBudget          *int // hourly
	State                 string
	Ethnicity             string
	FirstGen              bool
	LeadershipRoles       int
	CommunityServiceHours int
	ResearchExperience    bool
	IntendedMajors        []string
	TargetColleges        []string

	PreferredTypes   []string
	PreferredRegions []string
	PreferredSizes   []string
	MaxTuition       *int
}

// Criteria holds the thresholds a candidate defines. A criterion with a nil or
// zero threshold is not applicable.
type Criteria struct {
	MinGPA                   *float64
	MinSAT                   *int
	MinACT                   *int
	MaxFamilyIncome          *int
	RequiredStates           []string
	RequiredMajors           []string
	LeadershipRequired       bool
	CommunityServiceRequired int
	ResearchRequired         bool
	FirstGenRequired         bool
	RequiredEthnicities      []string

	// mentors
	Specializations []string
	TargetColleges  []string
	HourlyRate      *int
}

// Factor explains one applied criterion.
type Factor struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Met    bool   `json:"met"`
}

// Result is the outcome of scoring one candidate.
type Result struct {
	Score         int      `json:"matchScore"`
	TotalCriteria int      `json:"totalCriteria"`
	Earned        int      `json:"earned"`
	Factors       []Factor `json:"factors"`
}

// CollegeStats are the admission statistics and attributes used for categorisation.
type CollegeStats struct {
	AvgGPA         *float64
	AvgSAT         *int
	AvgACT         *int
	AcceptanceRate float64 // fraction in (0,1]; 0 when unknown
	Type           string
	Region         string
	Size           string
	Majors         []string
	Tuition        int
}

// Assessment is the full server-side evaluation of one college for one student.
type Assessment struct {
	StudentStrength    float64  `json:"studentStrength"`
	CollegeStrength    float64  `json:"collegeStrength"`
	Delta              float64  `json:"delta"`
	Category           Category `json:"category"`
	SelectivityPenalty int      `json:"selectivityPenalty"`
	FitBonus           int      `json:"fitBonus"`
	FitScore           int      `json:"fitScore"`
	// Estimated is set when either strength could not be computed and delta was taken as 0.
	Estimated bool `json:"estimated,omitempty"`
}
