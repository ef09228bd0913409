package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int { return &v }

func strongProfile() Profile {
	return Profile{
		GPA:                   floatPtr(3.9),
		SAT:                   intPtr(1480),
		ACT:                   intPtr(33),
		FamilyIncome:          intPtr(55000),
		State:                 "CA",
		IntendedMajors:        []string{"Computer Science", "Mathematics"},
		LeadershipRoles:       2,
		CommunityServiceHours: 120,
		ResearchExperience:    true,
	}
}

func TestScore_AllCriteriaMet(t *testing.T) {
	criteria := Criteria{
		MinGPA:                   floatPtr(3.5),
		MinSAT:                   intPtr(1350),
		MinACT:                   intPtr(30),
		MaxFamilyIncome:          intPtr(80000),
		RequiredStates:           []string{"ca", "OR"},
		RequiredMajors:           []string{" computer science "},
		LeadershipRequired:       true,
		CommunityServiceRequired: 100,
		ResearchRequired:         true,
	}

	result := ScoreCollege(criteria, strongProfile())

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, 160, result.TotalCriteria)
	assert.Equal(t, 160, result.Earned)
	assert.Len(t, result.Factors, 9)
}

func TestScore_WeightsNormalisedByApplicableCriteria(t *testing.T) {
	tests := []struct {
		name      string
		weights   Weights
		criteria  Criteria
		profile   Profile
		wantScore int
		wantTotal int
	}{
		{
			name:      "college gpa met, sat missed",
			weights:   CollegeWeights,
			criteria:  Criteria{MinGPA: floatPtr(3.0), MinSAT: intPtr(1500)},
			profile:   Profile{GPA: floatPtr(3.2), SAT: intPtr(1200)},
			wantScore: 67, // 40/60
			wantTotal: 60,
		},
		{
			name:      "scholarship financial and first-gen",
			weights:   ScholarshipWeights,
			criteria:  Criteria{MaxFamilyIncome: intPtr(40000), FirstGenRequired: true},
			profile:   Profile{FamilyIncome: intPtr(35000), FirstGen: false},
			wantScore: 67, // 30/45
			wantTotal: 45,
		},
		{
			name:    "mentor specialization and budget",
			weights: MentorWeights,
			criteria: Criteria{
				Specializations: []string{"Engineering", "Computer Science"},
				HourlyRate:      intPtr(80),
			},
			profile:   Profile{IntendedMajors: []string{"computer science"}, MentorBudget: intPtr(50)},
			wantScore: 67, // 30/45
			wantTotal: 45,
		},
		{
			name:      "ethnicity is ignored for colleges",
			weights:   CollegeWeights,
			criteria:  Criteria{MinGPA: floatPtr(3.0), RequiredEthnicities: []string{"Hispanic"}},
			profile:   Profile{GPA: floatPtr(3.5), Ethnicity: "Asian"},
			wantScore: 100,
			wantTotal: 40,
		},
		{
			name:      "mentor target colleges overlap",
			weights:   MentorWeights,
			criteria:  Criteria{TargetColleges: []string{"Stanford University"}, FirstGenRequired: true},
			profile:   Profile{TargetColleges: []string{"stanford university", "MIT"}, FirstGen: true},
			wantScore: 100,
			wantTotal: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.weights, tt.criteria, tt.profile)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantTotal, result.TotalCriteria)
		})
	}
}

func TestScore_MissingProfileValuesAreSkipped(t *testing.T) {
	criteria := Criteria{
		MinGPA:          floatPtr(3.5),
		MinSAT:          intPtr(1400),
		MaxFamilyIncome: intPtr(60000),
		RequiredStates:  []string{"TX"},
		RequiredMajors:  []string{"Biology"},
	}

	result := ScoreCollege(criteria, Profile{})

	assert.Equal(t, NeutralScore, result.Score)
	assert.Zero(t, result.TotalCriteria)
	assert.Empty(t, result.Factors)
}

func TestScore_ExplicitDefaultsArePenalised(t *testing.T) {
	criteria := Criteria{
		LeadershipRequired:       true,
		CommunityServiceRequired: 50,
		ResearchRequired:         true,
	}

	result := ScoreCollege(criteria, Profile{})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 30, result.TotalCriteria)
	for _, f := range result.Factors {
		assert.False(t, f.Met, f.Name)
	}
}

func TestScore_NoCriteriaIsNeutral(t *testing.T) {
	for _, w := range []Weights{CollegeWeights, ScholarshipWeights, MentorWeights} {
		result := Score(w, Criteria{}, strongProfile())
		assert.Equal(t, NeutralScore, result.Score)
		assert.Zero(t, result.TotalCriteria)
		assert.NotNil(t, result.Factors)
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	gpas := []*float64{nil, floatPtr(0), floatPtr(2.1), floatPtr(3.5), floatPtr(4.0), floatPtr(5.0)}
	sats := []*int{nil, intPtr(400), intPtr(1200), intPtr(1600)}
	incomes := []*int{nil, intPtr(0), intPtr(45000), intPtr(250000)}
	criteriaSet := []Criteria{
		{},
		{MinGPA: floatPtr(3.0)},
		{MinGPA: floatPtr(3.8), MinSAT: intPtr(1450), MaxFamilyIncome: intPtr(50000), LeadershipRequired: true},
		{RequiredStates: []string{"NY"}, RequiredMajors: []string{"History"}, FirstGenRequired: true, CommunityServiceRequired: 10},
		{Specializations: []string{"Essays"}, TargetColleges: []string{"Yale"}, HourlyRate: intPtr(120), MinGPA: floatPtr(3.0)},
	}

	for _, w := range []Weights{CollegeWeights, ScholarshipWeights, MentorWeights} {
		for _, c := range criteriaSet {
			for _, gpa := range gpas {
				for _, sat := range sats {
					for _, income := range incomes {
						p := Profile{GPA: gpa, SAT: sat, FamilyIncome: income, State: "NY", MentorBudget: intPtr(60)}
						r := Score(w, c, p)
						require.GreaterOrEqual(t, r.Score, 0)
						require.LessOrEqual(t, r.Score, 100)
						require.LessOrEqual(t, r.Earned, r.TotalCriteria)
					}
				}
			}
		}
	}
}

func TestScore_RaisingGPANeverLowersScore(t *testing.T) {
	criteriaSet := []Criteria{
		{MinGPA: floatPtr(3.5)},
		{MinGPA: floatPtr(3.5), MinSAT: intPtr(1400), RequiredStates: []string{"WA"}},
		{MinGPA: floatPtr(2.0), MaxFamilyIncome: intPtr(30000), ResearchRequired: true},
	}

	for _, w := range []Weights{CollegeWeights, ScholarshipWeights, MentorWeights} {
		for _, c := range criteriaSet {
			prev := -1
			for gpa := 0.0; gpa <= 4.0; gpa += 0.1 {
				p := Profile{GPA: floatPtr(gpa), SAT: intPtr(1300), State: "WA", FamilyIncome: intPtr(45000)}
				score := Score(w, c, p).Score
				assert.GreaterOrEqual(t, score, prev, "gpa %.1f", gpa)
				prev = score
			}
		}
	}
}
