package matching

import (
	"math"
	"strings"
)

// NeutralScore is returned when a candidate defines no applicable criteria.
const NeutralScore = 50

// Factor names.
const (
	FactorGPA            = "gpa"
	FactorSAT            = "sat"
	FactorACT            = "act"
	FactorFinancial      = "financial"
	FactorGeography      = "geography"
	FactorMajor          = "major"
	FactorLeadership     = "leadership"
	FactorService        = "communityService"
	FactorResearch       = "research"
	FactorFirstGen       = "firstGen"
	FactorEthnicity      = "ethnicity"
	FactorSpecialization = "specialization"
	FactorTargetColleges = "targetColleges"
	FactorBudget         = "budget"
)

// Score sums the weight of every applicable criterion into the total and the weight
// of every satisfied one into the earned points, then returns the rounded percentage.
// Criteria whose profile value is unknown are skipped. Leadership, service, research
// and first-generation status default to zero/false and count as unmet.
func Score(w Weights, c Criteria, p Profile) Result {
	s := scorer{}

	if c.MinGPA != nil && p.GPA != nil {
		s.apply(FactorGPA, w.GPA, *p.GPA >= *c.MinGPA)
	}
	if c.MinSAT != nil && p.SAT != nil {
		s.apply(FactorSAT, w.SAT, *p.SAT >= *c.MinSAT)
	}
	if c.MinACT != nil && p.ACT != nil {
		s.apply(FactorACT, w.ACT, *p.ACT >= *c.MinACT)
	}
	if c.MaxFamilyIncome != nil && p.FamilyIncome != nil {
		s.apply(FactorFinancial, w.Financial, *p.FamilyIncome <= *c.MaxFamilyIncome)
	}
	if len(c.RequiredStates) > 0 && normalize(p.State) != "" {
		s.apply(FactorGeography, w.Geography, containsFold(c.RequiredStates, p.State))
	}
	if len(c.RequiredMajors) > 0 && len(p.IntendedMajors) > 0 {
		s.apply(FactorMajor, w.Major, overlaps(c.RequiredMajors, p.IntendedMajors))
	}
	if c.LeadershipRequired {
		s.apply(FactorLeadership, w.Leadership, p.LeadershipRoles > 0)
	}
	if c.CommunityServiceRequired > 0 {
		s.apply(FactorService, w.Service, p.CommunityServiceHours >= c.CommunityServiceRequired)
	}
	if c.ResearchRequired {
		s.apply(FactorResearch, w.Research, p.ResearchExperience)
	}
	if c.FirstGenRequired {
		s.apply(FactorFirstGen, w.FirstGen, p.FirstGen)
	}
	if len(c.RequiredEthnicities) > 0 && normalize(p.Ethnicity) != "" {
		s.apply(FactorEthnicity, w.Ethnicity, containsFold(c.RequiredEthnicities, p.Ethnicity))
	}
	if len(c.Specializations) > 0 && len(p.IntendedMajors) > 0 {
		s.apply(FactorSpecialization, w.Specialization, overlaps(c.Specializations, p.IntendedMajors))
	}
	if len(c.TargetColleges) > 0 && len(p.TargetColleges) > 0 {
		s.apply(FactorTargetColleges, w.TargetColleges, overlaps(c.TargetColleges, p.TargetColleges))
	}
	if c.HourlyRate != nil && p.MentorBudget != nil {
		s.apply(FactorBudget, w.Budget, *c.HourlyRate <= *p.MentorBudget)
	}

	return s.result()
}

func ScoreCollege(c Criteria, p Profile) Result {
	return Score(CollegeWeights, c, p)
}

func ScoreScholarship(c Criteria, p Profile) Result {
	return Score(ScholarshipWeights, c, p)
}

func ScoreMentor(c Criteria, p Profile) Result {
	return Score(MentorWeights, c, p)
}

type scorer struct {
	total   int
	earned  int
	factors []Factor
}

func (s *scorer) apply(name string, weight int, met bool) {
	if weight <= 0 {
		return
	}
	s.total += weight
	if met {
		s.earned += weight
	}
	s.factors = append(s.factors, Factor{Name: name, Weight: weight, Met: met})
}

func (s *scorer) result() Result {
	if s.total == 0 {
		return Result{Score: NeutralScore, Factors: []Factor{}}
	}
	score := int(math.Round(100 * float64(s.earned) / float64(s.total)))
	return Result{
		Score:         clamp(score, 0, 100),
		TotalCriteria: s.total,
		Earned:        s.earned,
		Factors:       s.factors,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(list []string, v string) bool {
	needle := normalize(v)
	if needle == "" {
		return false
	}
	for _, item := range list {
		if normalize(item) == needle {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		if n := normalize(item); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, item := range b {
		if _, ok := set[normalize(item)]; ok {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
