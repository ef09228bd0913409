package matching

import "math"

// Category is the admission selectivity bucket of a college for one student.
type Category string

const (
	Safe         Category = "safe"
	Target       Category = "target"
	Reach        Category = "reach"
	ExtremeReach Category = "extremeReach"
)

// Categories lists every category from safest to least safe.
var Categories = []Category{Safe, Target, Reach, ExtremeReach}

// Rank orders categories from safest (0) to least safe (3). Unknown values rank last.
func (c Category) Rank() int {
	switch c {
	case Safe:
		return 0
	case Target:
		return 1
	case Reach:
		return 2
	default:
		return 3
	}
}

func (c Category) Valid() bool {
	switch c {
	case Safe, Target, Reach, ExtremeReach:
		return true
	}
	return false
}

func categoryForRank(rank int) Category {
	return Categories[clamp(rank, 0, len(Categories)-1)]
}

// Delta thresholds, strength units.
const (
	safeDelta   = 0.10
	targetDelta = -0.05
	reachDelta  = -0.15
)

// Acceptance rate caps.
const (
	neverSafeBelow   = 0.30
	atBestReachBelow = 0.10
)

const baseFitScore = 70

// StudentStrength combines GPA on a 4.0 scale and the better of SAT and ACT into a
// value in [0,1]. When only one half is known it is used alone.
func StudentStrength(p Profile) (float64, bool) {
	return strength(p.GPA, p.SAT, p.ACT)
}

// CollegeStrength applies the student formula to a college's admitted averages.
func CollegeStrength(s CollegeStats) (float64, bool) {
	return strength(s.AvgGPA, s.AvgSAT, s.AvgACT)
}

func strength(gpa *float64, sat, act *int) (float64, bool) {
	var (
		gpaPart, testPart   float64
		hasGPA, hasTestPart bool
	)

	if gpa != nil {
		gpaPart = math.Min(math.Max(*gpa/4.0, 0), 1)
		hasGPA = true
	}
	if sat != nil {
		testPart = math.Min(math.Max(float64(*sat)/1600, 0), 1)
		hasTestPart = true
	}
	if act != nil {
		actPart := math.Min(math.Max(float64(*act)/36, 0), 1)
		if !hasTestPart || actPart > testPart {
			testPart = actPart
		}
		hasTestPart = true
	}

	switch {
	case hasGPA && hasTestPart:
		return 0.5*gpaPart + 0.5*testPart, true
	case hasGPA:
		return gpaPart, true
	case hasTestPart:
		return testPart, true
	default:
		return 0, false
	}
}

// Categorize buckets a strength delta. Schools admitting under 30% are never safe
// and schools admitting under 10% are at best a reach. A non-positive acceptance
// rate is treated as unknown and applies no cap.
func Categorize(delta, acceptanceRate float64) Category {
	var rank int
	switch {
	case delta >= safeDelta:
		rank = Safe.Rank()
	case delta >= targetDelta:
		rank = Target.Rank()
	case delta >= reachDelta:
		rank = Reach.Rank()
	default:
		rank = ExtremeReach.Rank()
	}

	if acceptanceRate > 0 {
		if acceptanceRate < atBestReachBelow && rank < Reach.Rank() {
			rank = Reach.Rank()
		} else if acceptanceRate < neverSafeBelow && rank < Target.Rank() {
			rank = Target.Rank()
		}
	}

	return categoryForRank(rank)
}

// SelectivityPenalty is subtracted from the fit score of low-acceptance schools.
func SelectivityPenalty(acceptanceRate float64) int {
	switch {
	case acceptanceRate <= 0:
		return 0
	case acceptanceRate < 0.10:
		return 15
	case acceptanceRate < 0.20:
		return 10
	case acceptanceRate < 0.35:
		return 5
	default:
		return 0
	}
}

// FitBonus adds 2 points for each preference the college satisfies: type, region,
// size, an intended major on offer, and tuition within MaxTuition (or Budget).
func FitBonus(p Profile, s CollegeStats) int {
	bonus := 0
	if s.Type != "" && containsFold(p.PreferredTypes, s.Type) {
		bonus += 2
	}
	if s.Region != "" && containsFold(p.PreferredRegions, s.Region) {
		bonus += 2
	}
	if s.Size != "" && containsFold(p.PreferredSizes, s.Size) {
		bonus += 2
	}
	if len(s.Majors) > 0 && overlaps(s.Majors, p.IntendedMajors) {
		bonus += 2
	}

	limit := p.MaxTuition
	if limit == nil {
		limit = p.Budget
	}
	if limit != nil && s.Tuition > 0 && s.Tuition <= *limit {
		bonus += 2
	}
	return bonus
}

// Assess computes strengths, delta, category and the 0-100 fit score of one college.
func Assess(p Profile, s CollegeStats) Assessment {
	student, okStudent := StudentStrength(p)
	college, okCollege := CollegeStrength(s)

	a := Assessment{
		StudentStrength: round3(student),
		CollegeStrength: round3(college),
	}
	if okStudent && okCollege {
		a.Delta = round3(student - college)
	} else {
		a.Estimated = true
	}

	a.Category = Categorize(a.Delta, s.AcceptanceRate)
	a.SelectivityPenalty = SelectivityPenalty(s.AcceptanceRate)
	a.FitBonus = FitBonus(p, s)

	base := int(math.Round(baseFitScore + 200*a.Delta))
	a.FitScore = clamp(base-a.SelectivityPenalty+a.FitBonus, 0, 100)
	return a
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
