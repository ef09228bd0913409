package matching

// Weights assigns an integer weight to each criterion. A zero weight disables the
// criterion for that entity type.
type Weights struct {
	GPA            int
	SAT            int
	ACT            int
	Financial      int
	Geography      int
	Major          int
	Leadership     int
	Service        int
	Research       int
	FirstGen       int
	Ethnicity      int
	Specialization int
	TargetColleges int
	Budget         int
}

var (
	CollegeWeights = Weights{
		GPA:        40,
		SAT:        20,
		ACT:        20,
		Financial:  25,
		Geography:  15,
		Major:      10,
		Leadership: 10,
		Service:    10,
		Research:   10,
	}

	ScholarshipWeights = Weights{
		GPA:        30,
		SAT:        15,
		ACT:        15,
		Financial:  30,
		Geography:  15,
		Major:      15,
		Leadership: 10,
		Service:    15,
		Research:   5,
		FirstGen:   15,
		Ethnicity:  10,
	}

	MentorWeights = Weights{
		Specialization: 30,
		TargetColleges: 25,
		GPA:            10,
		Geography:      10,
		Budget:         15,
		FirstGen:       10,
	}
)
