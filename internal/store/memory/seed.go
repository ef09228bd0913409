package memory

import (
	"context"
	"time"

	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

func f64(v float64) *float64 { return &v }
func num(v int) *int          { return &v }

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

var demoColleges = []models.College{
	{
		ID: "college-stanford", Name: "Stanford University", City: "Stanford", State: "CA",
		Region: "west", Type: "private", Size: "large", Tuition: 62484, AcceptanceRate: 0.04,
		AvgGPA: f64(3.96), AvgSAT: num(1540), AvgACT: num(35),
		Majors:      []string{"Computer Science", "Engineering", "Economics", "Biology"},
		Website:     "https://www.stanford.edu",
		Eligibility: models.Eligibility{MinGPA: f64(3.7), MinSAT: num(1450), MinACT: num(32)},
	},
	{
		ID: "college-ucla", Name: "University of California, Los Angeles", City: "Los Angeles", State: "CA",
		Region: "west", Type: "public", Size: "large", Tuition: 13804, AcceptanceRate: 0.09,
		AvgGPA: f64(3.9), AvgSAT: num(1430), AvgACT: num(32),
		Majors:      []string{"Psychology", "Biology", "Economics", "Computer Science"},
		Website:     "https://www.ucla.edu",
		Eligibility: models.Eligibility{MinGPA: f64(3.4), LeadershipRequired: true},
	},
	{
		ID: "college-umich", Name: "University of Michigan", City: "Ann Arbor", State: "MI",
		Region: "midwest", Type: "public", Size: "large", Tuition: 17228, AcceptanceRate: 0.18,
		AvgGPA: f64(3.88), AvgSAT: num(1435), AvgACT: num(33),
		Majors:      []string{"Engineering", "Business", "Computer Science", "Nursing"},
		Website:     "https://umich.edu",
		Eligibility: models.Eligibility{MinGPA: f64(3.5), MinSAT: num(1340)},
	},
	{
		ID: "college-asu", Name: "Arizona State University", City: "Tempe", State: "AZ",
		Region: "west", Type: "public", Size: "large", Tuition: 12051, AcceptanceRate: 0.88,
		AvgGPA: f64(3.54), AvgSAT: num(1220), AvgACT: num(25),
		Majors:      []string{"Business", "Engineering", "Journalism", "Psychology"},
		Website:     "https://www.asu.edu",
		Eligibility: models.Eligibility{MinGPA: f64(3.0)},
	},
	{
		ID: "college-grinnell", Name: "Grinnell College", City: "Grinnell", State: "IA",
		Region: "midwest", Type: "private", Size: "small", Tuition: 65400, AcceptanceRate: 0.13,
		AvgGPA: f64(3.8), AvgSAT: num(1460), AvgACT: num(32),
		Majors:      []string{"Biology", "Economics", "Political Science", "Computer Science"},
		Website:     "https://www.grinnell.edu",
		Eligibility: models.Eligibility{MinGPA: f64(3.5), CommunityServiceRequired: 40},
	},
	{
		ID: "college-rutgers", Name: "Rutgers University", City: "New Brunswick", State: "NJ",
		Region: "northeast", Type: "public", Size: "large", Tuition: 17239, AcceptanceRate: 0.66,
		AvgGPA: f64(3.7), AvgSAT: num(1360), AvgACT: num(30),
		Majors:      []string{"Business", "Biology", "Computer Science", "Nursing"},
		Website:     "https://www.rutgers.edu",
		Eligibility: models.Eligibility{MinGPA: f64(3.2), MinSAT: num(1200)},
	},
}

var demoScholarships = []models.Scholarship{
	{
		ID: "scholarship-gates", Name: "Gates Scholarship", Provider: "Bill & Melinda Gates Foundation",
		Amount: 50000, Renewable: true, Deadline: date(2026, time.September, 15),
		Description: "Full cost of attendance for outstanding minority students from low-income households.",
		Eligibility: models.Eligibility{
			MinGPA: f64(3.3), MaxFamilyIncome: num(75000), LeadershipRequired: true,
			RequiredEthnicities: []string{"African American", "American Indian", "Asian Pacific Islander", "Hispanic"},
		},
	},
	{
		ID: "scholarship-coca-cola", Name: "Coca-Cola Scholars", Provider: "Coca-Cola Scholars Foundation",
		Amount: 20000, Deadline: date(2026, time.September, 30),
		Description: "Recognizes leadership and service in high school seniors.",
		Eligibility: models.Eligibility{MinGPA: f64(3.0), LeadershipRequired: true, CommunityServiceRequired: 100},
	},
	{
		ID: "scholarship-first-gen-stem", Name: "First Generation STEM Award", Provider: "STEM Futures Fund",
		Amount: 10000, Renewable: true,
		Description: "Supports first-generation students entering science and engineering majors.",
		Eligibility: models.Eligibility{
			MinGPA: f64(3.2), FirstGenRequired: true, ResearchRequired: true,
			RequiredMajors: []string{"Computer Science", "Engineering", "Biology", "Physics"},
		},
	},
	{
		ID: "scholarship-cal-grant", Name: "Cal Grant A", Provider: "California Student Aid Commission",
		Amount: 13752, Renewable: true, Deadline: date(2027, time.March, 2),
		Description: "Tuition support for California residents attending in-state colleges.",
		Eligibility: models.Eligibility{MinGPA: f64(3.0), MaxFamilyIncome: num(125000), RequiredStates: []string{"CA"}},
	},
}

var demoMentors = []models.Mentor{
	{
		ID: "mentor-priya", Name: "Priya Raman", Email: "priya.raman@example.com",
		Title: "Former Stanford admissions reader",
		Bio:   "Helps STEM applicants shape their essays and activity lists.",
		Specializations: []string{"Essays", "STEM", "Computer Science"},
		Colleges:        []string{"Stanford University", "University of California, Los Angeles"},
		States:          []string{"CA"},
		HourlyRate: num(120), Rating: 4.9, Available: true,
	},
	{
		ID: "mentor-marcus", Name: "Marcus Bell", Email: "marcus.bell@example.com",
		Title: "First-generation college counselor",
		Bio:   "Guides first-generation students through applications and financial aid.",
		Specializations: []string{"Financial Aid", "Scholarships", "First Generation"},
		Colleges:        []string{"University of Michigan", "Rutgers University"},
		FirstGenFocus:   true,
		HourlyRate: num(40), Rating: 4.8, Available: true,
	},
	{
		ID: "mentor-elena", Name: "Elena Ortiz", Email: "elena.ortiz@example.com",
		Title: "Liberal arts admissions consultant",
		Bio:   "Works with students targeting small colleges and research programs.",
		Specializations: []string{"Liberal Arts", "Research", "Interviews"},
		Colleges:        []string{"Grinnell College"},
		MinGPA:          f64(3.3),
		HourlyRate: num(85), Rating: 4.6, Available: false,
	},
}

// seed loads the demo catalog into an empty in-memory store, which cannot fail.
func seed(s *store.Store) {
	_ = Seed(context.Background(), s)
}

// Seed copies the demo catalog into s. Used to populate a fresh database on first start;
// rows that already exist are skipped.
func Seed(ctx context.Context, s *store.Store) error {
	for _, c := range demoColleges {
		if _, err := s.Colleges.Get(ctx, c.ID); err == nil {
			continue
		}
		if err := s.Colleges.Create(ctx, &c); err != nil {
			return err
		}
	}
	for _, sc := range demoScholarships {
		if _, err := s.Scholarships.Get(ctx, sc.ID); err == nil {
			continue
		}
		if err := s.Scholarships.Create(ctx, &sc); err != nil {
			return err
		}
	}
	for _, m := range demoMentors {
		if _, err := s.Mentors.Get(ctx, m.ID); err == nil {
			continue
		}
		if err := s.Mentors.Create(ctx, &m); err != nil {
			return err
		}
	}
	return nil
}
