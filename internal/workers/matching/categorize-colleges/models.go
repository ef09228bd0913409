// internal/workers/matching/categorize-colleges/models.go
package categorizecolleges

import (
	"admissions-platform/internal/matching"
	"admissions-platform/internal/models"
)

// Input selects the student and, optionally, the colleges to rank. Colleges overrides
// the stored catalog when non-empty.
type Input struct {
	StudentID      string                 `json:"studentId,omitempty"`
	StudentProfile *models.StudentProfile `json:"studentProfile,omitempty"`
	Colleges       []*models.College      `json:"colleges,omitempty"`
	Category       string                 `json:"category,omitempty"`
	MinScore       int                    `json:"minScore,omitempty"`
	Limit          int                    `json:"limit,omitempty"`
}

type CategorizedCollege struct {
	CollegeID  string            `json:"collegeId"`
	Name       string            `json:"name"`
	Category   matching.Category `json:"category"`
	FitScore   int               `json:"fitScore"`
	MatchScore int               `json:"matchScore"`
	Estimated  bool              `json:"estimated,omitempty"`
}

type Output struct {
	Matches []CategorizedCollege      `json:"matches"`
	Counts  map[matching.Category]int `json:"counts"`
	Total   int                       `json:"total"`

	// ByCategory lists college ids per category, for gateway conditions in the process model.
	ByCategory map[matching.Category][]string `json:"byCategory"`
}
