// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import (
	"encoding/json"

	"admissions-platform/internal/matching"
	"admissions-platform/internal/models"
)

type Input struct {
	StudentID      string                 `json:"studentId,omitempty"`
	StudentProfile *models.StudentProfile `json:"studentProfile,omitempty"`
	CandidateType  string                 `json:"candidateType"` // "college", "scholarship" or "mentor"
	Candidate      json.RawMessage        `json:"candidate"`
}

type Output struct {
	CandidateID   string               `json:"candidateId,omitempty"`
	MatchScore    int                  `json:"matchScore"`
	TotalCriteria int                  `json:"totalCriteria"`
	Earned        int                  `json:"earned"`
	Factors       []matching.Factor    `json:"factors"`
	Assessment    *matching.Assessment `json:"assessment,omitempty"` // colleges only
}
