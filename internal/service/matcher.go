// Package service holds the matching workflows shared by the REST API and the Zeebe workers:
// resolving a profile, scoring and ranking candidates, and building action plans and digests.
package service

import (
	"context"
	stderrors "errors"
	"time"

	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
	"admissions-platform/internal/common/observability"
	"admissions-platform/internal/matching"
	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

const (
	CandidateCollege     = "college"
	CandidateScholarship = "scholarship"
	CandidateMentor      = "mentor"
)

type Matcher struct {
	store        *store.Store
	obs          *observability.Observability
	logger       logger.Logger
	defaultLimit int
	maxLimit     int
}

// NewMatcher builds a matcher over s. obs may be nil.
func NewMatcher(s *store.Store, cfg config.MatchingConfig, obs *observability.Observability, log logger.Logger) *Matcher {
	m := &Matcher{
		store:        s,
		obs:          obs,
		logger:       log.WithFields(map[string]interface{}{"component": "matcher"}),
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
	if m.defaultLimit <= 0 {
		m.defaultLimit = 20
	}
	if m.maxLimit < m.defaultLimit {
		m.maxLimit = m.defaultLimit
	}
	return m
}

// Limit clamps a requested result count to the configured bounds.
func (m *Matcher) Limit(requested int) int {
	switch {
	case requested <= 0:
		return m.defaultLimit
	case requested > m.maxLimit:
		return m.maxLimit
	default:
		return requested
	}
}

// ResolveProfile returns the inline profile when given, otherwise the stored profile of
// studentID.
func (m *Matcher) ResolveProfile(ctx context.Context, studentID string, inline *models.StudentProfile) (*models.StudentProfile, error) {
	if inline != nil {
		if inline.UserID == "" {
			inline.UserID = studentID
		}
		return inline, nil
	}
	if studentID == "" {
		return nil, errors.NewValidationError("studentId or profile is required",
			errors.FieldError{Field: "studentId", Message: "studentId is required when profile is omitted"})
	}

	p, err := m.store.Profiles.Get(ctx, studentID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewProfileNotFoundError(studentID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MatchColleges scores every stored college against the requested profile.
func (m *Matcher) MatchColleges(ctx context.Context, req models.MatchRequest) (*models.CollegeMatchResponse, error) {
	profile, err := m.ResolveProfile(ctx, req.StudentID, req.Profile)
	if err != nil {
		return nil, err
	}

	colleges, err := m.store.Colleges.List(ctx, models.CollegeFilter{})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp := RankColleges(profile, colleges, RankOptions{
		Category: matching.Category(req.Category),
		MinScore: req.MinScore,
		Limit:    m.Limit(req.Limit),
	})
	resp.StudentID = req.StudentID
	m.record(ctx, CandidateCollege, len(colleges), time.Since(start))
	for category, n := range resp.Counts {
		metrics.CollegeCategories.WithLabelValues(string(category)).Add(float64(n))
	}
	return &resp, nil
}

// RankOptions narrows a ranked college list. Zero values keep everything.
type RankOptions struct {
	Category matching.Category
	MinScore int
	Limit    int
}

// RankColleges assesses each college, ranks by fit score and counts categories. Counts cover
// every college before the category, score and limit filters are applied.
func RankColleges(profile *models.StudentProfile, colleges []*models.College, opts RankOptions) models.CollegeMatchResponse {
	mp := profile.MatchProfile()

	all := make([]models.CollegeMatch, 0, len(colleges))
	categories := make([]matching.Category, 0, len(colleges))
	for _, c := range colleges {
		result := matching.ScoreCollege(c.Criteria(), mp)
		assessment := matching.Assess(mp, c.Stats())

		scored := *c
		scored.MatchScore = result.Score
		all = append(all, models.CollegeMatch{
			College:    &scored,
			MatchScore: result.Score,
			Factors:    result.Factors,
			Assessment: assessment,
		})
		categories = append(categories, assessment.Category)
	}

	matching.SortByScore(all,
		func(cm models.CollegeMatch) int { return cm.Assessment.FitScore },
		func(cm models.CollegeMatch) string { return cm.College.Name })

	filtered := make([]models.CollegeMatch, 0, len(all))
	for _, cm := range all {
		if opts.Category != "" && cm.Assessment.Category != opts.Category {
			continue
		}
		if cm.MatchScore < opts.MinScore {
			continue
		}
		filtered = append(filtered, cm)
	}
	total := len(filtered)
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}

	return models.CollegeMatchResponse{
		Matches: filtered,
		Counts:  matching.CountByCategory(categories),
		Total:   total,
	}
}

// MatchScholarships ranks every scholarship by match score.
func (m *Matcher) MatchScholarships(ctx context.Context, req models.MatchRequest) ([]models.ScholarshipMatch, error) {
	profile, err := m.ResolveProfile(ctx, req.StudentID, req.Profile)
	if err != nil {
		return nil, err
	}
	scholarships, err := m.store.Scholarships.List(ctx, models.ScholarshipFilter{})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out := RankScholarships(profile, scholarships, req.MinScore, m.Limit(req.Limit))
	m.record(ctx, CandidateScholarship, len(scholarships), time.Since(start))
	return out, nil
}

func RankScholarships(profile *models.StudentProfile, scholarships []*models.Scholarship, minScore, limit int) []models.ScholarshipMatch {
	mp := profile.MatchProfile()
	out := make([]models.ScholarshipMatch, 0, len(scholarships))
	for _, s := range scholarships {
		result := matching.ScoreScholarship(s.Criteria(), mp)
		if result.Score < minScore {
			continue
		}
		scored := *s
		scored.MatchScore = result.Score
		out = append(out, models.ScholarshipMatch{Scholarship: &scored, MatchScore: result.Score, Factors: result.Factors})
	}
	matching.SortByScore(out,
		func(sm models.ScholarshipMatch) int { return sm.MatchScore },
		func(sm models.ScholarshipMatch) string { return sm.Scholarship.Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MatchMentors ranks available mentors by match score.
func (m *Matcher) MatchMentors(ctx context.Context, req models.MatchRequest) ([]models.MentorMatch, error) {
	profile, err := m.ResolveProfile(ctx, req.StudentID, req.Profile)
	if err != nil {
		return nil, err
	}
	mentors, err := m.store.Mentors.List(ctx, models.MentorFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out := RankMentors(profile, mentors, req.MinScore, m.Limit(req.Limit))
	m.record(ctx, CandidateMentor, len(mentors), time.Since(start))
	return out, nil
}

func RankMentors(profile *models.StudentProfile, mentors []*models.Mentor, minScore, limit int) []models.MentorMatch {
	mp := profile.MatchProfile()
	out := make([]models.MentorMatch, 0, len(mentors))
	for _, mentor := range mentors {
		result := matching.ScoreMentor(mentor.Criteria(), mp)
		if result.Score < minScore {
			continue
		}
		scored := *mentor
		scored.MatchScore = result.Score
		out = append(out, models.MentorMatch{Mentor: &scored, MatchScore: result.Score, Factors: result.Factors})
	}
	matching.SortByScore(out,
		func(mm models.MentorMatch) int { return mm.MatchScore },
		func(mm models.MentorMatch) string { return mm.Mentor.Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ApplyCollegeScores overwrites the display score of each college in place. Without a
// profile the score is cleared rather than echoing the stored placeholder.
func ApplyCollegeScores(profile *models.StudentProfile, colleges []*models.College) {
	if profile == nil {
		for _, c := range colleges {
			c.MatchScore = 0
		}
		return
	}
	mp := profile.MatchProfile()
	for _, c := range colleges {
		c.MatchScore = matching.ScoreCollege(c.Criteria(), mp).Score
	}
}

func ApplyScholarshipScores(profile *models.StudentProfile, scholarships []*models.Scholarship) {
	if profile == nil {
		for _, s := range scholarships {
			s.MatchScore = 0
		}
		return
	}
	mp := profile.MatchProfile()
	for _, s := range scholarships {
		s.MatchScore = matching.ScoreScholarship(s.Criteria(), mp).Score
	}
}

func ApplyMentorScores(profile *models.StudentProfile, mentors []*models.Mentor) {
	if profile == nil {
		for _, mentor := range mentors {
			mentor.MatchScore = 0
		}
		return
	}
	mp := profile.MatchProfile()
	for _, mentor := range mentors {
		mentor.MatchScore = matching.ScoreMentor(mentor.Criteria(), mp).Score
	}
}

func (m *Matcher) record(ctx context.Context, candidateType string, n int, d time.Duration) {
	metrics.MatchComputations.WithLabelValues(candidateType).Add(float64(n))
	m.obs.RecordMatch(ctx, candidateType, n, d)
	m.logger.Debug("candidates scored", map[string]interface{}{
		"candidateType": candidateType,
		"candidates":    n,
		"durationMs":    d.Milliseconds(),
	})
}
