package service

import (
	"context"
	stderrors "errors"
	"slices"

	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

const digestTopN = 3

// AgentConfig returns the stored agent config of a student, or the default one.
func (m *Matcher) AgentConfig(ctx context.Context, studentID string) (*models.AgentConfig, error) {
	cfg, err := m.store.AgentConfigs.Get(ctx, studentID)
	if stderrors.Is(err, store.ErrNotFound) {
		return models.DefaultAgentConfig(studentID), nil
	}
	return cfg, err
}

// BuildDigest assembles the sections of a student's digest selected by cfg.Focus. Match
// sections are left empty when the student has no profile yet.
func (m *Matcher) BuildDigest(ctx context.Context, cfg *models.AgentConfig) (*models.Digest, error) {
	now := nowFunc()
	d := &models.Digest{StudentID: cfg.StudentID, GeneratedAt: now}
	wants := func(section string) bool { return slices.Contains(cfg.Focus, section) }

	profile, err := m.store.Profiles.Get(ctx, cfg.StudentID)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if profile != nil {
		req := models.MatchRequest{StudentID: cfg.StudentID, Profile: profile, Limit: digestTopN}
		if wants("colleges") {
			resp, err := m.MatchColleges(ctx, req)
			if err != nil {
				return nil, err
			}
			d.TopColleges = resp.Matches
		}
		if wants("scholarships") {
			if d.TopScholarships, err = m.MatchScholarships(ctx, req); err != nil {
				return nil, err
			}
		}
		if wants("mentors") {
			if d.TopMentors, err = m.MatchMentors(ctx, req); err != nil {
				return nil, err
			}
		}
	}

	if wants("bookings") {
		bookings, err := m.store.Bookings.List(ctx, models.BookingFilter{StudentID: cfg.StudentID, From: &now})
		if err != nil {
			return nil, err
		}
		for _, b := range bookings {
			if b.Status == models.BookingPending || b.Status == models.BookingConfirmed {
				d.UpcomingBookings = append(d.UpcomingBookings, *b)
			}
		}
	}

	if wants("actionPlans") {
		plans, err := m.store.ActionPlans.List(ctx, cfg.StudentID)
		if err != nil {
			return nil, err
		}
		for _, p := range plans {
			d.OpenActionItems = append(d.OpenActionItems, p.OpenItems()...)
		}
	}

	return d, nil
}
