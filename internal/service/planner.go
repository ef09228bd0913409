package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admissions-platform/internal/matching"
	"admissions-platform/internal/models"
)

const (
	scholarshipPlanThreshold = 70
	servicePlanHours         = 50
	maxPlanScholarships      = 2
)

// GeneratePlan builds and stores a starter action plan from the gaps in a student's profile
// and the shape of their college list.
func (m *Matcher) GeneratePlan(ctx context.Context, req models.GeneratePlanRequest) (*models.ActionPlan, error) {
	profile, err := m.ResolveProfile(ctx, req.StudentID, nil)
	if err != nil {
		return nil, err
	}

	start := nowFunc()
	colleges, err := m.store.Colleges.List(ctx, models.CollegeFilter{})
	if err != nil {
		return nil, err
	}
	scholarships, err := m.store.Scholarships.List(ctx, models.ScholarshipFilter{DeadlineAfter: &start})
	if err != nil {
		return nil, err
	}

	plan := &models.ActionPlan{
		StudentID: req.StudentID,
		Title:     strings.TrimSpace(req.Title),
		Items:     PlanItems(profile, colleges, scholarships, start),
	}
	if plan.Title == "" {
		plan.Title = "Admissions plan"
	}

	if err := m.store.ActionPlans.Create(ctx, plan); err != nil {
		return nil, err
	}
	m.logger.Info("action plan generated", map[string]interface{}{
		"studentId": req.StudentID,
		"planId":    plan.ID,
		"items":     len(plan.Items),
	})
	return plan, nil
}

var nowFunc = func() time.Time { return time.Now().UTC() }

// PlanItems derives action items from a profile. now anchors the due dates.
func PlanItems(profile *models.StudentProfile, colleges []*models.College, scholarships []*models.Scholarship, now time.Time) []models.ActionItem {
	due := func(days int) *time.Time {
		t := now.AddDate(0, 0, days).Truncate(24 * time.Hour)
		return &t
	}

	var items []models.ActionItem
	add := func(title, category string, dueDate *time.Time) {
		items = append(items, models.ActionItem{Title: title, Category: category, DueDate: dueDate})
	}

	if profile.SATScore == nil && profile.ACTScore == nil {
		add("Register for the SAT or ACT", "testing", due(30))
	}

	add("Draft your personal statement", "essays", due(45))

	if len(colleges) > 0 {
		ranked := RankColleges(profile, colleges, RankOptions{})
		counts := ranked.Counts
		if counts[matching.Safe] == 0 {
			add("Add at least one safe school to your list", "applications", due(21))
		}
		if counts[matching.Target] == 0 {
			add("Research target schools that fit your profile", "applications", due(21))
		}
		reaches := counts[matching.Reach] + counts[matching.ExtremeReach]
		if reaches*2 > len(colleges) {
			add("Balance a reach-heavy list with more target schools", "applications", due(30))
		}
	}

	if profile.FamilyIncome != nil || profile.Budget != nil {
		add("Complete the FAFSA", "financialAid", due(60))
	}
	top := RankScholarships(profile, scholarships, scholarshipPlanThreshold, maxPlanScholarships)
	for _, sm := range top {
		dueDate := sm.Scholarship.Deadline
		if dueDate == nil {
			dueDate = due(90)
		}
		add(fmt.Sprintf("Apply for the %s", sm.Scholarship.Name), "financialAid", dueDate)
	}

	if profile.CommunityServiceHours < servicePlanHours {
		add(fmt.Sprintf("Log at least %d community service hours", servicePlanHours), "activities", due(120))
	}
	if profile.LeadershipRoles == 0 {
		add("Take on a leadership role in a club or team", "activities", due(120))
	}
	if !profile.ResearchExperience && len(profile.IntendedMajors) > 0 {
		add(fmt.Sprintf("Find a research or project opportunity in %s", profile.IntendedMajors[0]), "research", due(90))
	}
	if profile.FirstGen {
		add("Book a session with a first-generation mentor", "mentoring", due(14))
	}

	return items
}
