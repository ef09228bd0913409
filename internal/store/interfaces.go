// Package store defines the repositories behind the API and the workers. The postgres
// subpackage persists them; the memory subpackage is the fallback used when no database is
// attached.
package store

import (
	"context"
	"errors"

	"admissions-platform/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository stores one profile per user; Upsert creates or replaces it.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, p *models.StudentProfile) error
	Delete(ctx context.Context, userID string) error
}

type CollegeRepository interface {
	Create(ctx context.Context, c *models.College) error
	Get(ctx context.Context, id string) (*models.College, error)
	List(ctx context.Context, f models.CollegeFilter) ([]*models.College, error)
	Update(ctx context.Context, c *models.College) error
	Delete(ctx context.Context, id string) error
}

type ScholarshipRepository interface {
	Create(ctx context.Context, s *models.Scholarship) error
	Get(ctx context.Context, id string) (*models.Scholarship, error)
	List(ctx context.Context, f models.ScholarshipFilter) ([]*models.Scholarship, error)
	Update(ctx context.Context, s *models.Scholarship) error
	Delete(ctx context.Context, id string) error
}

type MentorRepository interface {
	Create(ctx context.Context, m *models.Mentor) error
	Get(ctx context.Context, id string) (*models.Mentor, error)
	List(ctx context.Context, f models.MentorFilter) ([]*models.Mentor, error)
	Update(ctx context.Context, m *models.Mentor) error
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, f models.BookingFilter) ([]*models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error
	Delete(ctx context.Context, id string) error
}

// ActionPlanRepository lists every plan when studentID is empty.
type ActionPlanRepository interface {
	Create(ctx context.Context, p *models.ActionPlan) error
	Get(ctx context.Context, id string) (*models.ActionPlan, error)
	List(ctx context.Context, studentID string) ([]*models.ActionPlan, error)
	Update(ctx context.Context, p *models.ActionPlan) error
	Delete(ctx context.Context, id string) error
}

type AgentConfigRepository interface {
	Get(ctx context.Context, studentID string) (*models.AgentConfig, error)
	Upsert(ctx context.Context, c *models.AgentConfig) error
	Delete(ctx context.Context, studentID string) error
}

// Store groups the repositories of one backend.
type Store struct {
	Users        UserRepository
	Profiles     ProfileRepository
	Colleges     CollegeRepository
	Scholarships ScholarshipRepository
	Mentors      MentorRepository
	Bookings     BookingRepository
	ActionPlans  ActionPlanRepository
	AgentConfigs AgentConfigRepository

	// Backend names the implementation, "postgres" or "memory".
	Backend string
}

// Paginate applies offset and limit to an already ordered slice. A non-positive limit
// returns everything after offset.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
