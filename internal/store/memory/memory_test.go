package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

func TestUsers_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &models.User{Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.Users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	dup := &models.User{Name: "Other", Email: "ADA@example.com"}
	assert.ErrorIs(t, s.Users.Create(ctx, dup), store.ErrConflict)

	got.Name = "Ada Lovelace"
	require.NoError(t, s.Users.Update(ctx, got))
	again, _ := s.Users.Get(ctx, u.ID)
	assert.Equal(t, "Ada Lovelace", again.Name)
	assert.Equal(t, u.CreatedAt, again.CreatedAt)

	require.NoError(t, s.Users.Delete(ctx, u.ID))
	_, err = s.Users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Users.Delete(ctx, u.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.Users.Update(ctx, &models.User{ID: "missing"}), store.ErrNotFound)
}

func TestColleges_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	all, err := s.Colleges.List(ctx, models.CollegeFilter{})
	require.NoError(t, err)
	require.Len(t, all, len(demoColleges))
	assert.Equal(t, "Arizona State University", all[0].Name)

	tests := []struct {
		name   string
		filter models.CollegeFilter
		want   []string
	}{
		{"state", models.CollegeFilter{State: "ca"}, []string{"Stanford University", "University of California, Los Angeles"}},
		{"type and tuition", models.CollegeFilter{Type: "public", MaxTuition: 13000}, []string{"Arizona State University"}},
		{"query matches majors", models.CollegeFilter{Query: "nursing"}, []string{"Rutgers University", "University of Michigan"}},
		{"query matches city", models.CollegeFilter{Query: "ann arbor"}, []string{"University of Michigan"}},
		{"pagination", models.CollegeFilter{Limit: 2, Offset: 1}, []string{"Grinnell College", "Rutgers University"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Colleges.List(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, c := range got {
				names[i] = c.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestColleges_ReturnedCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	c, err := s.Colleges.Get(ctx, "college-asu")
	require.NoError(t, err)
	c.Majors[0] = "Changed"
	c.Name = "Changed"

	again, _ := s.Colleges.Get(ctx, "college-asu")
	assert.Equal(t, "Business", again.Majors[0])
	assert.Equal(t, "Arizona State University", again.Name)
}

func TestScholarships_ListOrdersByDeadline(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	got, err := s.Scholarships.List(ctx, models.ScholarshipFilter{})
	require.NoError(t, err)
	require.Len(t, got, len(demoScholarships))
	assert.Equal(t, "scholarship-gates", got[0].ID)
	assert.Nil(t, got[len(got)-1].Deadline)

	after := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	got, err = s.Scholarships.List(ctx, models.ScholarshipFilter{DeadlineAfter: &after, MinAmount: 11000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "scholarship-cal-grant", got[0].ID)
}

func TestMentors_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	got, err := s.Mentors.List(ctx, models.MentorFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mentor-priya", got[0].ID)

	got, err = s.Mentors.List(ctx, models.MentorFilter{Specialization: " research "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mentor-elena", got[0].ID)
}

func TestBookings_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, time.November, 1, 15, 0, 0, 0, time.UTC)

	for i, b := range []models.Booking{
		{StudentID: "s1", MentorID: "m1", ScheduledAt: base.Add(48 * time.Hour), Status: models.BookingPending},
		{StudentID: "s1", MentorID: "m2", ScheduledAt: base, Status: models.BookingConfirmed},
		{StudentID: "s2", MentorID: "m1", ScheduledAt: base.Add(-24 * time.Hour), Status: models.BookingPending},
	} {
		require.NoError(t, s.Bookings.Create(ctx, &b), "booking %d", i)
	}

	got, err := s.Bookings.List(ctx, models.BookingFilter{StudentID: "s1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MentorID)

	got, _ = s.Bookings.List(ctx, models.BookingFilter{MentorID: "m1", Status: models.BookingPending, From: &base})
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].StudentID)
}

func TestActionPlans_AssignsItemIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	plan := &models.ActionPlan{StudentID: "s1", Title: "Senior fall", Items: []models.ActionItem{{Title: "Register for SAT"}}}
	require.NoError(t, s.ActionPlans.Create(ctx, plan))
	require.NotEmpty(t, plan.Items[0].ID)

	got, _ := s.ActionPlans.Get(ctx, plan.ID)
	got.Items[0].Done = true

	stored, _ := s.ActionPlans.Get(ctx, plan.ID)
	assert.False(t, stored.Items[0].Done)

	require.NoError(t, s.ActionPlans.Update(ctx, got))
	stored, _ = s.ActionPlans.Get(ctx, plan.ID)
	assert.True(t, stored.Items[0].Done)

	plans, _ := s.ActionPlans.List(ctx, "s2")
	assert.Empty(t, plans)
	plans, _ = s.ActionPlans.List(ctx, "")
	assert.Len(t, plans, 1)
}

func TestProfilesAndAgentConfigs_Upsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Profiles.Get(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	gpa := 3.8
	require.NoError(t, s.Profiles.Upsert(ctx, &models.StudentProfile{UserID: "s1", GPA: &gpa}))
	p, err := s.Profiles.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3.8, *p.GPA)

	cfg := models.DefaultAgentConfig("s1")
	require.NoError(t, s.AgentConfigs.Upsert(ctx, cfg))
	got, err := s.AgentConfigs.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"push"}, got.Channels)
	require.NoError(t, s.AgentConfigs.Delete(ctx, "s1"))
}

func TestTable_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	var wg sync.WaitGroup
	for n := 0; n < 20; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Colleges.Create(ctx, &models.College{Name: "Parallel College"})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Colleges.List(ctx, models.CollegeFilter{Query: "college"})
		}()
	}
	wg.Wait()

	got, err := s.Colleges.List(ctx, models.CollegeFilter{Query: "parallel"})
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4}
	assert.Equal(t, []int{1, 2, 3, 4}, store.Paginate(items, 0, 0))
	assert.Equal(t, []int{2, 3}, store.Paginate(items, 2, 1))
	assert.Empty(t, store.Paginate(items, 2, 10))
	assert.Equal(t, []int{4}, store.Paginate(items, 5, 3))
}
