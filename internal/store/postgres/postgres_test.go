package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

var fixedNow = time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = func() time.Time { return time.Now().UTC() } })
	return db, mock
}

func TestUsers_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", "", models.RoleStudent, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	u := &models.User{Name: "Ada", Email: "ada@example.com", Role: models.RoleStudent}
	require.NoError(t, s.Users.Create(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_CreateDuplicateEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "users_email_key"})

	err := s.Users.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_Get(t *testing.T) {
	tests := []struct {
		name      string
		mockQuery func(mock sqlmock.Sqlmock)
		wantErr   error
		wantCode  errors.ErrorCode
	}{
		{
			name: "found",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "role", "created_at", "updated_at"}).
						AddRow("u1", "Ada", "ada@example.com", "", "student", fixedNow, fixedNow))
			},
		},
		{
			name: "missing",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("u1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: store.ErrNotFound,
		},
		{
			name: "driver failure",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("u1").WillReturnError(sql.ErrConnDone)
			},
			wantCode: errors.ErrCodeQueryExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			s := New(db, time.Second)
			tt.mockQuery(mock)

			u, err := s.Users.Get(context.Background(), "u1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantCode != "":
				stdErr, ok := errors.As(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, stdErr.Code)
			default:
				require.NoError(t, err)
				assert.Equal(t, models.RoleStudent, u.Role)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUsers_UpdateMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Users.Update(context.Background(), &models.User{ID: "missing", Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProfiles_GetScansArraysAndNulls(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery("SELECT (.+) FROM student_profiles WHERE user_id = \\$1").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "gpa", "sat_score", "act_score", "family_income", "budget", "mentor_budget",
			"state", "ethnicity", "first_gen", "leadership_roles", "community_service_hours",
			"research_experience", "intended_majors", "target_colleges", "preferred_types",
			"preferred_regions", "preferred_sizes", "max_tuition", "updated_at",
		}).AddRow(
			"s1", 3.8, int64(1450), nil, int64(60000), nil, int64(50),
			"CA", "", true, int64(2), int64(120),
			false, `{"Computer Science",Biology}`, nil, "{public}",
			nil, nil, nil, fixedNow,
		))

	p, err := s.Profiles.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, p.GPA)
	assert.Equal(t, 3.8, *p.GPA)
	assert.Equal(t, 1450, *p.SATScore)
	assert.Nil(t, p.ACTScore)
	assert.Nil(t, p.Budget)
	assert.Equal(t, []string{"Computer Science", "Biology"}, p.IntendedMajors)
	assert.Nil(t, p.TargetColleges)
	assert.Equal(t, []string{"public"}, p.PreferredTypes)
	assert.Equal(t, 120, p.CommunityServiceHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfiles_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectExec("INSERT INTO student_profiles (.+) ON CONFLICT \\(user_id\\) DO UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))

	gpa := 3.5
	p := &models.StudentProfile{UserID: "s1", GPA: &gpa, IntendedMajors: []string{"Biology"}}
	require.NoError(t, s.Profiles.Upsert(context.Background(), p))
	assert.Equal(t, fixedNow, p.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func collegeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "city", "state", "region", "type", "size", "tuition", "acceptance_rate",
		"avg_gpa", "avg_sat", "avg_act", "majors", "website", "eligibility", "created_at", "updated_at",
	})
}

func TestColleges_ListMatchesFiltersLiterally(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery(`SELECT (.+) FROM colleges WHERE \(name ILIKE \$1 (.+)\) AND lower\(state\) = lower\(\$2\) AND lower\(type\) = lower\(\$3\) ORDER BY name, id`).
		WithArgs(`%50\%\_off%`, "N%", "public").
		WillReturnRows(collegeRows())

	got, err := s.Colleges.List(context.Background(), models.CollegeFilter{
		Query: "50%_off", State: "N%", Type: "public",
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColleges_ListBuildsFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery(`SELECT (.+) FROM colleges WHERE \(name ILIKE \$1 OR city ILIKE \$1 (.+)\) AND lower\(state\) = lower\(\$2\) AND tuition <= \$3 ORDER BY name, id LIMIT \$4 OFFSET \$5`).
		WithArgs("%nurs%", "NJ", 20000, 10, 5).
		WillReturnRows(collegeRows().AddRow(
			"college-rutgers", "Rutgers University", "New Brunswick", "NJ", "northeast", "public", "large",
			int64(17239), 0.66, 3.7, int64(1360), nil, "{Business,Nursing}", "",
			[]byte(`{"minGpa":3.2,"minSat":1200}`), fixedNow, fixedNow,
		))

	got, err := s.Colleges.List(context.Background(), models.CollegeFilter{
		Query: "nurs", State: "NJ", MaxTuition: 20000, Limit: 10, Offset: 5,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, []string{"Business", "Nursing"}, c.Majors)
	assert.Nil(t, c.AvgACT)
	require.NotNil(t, c.MinSAT)
	assert.Equal(t, 1200, *c.MinSAT)
	assert.Equal(t, 3.2, *c.Eligibility.MinGPA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColleges_DeleteMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectExec("DELETE FROM colleges WHERE id = \\$1").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Colleges.Delete(context.Background(), "nope"), store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarships_ListWithoutFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery(`SELECT (.+) FROM scholarships ORDER BY deadline ASC NULLS LAST, name, id$`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "provider", "amount", "renewable", "deadline", "description", "url",
			"eligibility", "created_at", "updated_at",
		}).AddRow("sc1", "Award", "Fund", int64(1000), false, nil, "", "", []byte(`{}`), fixedNow, fixedNow))

	got, err := s.Scholarships.List(context.Background(), models.ScholarshipFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Deadline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentors_ListBySpecialization(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery(`FROM mentors WHERE available = \$1 AND EXISTS (.+) ORDER BY rating DESC`).
		WithArgs(true, "Essays").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "email", "title", "bio", "specializations", "colleges", "states",
			"hourly_rate", "min_gpa", "first_gen_focus", "rating", "available", "created_at", "updated_at",
		}).AddRow("m1", "", "Priya", "", "", "", "{Essays,STEM}", "{}", nil,
			int64(120), nil, false, 4.9, true, fixedNow, fixedNow))

	got, err := s.Mentors.List(context.Background(), models.MentorFilter{Specialization: "Essays", AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 120, *got[0].HourlyRate)
	assert.Equal(t, []string{"Essays", "STEM"}, got[0].Specializations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookings_ListByStudentAndStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery(`FROM bookings WHERE student_id = \$1 AND status = \$2 ORDER BY scheduled_at, id`).
		WithArgs("s1", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "student_id", "mentor_id", "scheduled_at", "duration_minutes", "status", "topic",
			"notes", "created_at", "updated_at",
		}).AddRow("b1", "s1", "m1", fixedNow, int64(60), "confirmed", "Essays", "", fixedNow, fixedNow))

	got, err := s.Bookings.List(context.Background(), models.BookingFilter{StudentID: "s1", Status: models.BookingConfirmed})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.BookingConfirmed, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionPlans_RoundTripsItemsAsJSON(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectExec("INSERT INTO action_plans").
		WithArgs(sqlmock.AnyArg(), "s1", "Senior fall", sqlmock.AnyArg(), fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM action_plans WHERE id = \\$1").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "title", "items", "created_at", "updated_at"}).
			AddRow("p1", "s1", "Senior fall", []byte(`[{"id":"i1","title":"Register for SAT","done":true}]`), fixedNow, fixedNow))

	plan := &models.ActionPlan{StudentID: "s1", Title: "Senior fall", Items: []models.ActionItem{{Title: "Register for SAT"}}}
	require.NoError(t, s.ActionPlans.Create(context.Background(), plan))
	assert.NotEmpty(t, plan.Items[0].ID)

	got, err := s.ActionPlans.Get(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgentConfigs_GetMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, time.Second)

	mock.ExpectQuery("FROM agent_configs WHERE student_id = \\$1").WithArgs("s1").WillReturnError(sql.ErrNoRows)

	_, err := s.AgentConfigs.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditions(t *testing.T) {
	var c conditions
	assert.Equal(t, "", c.where())

	c.add("a = ?", 1)
	c.add("(b = ? OR c = ?)", 2)
	assert.Equal(t, " WHERE a = $1 AND (b = $2 OR c = $2)", c.where())
	assert.Equal(t, " LIMIT $3", c.page(10, 0))
	assert.Equal(t, []interface{}{1, 2, 10}, c.args)
}
