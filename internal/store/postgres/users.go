package postgres

import (
	"context"

	"github.com/lib/pq"

	"admissions-platform/internal/models"
)

type users struct{ repo }

const userColumns = `id, name, email, phone, role, created_at, updated_at`

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *users) Create(ctx context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.CreatedAt, u.UpdatedAt)
	return mapError("create_user", err)
}

func (r *users) Get(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get_user", err)
	}
	return u, nil
}

func (r *users) List(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError("list_users", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("list_users", err)
		}
		out = append(out, u)
	}
	return out, mapError("list_users", rows.Err())
}

func (r *users) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	return r.execOne(ctx, "update_user",
		`UPDATE users SET name = $2, email = $3, phone = $4, role = $5, updated_at = $6 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.UpdatedAt)
}

func (r *users) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete_user", `DELETE FROM users WHERE id = $1`, id)
}

type profiles struct{ repo }

const profileColumns = `user_id, gpa, sat_score, act_score, family_income, budget, mentor_budget,
	state, ethnicity, first_gen, leadership_roles, community_service_hours, research_experience,
	intended_majors, target_colleges, preferred_types, preferred_regions, preferred_sizes,
	max_tuition, updated_at`

func (r *profiles) Get(ctx context.Context, userID string) (*models.StudentProfile, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var p models.StudentProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM student_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.GPA, &p.SATScore, &p.ACTScore, &p.FamilyIncome, &p.Budget, &p.MentorBudget,
			&p.State, &p.Ethnicity, &p.FirstGen, &p.LeadershipRoles, &p.CommunityServiceHours,
			&p.ResearchExperience, pq.Array(&p.IntendedMajors), pq.Array(&p.TargetColleges),
			pq.Array(&p.PreferredTypes), pq.Array(&p.PreferredRegions), pq.Array(&p.PreferredSizes),
			&p.MaxTuition, &p.UpdatedAt)
	if err != nil {
		return nil, mapError("get_profile", err)
	}
	return &p, nil
}

func (r *profiles) Upsert(ctx context.Context, p *models.StudentProfile) error {
	p.UpdatedAt = now()

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO student_profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (user_id) DO UPDATE SET
			gpa = EXCLUDED.gpa, sat_score = EXCLUDED.sat_score, act_score = EXCLUDED.act_score,
			family_income = EXCLUDED.family_income, budget = EXCLUDED.budget,
			mentor_budget = EXCLUDED.mentor_budget, state = EXCLUDED.state,
			ethnicity = EXCLUDED.ethnicity, first_gen = EXCLUDED.first_gen,
			leadership_roles = EXCLUDED.leadership_roles,
			community_service_hours = EXCLUDED.community_service_hours,
			research_experience = EXCLUDED.research_experience,
			intended_majors = EXCLUDED.intended_majors, target_colleges = EXCLUDED.target_colleges,
			preferred_types = EXCLUDED.preferred_types, preferred_regions = EXCLUDED.preferred_regions,
			preferred_sizes = EXCLUDED.preferred_sizes, max_tuition = EXCLUDED.max_tuition,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.GPA, p.SATScore, p.ACTScore, p.FamilyIncome, p.Budget, p.MentorBudget,
		p.State, p.Ethnicity, p.FirstGen, p.LeadershipRoles, p.CommunityServiceHours,
		p.ResearchExperience, pq.Array(p.IntendedMajors), pq.Array(p.TargetColleges),
		pq.Array(p.PreferredTypes), pq.Array(p.PreferredRegions), pq.Array(p.PreferredSizes),
		p.MaxTuition, p.UpdatedAt)
	return mapError("upsert_profile", err)
}

func (r *profiles) Delete(ctx context.Context, userID string) error {
	return r.execOne(ctx, "delete_profile", `DELETE FROM student_profiles WHERE user_id = $1`, userID)
}
