package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/lib/pq"

	"admissions-platform/internal/models"
)

func marshalEligibility(e models.Eligibility) ([]byte, error) {
	return json.Marshal(e)
}

func unmarshalEligibility(raw []byte, e *models.Eligibility) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, e)
}

type colleges struct{ repo }

const collegeColumns = `id, name, city, state, region, type, size, tuition, acceptance_rate,
	avg_gpa, avg_sat, avg_act, majors, website, eligibility, created_at, updated_at`

func scanCollege(s scanner) (*models.College, error) {
	var (
		c           models.College
		eligibility []byte
	)
	err := s.Scan(&c.ID, &c.Name, &c.City, &c.State, &c.Region, &c.Type, &c.Size, &c.Tuition,
		&c.AcceptanceRate, &c.AvgGPA, &c.AvgSAT, &c.AvgACT, pq.Array(&c.Majors), &c.Website,
		&eligibility, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalEligibility(eligibility, &c.Eligibility); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *colleges) Create(ctx context.Context, c *models.College) error {
	ensureID(&c.ID)
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt

	eligibility, err := marshalEligibility(c.Eligibility)
	if err != nil {
		return mapError("create_college", err)
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err = r.db.ExecContext(ctx, `INSERT INTO colleges (`+collegeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		c.ID, c.Name, c.City, c.State, c.Region, c.Type, c.Size, c.Tuition, c.AcceptanceRate,
		c.AvgGPA, c.AvgSAT, c.AvgACT, pq.Array(c.Majors), c.Website, eligibility,
		c.CreatedAt, c.UpdatedAt)
	return mapError("create_college", err)
}

func (r *colleges) Get(ctx context.Context, id string) (*models.College, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	c, err := scanCollege(r.db.QueryRowContext(ctx, `SELECT `+collegeColumns+` FROM colleges WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get_college", err)
	}
	return c, nil
}

func (r *colleges) List(ctx context.Context, f models.CollegeFilter) ([]*models.College, error) {
	var cond conditions
	if f.Query != "" {
		cond.add(`(name ILIKE ? OR city ILIKE ? OR state ILIKE ? OR array_to_string(majors, ' ') ILIKE ?)`,
			"%"+escapeLike(f.Query)+"%")
	}
	if f.State != "" {
		cond.add(`lower(state) = lower(?)`, f.State)
	}
	if f.Type != "" {
		cond.add(`lower(type) = lower(?)`, f.Type)
	}
	if f.MaxTuition > 0 {
		cond.add(`tuition <= ?`, f.MaxTuition)
	}
	query := `SELECT ` + collegeColumns + ` FROM colleges` + cond.where() + ` ORDER BY name, id` +
		cond.page(f.Limit, f.Offset)

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, mapError("list_colleges", err)
	}
	defer rows.Close()

	var out []*models.College
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, mapError("list_colleges", err)
		}
		out = append(out, c)
	}
	return out, mapError("list_colleges", rows.Err())
}

func (r *colleges) Update(ctx context.Context, c *models.College) error {
	c.UpdatedAt = now()
	eligibility, err := marshalEligibility(c.Eligibility)
	if err != nil {
		return mapError("update_college", err)
	}
	return r.execOne(ctx, "update_college", `UPDATE colleges SET
		name = $2, city = $3, state = $4, region = $5, type = $6, size = $7, tuition = $8,
		acceptance_rate = $9, avg_gpa = $10, avg_sat = $11, avg_act = $12, majors = $13,
		website = $14, eligibility = $15, updated_at = $16
		WHERE id = $1`,
		c.ID, c.Name, c.City, c.State, c.Region, c.Type, c.Size, c.Tuition, c.AcceptanceRate,
		c.AvgGPA, c.AvgSAT, c.AvgACT, pq.Array(c.Majors), c.Website, eligibility, c.UpdatedAt)
}

func (r *colleges) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete_college", `DELETE FROM colleges WHERE id = $1`, id)
}

type scholarships struct{ repo }

const scholarshipColumns = `id, name, provider, amount, renewable, deadline, description, url,
	eligibility, created_at, updated_at`

func scanScholarship(s scanner) (*models.Scholarship, error) {
	var (
		sc          models.Scholarship
		eligibility []byte
	)
	err := s.Scan(&sc.ID, &sc.Name, &sc.Provider, &sc.Amount, &sc.Renewable, &sc.Deadline,
		&sc.Description, &sc.URL, &eligibility, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalEligibility(eligibility, &sc.Eligibility); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *scholarships) Create(ctx context.Context, s *models.Scholarship) error {
	ensureID(&s.ID)
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt

	eligibility, err := marshalEligibility(s.Eligibility)
	if err != nil {
		return mapError("create_scholarship", err)
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err = r.db.ExecContext(ctx, `INSERT INTO scholarships (`+scholarshipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Name, s.Provider, s.Amount, s.Renewable, s.Deadline, s.Description, s.URL,
		eligibility, s.CreatedAt, s.UpdatedAt)
	return mapError("create_scholarship", err)
}

func (r *scholarships) Get(ctx context.Context, id string) (*models.Scholarship, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	s, err := scanScholarship(r.db.QueryRowContext(ctx,
		`SELECT `+scholarshipColumns+` FROM scholarships WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get_scholarship", err)
	}
	return s, nil
}

func (r *scholarships) List(ctx context.Context, f models.ScholarshipFilter) ([]*models.Scholarship, error) {
	var cond conditions
	if f.MinAmount > 0 {
		cond.add(`amount >= ?`, f.MinAmount)
	}
	if f.DeadlineAfter != nil {
		cond.add(`(deadline IS NULL OR deadline >= ?)`, *f.DeadlineAfter)
	}
	query := `SELECT ` + scholarshipColumns + ` FROM scholarships` + cond.where() +
		` ORDER BY deadline ASC NULLS LAST, name, id` + cond.page(f.Limit, f.Offset)

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, mapError("list_scholarships", err)
	}
	defer rows.Close()

	var out []*models.Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, mapError("list_scholarships", err)
		}
		out = append(out, s)
	}
	return out, mapError("list_scholarships", rows.Err())
}

func (r *scholarships) Update(ctx context.Context, s *models.Scholarship) error {
	s.UpdatedAt = now()
	eligibility, err := marshalEligibility(s.Eligibility)
	if err != nil {
		return mapError("update_scholarship", err)
	}
	return r.execOne(ctx, "update_scholarship", `UPDATE scholarships SET
		name = $2, provider = $3, amount = $4, renewable = $5, deadline = $6, description = $7,
		url = $8, eligibility = $9, updated_at = $10
		WHERE id = $1`,
		s.ID, s.Name, s.Provider, s.Amount, s.Renewable, s.Deadline, s.Description, s.URL,
		eligibility, s.UpdatedAt)
}

func (r *scholarships) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete_scholarship", `DELETE FROM scholarships WHERE id = $1`, id)
}

type mentors struct{ repo }

const mentorColumns = `id, user_id, name, email, title, bio, specializations, colleges, states,
	hourly_rate, min_gpa, first_gen_focus, rating, available, created_at, updated_at`

func scanMentor(s scanner) (*models.Mentor, error) {
	var m models.Mentor
	err := s.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Title, &m.Bio,
		pq.Array(&m.Specializations), pq.Array(&m.Colleges), pq.Array(&m.States),
		&m.HourlyRate, &m.MinGPA, &m.FirstGenFocus, &m.Rating, &m.Available,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mentors) Create(ctx context.Context, m *models.Mentor) error {
	ensureID(&m.ID)
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO mentors (`+mentorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		m.ID, m.UserID, m.Name, m.Email, m.Title, m.Bio,
		pq.Array(m.Specializations), pq.Array(m.Colleges), pq.Array(m.States),
		m.HourlyRate, m.MinGPA, m.FirstGenFocus, m.Rating, m.Available, m.CreatedAt, m.UpdatedAt)
	return mapError("create_mentor", err)
}

func (r *mentors) Get(ctx context.Context, id string) (*models.Mentor, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	m, err := scanMentor(r.db.QueryRowContext(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get_mentor", err)
	}
	return m, nil
}

func (r *mentors) List(ctx context.Context, f models.MentorFilter) ([]*models.Mentor, error) {
	var cond conditions
	if f.AvailableOnly {
		cond.add(`available = ?`, true)
	}
	if f.Specialization != "" {
		cond.add(`EXISTS (SELECT 1 FROM unnest(specializations) s WHERE lower(trim(s)) = lower(trim(?)))`,
			f.Specialization)
	}
	query := `SELECT ` + mentorColumns + ` FROM mentors` + cond.where() +
		` ORDER BY rating DESC, name, id` + cond.page(f.Limit, f.Offset)

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, cond.args...)
	if err != nil {
		return nil, mapError("list_mentors", err)
	}
	defer rows.Close()

	var out []*models.Mentor
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, mapError("list_mentors", err)
		}
		out = append(out, m)
	}
	return out, mapError("list_mentors", rows.Err())
}

func (r *mentors) Update(ctx context.Context, m *models.Mentor) error {
	m.UpdatedAt = now()
	return r.execOne(ctx, "update_mentor", `UPDATE mentors SET
		user_id = $2, name = $3, email = $4, title = $5, bio = $6, specializations = $7,
		colleges = $8, states = $9, hourly_rate = $10, min_gpa = $11, first_gen_focus = $12,
		rating = $13, available = $14, updated_at = $15
		WHERE id = $1`,
		m.ID, m.UserID, m.Name, m.Email, m.Title, m.Bio,
		pq.Array(m.Specializations), pq.Array(m.Colleges), pq.Array(m.States),
		m.HourlyRate, m.MinGPA, m.FirstGenFocus, m.Rating, m.Available, m.UpdatedAt)
}

func (r *mentors) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete_mentor", `DELETE FROM mentors WHERE id = $1`, id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
