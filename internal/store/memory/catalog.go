package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

func cloneEligibility(e models.Eligibility) models.Eligibility {
	e.RequiredStates = slices.Clone(e.RequiredStates)
	e.RequiredMajors = slices.Clone(e.RequiredMajors)
	e.RequiredEthnicities = slices.Clone(e.RequiredEthnicities)
	return e
}

type colleges struct {
	t *table[models.College]
}

func newColleges() *colleges {
	return &colleges{t: newTable(func(c models.College) models.College {
		c.Majors = slices.Clone(c.Majors)
		c.Eligibility = cloneEligibility(c.Eligibility)
		return c
	})}
}

func (r *colleges) Create(_ context.Context, c *models.College) error {
	ensureID(&c.ID)
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	return r.t.insert(c.ID, *c)
}

func (r *colleges) Get(_ context.Context, id string) (*models.College, error) {
	c, ok := r.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (r *colleges) List(_ context.Context, f models.CollegeFilter) ([]*models.College, error) {
	var out []*models.College
	for _, c := range r.t.all() {
		if collegeMatches(&c, f) {
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.College) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return store.Paginate(out, f.Limit, f.Offset), nil
}

func (r *colleges) Update(_ context.Context, c *models.College) error {
	existing, ok := r.t.get(c.ID)
	if !ok {
		return store.ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = now()
	return r.t.replace(c.ID, *c)
}

func (r *colleges) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// collegeMatches applies the filter the same way the postgres query does: q is a
// case-insensitive substring of name, city, state or any major.
func collegeMatches(c *models.College, f models.CollegeFilter) bool {
	if f.State != "" && !strings.EqualFold(c.State, f.State) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(c.Type, f.Type) {
		return false
	}
	if f.MaxTuition > 0 && c.Tuition > f.MaxTuition {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range append([]string{c.Name, c.City, c.State}, c.Majors...) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

type scholarships struct {
	t *table[models.Scholarship]
}

func newScholarships() *scholarships {
	return &scholarships{t: newTable(func(s models.Scholarship) models.Scholarship {
		s.Eligibility = cloneEligibility(s.Eligibility)
		return s
	})}
}

func (r *scholarships) Create(_ context.Context, s *models.Scholarship) error {
	ensureID(&s.ID)
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	return r.t.insert(s.ID, *s)
}

func (r *scholarships) Get(_ context.Context, id string) (*models.Scholarship, error) {
	s, ok := r.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

// List orders by deadline, soonest first; rolling scholarships without a deadline come last.
func (r *scholarships) List(_ context.Context, f models.ScholarshipFilter) ([]*models.Scholarship, error) {
	var out []*models.Scholarship
	for _, s := range r.t.all() {
		if s.Amount < f.MinAmount {
			continue
		}
		if f.DeadlineAfter != nil && s.Deadline != nil && s.Deadline.Before(*f.DeadlineAfter) {
			continue
		}
		out = append(out, &s)
	}
	slices.SortFunc(out, func(a, b *models.Scholarship) int {
		switch {
		case a.Deadline == nil && b.Deadline != nil:
			return 1
		case a.Deadline != nil && b.Deadline == nil:
			return -1
		case a.Deadline != nil && b.Deadline != nil:
			if c := a.Deadline.Compare(*b.Deadline); c != 0 {
				return c
			}
		}
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return store.Paginate(out, f.Limit, f.Offset), nil
}

func (r *scholarships) Update(_ context.Context, s *models.Scholarship) error {
	existing, ok := r.t.get(s.ID)
	if !ok {
		return store.ErrNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = now()
	return r.t.replace(s.ID, *s)
}

func (r *scholarships) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type mentors struct {
	t *table[models.Mentor]
}

func newMentors() *mentors {
	return &mentors{t: newTable(func(m models.Mentor) models.Mentor {
		m.Specializations = slices.Clone(m.Specializations)
		m.Colleges = slices.Clone(m.Colleges)
		m.States = slices.Clone(m.States)
		return m
	})}
}

func (r *mentors) Create(_ context.Context, m *models.Mentor) error {
	ensureID(&m.ID)
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	return r.t.insert(m.ID, *m)
}

func (r *mentors) Get(_ context.Context, id string) (*models.Mentor, error) {
	m, ok := r.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

// List orders by rating, best first.
func (r *mentors) List(_ context.Context, f models.MentorFilter) ([]*models.Mentor, error) {
	var out []*models.Mentor
	for _, m := range r.t.all() {
		if f.AvailableOnly && !m.Available {
			continue
		}
		if f.Specialization != "" && !slices.ContainsFunc(m.Specializations, func(s string) bool {
			return strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(f.Specialization))
		}) {
			continue
		}
		out = append(out, &m)
	}
	slices.SortFunc(out, func(a, b *models.Mentor) int {
		return cmp.Or(cmp.Compare(b.Rating, a.Rating), strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return store.Paginate(out, f.Limit, f.Offset), nil
}

func (r *mentors) Update(_ context.Context, m *models.Mentor) error {
	existing, ok := r.t.get(m.ID)
	if !ok {
		return store.ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = now()
	return r.t.replace(m.ID, *m)
}

func (r *mentors) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}
