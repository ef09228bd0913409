package memory

import (
	"context"
	"slices"
	"strings"

	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

type users struct {
	t *table[models.User]
}

func newUsers() *users {
	return &users{t: newTable(func(u models.User) models.User { return u })}
}

func (r *users) Create(_ context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	return r.t.write(func(rows map[string]models.User) error {
		if _, exists := rows[u.ID]; exists || emailTaken(rows, u.Email, u.ID) {
			return store.ErrConflict
		}
		rows[u.ID] = *u
		return nil
	})
}

func (r *users) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := r.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r *users) List(_ context.Context) ([]*models.User, error) {
	rows := r.t.all()
	slices.SortFunc(rows, func(a, b models.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	out := make([]*models.User, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (r *users) Update(_ context.Context, u *models.User) error {
	u.UpdatedAt = now()
	return r.t.write(func(rows map[string]models.User) error {
		existing, ok := rows[u.ID]
		if !ok {
			return store.ErrNotFound
		}
		if emailTaken(rows, u.Email, u.ID) {
			return store.ErrConflict
		}
		u.CreatedAt = existing.CreatedAt
		rows[u.ID] = *u
		return nil
	})
}

func (r *users) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func emailTaken(rows map[string]models.User, email, exceptID string) bool {
	for id, u := range rows {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

type profiles struct {
	t *table[models.StudentProfile]
}

func newProfiles() *profiles {
	return &profiles{t: newTable(func(p models.StudentProfile) models.StudentProfile {
		p.IntendedMajors = slices.Clone(p.IntendedMajors)
		p.TargetColleges = slices.Clone(p.TargetColleges)
		p.PreferredTypes = slices.Clone(p.PreferredTypes)
		p.PreferredRegions = slices.Clone(p.PreferredRegions)
		p.PreferredSizes = slices.Clone(p.PreferredSizes)
		return p
	})}
}

func (r *profiles) Get(_ context.Context, userID string) (*models.StudentProfile, error) {
	p, ok := r.t.get(userID)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r *profiles) Upsert(_ context.Context, p *models.StudentProfile) error {
	p.UpdatedAt = now()
	r.t.upsert(p.UserID, *p)
	return nil
}

func (r *profiles) Delete(_ context.Context, userID string) error {
	return r.t.remove(userID)
}
