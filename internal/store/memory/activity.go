package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

type bookings struct {
	t *table[models.Booking]
}

func newBookings() *bookings {
	return &bookings{t: newTable(func(b models.Booking) models.Booking { return b })}
}

func (r *bookings) Create(_ context.Context, b *models.Booking) error {
	ensureID(&b.ID)
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	return r.t.insert(b.ID, *b)
}

func (r *bookings) Get(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

// List orders by scheduled time, earliest first.
func (r *bookings) List(_ context.Context, f models.BookingFilter) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range r.t.all() {
		if f.StudentID != "" && b.StudentID != f.StudentID {
			continue
		}
		if f.MentorID != "" && b.MentorID != f.MentorID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.From != nil && b.ScheduledAt.Before(*f.From) {
			continue
		}
		out = append(out, &b)
	}
	slices.SortFunc(out, func(a, b *models.Booking) int {
		return cmp.Or(a.ScheduledAt.Compare(b.ScheduledAt), strings.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *bookings) Update(_ context.Context, b *models.Booking) error {
	existing, ok := r.t.get(b.ID)
	if !ok {
		return store.ErrNotFound
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = now()
	return r.t.replace(b.ID, *b)
}

func (r *bookings) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type actionPlans struct {
	t *table[models.ActionPlan]
}

func newActionPlans() *actionPlans {
	return &actionPlans{t: newTable(func(p models.ActionPlan) models.ActionPlan {
		p.Items = slices.Clone(p.Items)
		return p
	})}
}

func (r *actionPlans) Create(_ context.Context, p *models.ActionPlan) error {
	ensureID(&p.ID)
	for i := range p.Items {
		ensureID(&p.Items[i].ID)
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	return r.t.insert(p.ID, *p)
}

func (r *actionPlans) Get(_ context.Context, id string) (*models.ActionPlan, error) {
	p, ok := r.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (r *actionPlans) List(_ context.Context, studentID string) ([]*models.ActionPlan, error) {
	var out []*models.ActionPlan
	for _, p := range r.t.all() {
		if studentID == "" || p.StudentID == studentID {
			out = append(out, &p)
		}
	}
	slices.SortFunc(out, func(a, b *models.ActionPlan) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), strings.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *actionPlans) Update(_ context.Context, p *models.ActionPlan) error {
	existing, ok := r.t.get(p.ID)
	if !ok {
		return store.ErrNotFound
	}
	for i := range p.Items {
		ensureID(&p.Items[i].ID)
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now()
	return r.t.replace(p.ID, *p)
}

func (r *actionPlans) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type agentConfigs struct {
	t *table[models.AgentConfig]
}

func newAgentConfigs() *agentConfigs {
	return &agentConfigs{t: newTable(func(c models.AgentConfig) models.AgentConfig {
		c.Channels = slices.Clone(c.Channels)
		c.Focus = slices.Clone(c.Focus)
		return c
	})}
}

func (r *agentConfigs) Get(_ context.Context, studentID string) (*models.AgentConfig, error) {
	c, ok := r.t.get(studentID)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (r *agentConfigs) Upsert(_ context.Context, c *models.AgentConfig) error {
	c.UpdatedAt = now()
	r.t.upsert(c.StudentID, *c)
	return nil
}

func (r *agentConfigs) Delete(_ context.Context, studentID string) error {
	return r.t.remove(studentID)
}
