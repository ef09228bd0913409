package postgres

import (
	"context"
	"encoding/json"

	"github.com/lib/pq"

	"admissions-platform/internal/models"
)

type bookings struct{ repo }

const bookingColumns = `id, student_id, mentor_id, scheduled_at, duration_minutes, status, topic,
	notes, created_at, updated_at`

func scanBooking(s scanner) (*models.Booking, error) {
	var b models.Booking
	err := s.Scan(&b.ID, &b.StudentID, &b.MentorID, &b.ScheduledAt, &b.DurationMinutes, &b.Status,
		&b.Topic, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookings) Create(ctx context.Context, b *models.Booking) error {
	ensureID(&b.ID)
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.StudentID, b.MentorID, b.ScheduledAt, b.DurationMinutes, b.Status, b.Topic,
		b.Notes, b.CreatedAt, b.UpdatedAt)
	return mapError("create_booking", err)
}

func (r *bookings) Get(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get_booking", err)
	}
	return b, nil
}

func (r *bookings) List(ctx context.Context, f models.BookingFilter) ([]*models.Booking, error) {
	var cond conditions
	if f.StudentID != "" {
		cond.add(`student_id = ?`, f.StudentID)
	}
	if f.MentorID != "" {
		cond.add(`mentor_id = ?`, f.MentorID)
	}
	if f.Status != "" {
		cond.add(`status = ?`, string(f.Status))
	}
	if f.From != nil {
		cond.add(`scheduled_at >= ?`, *f.From)
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings`+cond.where()+` ORDER BY scheduled_at, id`, cond.args...)
	if err != nil {
		return nil, mapError("list_bookings", err)
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapError("list_bookings", err)
		}
		out = append(out, b)
	}
	return out, mapError("list_bookings", rows.Err())
}

func (r *bookings) Update(ctx context.Context, b *models.Booking) error {
	b.UpdatedAt = now()
	return r.execOne(ctx, "update_booking", `UPDATE bookings SET
		student_id = $2, mentor_id = $3, scheduled_at = $4, duration_minutes = $5, status = $6,
		topic = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		b.ID, b.StudentID, b.MentorID, b.ScheduledAt, b.DurationMinutes, b.Status, b.Topic,
		b.Notes, b.UpdatedAt)
}

func (r *bookings) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete_booking", `DELETE FROM bookings WHERE id = $1`, id)
}

type actionPlans struct{ repo }

const actionPlanColumns = `id, student_id, title, items, created_at, updated_at`

func scanActionPlan(s scanner) (*models.ActionPlan, error) {
	var (
		p     models.ActionPlan
		items []byte
	)
	if err := s.Scan(&p.ID, &p.StudentID, &p.Title, &items, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &p.Items); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func marshalItems(p *models.ActionPlan) ([]byte, error) {
	for i := range p.Items {
		ensureID(&p.Items[i].ID)
	}
	if p.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.Items)
}

func (r *actionPlans) Create(ctx context.Context, p *models.ActionPlan) error {
	ensureID(&p.ID)
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	items, err := marshalItems(p)
	if err != nil {
		return mapError("create_action_plan", err)
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err = r.db.ExecContext(ctx, `INSERT INTO action_plans (`+actionPlanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.StudentID, p.Title, items, p.CreatedAt, p.UpdatedAt)
	return mapError("create_action_plan", err)
}

func (r *actionPlans) Get(ctx context.Context, id string) (*models.ActionPlan, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	p, err := scanActionPlan(r.db.QueryRowContext(ctx,
		`SELECT `+actionPlanColumns+` FROM action_plans WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get_action_plan", err)
	}
	return p, nil
}

func (r *actionPlans) List(ctx context.Context, studentID string) ([]*models.ActionPlan, error) {
	var cond conditions
	if studentID != "" {
		cond.add(`student_id = ?`, studentID)
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+actionPlanColumns+` FROM action_plans`+cond.where()+` ORDER BY created_at, id`, cond.args...)
	if err != nil {
		return nil, mapError("list_action_plans", err)
	}
	defer rows.Close()

	var out []*models.ActionPlan
	for rows.Next() {
		p, err := scanActionPlan(rows)
		if err != nil {
			return nil, mapError("list_action_plans", err)
		}
		out = append(out, p)
	}
	return out, mapError("list_action_plans", rows.Err())
}

func (r *actionPlans) Update(ctx context.Context, p *models.ActionPlan) error {
	p.UpdatedAt = now()
	items, err := marshalItems(p)
	if err != nil {
		return mapError("update_action_plan", err)
	}
	return r.execOne(ctx, "update_action_plan",
		`UPDATE action_plans SET student_id = $2, title = $3, items = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.StudentID, p.Title, items, p.UpdatedAt)
}

func (r *actionPlans) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete_action_plan", `DELETE FROM action_plans WHERE id = $1`, id)
}

type agentConfigs struct{ repo }

func (r *agentConfigs) Get(ctx context.Context, studentID string) (*models.AgentConfig, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var c models.AgentConfig
	err := r.db.QueryRowContext(ctx, `SELECT student_id, enabled, digest_interval_minutes, channels,
		focus, updated_at FROM agent_configs WHERE student_id = $1`, studentID).
		Scan(&c.StudentID, &c.Enabled, &c.DigestIntervalMinutes, pq.Array(&c.Channels),
			pq.Array(&c.Focus), &c.UpdatedAt)
	if err != nil {
		return nil, mapError("get_agent_config", err)
	}
	return &c, nil
}

func (r *agentConfigs) Upsert(ctx context.Context, c *models.AgentConfig) error {
	c.UpdatedAt = now()

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agent_configs (student_id, enabled, digest_interval_minutes, channels, focus, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id) DO UPDATE SET
			enabled = EXCLUDED.enabled, digest_interval_minutes = EXCLUDED.digest_interval_minutes,
			channels = EXCLUDED.channels, focus = EXCLUDED.focus, updated_at = EXCLUDED.updated_at`,
		c.StudentID, c.Enabled, c.DigestIntervalMinutes, pq.Array(c.Channels), pq.Array(c.Focus), c.UpdatedAt)
	return mapError("upsert_agent_config", err)
}

func (r *agentConfigs) Delete(ctx context.Context, studentID string) error {
	return r.execOne(ctx, "delete_agent_config", `DELETE FROM agent_configs WHERE student_id = $1`, studentID)
}
