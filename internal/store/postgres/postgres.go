// Package postgres implements the store repositories on PostgreSQL through database/sql and
// lib/pq. List columns use pq.Array; nested values (eligibility, plan items) are JSONB.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/store"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

var now = func() time.Time { return time.Now().UTC() }

type scanner interface {
	Scan(dest ...interface{}) error
}

// repo carries what every repository needs: the pool and the per-query timeout.
type repo struct {
	db      *sql.DB
	timeout time.Duration
}

func (r repo) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// New returns a store whose repositories share db. timeout bounds each query.
func New(db *sql.DB, timeout time.Duration) *store.Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := repo{db: db, timeout: timeout}
	return &store.Store{
		Users:        &users{r},
		Profiles:     &profiles{r},
		Colleges:     &colleges{r},
		Scholarships: &scholarships{r},
		Mentors:      &mentors{r},
		Bookings:     &bookings{r},
		ActionPlans:  &actionPlans{r},
		AgentConfigs: &agentConfigs{r},
		Backend:      "postgres",
	}
}

// Migrate creates the tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.NewQueryExecutionFailedError("migrate", err)
	}
	return nil
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// mapError translates driver errors into store sentinels, wrapping everything else as a
// query failure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrConflict, pqErr.Constraint)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(op)
	}
	return errors.NewQueryExecutionFailedError(op, err)
}

// execOne runs a statement that must touch exactly one row.
func (r repo) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// conditions accumulates WHERE clauses. Each "?" in a clause becomes the placeholder of the
// argument added with it.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(c.args))))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func (c *conditions) page(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		c.args = append(c.args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(c.args))
	}
	if offset > 0 {
		c.args = append(c.args, offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(c.args))
	}
	return b.String()
}
