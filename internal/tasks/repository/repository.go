// Package repository persists deal checklist tasks.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "tasks.repository.create"
	opCreateBatch = "tasks.repository.create_batch"
	opList        = "tasks.repository.list"
	opSetDone     = "tasks.repository.set_done"
	opDelete      = "tasks.repository.delete"
)

const taskColumns = `id, deal_id, title, description, done, due_at, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Task, error) {
	var t Task
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (deal_id, title, description, due_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns,
		p.DealID, p.Title, p.Description, p.DueAt,
	).Scan(taskFields(&t)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Task{}, apperr.NotFound("deal not found").WithOp(opCreate)
		}
		return Task{}, apperr.Internal(fmt.Sprintf("create task failed: %v", err)).WithOp(opCreate)
	}
	return t, nil
}

func (r *Repository) CreateBatch(ctx context.Context, batch []CreateParams) error {
	if len(batch) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, p := range batch {
		b.Queue(
			`INSERT INTO tasks (deal_id, title, description, due_at) VALUES ($1, $2, $3, $4)`,
			p.DealID, p.Title, p.Description, p.DueAt,
		)
	}

	results := r.pool.SendBatch(ctx, b)
	defer results.Close()

	for range batch {
		if _, err := results.Exec(); err != nil {
			return apperr.Internal(fmt.Sprintf("insert task failed: %v", err)).WithOp(opCreateBatch)
		}
	}
	return nil
}

func (r *Repository) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE deal_id = $1 ORDER BY created_at ASC`,
		dealID,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list tasks failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	var items []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(taskFields(&t)...); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan task failed: %v", err)).WithOp(opList)
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate tasks failed: %v", rows.Err())).WithOp(opList)
	}
	return items, nil
}

func (r *Repository) SetDone(ctx context.Context, id uuid.UUID, done bool) (Task, error) {
	var t Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks SET done = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns,
		id, done,
	).Scan(taskFields(&t)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, apperr.NotFound("task not found").WithOp(opSetDone)
	}
	if err != nil {
		return Task{}, apperr.Internal(fmt.Sprintf("set task done failed: %v", err)).WithOp(opSetDone)
	}
	return t, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete task failed: %v", err)).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found").WithOp(opDelete)
	}
	return nil
}

func taskFields(t *Task) []any {
	return []any{
		&t.ID, &t.DealID, &t.Title, &t.Description, &t.Done,
		&t.DueAt, &t.CreatedAt, &t.UpdatedAt,
	}
}
