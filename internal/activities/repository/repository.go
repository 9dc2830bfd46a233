// Package repository persists deal timeline activities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate = "activities.repository.create"
	opList   = "activities.repository.list"
)

const activityColumns = `id, deal_id, user_id, organization_id, type, content, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Activity, error) {
	var a Activity
	err := r.pool.QueryRow(ctx, `
		INSERT INTO activities (deal_id, user_id, organization_id, type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+activityColumns,
		p.DealID, p.UserID, p.OrganizationID, string(p.Type), p.Content,
	).Scan(&a.ID, &a.DealID, &a.UserID, &a.OrganizationID, &a.Type, &a.Content, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Activity{}, apperr.NotFound("deal, user or organization not found").WithOp(opCreate)
		}
		return Activity{}, apperr.Internal(fmt.Sprintf("create activity failed: %v", err)).WithOp(opCreate)
	}
	return a, nil
}

func (r *Repository) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE deal_id = $1 ORDER BY created_at DESC`,
		dealID,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list activities failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	var items []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.DealID, &a.UserID, &a.OrganizationID, &a.Type, &a.Content, &a.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan activity failed: %v", err)).WithOp(opList)
		}
		items = append(items, a)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate activities failed: %v", rows.Err())).WithOp(opList)
	}
	return items, nil
}
