// Package repository loads the read-side projections the analytics
// aggregator works on.
package repository

import (
	"context"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opLoadDeals     = "analytics.repository.load_deals"
	opLoadHistory   = "analytics.repository.load_history"
	opLoadRelations = "analytics.repository.load_relations"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) LoadDeals(ctx context.Context) ([]Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, stage, status, expected_value_cents, fee_success_cents, probability, created_at, updated_at
		FROM deals`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("load deals failed: %v", err)).WithOp(opLoadDeals)
	}
	defer rows.Close()

	var deals []Deal
	for rows.Next() {
		var d Deal
		if err := rows.Scan(&d.ID, &d.Stage, &d.Status, &d.ExpectedValueCents, &d.FeeSuccessCents, &d.Probability, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan deal failed: %v", err)).WithOp(opLoadDeals)
		}
		deals = append(deals, d)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate deals failed: %v", rows.Err())).WithOp(opLoadDeals)
	}
	return deals, nil
}

func (r *Repository) LoadHistory(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT deal_id, stage, entered_at
		FROM deal_stage_history
		ORDER BY entered_at ASC, id ASC`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("load history failed: %v", err)).WithOp(opLoadHistory)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.DealID, &e.Stage, &e.EnteredAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan history entry failed: %v", err)).WithOp(opLoadHistory)
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate history failed: %v", rows.Err())).WithOp(opLoadHistory)
	}
	return entries, nil
}

func (r *Repository) LoadRelations(ctx context.Context) ([]Relation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT deal_id, status, nda_signed_at FROM investor_relations`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("load relations failed: %v", err)).WithOp(opLoadRelations)
	}
	defer rows.Close()

	var rels []Relation
	for rows.Next() {
		var rel Relation
		if err := rows.Scan(&rel.DealID, &rel.Status, &rel.NDASignedAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan relation failed: %v", err)).WithOp(opLoadRelations)
		}
		rels = append(rels, rel)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate relations failed: %v", rows.Err())).WithOp(opLoadRelations)
	}
	return rels, nil
}
