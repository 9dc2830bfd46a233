package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	opHistoryList = "deals.repository.history_list"
	opHistoryLast = "deals.repository.history_last"
)

// EntriesForDeal returns the full stage ledger for a deal, oldest first.
func (r *Repository) EntriesForDeal(ctx context.Context, dealID uuid.UUID) ([]HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, deal_id, stage, entered_at
		FROM deal_stage_history
		WHERE deal_id = $1
		ORDER BY entered_at ASC, id ASC`,
		dealID,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list history failed: %v", err)).WithOp(opHistoryList)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.DealID, &e.Stage, &e.EnteredAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan history failed: %v", err)).WithOp(opHistoryList)
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate history failed: %v", rows.Err())).WithOp(opHistoryList)
	}
	return entries, nil
}

// LastEntry returns the most recently appended ledger entry for a deal.
// Its stage always equals the deal's current stage; both are written in the
// same transaction by TransitionStage.
func (r *Repository) LastEntry(ctx context.Context, dealID uuid.UUID) (HistoryEntry, error) {
	var e HistoryEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, deal_id, stage, entered_at
		FROM deal_stage_history
		WHERE deal_id = $1
		ORDER BY entered_at DESC, id DESC
		LIMIT 1`,
		dealID,
	).Scan(&e.ID, &e.DealID, &e.Stage, &e.EnteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return HistoryEntry{}, apperr.NotFound("no history for deal").WithOp(opHistoryLast)
	}
	if err != nil {
		return HistoryEntry{}, apperr.Internal(fmt.Sprintf("last history entry failed: %v", err)).WithOp(opHistoryLast)
	}
	return e, nil
}
