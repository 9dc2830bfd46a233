package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const opDeleteCascade = "deals.repository.delete_cascade"

// Child tables carry plain foreign keys without ON DELETE CASCADE, so the
// delete order below is load-bearing: history, investor relations, tasks,
// activities, documents, then the deal row itself.
var dealChildTables = []string{
	"deal_stage_history",
	"investor_relations",
	"tasks",
	"activities",
	"documents",
}

// DeleteCascade removes a deal and every dependent row in one transaction.
// A foreign-key violation (a child table this code does not know about, or
// rows created concurrently) surfaces as a dependency error rather than a
// silent partial delete.
func (r *Repository) DeleteCascade(ctx context.Context, dealID uuid.UUID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "begin delete deal", err).WithOp(opDeleteCascade)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1)`, dealID,
	).Scan(&exists); err != nil {
		return apperr.Internal(fmt.Sprintf("check deal failed: %v", err)).WithOp(opDeleteCascade)
	}
	if !exists {
		return apperr.NotFound("deal not found").WithOp(opDeleteCascade)
	}

	for _, table := range dealChildTables {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE deal_id = $1`, table), dealID,
		); err != nil {
			return mapDeleteError(table, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM deals WHERE id = $1`, dealID); err != nil {
		return mapDeleteError("deals", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindInternal, "commit delete deal", err).WithOp(opDeleteCascade)
	}
	return nil
}

func mapDeleteError(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.Dependency(
			fmt.Sprintf("cannot delete from %s: dependent rows still exist", table),
		).WithOp(opDeleteCascade)
	}
	return apperr.Internal(fmt.Sprintf("delete from %s failed: %v", table, err)).WithOp(opDeleteCascade)
}
