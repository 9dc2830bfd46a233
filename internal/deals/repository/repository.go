// Package repository persists deals and their stage history ledger.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate     = "deals.repository.create"
	opGet        = "deals.repository.get"
	opList       = "deals.repository.list"
	opUpdate     = "deals.repository.update"
	opTransition = "deals.repository.transition_stage"
	opSetStatus  = "deals.repository.set_status"
)

const dealColumns = `id, name, client_name, stage, status, expected_value_cents,
	fee_retainer_cents, fee_success_cents, probability, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Deal, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Deal{}, apperr.Wrap(apperr.KindInternal, "begin create deal", err).WithOp(opCreate)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var deal Deal
	err = tx.QueryRow(ctx, `
		INSERT INTO deals (name, client_name, stage, status, expected_value_cents,
			fee_retainer_cents, fee_success_cents, probability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+dealColumns,
		p.Name, p.ClientName, string(domain.InitialStage), string(domain.StatusLead),
		p.ExpectedValueCents, p.FeeRetainerCents, p.FeeSuccessCents, p.Probability,
	).Scan(dealFields(&deal)...)
	if err != nil {
		return Deal{}, apperr.Internal(fmt.Sprintf("create deal failed: %v", err)).WithOp(opCreate)
	}

	// The ledger starts with the initial stage so analytics can always
	// anchor a deal's timeline at its first history entry.
	_, err = tx.Exec(ctx, `
		INSERT INTO deal_stage_history (deal_id, stage, entered_at)
		VALUES ($1, $2, $3)`,
		deal.ID, string(deal.Stage), deal.CreatedAt,
	)
	if err != nil {
		return Deal{}, apperr.Internal(fmt.Sprintf("seed stage history failed: %v", err)).WithOp(opCreate)
	}

	if err := tx.Commit(ctx); err != nil {
		return Deal{}, apperr.Wrap(apperr.KindInternal, "commit create deal", err).WithOp(opCreate)
	}
	return deal, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Deal, error) {
	var deal Deal
	err := r.pool.QueryRow(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = $1`, id,
	).Scan(dealFields(&deal)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Deal{}, apperr.NotFound("deal not found").WithOp(opGet)
	}
	if err != nil {
		return Deal{}, apperr.Internal(fmt.Sprintf("get deal failed: %v", err)).WithOp(opGet)
	}
	return deal, nil
}

func (r *Repository) List(ctx context.Context) ([]Deal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+dealColumns+` FROM deals ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list deals failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	var deals []Deal
	for rows.Next() {
		var deal Deal
		if err := rows.Scan(dealFields(&deal)...); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan deal failed: %v", err)).WithOp(opList)
		}
		deals = append(deals, deal)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate deals failed: %v", rows.Err())).WithOp(opList)
	}
	return deals, nil
}

func (r *Repository) Update(ctx context.Context, p UpdateParams) (Deal, error) {
	var deal Deal
	err := r.pool.QueryRow(ctx, `
		UPDATE deals SET
			name = COALESCE($2, name),
			client_name = COALESCE($3, client_name),
			expected_value_cents = COALESCE($4, expected_value_cents),
			fee_retainer_cents = COALESCE($5, fee_retainer_cents),
			fee_success_cents = COALESCE($6, fee_success_cents),
			probability = COALESCE($7, probability),
			updated_at = now()
		WHERE id = $1
		RETURNING `+dealColumns,
		p.ID, p.Name, p.ClientName, p.ExpectedValueCents,
		p.FeeRetainerCents, p.FeeSuccessCents, p.Probability,
	).Scan(dealFields(&deal)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Deal{}, apperr.NotFound("deal not found").WithOp(opUpdate)
	}
	if err != nil {
		return Deal{}, apperr.Internal(fmt.Sprintf("update deal failed: %v", err)).WithOp(opUpdate)
	}
	return deal, nil
}

// TransitionStage moves the deal to newStage and appends the history entry
// in the same transaction. No caller can update one without the other; this
// is the only write path for deals.stage.
func (r *Repository) TransitionStage(ctx context.Context, dealID uuid.UUID, newStage domain.Stage) (domain.Stage, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "begin transition", err).WithOp(opTransition)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldStage string
	err = tx.QueryRow(ctx,
		`SELECT stage FROM deals WHERE id = $1 FOR UPDATE`, dealID,
	).Scan(&oldStage)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("deal not found").WithOp(opTransition)
	}
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("lock deal failed: %v", err)).WithOp(opTransition)
	}

	_, err = tx.Exec(ctx,
		`UPDATE deals SET stage = $2, updated_at = now() WHERE id = $1`,
		dealID, string(newStage),
	)
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("update stage failed: %v", err)).WithOp(opTransition)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO deal_stage_history (deal_id, stage, entered_at) VALUES ($1, $2, now())`,
		dealID, string(newStage),
	)
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("append history failed: %v", err)).WithOp(opTransition)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "commit transition", err).WithOp(opTransition)
	}
	return domain.Stage(oldStage), nil
}

func (r *Repository) SetStatus(ctx context.Context, dealID uuid.UUID, status domain.Status) (domain.Status, error) {
	var oldStatus string
	err := r.pool.QueryRow(ctx, `
		UPDATE deals d SET status = $2, updated_at = now()
		FROM (SELECT status FROM deals WHERE id = $1) prev
		WHERE d.id = $1
		RETURNING prev.status`,
		dealID, string(status),
	).Scan(&oldStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("deal not found").WithOp(opSetStatus)
	}
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("set status failed: %v", err)).WithOp(opSetStatus)
	}
	return domain.Status(oldStatus), nil
}

func dealFields(d *Deal) []any {
	return []any{
		&d.ID, &d.Name, &d.ClientName, &d.Stage, &d.Status,
		&d.ExpectedValueCents, &d.FeeRetainerCents, &d.FeeSuccessCents,
		&d.Probability, &d.CreatedAt, &d.UpdatedAt,
	}
}
