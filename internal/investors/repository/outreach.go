package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/jackc/pgx/v5"
)

const opLogOutreach = "investors.repository.log_outreach"

// LogOutreach moves the relation to CONTACTED, stamps emailSentAt on first
// contact and records the EMAIL activity — one transaction, so the log can
// never exist without the status move or vice versa. The actual SMTP send
// happens after commit and is allowed to fail.
func (r *Repository) LogOutreach(ctx context.Context, p LogOutreachParams) (Relation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Relation{}, apperr.Wrap(apperr.KindInternal, "begin log outreach", err).WithOp(opLogOutreach)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rel Relation
	err = tx.QueryRow(ctx, `
		UPDATE investor_relations SET
			status = $3,
			email_sent_at = COALESCE(email_sent_at, now()),
			updated_at = now()
		WHERE deal_id = $1 AND organization_id = $2
		RETURNING `+relationColumns,
		p.DealID, p.OrganizationID, string(domain.StatusContacted),
	).Scan(relationFields(&rel)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Relation{}, apperr.NotFound("investor relation not found").WithOp(opLogOutreach)
	}
	if err != nil {
		return Relation{}, apperr.Internal(fmt.Sprintf("mark contacted failed: %v", err)).WithOp(opLogOutreach)
	}

	content := p.Subject
	if p.Body != "" {
		content = p.Subject + "\n\n" + p.Body
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO activities (deal_id, user_id, organization_id, type, content)
		VALUES ($1, $2, $3, 'EMAIL', $4)`,
		p.DealID, p.ActorID, p.OrganizationID, content,
	)
	if err != nil {
		return Relation{}, apperr.Internal(fmt.Sprintf("record outreach activity failed: %v", err)).WithOp(opLogOutreach)
	}

	if err := tx.Commit(ctx); err != nil {
		return Relation{}, apperr.Wrap(apperr.KindInternal, "commit log outreach", err).WithOp(opLogOutreach)
	}
	return rel, nil
}
