// Package outbox stores webhook notifications for asynchronous delivery.
//
// Rows move pending -> enqueued -> processing -> succeeded, or back to
// pending on a retryable failure until the attempt budget is spent, then
// failed. Delivery is at-least-once; consumers must tolerate duplicates.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusPending    = "pending"
	StatusEnqueued   = "enqueued"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
)

// MaxAttempts is the delivery budget per message.
const MaxAttempts = 5

const (
	opEnqueue      = "notifications.outbox.enqueue"
	opGet          = "notifications.outbox.get"
	opClaimPending = "notifications.outbox.claim_pending"
	opMark         = "notifications.outbox.mark"
)

// Message is one webhook delivery waiting in the outbox.
type Message struct {
	ID         uuid.UUID `json:"id"`
	WebhookURL string    `json:"webhookUrl"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Link       *string   `json:"link,omitempty"`
	Status     string    `json:"status"`
	Attempts   int       `json:"attempts"`
	LastError  *string   `json:"lastError,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EnqueueParams holds the fields for a new outbox message.
type EnqueueParams struct {
	WebhookURL string
	Title      string
	Body       string
	Link       *string
}

// Store is the persistence port for the webhook outbox.
type Store interface {
	Enqueue(ctx context.Context, p EnqueueParams) (Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (Message, error)
	ClaimPending(ctx context.Context, limit int) ([]Message, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) (Message, error)
	MarkSucceeded(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr string) error
}

const messageColumns = `id, webhook_url, title, body, link, status, attempts, last_error, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Enqueue(ctx context.Context, p EnqueueParams) (Message, error) {
	var m Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO webhook_outbox (webhook_url, title, body, link, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		p.WebhookURL, p.Title, p.Body, p.Link, StatusPending,
	).Scan(messageFields(&m)...)
	if err != nil {
		return Message{}, apperr.Internal(fmt.Sprintf("enqueue webhook failed: %v", err)).WithOp(opEnqueue)
	}
	return m, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Message, error) {
	var m Message
	err := r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM webhook_outbox WHERE id = $1`, id).
		Scan(messageFields(&m)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, apperr.NotFound("outbox message not found").WithOp(opGet)
	}
	if err != nil {
		return Message{}, apperr.Internal(fmt.Sprintf("get outbox message failed: %v", err)).WithOp(opGet)
	}
	return m, nil
}

// ClaimPending atomically moves up to limit pending messages to enqueued and
// returns them. SKIP LOCKED lets concurrent dispatchers claim disjoint sets.
func (r *Repository) ClaimPending(ctx context.Context, limit int) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE webhook_outbox SET status = $1, updated_at = now()
		WHERE id IN (
			SELECT id FROM webhook_outbox
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+messageColumns,
		StatusEnqueued, StatusPending, limit,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("claim pending failed: %v", err)).WithOp(opClaimPending)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(messageFields(&m)...); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan outbox message failed: %v", err)).WithOp(opClaimPending)
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate outbox messages failed: %v", rows.Err())).WithOp(opClaimPending)
	}
	return msgs, nil
}

// MarkProcessing bumps the attempt counter and returns the message as the
// worker should deliver it.
func (r *Repository) MarkProcessing(ctx context.Context, id uuid.UUID) (Message, error) {
	var m Message
	err := r.pool.QueryRow(ctx, `
		UPDATE webhook_outbox SET status = $2, attempts = attempts + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+messageColumns,
		id, StatusProcessing,
	).Scan(messageFields(&m)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Message{}, apperr.NotFound("outbox message not found").WithOp(opMark)
	}
	if err != nil {
		return Message{}, apperr.Internal(fmt.Sprintf("mark processing failed: %v", err)).WithOp(opMark)
	}
	return m, nil
}

func (r *Repository) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE webhook_outbox SET status = $2, last_error = NULL, updated_at = now() WHERE id = $1`,
		id, StatusSucceeded,
	)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark succeeded failed: %v", err)).WithOp(opMark)
	}
	return nil
}

// MarkFailed records the delivery error. Messages with remaining attempts go
// back to pending so the dispatcher picks them up again.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE webhook_outbox SET
			status = CASE WHEN attempts >= $3 THEN $4 ELSE $5 END,
			last_error = $2,
			updated_at = now()
		WHERE id = $1`,
		id, deliveryErr, MaxAttempts, StatusFailed, StatusPending,
	)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark failed failed: %v", err)).WithOp(opMark)
	}
	return nil
}

func messageFields(m *Message) []any {
	return []any{
		&m.ID, &m.WebhookURL, &m.Title, &m.Body, &m.Link,
		&m.Status, &m.Attempts, &m.LastError, &m.CreatedAt, &m.UpdatedAt,
	}
}
