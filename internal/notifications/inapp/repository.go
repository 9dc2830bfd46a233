// Package inapp persists and serves in-app notifications.
package inapp

import (
	"context"
	"fmt"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreateBatch = "notifications.inapp.create_batch"
	opList        = "notifications.inapp.list"
	opUnreadCount = "notifications.inapp.unread_count"
	opMarkRead    = "notifications.inapp.mark_read"
	opMarkAllRead = "notifications.inapp.mark_all_read"
)

// Notification is a single in-app notification. Only the read flag is ever
// mutated after creation.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Content   string    `json:"content"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateParams holds the fields for one notification in a batch.
type CreateParams struct {
	UserID  uuid.UUID
	Content string
	Link    *string
}

// Store is the persistence port for in-app notifications.
type Store interface {
	CreateBatch(ctx context.Context, batch []CreateParams) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateBatch inserts all notifications in one round trip. Callers rely on
// the whole batch landing before any webhook delivery starts.
func (r *Repository) CreateBatch(ctx context.Context, batch []CreateParams) error {
	if len(batch) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, p := range batch {
		b.Queue(
			`INSERT INTO in_app_notifications (user_id, content, link) VALUES ($1, $2, $3)`,
			p.UserID, p.Content, p.Link,
		)
	}

	results := r.pool.SendBatch(ctx, b)
	defer results.Close()

	for range batch {
		if _, err := results.Exec(); err != nil {
			return apperr.Internal(fmt.Sprintf("insert notification failed: %v", err)).WithOp(opCreateBatch)
		}
	}
	return nil
}

func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]Notification, error) {
	query := `SELECT id, user_id, content, link, read, created_at
		FROM in_app_notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list notifications failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan notification failed: %v", err)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rows.Err())).WithOp(opList)
	}
	return items, nil
}

func (r *Repository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM in_app_notifications WHERE user_id = $1 AND read = false`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("unread count failed: %v", err)).WithOp(opUnreadCount)
	}
	return count, nil
}

func (r *Repository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE in_app_notifications SET read = true WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark read failed: %v", err)).WithOp(opMarkRead)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found").WithOp(opMarkRead)
	}
	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE in_app_notifications SET read = true WHERE user_id = $1 AND read = false`,
		userID,
	)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark all read failed: %v", err)).WithOp(opMarkAllRead)
	}
	return nil
}
