package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is a checklist item on a deal, created manually or by stage
// automation.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	DealID      uuid.UUID  `json:"dealId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Done        bool       `json:"done"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateParams holds the fields for a new task.
type CreateParams struct {
	DealID      uuid.UUID
	Title       string
	Description *string
	DueAt       *time.Time
}

// Store is the persistence port for tasks.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Task, error)
	CreateBatch(ctx context.Context, batch []CreateParams) error
	ListForDeal(ctx context.Context, dealID uuid.UUID) ([]Task, error)
	SetDone(ctx context.Context, id uuid.UUID, done bool) (Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
