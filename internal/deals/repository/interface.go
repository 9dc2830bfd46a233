package repository

import (
	"context"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"

	"github.com/google/uuid"
)

// Deal is a mandate moving through the advisory pipeline. Monetary fields
// are in euro cents; Probability is a fraction in [0,1].
type Deal struct {
	ID                 uuid.UUID     `json:"id"`
	Name               string        `json:"name"`
	ClientName         *string       `json:"clientName,omitempty"`
	Stage              domain.Stage  `json:"stage"`
	Status             domain.Status `json:"status"`
	ExpectedValueCents *int64        `json:"expectedValueCents,omitempty"`
	FeeRetainerCents   *int64        `json:"feeRetainerCents,omitempty"`
	FeeSuccessCents    *int64        `json:"feeSuccessCents,omitempty"`
	Probability        *float64      `json:"probability,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// HistoryEntry is one immutable row of the stage history ledger. Entries are
// appended exactly once per transition and never updated or deleted while
// the deal exists.
type HistoryEntry struct {
	ID        uuid.UUID    `json:"id"`
	DealID    uuid.UUID    `json:"dealId"`
	Stage     domain.Stage `json:"stage"`
	EnteredAt time.Time    `json:"enteredAt"`
}

// CreateParams contains parameters for creating a deal.
type CreateParams struct {
	Name               string
	ClientName         *string
	ExpectedValueCents *int64
	FeeRetainerCents   *int64
	FeeSuccessCents    *int64
	Probability        *float64
}

// UpdateParams contains parameters for a partial deal update. Stage and
// status are intentionally absent: those move only through TransitionStage
// and SetStatus so the history ledger can never drift out of sync.
type UpdateParams struct {
	ID                 uuid.UUID
	Name               *string
	ClientName         *string
	ExpectedValueCents *int64
	FeeRetainerCents   *int64
	FeeSuccessCents    *int64
	Probability        *float64
}

// Store is the persistence contract the deal service depends on.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (Deal, error)
	List(ctx context.Context) ([]Deal, error)
	Update(ctx context.Context, p UpdateParams) (Deal, error)

	// TransitionStage updates the deal stage and appends the matching
	// history entry in a single transaction. It returns the previous stage.
	TransitionStage(ctx context.Context, dealID uuid.UUID, newStage domain.Stage) (domain.Stage, error)
	SetStatus(ctx context.Context, dealID uuid.UUID, status domain.Status) (domain.Status, error)

	EntriesForDeal(ctx context.Context, dealID uuid.UUID) ([]HistoryEntry, error)
	LastEntry(ctx context.Context, dealID uuid.UUID) (HistoryEntry, error)

	// DeleteCascade removes the deal and all dependent rows in the fixed
	// order history, investor relations, tasks, activities, documents, deal
	// inside one transaction.
	DeleteCascade(ctx context.Context, dealID uuid.UUID) error
}
