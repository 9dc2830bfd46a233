package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Deal is the read-side projection of a deal for aggregation.
type Deal struct {
	ID                 uuid.UUID
	Stage              string
	Status             string
	ExpectedValueCents *int64
	FeeSuccessCents    *int64
	Probability        *float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HistoryEntry is the read-side projection of a stage history row.
type HistoryEntry struct {
	DealID    uuid.UUID
	Stage     string
	EnteredAt time.Time
}

// Relation is the read-side projection of an investor relation.
type Relation struct {
	DealID      uuid.UUID
	Status      string
	NDASignedAt *time.Time
}

// Store loads the full aggregation input. Analytics never writes.
type Store interface {
	LoadDeals(ctx context.Context) ([]Deal, error)
	LoadHistory(ctx context.Context) ([]HistoryEntry, error)
	LoadRelations(ctx context.Context) ([]Relation, error)
}
