package repository

import (
	"context"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/activities/domain"

	"github.com/google/uuid"
)

// Activity is a free-text timeline entry on a deal. Entries are immutable
// once created; there is no edit path.
type Activity struct {
	ID             uuid.UUID   `json:"id"`
	DealID         uuid.UUID   `json:"dealId"`
	UserID         uuid.UUID   `json:"userId"`
	OrganizationID *uuid.UUID  `json:"organizationId,omitempty"`
	Type           domain.Type `json:"type"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// CreateParams holds the fields for a new activity.
type CreateParams struct {
	DealID         uuid.UUID
	UserID         uuid.UUID
	OrganizationID *uuid.UUID
	Type           domain.Type
	Content        string
}

// Store is the persistence port for activities.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Activity, error)
	ListForDeal(ctx context.Context, dealID uuid.UUID) ([]Activity, error)
}
