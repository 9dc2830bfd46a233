package repository

import (
	"context"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"

	"github.com/google/uuid"
)

// Organization is an investor house (PE fund, strategic, family office).
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Sector    *string   `json:"sector,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contact is a person at an investor organization.
type Contact struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Relation is the per-deal funnel record for one investor organization.
// The (DealID, OrganizationID) pair is unique. Milestone timestamps are
// stamped once and never overwritten.
type Relation struct {
	ID             uuid.UUID             `json:"id"`
	DealID         uuid.UUID             `json:"dealId"`
	OrganizationID uuid.UUID             `json:"organizationId"`
	ContactID      *uuid.UUID            `json:"contactId,omitempty"`
	Status         domain.RelationStatus `json:"status"`
	Priority       int                   `json:"priority"`
	Notes          *string               `json:"notes,omitempty"`
	ClientFeedback *string               `json:"clientFeedback,omitempty"`
	NDASentAt      *time.Time            `json:"ndaSentAt,omitempty"`
	NDASignedAt    *time.Time            `json:"ndaSignedAt,omitempty"`
	IMSentAt       *time.Time            `json:"imSentAt,omitempty"`
	EmailSentAt    *time.Time            `json:"emailSentAt,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// UpdateRelationParams contains the editable non-status relation fields.
type UpdateRelationParams struct {
	DealID         uuid.UUID
	OrganizationID uuid.UUID
	ContactID      *uuid.UUID
	Priority       *int
	Notes          *string
	ClientFeedback *string
}

// LogOutreachParams records an outreach email to an investor contact.
type LogOutreachParams struct {
	DealID         uuid.UUID
	OrganizationID uuid.UUID
	ActorID        uuid.UUID
	Subject        string
	Body           string
}

// Store is the persistence contract the investor funnel service depends on.
type Store interface {
	CreateOrganization(ctx context.Context, name string, sector *string) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	CreateContact(ctx context.Context, orgID uuid.UUID, name string, email, phone *string) (Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (Contact, error)

	AddRelation(ctx context.Context, dealID, orgID uuid.UUID) (Relation, error)
	GetRelation(ctx context.Context, dealID, orgID uuid.UUID) (Relation, error)
	ListRelationsForDeal(ctx context.Context, dealID uuid.UUID) ([]Relation, error)
	SetStatus(ctx context.Context, dealID, orgID uuid.UUID, status domain.RelationStatus) (Relation, error)
	UpdateRelation(ctx context.Context, p UpdateRelationParams) (Relation, error)
	DeleteRelation(ctx context.Context, dealID, orgID uuid.UUID) error

	// LogOutreach marks the relation contacted, stamps emailSentAt if unset
	// and records the EMAIL activity, all in one transaction.
	LogOutreach(ctx context.Context, p LogOutreachParams) (Relation, error)
}
