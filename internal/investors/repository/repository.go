// Package repository persists investor organizations, contacts and the
// per-deal funnel relations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/phone"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreateOrg      = "investors.repository.create_organization"
	opListOrgs       = "investors.repository.list_organizations"
	opCreateContact  = "investors.repository.create_contact"
	opGetContact     = "investors.repository.get_contact"
	opAddRelation    = "investors.repository.add_relation"
	opGetRelation    = "investors.repository.get_relation"
	opListRelations  = "investors.repository.list_relations"
	opSetStatus      = "investors.repository.set_status"
	opUpdateRelation = "investors.repository.update_relation"
	opDeleteRelation = "investors.repository.delete_relation"
)

const relationColumns = `id, deal_id, organization_id, contact_id, status, priority,
	notes, client_feedback, nda_sent_at, nda_signed_at, im_sent_at, email_sent_at,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateOrganization(ctx context.Context, name string, sector *string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, `
		INSERT INTO investor_organizations (name, sector)
		VALUES ($1, $2)
		RETURNING id, name, sector, created_at`,
		name, sector,
	).Scan(&org.ID, &org.Name, &org.Sector, &org.CreatedAt)
	if err != nil {
		return Organization{}, apperr.Internal(fmt.Sprintf("create organization failed: %v", err)).WithOp(opCreateOrg)
	}
	return org, nil
}

func (r *Repository) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, sector, created_at FROM investor_organizations ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list organizations failed: %v", err)).WithOp(opListOrgs)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.Sector, &org.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan organization failed: %v", err)).WithOp(opListOrgs)
		}
		orgs = append(orgs, org)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate organizations failed: %v", rows.Err())).WithOp(opListOrgs)
	}
	return orgs, nil
}

func (r *Repository) CreateContact(ctx context.Context, orgID uuid.UUID, name string, email, phoneNumber *string) (Contact, error) {
	if phoneNumber != nil {
		normalized := phone.NormalizeE164(*phoneNumber)
		phoneNumber = &normalized
	}

	var contact Contact
	err := r.pool.QueryRow(ctx, `
		INSERT INTO investor_contacts (organization_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, organization_id, name, email, phone, created_at`,
		orgID, name, email, phoneNumber,
	).Scan(&contact.ID, &contact.OrganizationID, &contact.Name, &contact.Email, &contact.Phone, &contact.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Contact{}, apperr.NotFound("organization not found").WithOp(opCreateContact)
		}
		return Contact{}, apperr.Internal(fmt.Sprintf("create contact failed: %v", err)).WithOp(opCreateContact)
	}
	return contact, nil
}

func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (Contact, error) {
	var contact Contact
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, name, email, phone, created_at FROM investor_contacts WHERE id = $1`, id,
	).Scan(&contact.ID, &contact.OrganizationID, &contact.Name, &contact.Email, &contact.Phone, &contact.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, apperr.NotFound("contact not found").WithOp(opGetContact)
	}
	if err != nil {
		return Contact{}, apperr.Internal(fmt.Sprintf("get contact failed: %v", err)).WithOp(opGetContact)
	}
	return contact, nil
}

// AddRelation creates the longlist entry for an organization on a deal.
// The unique (deal_id, organization_id) constraint turns a second add into
// a conflict; the table keeps exactly one row per pair.
func (r *Repository) AddRelation(ctx context.Context, dealID, orgID uuid.UUID) (Relation, error) {
	var rel Relation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO investor_relations (deal_id, organization_id, status)
		VALUES ($1, $2, $3)
		RETURNING `+relationColumns,
		dealID, orgID, string(domain.StatusLonglist),
	).Scan(relationFields(&rel)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Relation{}, apperr.Conflict("organization is already on the longlist").WithOp(opAddRelation)
			case "23503":
				return Relation{}, apperr.NotFound("deal or organization not found").WithOp(opAddRelation)
			}
		}
		return Relation{}, apperr.Internal(fmt.Sprintf("add relation failed: %v", err)).WithOp(opAddRelation)
	}
	return rel, nil
}

func (r *Repository) GetRelation(ctx context.Context, dealID, orgID uuid.UUID) (Relation, error) {
	var rel Relation
	err := r.pool.QueryRow(ctx,
		`SELECT `+relationColumns+` FROM investor_relations WHERE deal_id = $1 AND organization_id = $2`,
		dealID, orgID,
	).Scan(relationFields(&rel)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Relation{}, apperr.NotFound("investor relation not found").WithOp(opGetRelation)
	}
	if err != nil {
		return Relation{}, apperr.Internal(fmt.Sprintf("get relation failed: %v", err)).WithOp(opGetRelation)
	}
	return rel, nil
}

func (r *Repository) ListRelationsForDeal(ctx context.Context, dealID uuid.UUID) ([]Relation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+relationColumns+` FROM investor_relations WHERE deal_id = $1 ORDER BY created_at ASC`,
		dealID,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list relations failed: %v", err)).WithOp(opListRelations)
	}
	defer rows.Close()

	var rels []Relation
	for rows.Next() {
		var rel Relation
		if err := rows.Scan(relationFields(&rel)...); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan relation failed: %v", err)).WithOp(opListRelations)
		}
		rels = append(rels, rel)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate relations failed: %v", rows.Err())).WithOp(opListRelations)
	}
	return rels, nil
}

// SetStatus assigns an arbitrary funnel status. Milestone timestamps are
// stamped on first entry only; COALESCE keeps re-assignments from
// overwriting an existing timestamp.
func (r *Repository) SetStatus(ctx context.Context, dealID, orgID uuid.UUID, status domain.RelationStatus) (Relation, error) {
	var rel Relation
	err := r.pool.QueryRow(ctx, `
		UPDATE investor_relations SET
			status = $3,
			email_sent_at = CASE WHEN $3 = 'CONTACTED' THEN COALESCE(email_sent_at, now()) ELSE email_sent_at END,
			nda_sent_at = CASE WHEN $3 = 'NDA_SENT' THEN COALESCE(nda_sent_at, now()) ELSE nda_sent_at END,
			nda_signed_at = CASE WHEN $3 = 'NDA_SIGNED' THEN COALESCE(nda_signed_at, now()) ELSE nda_signed_at END,
			im_sent_at = CASE WHEN $3 = 'IM_SENT' THEN COALESCE(im_sent_at, now()) ELSE im_sent_at END,
			updated_at = now()
		WHERE deal_id = $1 AND organization_id = $2
		RETURNING `+relationColumns,
		dealID, orgID, string(status),
	).Scan(relationFields(&rel)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Relation{}, apperr.NotFound("investor relation not found").WithOp(opSetStatus)
	}
	if err != nil {
		return Relation{}, apperr.Internal(fmt.Sprintf("set relation status failed: %v", err)).WithOp(opSetStatus)
	}
	return rel, nil
}

func (r *Repository) UpdateRelation(ctx context.Context, p UpdateRelationParams) (Relation, error) {
	var rel Relation
	err := r.pool.QueryRow(ctx, `
		UPDATE investor_relations SET
			contact_id = COALESCE($3, contact_id),
			priority = COALESCE($4, priority),
			notes = COALESCE($5, notes),
			client_feedback = COALESCE($6, client_feedback),
			updated_at = now()
		WHERE deal_id = $1 AND organization_id = $2
		RETURNING `+relationColumns,
		p.DealID, p.OrganizationID, p.ContactID, p.Priority, p.Notes, p.ClientFeedback,
	).Scan(relationFields(&rel)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Relation{}, apperr.NotFound("investor relation not found").WithOp(opUpdateRelation)
	}
	if err != nil {
		return Relation{}, apperr.Internal(fmt.Sprintf("update relation failed: %v", err)).WithOp(opUpdateRelation)
	}
	return rel, nil
}

func (r *Repository) DeleteRelation(ctx context.Context, dealID, orgID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM investor_relations WHERE deal_id = $1 AND organization_id = $2`,
		dealID, orgID,
	)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete relation failed: %v", err)).WithOp(opDeleteRelation)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("investor relation not found").WithOp(opDeleteRelation)
	}
	return nil
}

func relationFields(rel *Relation) []any {
	return []any{
		&rel.ID, &rel.DealID, &rel.OrganizationID, &rel.ContactID, &rel.Status,
		&rel.Priority, &rel.Notes, &rel.ClientFeedback,
		&rel.NDASentAt, &rel.NDASignedAt, &rel.IMSentAt, &rel.EmailSentAt,
		&rel.CreatedAt, &rel.UpdatedAt,
	}
}
