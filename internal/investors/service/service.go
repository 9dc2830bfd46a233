// Package service implements the investor funnel tracker: longlist
// management, funnel status moves with milestone stamping, and outreach
// logging.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/sanitize"

	"github.com/google/uuid"
)

// EmailSender delivers outreach mail. Sending is best-effort; the outreach
// log is committed before any send is attempted.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type Service struct {
	repo   repository.Store
	sender EmailSender
	bus    events.Bus
	log    *logger.Logger
}

func New(repo repository.Store, sender EmailSender, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, bus: bus, log: log}
}

func (s *Service) CreateOrganization(ctx context.Context, name string, sector *string) (repository.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Organization{}, apperr.Validation("organization name is required")
	}
	return s.repo.CreateOrganization(ctx, name, sector)
}

func (s *Service) ListOrganizations(ctx context.Context) ([]repository.Organization, error) {
	return s.repo.ListOrganizations(ctx)
}

func (s *Service) CreateContact(ctx context.Context, orgID uuid.UUID, name string, email, phone *string) (repository.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Contact{}, apperr.Validation("contact name is required")
	}
	return s.repo.CreateContact(ctx, orgID, name, email, phone)
}

// Add puts an organization on a deal's longlist. Adding the same pair twice
// fails with a conflict; the unique constraint guarantees a single row.
func (s *Service) Add(ctx context.Context, dealID, orgID uuid.UUID) (repository.Relation, error) {
	return s.repo.AddRelation(ctx, dealID, orgID)
}

// Remove hard-deletes a relation. By convention callers only remove while
// the relation is still on the longlist or shortlist; this is not enforced
// here, matching the permissive status machine.
func (s *Service) Remove(ctx context.Context, dealID, orgID uuid.UUID) error {
	return s.repo.DeleteRelation(ctx, dealID, orgID)
}

func (s *Service) Get(ctx context.Context, dealID, orgID uuid.UUID) (repository.Relation, error) {
	return s.repo.GetRelation(ctx, dealID, orgID)
}

func (s *Service) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]repository.Relation, error) {
	return s.repo.ListRelationsForDeal(ctx, dealID)
}

// SetStatus assigns any status from the closed set; no adjacency check.
// First-time milestone stamps are handled idempotently in the repository.
func (s *Service) SetStatus(ctx context.Context, dealID, orgID uuid.UUID, status domain.RelationStatus) (repository.Relation, error) {
	if !domain.IsKnownStatus(status) {
		return repository.Relation{}, apperr.Validation(fmt.Sprintf("unknown investor status %q", status))
	}

	before, err := s.repo.GetRelation(ctx, dealID, orgID)
	if err != nil {
		return repository.Relation{}, err
	}

	rel, err := s.repo.SetStatus(ctx, dealID, orgID, status)
	if err != nil {
		return repository.Relation{}, err
	}

	if before.Status != rel.Status {
		s.bus.Publish(ctx, events.InvestorStatusChanged{
			BaseEvent:      events.NewBaseEvent(),
			DealID:         dealID,
			OrganizationID: orgID,
			OldStatus:      string(before.Status),
			NewStatus:      string(rel.Status),
		})
	}

	return rel, nil
}

func (s *Service) Update(ctx context.Context, p repository.UpdateRelationParams) (repository.Relation, error) {
	if p.Priority != nil && (*p.Priority < 0 || *p.Priority > domain.MaxPriority) {
		return repository.Relation{}, apperr.Validation(fmt.Sprintf("priority must be between 0 and %d", domain.MaxPriority))
	}
	p.Notes = sanitize.TextPtr(p.Notes)
	p.ClientFeedback = sanitize.TextPtr(p.ClientFeedback)
	return s.repo.UpdateRelation(ctx, p)
}

// LogOutreach records an outreach email and then attempts delivery. The
// record always wins: a failed or unconfigured send is logged and
// swallowed, never surfaced to the caller and never rolled back.
func (s *Service) LogOutreach(ctx context.Context, p repository.LogOutreachParams) (repository.Relation, error) {
	p.Subject = strings.TrimSpace(p.Subject)
	if p.Subject == "" {
		return repository.Relation{}, apperr.Validation("outreach subject is required")
	}

	rel, err := s.repo.LogOutreach(ctx, p)
	if err != nil {
		return repository.Relation{}, err
	}

	s.bus.Publish(ctx, events.OutreachLogged{
		BaseEvent:      events.NewBaseEvent(),
		DealID:         p.DealID,
		OrganizationID: p.OrganizationID,
		Subject:        p.Subject,
	})

	s.sendOutreachMail(ctx, rel, p)

	return rel, nil
}

func (s *Service) sendOutreachMail(ctx context.Context, rel repository.Relation, p repository.LogOutreachParams) {
	if s.sender == nil || rel.ContactID == nil {
		return
	}

	contact, err := s.repo.GetContact(ctx, *rel.ContactID)
	if err != nil || contact.Email == nil {
		return
	}

	if err := s.sender.Send(ctx, *contact.Email, p.Subject, p.Body); err != nil {
		s.log.SideEffectFailed("outreach email", err)
	}
}
