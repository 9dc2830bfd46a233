// Package service records deal timeline activities and triggers the mention
// fan-out on every persisted entry.
package service

import (
	"context"
	"strings"

	"github.com/Lugier/M-A-CRM-sub001/internal/activities/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/activities/repository"
	dealsvc "github.com/Lugier/M-A-CRM-sub001/internal/deals/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/internal/mentions"
	userrepo "github.com/Lugier/M-A-CRM-sub001/internal/users/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/sanitize"

	"github.com/google/uuid"
)

// LogParams describes a new timeline entry. Type is optional; when empty
// the content classifier decides.
type LogParams struct {
	DealID         uuid.UUID
	ActorID        uuid.UUID
	OrganizationID *uuid.UUID
	Type           domain.Type
	Content        string
}

type Service struct {
	repo     repository.Store
	deals    *dealsvc.Service
	users    userrepo.Store
	notifier *mentions.Notifier
	bus      events.Bus
	log      *logger.Logger
}

func New(repo repository.Store, deals *dealsvc.Service, users userrepo.Store, notifier *mentions.Notifier, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, deals: deals, users: users, notifier: notifier, bus: bus, log: log}
}

// Log persists the activity first; mention fan-out runs after and can only
// degrade, never fail the entry.
func (s *Service) Log(ctx context.Context, p LogParams) (repository.Activity, error) {
	p.Content = strings.TrimSpace(sanitize.Text(p.Content))
	if p.Content == "" {
		return repository.Activity{}, apperr.Validation("activity content is required")
	}
	if p.Type == "" {
		p.Type = domain.Classify(p.Content)
	} else if !domain.IsKnownType(p.Type) {
		return repository.Activity{}, apperr.Validation("unknown activity type")
	}

	deal, err := s.deals.Get(ctx, p.DealID)
	if err != nil {
		return repository.Activity{}, err
	}
	actor, err := s.users.GetByID(ctx, p.ActorID)
	if err != nil {
		return repository.Activity{}, err
	}

	activity, err := s.repo.Create(ctx, repository.CreateParams{
		DealID:         p.DealID,
		UserID:         p.ActorID,
		OrganizationID: p.OrganizationID,
		Type:           p.Type,
		Content:        p.Content,
	})
	if err != nil {
		return repository.Activity{}, err
	}

	s.bus.Publish(ctx, events.ActivityLogged{
		BaseEvent:  events.NewBaseEvent(),
		ActivityID: activity.ID,
		DealID:     p.DealID,
		ActorID:    p.ActorID,
		Content:    p.Content,
	})

	s.notifier.Notify(ctx, mentions.NotifyParams{
		DealID:    p.DealID,
		DealName:  deal.Name,
		ActorID:   p.ActorID,
		ActorName: actor.Name,
		Content:   p.Content,
	})

	return activity, nil
}

func (s *Service) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]repository.Activity, error) {
	return s.repo.ListForDeal(ctx, dealID)
}
