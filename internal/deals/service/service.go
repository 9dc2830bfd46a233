// Package service implements the deal state machine. Stage moves, status
// flips and the cascade delete all run through here so the stage ledger and
// the deal row can never diverge.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo repository.Store
	bus  events.Bus
	log  *logger.Logger
}

func New(repo repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

func (s *Service) Create(ctx context.Context, p repository.CreateParams) (repository.Deal, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return repository.Deal{}, apperr.Validation("deal name is required")
	}
	if err := validateProbability(p.Probability); err != nil {
		return repository.Deal{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Deal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]repository.Deal, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, p repository.UpdateParams) (repository.Deal, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return repository.Deal{}, apperr.Validation("deal name cannot be empty")
	}
	if err := validateProbability(p.Probability); err != nil {
		return repository.Deal{}, err
	}
	return s.repo.Update(ctx, p)
}

// Transition moves a deal to newStage. Any stage in the closed set is
// accepted, including backward moves; advisors reorder pipelines freely.
// The deal update and the ledger append commit as one unit, then the stage
// change is announced on the bus. Automation subscribers (task creation)
// run best-effort and can never roll the transition back.
func (s *Service) Transition(ctx context.Context, dealID uuid.UUID, newStage domain.Stage, actorID uuid.UUID) (repository.Deal, error) {
	if !domain.IsKnownStage(newStage) {
		return repository.Deal{}, apperr.Validation(fmt.Sprintf("unknown stage %q", newStage))
	}

	oldStage, err := s.repo.TransitionStage(ctx, dealID, newStage)
	if err != nil {
		return repository.Deal{}, err
	}

	s.bus.Publish(ctx, events.DealStageChanged{
		BaseEvent: events.NewBaseEvent(),
		DealID:    dealID,
		OldStage:  string(oldStage),
		NewStage:  string(newStage),
		ActorID:   actorID,
	})

	return s.repo.GetByID(ctx, dealID)
}

func (s *Service) SetStatus(ctx context.Context, dealID uuid.UUID, status domain.Status) (repository.Deal, error) {
	if !domain.IsKnownStatus(status) {
		return repository.Deal{}, apperr.Validation(fmt.Sprintf("unknown status %q", status))
	}

	oldStatus, err := s.repo.SetStatus(ctx, dealID, status)
	if err != nil {
		return repository.Deal{}, err
	}

	if oldStatus != status {
		s.bus.Publish(ctx, events.DealStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			DealID:    dealID,
			OldStatus: string(oldStatus),
			NewStatus: string(status),
		})
	}

	return s.repo.GetByID(ctx, dealID)
}

// History returns the append-only stage ledger, oldest entry first.
func (s *Service) History(ctx context.Context, dealID uuid.UUID) ([]repository.HistoryEntry, error) {
	if _, err := s.repo.GetByID(ctx, dealID); err != nil {
		return nil, err
	}
	return s.repo.EntriesForDeal(ctx, dealID)
}

func (s *Service) Delete(ctx context.Context, dealID uuid.UUID) error {
	if err := s.repo.DeleteCascade(ctx, dealID); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.DealDeleted{
		BaseEvent: events.NewBaseEvent(),
		DealID:    dealID,
	})
	return nil
}

func validateProbability(p *float64) error {
	if p == nil {
		return nil
	}
	if *p < 0 || *p > 1 {
		return apperr.Validation("probability must be between 0 and 1")
	}
	return nil
}
