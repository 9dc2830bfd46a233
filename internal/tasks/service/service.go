// Package service manages deal checklist tasks and the stage automation
// trigger.
package service

import (
	"context"
	"fmt"
	"strings"

	dealdomain "github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo  repository.Store
	rules map[dealdomain.Stage][]TaskTemplate
	log   *logger.Logger
}

func New(repo repository.Store, rules map[dealdomain.Stage][]TaskTemplate, log *logger.Logger) *Service {
	return &Service{repo: repo, rules: rules, log: log}
}

func (s *Service) Create(ctx context.Context, p repository.CreateParams) (repository.Task, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return repository.Task{}, apperr.Validation("task title is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]repository.Task, error) {
	return s.repo.ListForDeal(ctx, dealID)
}

func (s *Service) SetDone(ctx context.Context, id uuid.UUID, done bool) (repository.Task, error) {
	return s.repo.SetDone(ctx, id, done)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// HandleStageChanged is the automation trigger. Entering a stage creates its
// checklist tasks; re-entering the same stage creates them again. That is
// accepted behavior, the trigger is idempotent at the call level only.
func (s *Service) HandleStageChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(events.DealStageChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	templates, ok := s.rules[dealdomain.Stage(changed.NewStage)]
	if !ok {
		return nil
	}

	batch := make([]repository.CreateParams, 0, len(templates))
	for _, tpl := range templates {
		batch = append(batch, repository.CreateParams{
			DealID:      changed.DealID,
			Title:       tpl.Title,
			Description: tpl.Description,
		})
	}
	return s.repo.CreateBatch(ctx, batch)
}
