// Package tasks provides the checklist bounded context module, including
// the stage automation trigger.
package tasks

import (
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/service"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the tasks module and subscribes the automation trigger
// to deal stage changes.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	rules, err := service.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("load task automation rules: %w", err)
	}

	repo := repository.New(pool)
	svc := service.New(repo, rules, log)

	bus.Subscribe(events.DealStageChanged{}.EventName(), events.HandlerFunc(svc.HandleStageChanged))

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Service returns the task service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the checklist routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterDealRoutes(ctx.Protected.Group("/deals/:id/tasks"))
	m.handler.RegisterTaskRoutes(ctx.Protected.Group("/tasks"))
}

var _ apphttp.Module = (*Module)(nil)
