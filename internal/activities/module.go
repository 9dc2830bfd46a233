// Package activities provides the deal timeline bounded context module.
package activities

import (
	"github.com/Lugier/M-A-CRM-sub001/internal/activities/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/activities/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/activities/service"
	dealsvc "github.com/Lugier/M-A-CRM-sub001/internal/deals/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/internal/mentions"
	userrepo "github.com/Lugier/M-A-CRM-sub001/internal/users/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the activities bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the activities module.
func NewModule(pool *pgxpool.Pool, deals *dealsvc.Service, users userrepo.Store, notifier *mentions.Notifier, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, deals, users, notifier, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "activities"
}

// Service returns the activity service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the per-deal timeline routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/deals/:id/activities"))
}

var _ apphttp.Module = (*Module)(nil)
