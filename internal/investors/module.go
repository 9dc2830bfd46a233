// Package investors provides the investor funnel bounded context module.
package investors

import (
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/service"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the investors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the investors module. The sender may be
// nil when outbound mail is not configured; outreach then only records.
func NewModule(pool *pgxpool.Pool, bus events.Bus, sender service.EmailSender, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, sender, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "investors"
}

// Service returns the investor service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the organization directory and the per-deal funnel.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterOrganizationRoutes(ctx.Protected.Group("/organizations"))
	m.handler.RegisterRelationRoutes(ctx.Protected.Group("/deals/:id/investors"))
}

var _ apphttp.Module = (*Module)(nil)
