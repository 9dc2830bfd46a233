// Package deals provides the deal pipeline bounded context module.
package deals

import (
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the deals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the deals module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "deals"
}

// Service returns the deal service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts deal routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/deals")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
