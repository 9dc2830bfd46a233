// Package analytics provides the read-side reporting module.
package analytics

import (
	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/service"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the analytics module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the analytics service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the dashboard routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/analytics"))
}

var _ apphttp.Module = (*Module)(nil)
