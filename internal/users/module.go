// Package users provides the team member bounded context module.
package users

import (
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/internal/users/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/users/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/users/service"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the users bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the users module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "users"
}

// Service returns the user service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Store exposes the user store for the mention resolver.
func (m *Module) Store() repository.Store {
	return m.repo
}

// RegisterRoutes mounts user routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/users"))
}

var _ apphttp.Module = (*Module)(nil)
