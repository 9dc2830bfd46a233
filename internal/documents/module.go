// Package documents provides the deal document bounded context module.
package documents

import (
	"github.com/Lugier/M-A-CRM-sub001/internal/documents/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/documents/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/documents/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/documents/storage"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the documents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the documents module and subscribes the object cleanup
// to deal deletions.
func NewModule(pool *pgxpool.Pool, objects storage.ObjectStore, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, objects, log)

	bus.Subscribe(events.DealDeleted{}.EventName(), events.HandlerFunc(svc.HandleDealDeleted))

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "documents"
}

// Service returns the document service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the document routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterDealRoutes(ctx.Protected.Group("/deals/:id/documents"))
	m.handler.RegisterDocumentRoutes(ctx.Protected.Group("/documents"))
}

var _ apphttp.Module = (*Module)(nil)
