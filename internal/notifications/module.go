// Package notifications provides in-app notifications and the webhook
// delivery outbox.
package notifications

import (
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/handler"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/inapp"
	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/outbox"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notifications bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	inapp   *inapp.Repository
	outbox  *outbox.Repository
}

// NewModule creates and initializes the notifications module.
func NewModule(pool *pgxpool.Pool) *Module {
	inappRepo := inapp.New(pool)
	outboxRepo := outbox.New(pool)

	return &Module{
		handler: handler.New(inappRepo),
		inapp:   inappRepo,
		outbox:  outboxRepo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notifications"
}

// InApp exposes the in-app notification store for the mention notifier.
func (m *Module) InApp() inapp.Store {
	return m.inapp
}

// Outbox exposes the webhook outbox for the notifier and the dispatcher.
func (m *Module) Outbox() outbox.Store {
	return m.outbox
}

// RegisterRoutes mounts the notification routes for the current user.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

var _ apphttp.Module = (*Module)(nil)
