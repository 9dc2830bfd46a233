// Package handler exposes the analytics dashboard HTTP API.
package handler

import (
	"github.com/Lugier/M-A-CRM-sub001/internal/analytics/service"
	"github.com/Lugier/M-A-CRM-sub001/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(c *gin.Context) {
	report, err := h.svc.Dashboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}
