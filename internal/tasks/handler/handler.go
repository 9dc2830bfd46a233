// Package handler exposes the deal checklist HTTP API.
package handler

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/tasks/transport"
	"github.com/Lugier/M-A-CRM-sub001/platform/httpkit"
	"github.com/Lugier/M-A-CRM-sub001/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterDealRoutes mounts the per-deal checklist endpoints.
func (h *Handler) RegisterDealRoutes(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
}

// RegisterTaskRoutes mounts the task-scoped endpoints.
func (h *Handler) RegisterTaskRoutes(group *gin.RouterGroup) {
	group.POST("/:taskId/done", h.SetDone)
	group.DELETE("/:taskId", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	task, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		DealID:      dealID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, task)
}

func (h *Handler) List(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	items, err := h.svc.ListForDeal(c.Request.Context(), dealID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) SetDone(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.SetDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	task, err := h.svc.SetDone(c.Request.Context(), taskID, req.Done)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, task)
}

func (h *Handler) Delete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), taskID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
