// Package handler exposes the deals HTTP API.
package handler

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/deals/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/deals/transport"
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

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/transition", h.Transition)
	group.POST("/:id/status", h.SetStatus)
	group.GET("/:id/history", h.History)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	deal, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		Name:               req.Name,
		ClientName:         req.ClientName,
		ExpectedValueCents: req.ExpectedValueCents,
		FeeRetainerCents:   req.FeeRetainerCents,
		FeeSuccessCents:    req.FeeSuccessCents,
		Probability:        req.Probability,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, deal)
}

func (h *Handler) List(c *gin.Context) {
	deals, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, deals)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deal, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, deal)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	deal, err := h.svc.Update(c.Request.Context(), repository.UpdateParams{
		ID:                 id,
		Name:               req.Name,
		ClientName:         req.ClientName,
		ExpectedValueCents: req.ExpectedValueCents,
		FeeRetainerCents:   req.FeeRetainerCents,
		FeeSuccessCents:    req.FeeSuccessCents,
		Probability:        req.Probability,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, deal)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Transition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	deal, err := h.svc.Transition(c.Request.Context(), id, domain.Stage(req.Stage), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, deal)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	deal, err := h.svc.SetStatus(c.Request.Context(), id, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, deal)
}

func (h *Handler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	entries, err := h.svc.History(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, entries)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
