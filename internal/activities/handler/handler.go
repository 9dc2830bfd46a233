// Package handler exposes the deal timeline HTTP API.
package handler

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/activities/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/activities/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/activities/transport"
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
	group.POST("", h.Log)
	group.GET("", h.List)
}

func (h *Handler) Log(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := service.LogParams{
		DealID:  dealID,
		ActorID: identity.UserID(),
		Type:    domain.Type(req.Type),
		Content: req.Content,
	}
	if req.OrganizationID != nil {
		orgID, err := uuid.Parse(*req.OrganizationID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		params.OrganizationID = &orgID
	}

	activity, err := h.svc.Log(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, activity)
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
