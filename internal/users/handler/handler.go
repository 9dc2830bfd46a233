// Package handler exposes the users HTTP API.
package handler

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/users/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/users/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/users/transport"
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
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateUserRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		Name:            req.Name,
		Initials:        req.Initials,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            req.Role,
		AvatarColor:     req.AvatarColor,
		TeamsWebhookURL: req.TeamsWebhookURL,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, user)
}

func (h *Handler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, users)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateUserRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.Update(c.Request.Context(), repository.UpdateParams{
		ID:              id,
		Name:            req.Name,
		Initials:        req.Initials,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            req.Role,
		AvatarColor:     req.AvatarColor,
		TeamsWebhookURL: req.TeamsWebhookURL,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, user)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func (h *Handler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
