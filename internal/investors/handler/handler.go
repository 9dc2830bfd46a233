// Package handler exposes the investor funnel HTTP API.
package handler

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/investors/domain"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/service"
	"github.com/Lugier/M-A-CRM-sub001/internal/investors/transport"
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

// RegisterOrganizationRoutes mounts the organization directory endpoints.
func (h *Handler) RegisterOrganizationRoutes(group *gin.RouterGroup) {
	group.POST("", h.CreateOrganization)
	group.GET("", h.ListOrganizations)
	group.POST("/:orgId/contacts", h.CreateContact)
}

// RegisterRelationRoutes mounts the per-deal funnel endpoints.
func (h *Handler) RegisterRelationRoutes(group *gin.RouterGroup) {
	group.POST("", h.AddRelation)
	group.GET("", h.ListRelations)
	group.PATCH("/:orgId", h.UpdateRelation)
	group.POST("/:orgId/status", h.SetStatus)
	group.POST("/:orgId/outreach", h.LogOutreach)
	group.DELETE("/:orgId", h.RemoveRelation)
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var req transport.CreateOrganizationRequest
	if !h.bind(c, &req) {
		return
	}

	org, err := h.svc.CreateOrganization(c.Request.Context(), req.Name, req.Sector)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, org)
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	orgs, err := h.svc.ListOrganizations(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, orgs)
}

func (h *Handler) CreateContact(c *gin.Context) {
	orgID, ok := parseUUIDParam(c, "orgId")
	if !ok {
		return
	}

	var req transport.CreateContactRequest
	if !h.bind(c, &req) {
		return
	}

	contact, err := h.svc.CreateContact(c.Request.Context(), orgID, req.Name, req.Email, req.Phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, contact)
}

func (h *Handler) AddRelation(c *gin.Context) {
	dealID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.AddRelationRequest
	if !h.bind(c, &req) {
		return
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	rel, err := h.svc.Add(c.Request.Context(), dealID, orgID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, rel)
}

func (h *Handler) ListRelations(c *gin.Context) {
	dealID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rels, err := h.svc.ListForDeal(c.Request.Context(), dealID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rels)
}

func (h *Handler) UpdateRelation(c *gin.Context) {
	dealID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	orgID, ok := parseUUIDParam(c, "orgId")
	if !ok {
		return
	}

	var req transport.UpdateRelationRequest
	if !h.bind(c, &req) {
		return
	}

	params := repository.UpdateRelationParams{
		DealID:         dealID,
		OrganizationID: orgID,
		Priority:       req.Priority,
		Notes:          req.Notes,
		ClientFeedback: req.ClientFeedback,
	}
	if req.ContactID != nil {
		contactID, err := uuid.Parse(*req.ContactID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		params.ContactID = &contactID
	}

	rel, err := h.svc.Update(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rel)
}

func (h *Handler) SetStatus(c *gin.Context) {
	dealID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	orgID, ok := parseUUIDParam(c, "orgId")
	if !ok {
		return
	}

	var req transport.SetRelationStatusRequest
	if !h.bind(c, &req) {
		return
	}

	rel, err := h.svc.SetStatus(c.Request.Context(), dealID, orgID, domain.RelationStatus(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rel)
}

func (h *Handler) LogOutreach(c *gin.Context) {
	dealID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	orgID, ok := parseUUIDParam(c, "orgId")
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.LogOutreachRequest
	if !h.bind(c, &req) {
		return
	}

	rel, err := h.svc.LogOutreach(c.Request.Context(), repository.LogOutreachParams{
		DealID:         dealID,
		OrganizationID: orgID,
		ActorID:        identity.UserID(),
		Subject:        req.Subject,
		Body:           req.Body,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, rel)
}

func (h *Handler) RemoveRelation(c *gin.Context) {
	dealID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	orgID, ok := parseUUIDParam(c, "orgId")
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), dealID, orgID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
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

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
