// Package handler exposes the in-app notification HTTP API. All routes act
// on behalf of the authenticated user; there is no cross-user access.
package handler

import (
	"net/http"
	"strconv"

	"github.com/Lugier/M-A-CRM-sub001/internal/notifications/inapp"
	"github.com/Lugier/M-A-CRM-sub001/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultListLimit = 50

type Handler struct {
	store inapp.Store
}

func New(store inapp.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/unread-count", h.UnreadCount)
	group.POST("/:id/read", h.MarkRead)
	group.POST("/read-all", h.MarkAllRead)
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	items, err := h.store.ListForUser(c.Request.Context(), identity.UserID(), unreadOnly, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	count, err := h.store.UnreadCount(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	if err := h.store.MarkRead(c.Request.Context(), id, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.store.MarkAllRead(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
