// Package handler exposes the deal document HTTP API.
package handler

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/documents/service"
	"github.com/Lugier/M-A-CRM-sub001/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterDealRoutes mounts the per-deal document endpoints.
func (h *Handler) RegisterDealRoutes(group *gin.RouterGroup) {
	group.POST("", h.Upload)
	group.GET("", h.List)
}

// RegisterDocumentRoutes mounts the document-scoped endpoints.
func (h *Handler) RegisterDocumentRoutes(group *gin.RouterGroup) {
	group.GET("/:docId/download", h.Download)
	group.DELETE("/:docId", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file could not be read", nil)
		return
	}
	defer file.Close()

	doc, err := h.svc.Upload(c.Request.Context(), service.UploadParams{
		DealID:      dealID,
		ActorID:     identity.UserID(),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) List(c *gin.Context) {
	dealID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	docs, err := h.svc.ListForDeal(c.Request.Context(), dealID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, docs)
}

func (h *Handler) Download(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	url, err := h.svc.DownloadURL(c.Request.Context(), docID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"url": url})
}

func (h *Handler) Delete(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), docID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
