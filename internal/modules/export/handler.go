package export

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/verses/export", h.download)
	rg.POST("/export/upload-s3", authMW, h.uploadToS3)
}

// download streams the export as a text file attachment.
func (h *Handler) download(c *gin.Context) {
	filename, payload, err := h.svc.Export()
	if err != nil {
		if errors.Is(err, ErrNothingToExport) {
			response.BadRequest(c, MsgNothingToExport)
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", payload)
}

func (h *Handler) uploadToS3(c *gin.Context) {
	url, err := h.svc.UploadToS3(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNothingToExport) {
			response.BadRequest(c, MsgNothingToExport)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"url": url})
}
