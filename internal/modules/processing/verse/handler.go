package verse

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/verses")
	g.POST("/lookup", h.lookup)
	g.GET("/saved", h.listSaved)
	g.POST("/saved/toggle", h.toggleSave)
	g.PATCH("/saved/:reference/tags", h.updateTags)
	g.DELETE("/saved/:reference", h.removeSaved)
}

func (h *Handler) lookup(c *gin.Context) {
	var dto lookupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	v, cached, err := h.svc.Lookup(c.Request.Context(), dto.Query, dto.Style)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	response.OK(c, lookupResponse{Verse: *v, Cached: cached})
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLookupInFlight):
		response.TooManyRequests(c, MsgLookupInFlight)
	case errors.Is(err, ErrLookupDisabled):
		response.BadRequest(c, MsgLookupDisabled)
	case errors.Is(err, ErrAuthentication):
		response.BadGateway(c, MsgAuthentication)
	case errors.Is(err, ErrResponseFormat):
		response.BadGateway(c, MsgResponseFormat)
	case errors.Is(err, ErrNetwork):
		response.GatewayTimeout(c, MsgNetwork)
	default:
		response.BadRequest(c, err.Error())
	}
}

func (h *Handler) listSaved(c *gin.Context) {
	items, err := h.svc.Saved()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) toggleSave(c *gin.Context) {
	var v Verse
	if err := c.ShouldBindJSON(&v); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(v.Reference) == "" {
		response.BadRequest(c, "reference is required")
		return
	}

	saved, items, err := h.svc.ToggleSave(v)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, toggleSaveResponse{Saved: saved, Items: items})
}

func (h *Handler) updateTags(c *gin.Context) {
	reference := c.Param("reference")
	var dto updateTagsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	v, err := h.svc.UpdateTags(reference, dto.Tags)
	if err != nil {
		if errors.Is(err, ErrVerseNotSaved) {
			response.NotFoundMsg(c, MsgVerseNotSaved)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, v)
}

func (h *Handler) removeSaved(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		response.BadRequest(c, "reference is required")
		return
	}
	items, err := h.svc.RemoveSaved(reference)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}
