package prefs

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/preferences")
	g.GET("", h.get)
	g.PATCH("", h.patch)
	g.DELETE("", h.reset)
	g.GET("/:key", h.getOne)
	g.PATCH("/:key", h.patchOne)
	g.DELETE("/:key", h.resetOne)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) patch(c *gin.Context) {
	var dto PatchDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) reset(c *gin.Context) {
	p, err := h.svc.Reset()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) getOne(c *gin.Context) {
	key := c.Param("key")
	value, err := h.svc.GetOne(key)
	if err != nil {
		writePrefError(c, err)
		return
	}
	response.OK(c, gin.H{"key": key, "value": value})
}

func (h *Handler) patchOne(c *gin.Context) {
	key := c.Param("key")
	var dto struct {
		Value interface{} `json:"value"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.SetOne(key, dto.Value)
	if err != nil {
		writePrefError(c, err)
		return
	}
	response.OK(c, p)
}

func (h *Handler) resetOne(c *gin.Context) {
	p, err := h.svc.ResetOne(c.Param("key"))
	if err != nil {
		writePrefError(c, err)
		return
	}
	response.OK(c, p)
}

func writePrefError(c *gin.Context, err error) {
	if errors.Is(err, ErrUnknownKey) {
		response.NotFoundMsg(c, MsgUnknownKey)
		return
	}
	response.InternalError(c, err)
}
