package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/middleware"
	"github.com/sacred-word/core/internal/pkg/response"
)

type loginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type changePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type createTokenDTO struct {
	Name      string     `json:"name" binding:"required"`
	ExpiredAt *time.Time `json:"expired_at"`
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/login", h.login)
	g.POST("/register", h.register)
	g.GET("/registered", h.registered)

	a := g.Group("", authMW)
	a.GET("/me", h.me)
	a.PATCH("/password", h.changePassword)
	a.GET("/tokens", h.listTokens)
	a.POST("/tokens", h.createToken)
	a.DELETE("/tokens/:id", h.deleteToken)
}

func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token, "user": u})
}

func (h *Handler) register(c *gin.Context) {
	var dto registerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(dto.Username, dto.Password, dto.Name)
	if err != nil {
		if errors.Is(err, errOwnerAlreadyExists) {
			response.Conflict(c, "মালিকের অ্যাকাউন্ট ইতিমধ্যে তৈরি হয়ে গেছে")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, u)
}

func (h *Handler) registered(c *gin.Context) {
	response.OK(c, gin.H{"registered": h.svc.IsRegistered()})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, u)
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto changePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.ChangePassword(middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword)
	if err != nil {
		if errors.Is(err, errWrongPassword) || errors.Is(err, errPasswordSameAsOld) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) listTokens(c *gin.Context) {
	tokens, err := h.svc.ListAPITokens(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, tokens)
}

func (h *Handler) createToken(c *gin.Context) {
	var dto createTokenDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.svc.CreateAPIToken(middleware.CurrentUserID(c), dto.Name, dto.ExpiredAt)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, token)
}

func (h *Handler) deleteToken(c *gin.Context) {
	if err := h.svc.DeleteAPIToken(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
