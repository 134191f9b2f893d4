package speech

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/modules/processing/verse"
	"github.com/sacred-word/core/internal/pkg/response"
)

type speakDTO struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/speech")
	g.GET("/voices", h.voices)
	g.POST("/synthesize", h.synthesize)
}

func (h *Handler) voices(c *gin.Context) {
	response.OK(c, Voices)
}

// synthesize returns the synthesized audio as a downloadable WAV file.
func (h *Handler) synthesize(c *gin.Context) {
	var dto speakDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	buf, err := h.svc.Speak(c.Request.Context(), dto.Text, dto.Voice)
	if err != nil {
		writeSpeechError(c, err)
		return
	}

	wav := EncodeWAV(buf)
	c.Header("Content-Disposition", `attachment; filename="verse.wav"`)
	c.Header("X-Audio-Duration", fmt.Sprintf("%.3f", buf.Duration()))
	c.Data(200, "audio/wav", wav)
}

func writeSpeechError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSpeechDisabled):
		response.BadRequest(c, MsgSpeechDisabled)
	case errors.Is(err, ErrAudioUnavailable):
		response.BadGateway(c, MsgAudioUnavailable)
	case errors.Is(err, verse.ErrAuthentication):
		response.BadGateway(c, verse.MsgAuthentication)
	case errors.Is(err, verse.ErrNetwork):
		response.GatewayTimeout(c, verse.MsgNetwork)
	default:
		response.BadRequest(c, err.Error())
	}
}
