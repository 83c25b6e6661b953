package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/port"
)

type CaptchaHandler struct {
	Handler
	captcha port.CaptchaGate
}

func NewCaptchaHandler(captcha port.CaptchaGate, logger *zap.Logger) (*CaptchaHandler, error) {
	return &CaptchaHandler{
		Handler: *NewHandler(logger),
		captcha: captcha,
	}, nil
}

// NewChallenge mints a challenge for the exchange form. The answer never
// leaves the server.
func (h *CaptchaHandler) NewChallenge(ctx *gin.Context) {
	token, question := h.captcha.Create()
	ctx.JSON(http.StatusOK, gin.H{"token": token, "question": question})
}
