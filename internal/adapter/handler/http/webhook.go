package http

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/adapter/bot"
)

type WebhookHandler struct {
	Handler
	engine *bot.Engine
	// secret gates the webhook via the ?secret= query parameter. Empty
	// means development mode, every caller passes.
	secret string
}

func NewWebhookHandler(engine *bot.Engine, secret string, logger *zap.Logger) (*WebhookHandler, error) {
	return &WebhookHandler{
		Handler: *NewHandler(logger),
		engine:  engine,
		secret:  secret,
	}, nil
}

// Handle accepts one Telegram update. It always responds 200 {ok:true} —
// even on internal error — so the bot platform never enters a retry storm;
// failures are logged server-side instead.
func (h *WebhookHandler) Handle(ctx *gin.Context) {
	ok := gin.H{"ok": true}

	if h.secret != "" && ctx.Query("secret") != h.secret {
		h.logger.Warn("webhook secret mismatch", zap.String("ip", ctx.ClientIP()))
		ctx.JSON(http.StatusOK, ok)
		return
	}

	var update tgbotapi.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("undecodable telegram update", zap.Error(err))
		ctx.JSON(http.StatusOK, ok)
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("telegram webhook panic", zap.Any("panic", r))
			}
		}()
		h.engine.HandleUpdate(ctx, update)
	}()

	ctx.JSON(http.StatusOK, ok)
}
