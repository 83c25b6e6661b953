package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	exchangeHandler *ExchangeHandler,
	captchaHandler *CaptchaHandler,
	ratesHandler *RatesHandler,
	webhookHandler *WebhookHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	api := router.Group("/api")
	{
		api.GET("/captcha", captchaHandler.NewChallenge)

		exchange := api.Group("/exchange")
		{
			exchange.POST("", exchangeHandler.CreateOrder)
			exchange.GET("/:id", exchangeHandler.GetOrder)
			exchange.POST("/:id/confirm", exchangeHandler.ConfirmPayment)
			exchange.POST("/:id/cancel", exchangeHandler.CancelOrder)
		}

		rates := api.Group("/rates")
		{
			rates.GET("", ratesHandler.GetRates)
			rates.POST("", ratesHandler.UpdateRate)
			rates.GET("/stream", ratesHandler.StreamRates)
		}

		api.POST("/telegram/webhook", webhookHandler.Handle)

		api.GET("/debug/orders", exchangeHandler.DebugOrders)
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
