package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/port"
)

type RatesHandler struct {
	Handler
	rates port.RateTable
}

func NewRatesHandler(rates port.RateTable, logger *zap.Logger) (*RatesHandler, error) {
	return &RatesHandler{
		Handler: *NewHandler(logger),
		rates:   rates,
	}, nil
}

func (h *RatesHandler) GetRates(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.rates.Rates())
}

type updateRateRequest struct {
	Currency string  `json:"currency" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

func (h *RatesHandler) UpdateRate(ctx *gin.Context) {
	var req updateRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Некорректные данные курса"})
		return
	}

	price, err := decimal.NewFromFloat64(req.Price)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Некорректные данные курса"})
		return
	}

	h.rates.UpdateRate(req.Currency, price)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "rates": h.rates.Rates()})
}

// StreamRates is the long-lived server-push channel: the full rate mapping
// is emitted once on connect and then on every table update.
func (h *RatesHandler) StreamRates(ctx *gin.Context) {
	updates, cancel := h.rates.Subscribe()
	defer cancel()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	ctx.SSEvent("message", h.rates.Rates())
	ctx.Writer.Flush()

	h.logger.Debug("rates stream listener attached", zap.String("ip", ctx.ClientIP()))

	ctx.Stream(func(w io.Writer) bool {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return false
			}
			ctx.SSEvent("message", snapshot)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
