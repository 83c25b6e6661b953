package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
	"github.com/sberbits/exchange/internal/core/port"
)

type ExchangeHandler struct {
	Handler
	service port.ExchangeService
	captcha port.CaptchaGate
	orders  port.OrderStore
}

func NewExchangeHandler(service port.ExchangeService, captcha port.CaptchaGate,
	orders port.OrderStore, logger *zap.Logger) (*ExchangeHandler, error) {
	return &ExchangeHandler{
		Handler: *NewHandler(logger),
		service: service,
		captcha: captcha,
		orders:  orders,
	}, nil
}

type createOrderRequest struct {
	FromCurrency  string `json:"fromCurrency" binding:"required"`
	ToCurrency    string `json:"toCurrency" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	WalletAddress string `json:"walletAddress" binding:"required"`
	FromAccount   string `json:"fromAccount"`
	CaptchaToken  string `json:"captchaToken"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

func (h *ExchangeHandler) CreateOrder(ctx *gin.Context) {
	var req createOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ошибка при создании заявки"})
		return
	}

	if !h.captcha.Validate(req.CaptchaToken, req.CaptchaAnswer) {
		h.logCaptchaFailure(ctx, req.CaptchaToken, req.CaptchaAnswer)
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Неверная капча"})
		return
	}

	order, err := h.service.CreateOrder(ctx, domain.CreateOrderRequest{
		FromCurrency:  req.FromCurrency,
		ToCurrency:    req.ToCurrency,
		Amount:        req.Amount,
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		FromAccount:   req.FromAccount,
	})
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ошибка при создании заявки"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"orderId": order.ID,
		"order":   newOrderResponse(*order),
		"message": "Заявка успешно создана",
	})
}

// logCaptchaFailure collects server-side diagnostics for a rejected
// captcha. The true answer goes to the log only, never to the response.
func (h *ExchangeHandler) logCaptchaFailure(ctx *gin.Context, token, answer string) {
	switch diag, ok := h.captcha.Peek(token); {
	case token == "":
		h.logger.Warn("captcha failed: no token provided", zap.String("ip", ctx.ClientIP()))
	case !ok:
		h.logger.Warn("captcha failed: token not found or expired", zap.String("token", token))
	default:
		h.logger.Warn("captcha failed: wrong answer",
			zap.String("token", token),
			zap.String("provided", answer),
			zap.String("expected", diag.Answer),
			zap.Int("attemptsLeft", diag.AttemptsLeft))
	}
}

func (h *ExchangeHandler) GetOrder(ctx *gin.Context) {
	id := ctx.Param("id")

	order, err := h.service.GetOrder(ctx, id)
	if err != nil {
		h.handleOrderError(ctx, id, err)
		return
	}

	ctx.JSON(http.StatusOK, newOrderResponse(*order))
}

// ConfirmPayment transitions the order to paid/under-review on behalf of
// the end user.
func (h *ExchangeHandler) ConfirmPayment(ctx *gin.Context) {
	id := ctx.Param("id")

	order, err := h.service.ConfirmByUser(ctx, id)
	if err != nil {
		h.handleOrderError(ctx, id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "order": newOrderResponse(*order)})
}

func (h *ExchangeHandler) CancelOrder(ctx *gin.Context) {
	id := ctx.Param("id")

	order, err := h.service.CancelByUser(ctx, id)
	if err != nil {
		h.handleOrderError(ctx, id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "order": newOrderResponse(*order)})
}

func (h *ExchangeHandler) handleOrderError(ctx *gin.Context, id string, err error) {
	if errors.Is(err, domain.ErrOrderNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Заявка не найдена",
			"details": fmt.Sprintf("Заявка с ID %s не существует", id),
		})
		return
	}
	ctx.JSON(h.statusFromError(err), gin.H{"error": "Ошибка при обработке заявки"})
}

// DebugOrders lists every stored order. Diagnostic endpoint.
func (h *ExchangeHandler) DebugOrders(ctx *gin.Context) {
	all := h.orders.All()

	result := make([]orderResponse, 0, len(all))
	for _, o := range all {
		result = append(result, newOrderResponse(o))
	}
	ctx.JSON(http.StatusOK, gin.H{"count": len(result), "orders": result})
}
