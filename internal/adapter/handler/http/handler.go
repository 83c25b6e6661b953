package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal: http.StatusInternalServerError,

	domain.ErrOrderNotFound: http.StatusNotFound,

	domain.ErrBadRequest:    http.StatusBadRequest,
	domain.ErrCaptchaFailed: http.StatusBadRequest,

	domain.ErrForbidden: http.StatusForbidden,
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// statusFromError maps a domain error to its HTTP status. Unknown errors
// are logged and reported as internal.
func (h *Handler) statusFromError(err error) int {
	statusCode, ok := errorStatusMap[err]
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("unexpected error processing request", zap.Error(err))
	}
	return statusCode
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	// State is the machine-readable lifecycle tag; Status carries the
	// human-readable wording shown on the order page.
	State            string `json:"state"`
	FromAmount       string `json:"fromAmount"`
	FromCurrency     string `json:"fromCurrency"`
	FromAccount      string `json:"fromAccount,omitempty"`
	ToAmount         string `json:"toAmount"`
	ToCurrency       string `json:"toCurrency"`
	ToAccount        string `json:"toAccount"`
	PaymentDetails   string `json:"paymentDetails"`
	CreatedAt        string `json:"createdAt"`
	LastStatusUpdate string `json:"lastStatusUpdate"`
	Email            string `json:"email,omitempty"`
}

func newOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		Status:           o.Status.Message(),
		State:            string(o.Status),
		FromAmount:       o.FromAmount,
		FromCurrency:     o.FromCurrency,
		FromAccount:      o.FromAccount,
		ToAmount:         o.ToAmount,
		ToCurrency:       o.ToCurrency,
		ToAccount:        o.ToAccount,
		PaymentDetails:   o.PaymentDetails,
		CreatedAt:        o.CreatedAt,
		LastStatusUpdate: o.LastStatusUpdate,
		Email:            o.Email,
	}
}
