package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/adapter/bot"
	"github.com/sberbits/exchange/internal/adapter/captcha"
	"github.com/sberbits/exchange/internal/adapter/rates"
	"github.com/sberbits/exchange/internal/adapter/storage/memory"
	"github.com/sberbits/exchange/internal/core/domain"
	"github.com/sberbits/exchange/internal/core/service"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testApp struct {
	router  *Router
	store   *memory.OrderStore
	captcha *captcha.Store
	service *service.Service
	table   *rates.Table
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, domain.OrderEvent) {}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := zap.NewNop()
	store := memory.NewOrderStore()
	captchaStore := captcha.NewStore()
	table := rates.NewTable(log)

	svc, err := service.NewService(store, table, nopDispatcher{}, "https://pay.example", log)
	require.NoError(t, err)

	engine, err := bot.NewEngine(bot.NewNopSender(log), svc, store, table, bot.NewSessions(), 0, "", log)
	require.NoError(t, err)

	exchangeHandler, err := NewExchangeHandler(svc, captchaStore, store, log)
	require.NoError(t, err)
	captchaHandler, err := NewCaptchaHandler(captchaStore, log)
	require.NoError(t, err)
	ratesHandler, err := NewRatesHandler(table, log)
	require.NoError(t, err)
	webhookHandler, err := NewWebhookHandler(engine, "hook-secret", log)
	require.NoError(t, err)

	router, err := NewRouter(exchangeHandler, captchaHandler, ratesHandler, webhookHandler, log)
	require.NoError(t, err)

	return &testApp{router: router, store: store, captcha: captchaStore, service: svc, table: table}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// solveCaptcha mints a challenge and reads the answer from the store.
func (a *testApp) solveCaptcha(t *testing.T) (token, answer string) {
	t.Helper()

	rec := a.do(t, http.MethodGet, "/api/captcha", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	token = body["token"].(string)
	require.NotEmpty(t, token)
	require.NotEmpty(t, body["question"])

	entry, ok := a.captcha.Peek(token)
	require.True(t, ok)
	return token, entry.Answer
}

func createPayload(token, answer string) map[string]any {
	return map[string]any{
		"fromCurrency":  "RUB",
		"toCurrency":    "BTC",
		"amount":        "100000",
		"email":         "user@example.com",
		"walletAddress": "bc1qexample",
		"captchaToken":  token,
		"captchaAnswer": answer,
	}
}

func TestCreateOrderHandler(t *testing.T) {
	app := newTestApp(t)
	token, answer := app.solveCaptcha(t)

	rec := app.do(t, http.MethodPost, "/api/exchange", createPayload(token, answer))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Заявка успешно создана", body["message"])

	id := body["orderId"].(string)
	require.NotEmpty(t, id)
	assert.True(t, app.store.Has(id))

	order := body["order"].(map[string]any)
	assert.Equal(t, string(domain.OrderStatusAwaitingPayment), order["state"])
	assert.Equal(t, domain.OrderStatusAwaitingPayment.Message(), order["status"])
	assert.Equal(t, "https://pay.example", order["paymentDetails"])
}

func TestCreateOrderWrongCaptcha(t *testing.T) {
	app := newTestApp(t)
	token, answer := app.solveCaptcha(t)

	rec := app.do(t, http.MethodPost, "/api/exchange", createPayload(token, answer+"9"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Неверная капча", body["message"])
	assert.Empty(t, app.store.All(), "no order on captcha failure")
}

func TestCreateOrderCaptchaSingleUse(t *testing.T) {
	app := newTestApp(t)
	token, answer := app.solveCaptcha(t)

	rec := app.do(t, http.MethodPost, "/api/exchange", createPayload(token, answer))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/exchange", createPayload(token, answer))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderBadPayload(t *testing.T) {
	app := newTestApp(t)
	token, answer := app.solveCaptcha(t)

	payload := createPayload(token, answer)
	payload["email"] = "not-an-email"

	rec := app.do(t, http.MethodPost, "/api/exchange", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Ошибка при создании заявки", decodeBody(t, rec)["message"])
}

func TestGetOrderHandler(t *testing.T) {
	app := newTestApp(t)
	order, err := app.service.CreateOrder(context.Background(), domain.CreateOrderRequest{
		FromCurrency: "RUB", ToCurrency: "BTC", Amount: "100000", WalletAddress: "bc1qexample",
	})
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/api/exchange/"+order.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, order.ID, decodeBody(t, rec)["id"])
}

func TestGetOrderNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/exchange/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Заявка не найдена", body["error"])
	assert.Equal(t, "Заявка с ID 42 не существует", body["details"])
}

func TestConfirmAndCancelHandlers(t *testing.T) {
	app := newTestApp(t)
	order, err := app.service.CreateOrder(context.Background(), domain.CreateOrderRequest{
		FromCurrency: "RUB", ToCurrency: "BTC", Amount: "100000", WalletAddress: "bc1qexample",
	})
	require.NoError(t, err)

	rec := app.do(t, http.MethodPost, fmt.Sprintf("/api/exchange/%s/confirm", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := app.store.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusUnderReview, stored.Status)

	rec = app.do(t, http.MethodPost, fmt.Sprintf("/api/exchange/%s/cancel", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err = app.store.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceledByUser, stored.Status)

	rec = app.do(t, http.MethodPost, "/api/exchange/42/confirm", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRatesHandler(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/rates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Contains(t, body, "BTC")
	btc := body["BTC"].(map[string]any)
	assert.Equal(t, "10683297", btc["rub"])
}

func TestUpdateRateHandler(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/rates", map[string]any{"currency": "BTC", "price": 12000000})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/rates", nil)
	btc := decodeBody(t, rec)["BTC"].(map[string]any)
	assert.Equal(t, "12000000", btc["rub"])
}

func TestUpdateRateRejectsBadInput(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing currency", map[string]any{"price": 100}},
		{"zero price", map[string]any{"currency": "BTC", "price": 0}},
		{"negative price", map[string]any{"currency": "BTC", "price": -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/rates", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDebugOrdersHandler(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 2; i++ {
		_, err := app.service.CreateOrder(context.Background(), domain.CreateOrderRequest{
			FromCurrency: "RUB", ToCurrency: "BTC", Amount: "100000", WalletAddress: "bc1qexample",
		})
		require.NoError(t, err)
	}

	rec := app.do(t, http.MethodGet, "/api/debug/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["orders"], 2)
}

func TestWebhookSecret(t *testing.T) {
	app := newTestApp(t)

	// Wrong secret and undecodable bodies still answer 200 {ok:true}.
	rec := app.do(t, http.MethodPost, "/api/telegram/webhook?secret=wrong", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])

	rec = app.do(t, http.MethodPost, "/api/telegram/webhook?secret=hook-secret",
		map[string]any{"update_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
}
