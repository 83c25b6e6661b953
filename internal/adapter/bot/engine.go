// Package bot implements the administrator-facing Telegram interaction
// engine: command and callback handling, paginated order listings and the
// two-step pending-action protocol.
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
	"github.com/sberbits/exchange/internal/core/port"
)

const (
	pageSize    = 10
	skipCommand = "/skip"
)

// Sender is the slice of the Telegram Bot API the engine needs.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var (
	orderIDPattern     = regexp.MustCompile(`^#?\d+$`)
	listCommandPattern = regexp.MustCompile(`(?i)^/(orders|list|paid|cancell?ed|all)`)
	// Listing, wide queries and mutations require the admin chat.
	adminCallbackPattern = regexp.MustCompile(`^(menu:(orders|paid|canceled|all)$|list:|act:|rates:edit:)`)
	nonNumberPattern     = regexp.MustCompile(`[^0-9,.]`)
)

type Engine struct {
	api      Sender
	service  port.ExchangeService
	orders   port.OrderStore
	rates    port.RateTable
	sessions *Sessions
	// adminChatID scopes privileged operations; zero means development
	// mode, every caller is treated as authorized.
	adminChatID int64
	siteURL     string
	logger      *zap.Logger
}

func NewEngine(api Sender, service port.ExchangeService, orders port.OrderStore,
	rates port.RateTable, sessions *Sessions, adminChatID int64, siteURL string,
	logger *zap.Logger) (*Engine, error) {
	return &Engine{
		api:         api,
		service:     service,
		orders:      orders,
		rates:       rates,
		sessions:    sessions,
		adminChatID: adminChatID,
		siteURL:     siteURL,
		logger:      logger,
	}, nil
}

// HandleUpdate is the single entry point for inbound webhook updates.
func (e *Engine) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		e.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		e.handleCallback(ctx, update.CallbackQuery)
	}
}

func (e *Engine) isAdmin(chatID int64) bool {
	return e.adminChatID == 0 || chatID == e.adminChatID
}

func (e *Engine) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Pending-action resolution strictly precedes command parsing.
	if pending, ok := e.sessions.Get(chatID); ok {
		e.resolvePending(ctx, chatID, text, pending)
		return
	}

	switch {
	case text == "/start" || text == "/menu" || text == "menu":
		reply := tgbotapi.NewMessage(chatID, "Главное меню")
		reply.ReplyMarkup = mainMenuKeyboard()
		e.send(reply)
	case strings.HasPrefix(strings.ToLower(text), "/rates"):
		e.showRates(chatID)
	case orderIDPattern.MatchString(text):
		e.showOrder(chatID, strings.TrimPrefix(text, "#"))
	case listCommandPattern.MatchString(text):
		if !e.isAdmin(chatID) {
			e.sendText(chatID, "Доступно только администратору.")
			return
		}
		e.showList(chatID, listFilterForCommand(text), 1)
	default:
		reply := tgbotapi.NewMessage(chatID, "Команда не распознана. Используйте меню ниже.")
		reply.ReplyMarkup = mainMenuKeyboard()
		e.send(reply)
	}
}

func listFilterForCommand(text string) listFilter {
	switch lower := strings.ToLower(text); {
	case strings.HasPrefix(lower, "/paid"):
		return filterPaid
	case strings.HasPrefix(lower, "/canceled"), strings.HasPrefix(lower, "/cancelled"):
		return filterCanceled
	case strings.HasPrefix(lower, "/all"):
		return filterAll
	}
	return filterActive
}

// resolvePending consumes the message as the payload of the chat's pending
// action. The entry is cleared whether or not the payload applies cleanly,
// with one exception: an unparseable rate value keeps the entry so the
// admin can retry.
func (e *Engine) resolvePending(ctx context.Context, chatID int64, text string, pending PendingAction) {
	if text == skipCommand {
		e.sessions.Clear(chatID)
		switch pending.Kind {
		case PendingPaymentLink:
			if _, err := e.service.ConfirmByAdmin(ctx, pending.OrderID, ""); err != nil {
				e.sendText(chatID, orderNotFoundText(pending.OrderID))
				return
			}
			e.sendText(chatID, fmt.Sprintf("Подтверждение для заявки #%s принято без ссылки.", pending.OrderID))
		case PendingRateValue:
			e.sendText(chatID, "Редактирование курса отменено.")
		}
		return
	}

	switch pending.Kind {
	case PendingRateValue:
		value, err := parseRateValue(text)
		if err != nil {
			e.sendText(chatID, fmt.Sprintf("Не удалось распознать число из '%s'. Попробуйте ещё раз.", text))
			return
		}
		e.rates.UpdateRate(pending.Currency, value)
		e.sessions.Clear(chatID)
		e.sendText(chatID, fmt.Sprintf("Курс %s обновлён: %s", pending.Currency, value))
	case PendingPaymentLink:
		e.sessions.Clear(chatID)
		if _, err := e.service.ConfirmByAdmin(ctx, pending.OrderID, text); err != nil {
			e.sendText(chatID, orderNotFoundText(pending.OrderID))
			return
		}
		e.sendText(chatID, fmt.Sprintf("Ссылка сохранена и заявка #%s помечена как оплаченная.", pending.OrderID))
	}
}

// parseRateValue strips everything but digits, comma and period from the
// admin's reply and treats comma as the decimal separator.
func parseRateValue(text string) (decimal.Decimal, error) {
	cleaned := nonNumberPattern.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return decimal.Parse(cleaned)
}

func (e *Engine) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		e.answerCallback(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	if adminCallbackPattern.MatchString(data) && !e.isAdmin(chatID) {
		e.answerCallback(cq.ID, "Действие доступно только администратору.")
		return
	}

	switch {
	case data == "menu:main":
		e.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, cq.Message.MessageID, "Главное меню", mainMenuKeyboard()))
	case data == "menu:orders":
		e.showList(chatID, filterActive, 1)
	case data == "menu:paid":
		e.showList(chatID, filterPaid, 1)
	case data == "menu:canceled":
		e.showList(chatID, filterCanceled, 1)
	case data == "menu:all":
		e.showList(chatID, filterAll, 1)
	case data == "menu:rates":
		if e.isAdmin(chatID) {
			e.showRatesEditor(chatID)
		} else {
			e.showRates(chatID)
		}
	case data == "menu:help":
		reply := tgbotapi.NewMessage(chatID,
			"Доступные действия: \n- Заявки\n- Отменённые заявки\n- Просмотр заявки по ID (отправьте номер, напр. 12345)")
		reply.ReplyMarkup = mainMenuKeyboard()
		e.send(reply)
	case strings.HasPrefix(data, "rates:edit:"):
		currency := strings.TrimPrefix(data, "rates:edit:")
		e.sessions.Set(chatID, PendingAction{Kind: PendingRateValue, Currency: currency})
		e.sendText(chatID, fmt.Sprintf("Введите новый курс (в RUB) для %s, например 4200000", currency))
	case strings.HasPrefix(data, "order:"):
		e.showOrder(chatID, strings.TrimPrefix(data, "order:"))
	case strings.HasPrefix(data, "list:"):
		filter, page := parseListCallback(data)
		e.showList(chatID, filter, page)
	case strings.HasPrefix(data, "act:confirm:"):
		id, mode, _ := strings.Cut(strings.TrimPrefix(data, "act:confirm:"), ":")
		if mode == "with_link" {
			e.sessions.Set(chatID, PendingAction{Kind: PendingPaymentLink, OrderID: id})
			e.sendText(chatID, fmt.Sprintf(
				"Пожалуйста, отправьте ссылку на платёж для заявки #%s в ответном сообщении. Если хотите подтвердить без ссылки, отправьте /skip", id))
		} else {
			e.applyOrderAction(ctx, chatID, cq.Message.MessageID, id, true)
		}
	case strings.HasPrefix(data, "act:cancel:"):
		e.applyOrderAction(ctx, chatID, cq.Message.MessageID, strings.TrimPrefix(data, "act:cancel:"), false)
	}

	// Always acknowledged so the chat UI clears its loading indicator.
	e.answerCallback(cq.ID, "")
}

func parseListCallback(data string) (listFilter, int) {
	parts := strings.Split(data, ":")
	filter := filterActive
	page := 1
	if len(parts) > 1 {
		filter = parseListFilter(parts[1])
	}
	if len(parts) > 2 {
		if n, err := strconv.Atoi(parts[2]); err == nil && n > 0 {
			page = n
		}
	}
	return filter, page
}

func (e *Engine) applyOrderAction(ctx context.Context, chatID int64, messageID int, id string, confirm bool) {
	var (
		updated *domain.Order
		err     error
	)
	if confirm {
		updated, err = e.service.ConfirmByAdmin(ctx, id, "")
	} else {
		updated, err = e.service.CancelByAdmin(ctx, id)
	}
	if err != nil {
		e.sendText(chatID, orderNotFoundText(id))
		return
	}

	text := orderSummary(*updated)
	if _, err := e.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		e.sendText(chatID, text)
	}
}

func (e *Engine) showOrder(chatID int64, id string) {
	order, err := e.orders.Get(id)
	if err != nil {
		reply := tgbotapi.NewMessage(chatID, orderNotFoundText(id))
		reply.ReplyMarkup = mainMenuKeyboard()
		e.send(reply)
		return
	}

	reply := tgbotapi.NewMessage(chatID, orderSummary(order))
	reply.ReplyMarkup = orderKeyboard(order.ID, e.siteURL)
	e.send(reply)
}

func (e *Engine) filterOrders(filter listFilter) []domain.Order {
	switch filter {
	case filterActive:
		return e.orders.ListBy(func(o domain.Order) bool { return !o.Status.Canceled() })
	case filterPaid:
		return e.orders.ListBy(func(o domain.Order) bool { return o.Status.Paid() })
	case filterCanceled:
		return e.orders.ListBy(func(o domain.Order) bool { return o.Status.Canceled() })
	}
	return e.orders.All()
}

func (e *Engine) showList(chatID int64, filter listFilter, page int) {
	items := e.filterOrders(filter)
	// Most recently created first.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	if len(items) == 0 {
		reply := tgbotapi.NewMessage(chatID, emptyListText(filter))
		reply.ReplyMarkup = mainMenuKeyboard()
		e.send(reply)
		return
	}

	slice, p, pages, total := paginate(items, page)

	lines := []string{fmt.Sprintf("%s (всего: %d, стр. %d/%d)", filterTitle(filter), total, p, pages), ""}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(slice)+2)
	for _, o := range slice {
		lines = append(lines, orderLine(o))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("#"+o.ID, "order:"+o.ID),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if p > 1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", fmt.Sprintf("list:%s:%d", filter, p-1)))
	}
	if p < pages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Вперёд ➡️", fmt.Sprintf("list:%s:%d", filter, p+1)))
	}
	if len(nav) == 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Обновить", fmt.Sprintf("list:%s:%d", filter, p)))
	}
	rows = append(rows, nav, menuRow())

	reply := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	e.send(reply)
}

// paginate clamps the requested page into [1, pages] and returns the slice
// for it.
func paginate(list []domain.Order, page int) (slice []domain.Order, p, pages, total int) {
	total = len(list)
	pages = (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	p = page
	if p < 1 {
		p = 1
	}
	if p > pages {
		p = pages
	}
	start := (p - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return list[start:end], p, pages, total
}

// showRates renders the public view: quoted crypto→RUB values with markup
// already applied.
func (e *Engine) showRates(chatID int64) {
	snapshot := e.rates.Rates()
	lines := []string{"Текущие курсы (с учётом наценки):"}
	for _, ticker := range sortedTickers(snapshot) {
		value := e.rates.RateValue(ticker, "RUB")
		lines = append(lines, "",
			fmt.Sprintf("%s → RUB: %s ₽", ticker, value.Round(2)),
			fmt.Sprintf("Обновлено (%s): %s", ticker, domain.TimeStamp(snapshot[ticker].LastUpdate)))
	}

	reply := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(menuRow())
	e.send(reply)
}

// showRatesEditor renders the raw table the administrator edits.
func (e *Engine) showRatesEditor(chatID int64) {
	snapshot := e.rates.Rates()
	tickers := sortedTickers(snapshot)
	lines := []string{"Текущие курсы (для редактирования):", ""}
	for _, ticker := range tickers {
		lines = append(lines, fmt.Sprintf("%s: %s", ticker, snapshot[ticker].RUB))
	}

	reply := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
	reply.ReplyMarkup = ratesEditorKeyboard(tickers)
	e.send(reply)
}

func (e *Engine) send(c tgbotapi.Chattable) {
	if _, err := e.api.Send(c); err != nil {
		e.logger.Warn("telegram send failed", zap.Error(err))
	}
}

func (e *Engine) sendText(chatID int64, text string) {
	e.send(tgbotapi.NewMessage(chatID, text))
}

func (e *Engine) answerCallback(id, text string) {
	if id == "" {
		return
	}
	if _, err := e.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		e.logger.Warn("callback answer failed", zap.Error(err))
	}
}
