package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sberbits/exchange/internal/core/domain"
)

// MessageSender is the slice of the Telegram Bot API the notifier needs.
// *tgbotapi.BotAPI satisfies it.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts a human-readable order summary to the single
// configured administrator chat. With no chat configured it is a no-op.
type TelegramNotifier struct {
	api         MessageSender
	adminChatID int64
	logger      *zap.Logger
}

func NewTelegramNotifier(api MessageSender, adminChatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		api:         api,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

func (n *TelegramNotifier) Deliver(ctx context.Context, event domain.OrderEvent) error {
	if n.adminChatID == 0 {
		n.logger.Debug("admin chat not configured, skipping telegram notification")
		return nil
	}

	_, err := n.api.Send(tgbotapi.NewMessage(n.adminChatID, adminText(event)))
	return err
}

func adminText(event domain.OrderEvent) string {
	o := event.Order
	switch event.Kind {
	case domain.EventPaymentReported:
		lines := []string{
			fmt.Sprintf("🔔 Пользователь подтвердил оплату заявки #%s", o.ID),
			"",
			fmt.Sprintf("Отдаете: %s %s", o.FromAmount, o.FromCurrency),
		}
		if o.FromAccount != "" {
			lines = append(lines, fmt.Sprintf("Со счета: %s", o.FromAccount))
		}
		if o.Email != "" {
			lines = append(lines, fmt.Sprintf("Email: %s", o.Email))
		}
		lines = append(lines,
			fmt.Sprintf("Получаете: %s %s", o.ToAmount, o.ToCurrency),
			fmt.Sprintf("На счет: %s", o.ToAccount),
			"",
			"Необходимо проверить поступление средств.")
		return strings.Join(lines, "\n")
	case domain.EventCanceledByUser:
		lines := []string{
			"❌ Пользователь отменил заявку",
			fmt.Sprintf("#%s", o.ID),
			fmt.Sprintf("Отдавал: %s %s", o.FromAmount, o.FromCurrency),
		}
		if o.FromAccount != "" {
			lines = append(lines, fmt.Sprintf("Со счета: %s", o.FromAccount))
		}
		lines = append(lines,
			fmt.Sprintf("Получал: %s %s", o.ToAmount, o.ToCurrency),
			fmt.Sprintf("На счет: %s", o.ToAccount))
		return strings.Join(lines, "\n")
	case domain.EventOrderCreated:
		return strings.Join(append([]string{fmt.Sprintf("Новая заявка #%s", o.ID)}, orderLines(o)...), "\n")
	default:
		return strings.Join(append([]string{fmt.Sprintf("Заявка #%s", o.ID)}, orderLines(o)...), "\n")
	}
}

func orderLines(o domain.Order) []string {
	lines := []string{
		fmt.Sprintf("Статус: %s", o.Status.Message()),
		fmt.Sprintf("Отдаете: %s %s", o.FromAmount, o.FromCurrency),
	}
	if o.FromAccount != "" {
		lines = append(lines, fmt.Sprintf("Со счета: %s", o.FromAccount))
	}
	if o.Email != "" {
		lines = append(lines, fmt.Sprintf("Email: %s", o.Email))
	}
	lines = append(lines,
		fmt.Sprintf("Получаете: %s %s", o.ToAmount, o.ToCurrency),
		fmt.Sprintf("На счет: %s", o.ToAccount),
		fmt.Sprintf("Реквизиты для оплаты: %s", o.PaymentDetails),
		fmt.Sprintf("Создана: %s", o.CreatedAt),
		fmt.Sprintf("Время изменения статуса: %s", o.LastStatusUpdate),
	)
	return lines
}
