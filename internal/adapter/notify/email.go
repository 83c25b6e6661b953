package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/sberbits/exchange/internal/core/domain"
)

// MailSender is the slice of the SMTP transport the notifier needs.
// *gomail.Dialer satisfies it.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends the order status email to the order's address. It is
// a no-op when SMTP is not configured or the order carries no email.
type EmailNotifier struct {
	sender  MailSender
	from    string
	siteURL string
	logger  *zap.Logger
}

func NewEmailNotifier(sender MailSender, from, siteURL string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender:  sender,
		from:    from,
		siteURL: siteURL,
		logger:  logger,
	}
}

func (n *EmailNotifier) Deliver(ctx context.Context, event domain.OrderEvent) error {
	if n.sender == nil || n.from == "" {
		n.logger.Debug("smtp not configured, skipping email")
		return nil
	}
	if event.Order.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", event.Order.Email)
	m.SetHeader("Subject", emailSubject(event))
	m.SetBody("text/plain", n.textBody(event.Order))
	m.AddAlternative("text/html", n.htmlBody(event.Order))

	return n.sender.DialAndSend(m)
}

func emailSubject(event domain.OrderEvent) string {
	id := event.Order.ID
	switch event.Kind {
	case domain.EventOrderCreated:
		return fmt.Sprintf("Заявка #%s создана", id)
	case domain.EventPaymentReported:
		return fmt.Sprintf("Заявка #%s: подтверждение оплаты принято", id)
	case domain.EventConfirmedByAdmin:
		return fmt.Sprintf("Заявка #%s: подтверждение оплаты принято (админ)", id)
	case domain.EventCanceledByUser:
		return fmt.Sprintf("Заявка #%s: отменена пользователем", id)
	case domain.EventCanceledByAdmin:
		return fmt.Sprintf("Заявка #%s: отменена администратором", id)
	}
	return fmt.Sprintf("Заявка #%s", id)
}

func (n *EmailNotifier) orderURL(id string) string {
	if n.siteURL == "" {
		return ""
	}
	return strings.TrimRight(n.siteURL, "/") + "/order/" + id
}

func (n *EmailNotifier) textBody(o domain.Order) string {
	lines := append([]string{fmt.Sprintf("Заявка #%s", o.ID)}, orderLines(o)...)
	if u := n.orderURL(o.ID); u != "" {
		lines = append(lines, fmt.Sprintf("Страница заявки: %s", u))
	}
	return strings.Join(lines, "\n")
}

func (n *EmailNotifier) htmlBody(o domain.Order) string {
	esc := html.EscapeString
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;line-height:1.6;color:#111">`)
	fmt.Fprintf(&b, `<h2 style="margin:0 0 12px">Заявка #%s</h2>`, esc(o.ID))
	fmt.Fprintf(&b, `<p><strong>Статус:</strong> %s</p>`, esc(o.Status.Message()))
	b.WriteString("<ul>")
	fmt.Fprintf(&b, `<li><strong>Отдаете:</strong> %s %s</li>`, esc(o.FromAmount), esc(o.FromCurrency))
	fmt.Fprintf(&b, `<li><strong>Получаете:</strong> %s %s</li>`, esc(o.ToAmount), esc(o.ToCurrency))
	fmt.Fprintf(&b, `<li><strong>На счет:</strong> %s</li>`, esc(o.ToAccount))
	if o.PaymentDetails != "" {
		fmt.Fprintf(&b, `<li><strong>Реквизиты для оплаты:</strong> %s</li>`, esc(o.PaymentDetails))
	}
	fmt.Fprintf(&b, `<li><strong>Создана:</strong> %s</li>`, esc(o.CreatedAt))
	fmt.Fprintf(&b, `<li><strong>Изменена:</strong> %s</li>`, esc(o.LastStatusUpdate))
	b.WriteString("</ul>")
	if u := n.orderURL(o.ID); u != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Открыть страницу заявки</a></p>`, u)
	}
	b.WriteString("</div>")
	return b.String()
}
