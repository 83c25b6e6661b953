package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sberbits/exchange/internal/core/domain"
)

type listFilter string

const (
	filterActive   listFilter = "active"
	filterPaid     listFilter = "paid"
	filterCanceled listFilter = "canceled"
	filterAll      listFilter = "all"
)

func parseListFilter(s string) listFilter {
	switch listFilter(s) {
	case filterPaid, filterCanceled, filterAll:
		return listFilter(s)
	}
	return filterActive
}

func filterTitle(filter listFilter) string {
	switch filter {
	case filterActive:
		return "Активные заявки"
	case filterPaid:
		return "Оплаченные заявки"
	case filterCanceled:
		return "Отменённые заявки"
	}
	return "Все заявки"
}

func emptyListText(filter listFilter) string {
	if filter == filterCanceled {
		return "Отменённых заявок нет."
	}
	return "Список заявок пуст."
}

func orderLine(o domain.Order) string {
	return fmt.Sprintf("#%s | %s %s → %s %s | %s",
		o.ID, o.FromAmount, o.FromCurrency, o.ToAmount, o.ToCurrency, o.Status.Message())
}

func orderSummary(o domain.Order) string {
	lines := []string{
		fmt.Sprintf("Заявка #%s", o.ID),
		fmt.Sprintf("Статус: %s", o.Status.Message()),
		fmt.Sprintf("Отдаете: %s %s", o.FromAmount, o.FromCurrency),
	}
	if o.FromAccount != "" {
		lines = append(lines, fmt.Sprintf("Со счета: %s", o.FromAccount))
	}
	lines = append(lines,
		fmt.Sprintf("Получаете: %s %s", o.ToAmount, o.ToCurrency),
		fmt.Sprintf("На счет: %s", o.ToAccount),
		fmt.Sprintf("Реквизиты для оплаты: %s", o.PaymentDetails),
		fmt.Sprintf("Создана: %s", o.CreatedAt),
		fmt.Sprintf("Обновлена: %s", o.LastStatusUpdate),
	)
	return strings.Join(lines, "\n")
}

func orderNotFoundText(id string) string {
	return fmt.Sprintf("Заявка #%s не найдена.", id)
}

func sortedTickers(rates domain.Rates) []string {
	tickers := make([]string, 0, len(rates))
	for k := range rates {
		tickers = append(tickers, k)
	}
	sort.Strings(tickers)
	return tickers
}
