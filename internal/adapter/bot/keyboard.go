package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const supportURL = "https://t.me/SunocomMusic"

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Активные", "menu:orders"),
			tgbotapi.NewInlineKeyboardButtonData("💸 Оплаченные", "menu:paid"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Отменённые", "menu:canceled"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Все", "menu:all"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Курсы", "menu:rates"),
			tgbotapi.NewInlineKeyboardButtonData("❓ Помощь", "menu:help"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🆘 Поддержка", supportURL),
		),
	)
}

func menuRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 В меню", "menu:main"),
	)
}

func orderKeyboard(id, siteURL string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить оплату (вставить ссылку)", fmt.Sprintf("act:confirm:%s:with_link", id)),
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить (без ссылки)", fmt.Sprintf("act:confirm:%s:no_link", id)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Отменить заявку", fmt.Sprintf("act:cancel:%s", id)),
		),
	}
	if siteURL != "" {
		openURL := strings.TrimRight(siteURL, "/") + "/order/" + id
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Открыть в кабинете", openURL),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "menu:orders"),
		),
		menuRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func ratesEditorKeyboard(tickers []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tickers)+1)
	for _, ticker := range tickers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Изменить "+ticker, "rates:edit:"+ticker),
		))
	}
	rows = append(rows, menuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
