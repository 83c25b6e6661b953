package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NopSender stands in for the Telegram API when no bot token is configured,
// so the rest of the service keeps working in development.
type NopSender struct {
	logger *zap.Logger
}

func NewNopSender(logger *zap.Logger) *NopSender {
	return &NopSender{logger: logger}
}

func (n *NopSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	n.logger.Debug("telegram token missing, dropping outgoing message")
	return tgbotapi.Message{}, nil
}

func (n *NopSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	n.logger.Debug("telegram token missing, dropping API request")
	return &tgbotapi.APIResponse{Ok: true}, nil
}
