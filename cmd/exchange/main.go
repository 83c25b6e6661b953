package main

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/sberbits/exchange/internal/adapter/bot"
	"github.com/sberbits/exchange/internal/adapter/captcha"
	"github.com/sberbits/exchange/internal/adapter/config"
	"github.com/sberbits/exchange/internal/adapter/handler/http"
	"github.com/sberbits/exchange/internal/adapter/logger"
	"github.com/sberbits/exchange/internal/adapter/notify"
	"github.com/sberbits/exchange/internal/adapter/rates"
	"github.com/sberbits/exchange/internal/adapter/storage/memory"
	"github.com/sberbits/exchange/internal/core/port"
	"github.com/sberbits/exchange/internal/core/service"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	orders := memory.NewOrderStore()
	captchaStore := captcha.NewStore()
	rateTable := rates.NewTable(log.Named("Rates"))

	// Without a bot token the engine and notifier run against a sink, so
	// the HTTP surface still works in local development.
	var sender bot.Sender = bot.NewNopSender(log.Named("Bot"))
	if conf.Telegram.Token != "" {
		api, err := tgbotapi.NewBotAPI(conf.Telegram.Token)
		if err != nil {
			log.Error("telegram api error", zap.Error(err))
			return
		}
		log.Info("telegram bot authorized", zap.String("account", api.Self.UserName))
		sender = api
	}

	notifiers := []port.Notifier{
		notify.NewTelegramNotifier(sender, conf.Telegram.AdminChatID, log.Named("Telegram notifier")),
	}
	if conf.SMTP.Configured() {
		dialer := gomail.NewDialer(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.User, conf.SMTP.Password)
		notifiers = append(notifiers,
			notify.NewEmailNotifier(dialer, conf.SMTP.From, conf.Site.URL, log.Named("Email notifier")))
	} else {
		log.Info("smtp not configured, email notifications disabled")
	}
	dispatcher := notify.NewDispatcher(log.Named("Dispatcher"), notifiers...)

	svc, err := service.NewService(orders, rateTable, dispatcher, conf.Site.PaymentDetails, log.Named("Service"))
	if err != nil {
		log.Error("exchange service creating error", zap.Error(err))
		return
	}

	engine, err := bot.NewEngine(sender, svc, orders, rateTable, bot.NewSessions(),
		conf.Telegram.AdminChatID, conf.Site.URL, log.Named("Bot"))
	if err != nil {
		log.Error("bot engine creating error", zap.Error(err))
		return
	}

	exchangeHandler, err := http.NewExchangeHandler(svc, captchaStore, orders, log.Named("Exchange handler"))
	if err != nil {
		log.Error("exchange handler creating error", zap.Error(err))
		return
	}
	captchaHandler, err := http.NewCaptchaHandler(captchaStore, log.Named("Captcha handler"))
	if err != nil {
		log.Error("captcha handler creating error", zap.Error(err))
		return
	}
	ratesHandler, err := http.NewRatesHandler(rateTable, log.Named("Rates handler"))
	if err != nil {
		log.Error("rates handler creating error", zap.Error(err))
		return
	}
	webhookHandler, err := http.NewWebhookHandler(engine, conf.Telegram.WebhookSecret, log.Named("Webhook handler"))
	if err != nil {
		log.Error("webhook handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(exchangeHandler, captchaHandler, ratesHandler, webhookHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
