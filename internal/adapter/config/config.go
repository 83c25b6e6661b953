package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	App      *App
	HTTP     *HTTP
	Telegram *Telegram
	SMTP     *SMTP
	Site     *Site
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Telegram struct {
	Token         string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID   int64  `env:"TELEGRAM_ADMIN_CHAT_ID"`
	WebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"FROM_EMAIL"`
}

func (s *SMTP) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != "" && s.From != ""
}

type Site struct {
	// URL is the public site address used in order links; optional.
	URL string `env:"SITE_URL"`
	// PaymentDetails is the fixed payment instruction attached to freshly
	// created orders.
	PaymentDetails string `env:"PAYMENT_DETAILS" envDefault:"https://dalink.to/sberbits_com_ru"`
}

func NewConfig() (*Config, error) {
	// Local development keeps its secrets in .env; absence is fine.
	_ = godotenv.Load()

	var app App
	var http HTTP
	var telegram Telegram
	var smtp SMTP
	var site Site

	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&telegram)
	if err != nil {
		return nil, fmt.Errorf("error parsing telegram config: %w", err)
	}
	err = env.Parse(&smtp)
	if err != nil {
		return nil, fmt.Errorf("error parsing smtp config: %w", err)
	}
	err = env.Parse(&site)
	if err != nil {
		return nil, fmt.Errorf("error parsing site config: %w", err)
	}

	config := Config{
		App:      &app,
		HTTP:     &http,
		Telegram: &telegram,
		SMTP:     &smtp,
		Site:     &site,
	}

	return &config, nil
}
