package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Scraper    Scraper
	Bot        Bot
	HTTPServer HTTPServer
	Export     Export
}

type Scraper struct {
	BaseURL    string        `env:"SCRAPER_BASE_URL" env-default:"https://minfin.com.ua/currency/banks/"`
	City       string        `env:"SCRAPER_CITY" env-default:"kiev"`
	Currencies string        `env:"SCRAPER_CURRENCIES" env-default:"usd,eur"`
	MaxRetries int           `env:"SCRAPER_MAX_RETRIES" env-default:"3"`
	RetryDelay time.Duration `env:"SCRAPER_RETRY_DELAY" env-default:"2s"`
	Timeout    time.Duration `env:"SCRAPER_TIMEOUT" env-default:"30s"`
}

type Bot struct {
	Token             string        `env:"TELEGRAM_BOT_TOKEN"`
	SubscriptionsFile string        `env:"SUBSCRIPTIONS_FILE" env-default:"data/subscriptions.json"`
	TickInterval      time.Duration `env:"BOT_TICK_INTERVAL" env-default:"60s"`
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8082"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"2m"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Export struct {
	Dir string `env:"EXPORT_DIR" env-default:"data"`
}

func NewConfig() *Config {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatal("Error reading env")
	}

	return cfg
}

// LogValue keeps the bot token out of the startup log.
func (c *Config) LogValue() slog.Value {
	redacted := *c
	if redacted.Bot.Token != "" {
		redacted.Bot.Token = "[REDACTED]"
	}
	return slog.AnyValue(redacted)
}

// CurrencyList splits the configured comma-separated currency codes.
func (c *Config) CurrencyList() []string {
	var out []string
	for _, cur := range strings.Split(c.Scraper.Currencies, ",") {
		cur = strings.ToLower(strings.TrimSpace(cur))
		if cur != "" {
			out = append(out, cur)
		}
	}
	return out
}
