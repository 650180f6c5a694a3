package botApp

import (
	"context"
	"log"
	"log/slog"
	"os"

	"bankrates/deploy/config"
	"bankrates/internal/metrics"
	"bankrates/internal/rates_bot/adapter/delivery/telegram"
	"bankrates/internal/rates_bot/adapter/storage/jsonfile"
	"bankrates/internal/rates_bot/bot"
	"bankrates/internal/rates_bot/ports/http/public"
	"bankrates/internal/scraper"
	"bankrates/internal/scraper/adapter/page_client/minfin"
)

type BotApp struct {
	cfg *config.Config
}

func NewBotApp(cfg *config.Config) *BotApp {
	return &BotApp{cfg: cfg}
}

// Start wires the store, the rate engine, the telegram sender, the
// scheduler and the HTTP server. The returned channel closes once both
// the scheduler (after its final save) and the server have stopped.
func (a *BotApp) Start(ctx context.Context) <-chan struct{} {
	a.initLogger()
	slog.Info("Logger initialized")

	slog.With("config", a.cfg).Info("starting bot service")

	m := metrics.NewMetrics()

	store := jsonfile.NewStore(a.cfg.Bot.SubscriptionsFile)
	slog.Info("Subscription store initialized", "subscribers", store.Count())

	engine := scraper.NewScraper(minfin.NewClient(a.cfg), m, a.cfg)
	slog.Info("Rate engine initialized")

	sender := a.initDelivery()
	slog.Info("Telegram sender initialized")

	scheduler := bot.NewScheduler(store, engine, sender, m, a.cfg.Bot.TickInterval)

	serverDone := public.StartServer(ctx, engine, store, a.cfg)
	slog.Info("server started")

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Run(ctx); err != nil {
			slog.Info("scheduler stopped", "reason", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		<-serverDone
		<-schedulerDone
		close(done)
	}()

	return done
}

func (a *BotApp) initLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

func (a *BotApp) initDelivery() *telegram.Sender {
	if a.cfg.Bot.Token == "" {
		log.Fatalln("TELEGRAM_BOT_TOKEN is not set")
	}

	sender, err := telegram.NewSender(a.cfg.Bot.Token)
	if err != nil {
		log.Fatalln("Failed to initialize telegram sender", "error", err)
	}

	return sender
}
