package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"bankrates/deploy/config"
	"bankrates/internal/metrics"
	"bankrates/internal/scraper"
	"bankrates/internal/scraper/adapter/export"
	"bankrates/internal/scraper/adapter/page_client/minfin"
)

// One-shot scrape: fetch every configured currency concurrently and
// export CSV and JSON snapshots.
func main() {
	cfg := config.NewConfig()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine := scraper.NewScraper(minfin.NewClient(cfg), metrics.NewMetrics(), cfg)
	exports := export.NewStore(cfg.Export.Dir)

	var wg sync.WaitGroup
	for _, currency := range cfg.CurrencyList() {
		wg.Add(1)
		go func(currency string) {
			defer wg.Done()
			scrapeCurrency(ctx, engine, exports, currency)
		}(currency)
	}
	wg.Wait()

	slog.Info("scraping completed")
}

func scrapeCurrency(ctx context.Context, engine *scraper.Scraper, exports *export.Store, currency string) {
	slog.Info("fetching exchange rates", "currency", currency)

	records := engine.GetExchangeRates(ctx, currency)
	if len(records) == 0 {
		slog.Warn("no data was collected", "currency", currency)
		return
	}

	if _, err := exports.SaveCSV(records, currency); err != nil {
		slog.Error("failed to export CSV", "currency", currency, "error", err)
	}

	if _, err := exports.SaveJSON(records, currency); err != nil {
		slog.Error("failed to export JSON", "currency", currency, "error", err)
	}
}
