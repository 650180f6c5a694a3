package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bankrates/deploy/config"
	"bankrates/internal/entities"
	"bankrates/internal/metrics"
)

// Scraper fetches a currency page and extracts per-bank exchange rate
// records from it. It holds no mutable state and is safe for concurrent
// use from several goroutines.
type Scraper struct {
	client  PageClient
	metrics *metrics.Metrics
	city    string
}

func NewScraper(client PageClient, m *metrics.Metrics, cfg *config.Config) *Scraper {
	return &Scraper{
		client:  client,
		metrics: m,
		city:    strings.ToLower(cfg.Scraper.City),
	}
}

// GetExchangeRates returns the bank rates for a currency, sorted ascending
// by cash sell rate. It never fails: any fetch or parse problem is logged
// and yields an empty result, leaving the "no data" decision to callers.
func (s *Scraper) GetExchangeRates(ctx context.Context, currency string) []entities.ExchangeRateRecord {
	const op = "scraper.GetExchangeRates"

	timer := s.metrics.ScrapeTimer(currency)
	defer timer.ObserveDuration()

	html, err := s.client.FetchPage(ctx, s.city, currency)
	if err != nil {
		slog.Error("failed to fetch rates page", "op", op, "currency", currency, "error", err)
		s.metrics.ScrapeFailuresTotal.WithLabelValues(currency).Inc()
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Error("failed to parse rates page", "op", op, "currency", currency, "error", err)
		s.metrics.ScrapeFailuresTotal.WithLabelValues(currency).Inc()
		return nil
	}

	table := findRatesTable(doc)
	if table == nil {
		// No table is a normal outcome: the fetch and parse worked, the
		// page just has no data. Count it so empty ticks stay visible.
		slog.Warn("exchange rates table not found", "op", op, "currency", currency, "city", s.city)
		s.metrics.ScrapesTotal.WithLabelValues(currency).Inc()
		return nil
	}

	records := extractRecords(table, currency)

	slog.Info("extracted exchange rates", "currency", currency, "banks", len(records))
	s.metrics.ScrapesTotal.WithLabelValues(currency).Inc()

	return records
}
