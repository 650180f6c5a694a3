package scraper

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankrates/deploy/config"
	"bankrates/internal/entities"
	"bankrates/internal/metrics"
)

type MockPageClient struct {
	FetchPageFunc func(ctx context.Context, city, currency string) (string, error)
}

func (m *MockPageClient) FetchPage(ctx context.Context, city, currency string) (string, error) {
	return m.FetchPageFunc(ctx, city, currency)
}

func newTestScraper(client PageClient) (*Scraper, *metrics.Metrics) {
	cfg := &config.Config{Scraper: config.Scraper{City: "Kiev"}}
	m := metrics.NewMetricsWith(prometheus.NewRegistry())

	return NewScraper(client, m, cfg), m
}

func TestScraper_GetExchangeRates(t *testing.T) {
	testCases := []struct {
		name      string
		client    MockPageClient
		wantBanks []string
	}{
		{
			name: "fetch failure yields empty result",
			client: MockPageClient{
				FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
					return "", errors.Wrap(entities.ErrPageUnavailable, "3 attempts")
				},
			},
		},
		{
			name: "page without rates table yields empty result",
			client: MockPageClient{
				FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
					return `<html><body><table id="menu"><tbody><tr><td>x</td></tr></tbody></table></body></html>`, nil
				},
			},
		},
		{
			name: "records extracted and sorted",
			client: MockPageClient{
				FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
					return ratesPage, nil
				},
			},
			wantBanks: []string{"BankA", "BankB", "BankC"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestScraper(&tc.client)

			records := s.GetExchangeRates(context.Background(), "usd")

			require.Len(t, records, len(tc.wantBanks))
			for i, bank := range tc.wantBanks {
				assert.Equal(t, bank, records[i].Bank)
			}
		})
	}
}

func TestScraper_CityLowercased(t *testing.T) {
	var gotCity string

	client := &MockPageClient{
		FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
			gotCity = city
			return "", errors.New("stop here")
		},
	}

	s, _ := newTestScraper(client)
	s.GetExchangeRates(context.Background(), "usd")

	assert.Equal(t, "kiev", gotCity)
}

func TestScraper_Metrics(t *testing.T) {
	testCases := []struct {
		name         string
		client       MockPageClient
		wantScrapes  float64
		wantFailures float64
	}{
		{
			name: "fetch failure counts as failure",
			client: MockPageClient{
				FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
					return "", errors.Wrap(entities.ErrPageUnavailable, "3 attempts")
				},
			},
			wantFailures: 1,
		},
		{
			name: "missing table counts as a scrape with no data",
			client: MockPageClient{
				FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
					return `<html><body><table id="menu"><tbody><tr><td>x</td></tr></tbody></table></body></html>`, nil
				},
			},
			wantScrapes: 1,
		},
		{
			name: "extracted records count as a scrape",
			client: MockPageClient{
				FetchPageFunc: func(ctx context.Context, city, currency string) (string, error) {
					return ratesPage, nil
				},
			},
			wantScrapes: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newTestScraper(&tc.client)

			s.GetExchangeRates(context.Background(), "usd")

			assert.Equal(t, tc.wantScrapes, testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("usd")))
			assert.Equal(t, tc.wantFailures, testutil.ToFloat64(m.ScrapeFailuresTotal.WithLabelValues("usd")))
		})
	}
}
