package bot

import (
	"context"

	"bankrates/internal/entities"
)

type RateSource interface {
	GetExchangeRates(ctx context.Context, currency string) []entities.ExchangeRateRecord
}
