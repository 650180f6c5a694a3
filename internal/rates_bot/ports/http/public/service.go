package public

import (
	"context"

	"bankrates/internal/entities"
)

type RateSource interface {
	GetExchangeRates(ctx context.Context, currency string) []entities.ExchangeRateRecord
}

type SubscriptionStore interface {
	Get(userID string) (*entities.Subscription, bool)
	AddOrUpdate(userID string, sub entities.Subscription) error
	Remove(userID string) bool
	Count() int
	All() []entities.SubscriptionEntry
}
