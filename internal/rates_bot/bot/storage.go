package bot

import "bankrates/internal/entities"

// SubscriptionStore owns the subscriber map. Mutations persist the whole
// map synchronously; Save exists for the shutdown path.
type SubscriptionStore interface {
	Get(userID string) (*entities.Subscription, bool)
	AddOrUpdate(userID string, sub entities.Subscription) error
	Remove(userID string) bool
	Count() int
	All() []entities.SubscriptionEntry
	Save() error
}
