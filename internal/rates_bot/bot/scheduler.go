package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"bankrates/internal/entities"
	"bankrates/internal/metrics"
)

// Scheduler is the notification loop. Once per tick it scans every
// subscription, and for each one due at the current minute fetches the
// subscribed currencies and delivers a formatted message. Failures are
// isolated per (user, currency) pair; only cancellation stops the loop.
type Scheduler struct {
	store    SubscriptionStore
	rates    RateSource
	delivery Delivery
	metrics  *metrics.Metrics
	tick     time.Duration

	now func() time.Time
}

func NewScheduler(store SubscriptionStore, rates RateSource, delivery Delivery, m *metrics.Metrics, tick time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		rates:    rates,
		delivery: delivery,
		metrics:  m,
		tick:     tick,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. Ticks are strictly sequential: the
// next scan never starts before the previous one finished. On cancellation
// the subscription map is saved one final time before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	const op = "bot.Scheduler.Run"

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	slog.Info("notification scheduler started", "tick", s.tick)

	s.ProcessTick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("notification scheduler stopping")
			if err := s.store.Save(); err != nil {
				slog.Error("failed to save subscriptions on shutdown", "error", err)
			}
			return errors.Wrap(ctx.Err(), op)
		case <-ticker.C:
			s.ProcessTick(ctx)
		}
	}
}

// ProcessTick runs one scan over all subscriptions. A panic escaping the
// per-user isolation is caught here so the loop keeps running.
func (s *Scheduler) ProcessTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler tick panicked", "panic", r)
		}
	}()

	now := s.now()

	for _, entry := range s.store.All() {
		if !entry.Subscription.DueAt(now) {
			continue
		}

		s.notifyUser(ctx, entry.UserID, entry.Subscription, now)
	}
}

// notifyUser fans out the user's currencies concurrently and waits for
// all of them before the scan moves on.
func (s *Scheduler) notifyUser(ctx context.Context, userID string, sub entities.Subscription, now time.Time) {
	var wg sync.WaitGroup

	for _, currency := range sub.Currencies {
		wg.Add(1)
		go func(currency string) {
			defer wg.Done()
			s.notifyCurrency(ctx, userID, currency, now)
		}(currency)
	}

	wg.Wait()
}

func (s *Scheduler) notifyCurrency(ctx context.Context, userID, currency string, now time.Time) {
	// Runs on its own goroutine; a recover here is the only thing
	// standing between a panicking collaborator and process exit.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("notification panicked",
				"user", userID, "currency", currency, "panic", r)
			s.metrics.NotificationFailuresTotal.Inc()
		}
	}()

	records := s.rates.GetExchangeRates(ctx, currency)

	text := FormatExchangeRates(records, currency, now)

	if err := s.delivery.Send(ctx, userID, text); err != nil {
		slog.Error("failed to deliver notification",
			"user", userID, "currency", currency, "error", err)
		s.metrics.NotificationFailuresTotal.Inc()
		return
	}

	slog.Info("notification sent", "user", userID, "currency", currency)
	s.metrics.NotificationsSentTotal.Inc()
}
