package entities

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
)

type Schedule string

const (
	ScheduleDaily  Schedule = "daily"
	ScheduleWeekly Schedule = "weekly"
)

// WeeklyDay is the fixed weekday on which weekly subscriptions fire.
const WeeklyDay = time.Sunday

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Subscription is a user's delivery rule: which currencies to report and
// when. Currencies keep insertion order and hold no duplicates.
type Subscription struct {
	Currencies []string `json:"currencies"`
	Schedule   Schedule `json:"schedule"`
	Time       string   `json:"time"`
}

// SubscriptionEntry pairs a subscription with its owner for iteration.
type SubscriptionEntry struct {
	UserID       string
	Subscription Subscription
}

func NewSubscription(currencies []string, schedule Schedule, timeOfDay string) (*Subscription, error) {
	const op = "entities.NewSubscription"

	sub := &Subscription{
		Schedule: schedule,
		Time:     timeOfDay,
	}

	for _, c := range currencies {
		sub.AddCurrency(c)
	}

	if err := sub.Validate(); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return sub, nil
}

func (s *Subscription) Validate() error {
	if s.Schedule != ScheduleDaily && s.Schedule != ScheduleWeekly {
		return errors.Errorf("unknown schedule %q", s.Schedule)
	}

	if !timeOfDayRe.MatchString(s.Time) {
		return errors.Errorf("bad notification time %q, want HH:MM", s.Time)
	}

	seen := make(map[string]struct{}, len(s.Currencies))
	for _, c := range s.Currencies {
		if _, ok := seen[c]; ok {
			return errors.Errorf("duplicate currency %q", c)
		}
		seen[c] = struct{}{}
	}

	return nil
}

// AddCurrency appends a currency, keeping insertion order. It reports
// false when the currency is already subscribed.
func (s *Subscription) AddCurrency(currency string) bool {
	for _, c := range s.Currencies {
		if c == currency {
			return false
		}
	}

	s.Currencies = append(s.Currencies, currency)

	return true
}

// DueAt reports whether the subscription fires on a tick happening at t.
// Matching is exact to the minute, there is no tolerance window.
func (s *Subscription) DueAt(t time.Time) bool {
	if s.Time != t.Format("15:04") {
		return false
	}

	return s.Schedule == ScheduleDaily ||
		(s.Schedule == ScheduleWeekly && t.Weekday() == WeeklyDay)
}
