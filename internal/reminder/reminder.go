// Package reminder runs the daily expense-logging reminder loop.
//
// The loop has no data dependency on the ledger beyond a read-only "was
// anything recorded today" check. Delivery goes through the Notifier
// interface; the host environment's notification mechanism plugs in there.
package reminder

import (
	"context"
	"time"

	"gitlab.com/financeio/financeio/internal/logger"
)

const (
	// CheckInterval is how often the loop checks whether to send a reminder.
	CheckInterval = 30 * time.Minute
	// CheckTimeout is the maximum time a single reminder check can take.
	CheckTimeout = 2 * time.Minute
)

const reminderMessage = "You haven't recorded any expenses today. Don't forget to track your spending!"

// Checker reports whether any expense is dated within [start, end).
type Checker interface {
	HasExpenseBetween(ctx context.Context, start, end time.Time) (bool, error)
}

// Notifier delivers a reminder message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, message string) error {
	logger.Log.Info().Msg(message)
	return nil
}

// Loop is the daily reminder loop.
type Loop struct {
	enabled  bool
	hour     int
	timezone string
	checker  Checker
	notifier Notifier
	now      func() time.Time
}

// NewLoop creates a reminder loop that fires once per day at the given hour
// in the given timezone, when no expense has been recorded that day.
func NewLoop(enabled bool, hour int, timezone string, checker Checker, notifier Notifier) *Loop {
	return &Loop{
		enabled:  enabled,
		hour:     hour,
		timezone: timezone,
		checker:  checker,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run blocks until ctx is done, checking every CheckInterval.
func (l *Loop) Run(ctx context.Context) {
	if !l.enabled {
		logger.Log.Info().Msg("Daily reminder is disabled")
		return
	}

	loc, err := time.LoadLocation(l.timezone)
	if err != nil {
		logger.Log.Error().Err(err).Str("timezone", l.timezone).Msg("Failed to load reminder timezone, disabling reminders")
		return
	}

	logger.Log.Info().
		Int("hour", l.hour).
		Str("timezone", l.timezone).
		Msg("Daily reminder loop started")

	var lastSent string
	ticker := time.NewTicker(CheckInterval)
	defer ticker.Stop()

	// Run one check immediately so the reminder isn't skipped when the
	// process starts during the configured reminder hour.
	lastSent = l.check(ctx, loc, lastSent)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Daily reminder loop stopped")
			return
		case <-ticker.C:
			lastSent = l.check(ctx, loc, lastSent)
		}
	}
}

// check sends the reminder when it is the configured hour, nothing was
// recorded today, and no reminder went out today yet. It returns the date
// string of the last sent reminder.
func (l *Loop) check(ctx context.Context, loc *time.Location, lastSent string) string {
	now := l.now().In(loc)
	if now.Hour() != l.hour {
		return lastSent
	}

	todayStr := now.Format("2006-01-02")
	if lastSent == todayStr {
		return lastSent
	}

	checkCtx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	logged, err := l.checker.HasExpenseBetween(checkCtx, startOfDay, endOfDay)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to check today's expenses for reminder")
		return lastSent
	}
	if logged {
		return lastSent
	}

	if err := l.notifier.Notify(checkCtx, reminderMessage); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to send daily reminder")
		return lastSent
	}

	logger.Log.Debug().Msg("Sent daily reminder")
	return todayStr
}
