package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/recurrence"
	"github.com/mseewaters/kitchen-tracker/internal/status"
	"github.com/mseewaters/kitchen-tracker/internal/store"
)

const defaultSummaryHour = 7

// Scheduler sends the once-a-day summary of due and overdue activities to
// every subscribed device.
type Scheduler struct {
	mu         sync.RWMutex
	service    *Service
	push       *store.PushStore
	activities *store.ActivityStore
	settings   *store.SettingsStore
	loc        *time.Location
	logger     *slog.Logger
	interval   time.Duration
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewScheduler creates a notification scheduler. loc is the household
// timezone used to decide when "morning" happens.
func NewScheduler(svc *Service, pushStore *store.PushStore, activityStore *store.ActivityStore, settingsStore *store.SettingsStore, loc *time.Location, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:    svc,
		push:       pushStore,
		activities: activityStore,
		settings:   settingsStore,
		loc:        loc,
		logger:     logger,
		interval:   60 * time.Second,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now().In(s.location()))
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// location honors the household_timezone setting so the summary hour
// tracks a timezone change without a restart.
func (s *Scheduler) location() *time.Location {
	tz, err := s.settings.GetOrDefault("household_timezone", "")
	if err == nil && tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return s.loc
}

func (s *Scheduler) tick(now time.Time) {
	if !s.service.Enabled() {
		return
	}
	if now.Minute() != 0 {
		return
	}

	hourStr, err := s.settings.GetOrDefault("summary_hour", strconv.Itoa(defaultSummaryHour))
	if err != nil {
		s.logger.Error("read summary hour", "error", err)
		return
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		hour = defaultSummaryHour
	}
	if now.Hour() != hour {
		return
	}

	refID := now.Format("2006-01-02")
	sent, err := s.push.WasSent(model.NotifTypeDailySummary, refID)
	if err != nil || sent {
		return
	}

	due, overdue, err := s.countDueAndOverdue(now)
	if err != nil {
		s.logger.Error("compute daily summary", "error", err)
		return
	}
	if due == 0 && overdue == 0 {
		s.push.RecordSent(model.NotifTypeDailySummary, refID)
		return
	}

	body := fmt.Sprintf("%d due today", due)
	if overdue > 0 {
		body = fmt.Sprintf("%d due today, %d overdue", due, overdue)
	}

	s.broadcast(Payload{
		Title: "Kitchen Tracker",
		Body:  body,
		URL:   "/",
		Tag:   "daily-summary",
	})
	s.push.RecordSent(model.NotifTypeDailySummary, refID)
}

// countDueAndOverdue runs every active activity through the status engine
// for today.
func (s *Scheduler) countDueAndOverdue(now time.Time) (due, overdue int, err error) {
	today := recurrence.StartOfDay(now)

	activities, err := s.activities.List()
	if err != nil {
		return 0, 0, fmt.Errorf("list activities: %w", err)
	}

	for _, a := range activities {
		rule, err := status.RuleFor(a)
		if err != nil {
			s.logger.Warn("skip activity with bad recurrence", "activity_id", a.ID, "error", err)
			continue
		}
		latest, err := s.activities.LatestCompletionOnOrBefore(a.ID, today)
		if err != nil {
			return 0, 0, fmt.Errorf("latest completion: %w", err)
		}
		var last *time.Time
		if latest != nil {
			last = &latest.CompletedDate
		}

		report := status.Compute(rule, last, today)
		switch report.Status {
		case status.StatusDue:
			due++
		case status.StatusOverdue:
			overdue++
		}
	}
	return due, overdue, nil
}

// SendTest pushes a test notification to every subscription. Used by the
// settings page to verify a device is wired up.
func (s *Scheduler) SendTest() {
	s.broadcast(Payload{
		Title: "Kitchen Tracker",
		Body:  "Test notification. Everything is working.",
		Tag:   "test",
	})
}

func (s *Scheduler) broadcast(payload Payload) {
	subs, err := s.push.List()
	if err != nil {
		s.logger.Error("list push subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.push.DeleteByEndpoint(sub.Endpoint)
			} else {
				s.logger.Warn("send push", "endpoint", sub.Endpoint, "error", err)
			}
		}
	}
}
