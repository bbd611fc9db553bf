package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"crm-backend/internal/config"
	"crm-backend/internal/metrics"
	"crm-backend/internal/models"
	"crm-backend/internal/notify"
	"crm-backend/internal/timeutil"
)

// Scheduler runs the daily briefing job at a fixed local hour. It reuses the
// AlertService so the pushed digest and the interactive alert queries can
// never disagree.
type Scheduler struct {
	Alerts   *AlertService
	Provider notify.Provider
	cfg      *config.Config

	// onDigest, when set, receives each dispatched summary (monitoring feed)
	onDigest func(models.AlertSummary)

	now func() time.Time
}

func NewScheduler(alerts *AlertService, provider notify.Provider, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Alerts:   alerts,
		Provider: provider,
		cfg:      cfg,
		now:      timeutil.Now,
	}
}

// OnDigest registers a callback invoked after each dispatched digest
func (s *Scheduler) OnDigest(fn func(models.AlertSummary)) {
	s.onDigest = fn
}

// Start launches the daily loop. Returns immediately; the loop stops when
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		next := s.nextRun()
		log.Printf("[Scheduler] Next daily briefing at %s", next.Format(timeutil.DateTimeLayout))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Printf("[Scheduler] Daily briefing failed: %v", err)
		}
	}
}

// nextRun returns the next occurrence of the configured send hour
func (s *Scheduler) nextRun() time.Time {
	now := s.now()
	next := timeutil.StartOfDay(now).Add(time.Duration(s.cfg.Notify.SendHour) * time.Hour)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce computes the current at-risk list and pushes the digest to every
// configured recipient. Also used by the manual trigger endpoint.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	list, err := s.Alerts.Alerts(ctx, 0)
	if err != nil {
		return fmt.Errorf("compute alerts: %w", err)
	}

	if list.Summary.Total == 0 {
		log.Printf("[Scheduler] No at-risk customers today, skipping digest")
		return nil
	}

	message := FormatDigest(list, timeutil.StartOfDay(s.now()))

	if s.Provider == nil {
		log.Printf("[Scheduler] Notifications disabled, digest not sent (%d at risk)", list.Summary.Total)
	} else {
		for _, recipient := range s.cfg.Notify.Recipients {
			if err := s.Provider.Send(recipient, message); err != nil {
				log.Printf("[Scheduler] Send to %s via %s failed: %v", recipient, s.Provider.Name(), err)
				continue
			}
		}
		metrics.BriefingsDispatched.Inc()
		log.Printf("[Scheduler] Digest dispatched via %s (%d at risk)", s.Provider.Name(), list.Summary.Total)
	}

	if s.onDigest != nil {
		s.onDigest(list.Summary)
	}
	return nil
}

// FormatDigest renders the at-risk list as a plain-text daily digest
func FormatDigest(list *models.AlertList, date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Retention Briefing %s\n", date.Format(timeutil.DateLayout))
	fmt.Fprintf(&b, "At risk: %d (critical %d, high %d, medium %d)\n",
		list.Summary.Total, list.Summary.Critical, list.Summary.High, list.Summary.Medium)

	shown := 0
	for _, a := range list.Alerts {
		if a.Tier != models.RiskTierCritical {
			continue
		}
		if shown == 10 {
			fmt.Fprintf(&b, "  ... and %d more critical\n", list.Summary.Critical-shown)
			break
		}
		fmt.Fprintf(&b, "  %s / %s: %d days silent", a.CustomerName, a.ProductName, a.DaysSinceDeposit)
		if a.Overdue {
			fmt.Fprintf(&b, " (overdue by %.0f)", a.OverdueBy)
		}
		b.WriteString("\n")
		shown++
	}
	return b.String()
}
