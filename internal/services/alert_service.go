package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crm-backend/internal/config"
	"crm-backend/internal/metrics"
	"crm-backend/internal/models"
	"crm-backend/internal/repositories"
	"crm-backend/internal/timeutil"
)

// Risk tier boundaries in days since the last deposit
const (
	mediumRiskDays   = 3
	highRiskDays     = 7
	criticalRiskDays = 14
)

// AlertService computes the at-risk customer list and the daily briefing.
// Tiers are a pure function of days since the last deposit, recomputed fresh
// on every query; nothing about a tier is ever stored.
type AlertService struct {
	Deposits   *repositories.DepositRepository
	Dismissals *repositories.DismissalRepository
	Briefings  *repositories.BriefingRepository
	cfg        *config.Config

	now func() time.Time
}

func NewAlertService(
	deposits *repositories.DepositRepository,
	dismissals *repositories.DismissalRepository,
	briefings *repositories.BriefingRepository,
	cfg *config.Config,
) *AlertService {
	return &AlertService{
		Deposits:   deposits,
		Dismissals: dismissals,
		Briefings:  briefings,
		cfg:        cfg,
		now:        timeutil.Now,
	}
}

// Alerts returns the current at-risk list, excluding actively dismissed pairs
func (s *AlertService) Alerts(ctx context.Context, productID int) (*models.AlertList, error) {
	records, err := s.Deposits.ListSurviving(ctx, productID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	dismissed, err := s.Dismissals.ActivePairs(ctx, timeutil.StartOfDay(today))
	if err != nil {
		return nil, err
	}

	alerts := computeAlerts(records, dismissed, today)
	for _, a := range alerts {
		metrics.AlertsComputed.WithLabelValues(string(a.Tier)).Inc()
	}
	return &models.AlertList{Alerts: alerts, Summary: summarize(alerts)}, nil
}

// Dismiss suppresses one (customer, product) pair for the configured
// cooldown. Idempotent: re-dismissing refreshes the cooldown, last write wins.
func (s *AlertService) Dismiss(ctx context.Context, customerID, productID, dismissedBy int) (*models.AlertDismissal, error) {
	if customerID <= 0 || productID <= 0 {
		return nil, fmt.Errorf("customer_id and product_id are required")
	}
	today := timeutil.StartOfDay(s.now())
	d := &models.AlertDismissal{
		CustomerID:     customerID,
		ProductID:      productID,
		DismissedBy:    dismissedBy,
		DismissedUntil: today.AddDate(0, 0, s.cfg.Alerts.DismissCooldownDays),
	}
	if err := s.Dismissals.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Briefing assembles the once-per-day digest for a viewer. show is true only
// when the viewer has not seen it today and there is something to show.
func (s *AlertService) Briefing(ctx context.Context, viewerID int) (*models.DailyBriefing, error) {
	today := s.now()

	list, err := s.Alerts(ctx, 0)
	if err != nil {
		return nil, err
	}

	b := &models.DailyBriefing{
		Date:               timeutil.StartOfDay(today).Format(timeutil.DateLayout),
		AtRisk:             groupByTier(list.Alerts),
		FollowupsByProduct: followupsByProduct(list.Alerts),
	}

	lastShown, err := s.Briefings.LastShown(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	b.Show = briefingShow(lastShown, today, list.Summary.Total > 0 || len(b.FollowupsByProduct) > 0)
	return b, nil
}

// DismissBriefing stamps the viewer's last-shown date to today, regardless of
// briefing content. Idempotent within a day.
func (s *AlertService) DismissBriefing(ctx context.Context, viewerID int) error {
	return s.Briefings.MarkShown(ctx, viewerID, timeutil.StartOfDay(s.now()))
}

// ---- pure computation ----

// riskTier maps days since last deposit to a tier
func riskTier(daysSince int) models.RiskTier {
	switch {
	case daysSince >= criticalRiskDays:
		return models.RiskTierCritical
	case daysSince >= highRiskDays:
		return models.RiskTierHigh
	case daysSince >= mediumRiskDays:
		return models.RiskTierMedium
	default:
		return models.RiskTierHealthy
	}
}

// computeAlerts derives the at-risk list from the full surviving ledger.
// records must be in classification order. A pair enters the pool only with
// at least one deposit and no active dismissal.
func computeAlerts(records []*models.DepositRecord, dismissed map[repositories.PairKey]time.Time, today time.Time) []*models.RiskAlert {
	pairs := groupByPair(records)

	var alerts []*models.RiskAlert
	for k, group := range pairs {
		if _, ok := dismissed[repositories.PairKey{CustomerID: k.CustomerID, ProductID: k.ProductID}]; ok {
			continue
		}

		p := buildProfile(group, today)
		daysSince := timeutil.DaysBetween(*p.LastDeposit, today)
		tier := riskTier(daysSince)
		if tier == models.RiskTierHealthy {
			continue
		}

		a := &models.RiskAlert{
			CustomerID:       k.CustomerID,
			CustomerName:     p.CustomerName,
			ProductID:        k.ProductID,
			ProductName:      p.ProductName,
			Tier:             tier,
			DaysSinceDeposit: daysSince,
			LastDeposit:      *p.LastDeposit,
			TotalDeposits:    p.TotalDeposits,
			TotalOmset:       p.TotalOmset,
			AvgDaysBetween:   p.AvgDaysBetween,
		}
		// Overdue means the silence is more than twice this customer's own
		// rhythm; only meaningful with a defined average gap
		if p.AvgDaysBetween > 0 && float64(daysSince) > 2*p.AvgDaysBetween {
			a.Overdue = true
			a.OverdueBy = round2(float64(daysSince) - p.AvgDaysBetween)
		}
		alerts = append(alerts, a)
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].DaysSinceDeposit != alerts[j].DaysSinceDeposit {
			return alerts[i].DaysSinceDeposit > alerts[j].DaysSinceDeposit
		}
		if alerts[i].CustomerID != alerts[j].CustomerID {
			return alerts[i].CustomerID < alerts[j].CustomerID
		}
		return alerts[i].ProductID < alerts[j].ProductID
	})
	return alerts
}

func summarize(alerts []*models.RiskAlert) models.AlertSummary {
	var s models.AlertSummary
	for _, a := range alerts {
		switch a.Tier {
		case models.RiskTierCritical:
			s.Critical++
		case models.RiskTierHigh:
			s.High++
		case models.RiskTierMedium:
			s.Medium++
		}
	}
	s.Total = s.Critical + s.High + s.Medium
	return s
}

func groupByTier(alerts []*models.RiskAlert) models.AtRiskGroups {
	g := models.AtRiskGroups{
		Critical: []*models.RiskAlert{},
		High:     []*models.RiskAlert{},
		Medium:   []*models.RiskAlert{},
	}
	for _, a := range alerts {
		switch a.Tier {
		case models.RiskTierCritical:
			g.Critical = append(g.Critical, a)
		case models.RiskTierHigh:
			g.High = append(g.High, a)
		case models.RiskTierMedium:
			g.Medium = append(g.Medium, a)
		}
	}
	g.Totals = summarize(alerts)
	return g
}

func followupsByProduct(alerts []*models.RiskAlert) []*models.ProductFollowup {
	byProduct := make(map[int]*models.ProductFollowup)
	for _, a := range alerts {
		f := byProduct[a.ProductID]
		if f == nil {
			f = &models.ProductFollowup{ProductID: a.ProductID, ProductName: a.ProductName}
			byProduct[a.ProductID] = f
		}
		f.AtRisk++
		if a.Tier == models.RiskTierCritical {
			f.Critical++
		}
	}

	out := make([]*models.ProductFollowup, 0, len(byProduct))
	for _, f := range byProduct {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// briefingShow decides whether to surface the briefing: not yet shown today,
// and there is content
func briefingShow(lastShown *time.Time, today time.Time, hasContent bool) bool {
	if !hasContent {
		return false
	}
	if lastShown == nil {
		return true
	}
	return !timeutil.SameDay(*lastShown, today)
}
