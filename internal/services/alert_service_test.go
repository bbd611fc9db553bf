package services

import (
	"strings"
	"testing"
	"time"

	"crm-backend/internal/models"
	"crm-backend/internal/repositories"
)

func TestRiskTierBoundaries(t *testing.T) {
	cases := map[int]models.RiskTier{
		0:  models.RiskTierHealthy,
		2:  models.RiskTierHealthy,
		3:  models.RiskTierMedium,
		6:  models.RiskTierMedium,
		7:  models.RiskTierHigh,
		13: models.RiskTierHigh,
		14: models.RiskTierCritical,
		60: models.RiskTierCritical,
	}
	for days, want := range cases {
		if got := riskTier(days); got != want {
			t.Errorf("riskTier(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestComputeAlertsTiersAndOverdue(t *testing.T) {
	today := day(2025, 3, 20)

	// Customer 1 / product 1: deposits Mar 1 and Mar 5, silent since.
	// 15 days of silence on a 4-day rhythm: critical and overdue.
	r1 := rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP)
	r2 := rec(2, 1, 1, day(2025, 3, 5), models.DepositClassRDP)
	// Customer 2 / product 1: deposited today, never listed.
	r3 := rec(3, 2, 1, day(2025, 3, 20), models.DepositClassNDP)
	// Customer 3 / product 1: single deposit 5 days ago, medium, no rhythm.
	r4 := rec(4, 3, 1, day(2025, 3, 15), models.DepositClassNDP)

	alerts := computeAlerts([]*models.DepositRecord{r1, r2, r3, r4}, nil, today)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}

	// Sorted most silent first
	a := alerts[0]
	if a.CustomerID != 1 || a.Tier != models.RiskTierCritical {
		t.Errorf("alert[0] = %+v", a)
	}
	if a.DaysSinceDeposit != 15 {
		t.Errorf("DaysSinceDeposit = %d, want 15", a.DaysSinceDeposit)
	}
	if !a.Overdue {
		t.Error("15 days on a 4-day rhythm must be overdue")
	}
	if a.OverdueBy != 11 {
		t.Errorf("OverdueBy = %v, want 11", a.OverdueBy)
	}

	b := alerts[1]
	if b.CustomerID != 3 || b.Tier != models.RiskTierMedium {
		t.Errorf("alert[1] = %+v", b)
	}
	// Single deposit: no defined rhythm, never overdue
	if b.Overdue || b.OverdueBy != 0 {
		t.Errorf("single-deposit pair flagged overdue: %+v", b)
	}
}

func TestComputeAlertsDismissal(t *testing.T) {
	today := day(2025, 3, 20)
	r1 := rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP)

	dismissed := map[repositories.PairKey]time.Time{
		{CustomerID: 1, ProductID: 1}: day(2025, 3, 25),
	}
	if alerts := computeAlerts([]*models.DepositRecord{r1}, dismissed, today); len(alerts) != 0 {
		t.Errorf("dismissed pair still listed: %+v", alerts)
	}

	// After the cooldown lapses the repository stops returning the pair,
	// and the alert reappears with no re-arm step.
	if alerts := computeAlerts([]*models.DepositRecord{r1}, nil, today); len(alerts) != 1 {
		t.Errorf("lapsed dismissal did not resurface the alert")
	}
}

func TestComputeAlertsDismissalScopedToPair(t *testing.T) {
	today := day(2025, 3, 20)
	r1 := rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP)
	r2 := rec(2, 1, 2, day(2025, 3, 1), models.DepositClassNDP)

	dismissed := map[repositories.PairKey]time.Time{
		{CustomerID: 1, ProductID: 1}: day(2025, 3, 25),
	}
	alerts := computeAlerts([]*models.DepositRecord{r1, r2}, dismissed, today)
	if len(alerts) != 1 || alerts[0].ProductID != 2 {
		t.Errorf("dismissal must only cover its own pair, got %+v", alerts)
	}
}

func TestSummarize(t *testing.T) {
	alerts := []*models.RiskAlert{
		{Tier: models.RiskTierCritical},
		{Tier: models.RiskTierCritical},
		{Tier: models.RiskTierHigh},
		{Tier: models.RiskTierMedium},
	}
	s := summarize(alerts)
	if s.Critical != 2 || s.High != 1 || s.Medium != 1 || s.Total != 4 {
		t.Errorf("summary = %+v", s)
	}
}

func TestGroupByTier(t *testing.T) {
	alerts := []*models.RiskAlert{
		{Tier: models.RiskTierMedium, CustomerID: 1},
		{Tier: models.RiskTierCritical, CustomerID: 2},
	}
	g := groupByTier(alerts)
	if len(g.Critical) != 1 || len(g.High) != 0 || len(g.Medium) != 1 {
		t.Errorf("groups = %d/%d/%d", len(g.Critical), len(g.High), len(g.Medium))
	}
	if g.Totals.Total != 2 {
		t.Errorf("totals = %+v", g.Totals)
	}
}

func TestFollowupsByProduct(t *testing.T) {
	alerts := []*models.RiskAlert{
		{ProductID: 2, ProductName: "B", Tier: models.RiskTierCritical},
		{ProductID: 1, ProductName: "A", Tier: models.RiskTierMedium},
		{ProductID: 1, ProductName: "A", Tier: models.RiskTierCritical},
	}
	out := followupsByProduct(alerts)
	if len(out) != 2 {
		t.Fatalf("got %d products, want 2", len(out))
	}
	if out[0].ProductID != 1 || out[0].AtRisk != 2 || out[0].Critical != 1 {
		t.Errorf("product 1 = %+v", out[0])
	}
	if out[1].ProductID != 2 || out[1].AtRisk != 1 || out[1].Critical != 1 {
		t.Errorf("product 2 = %+v", out[1])
	}
}

func TestBriefingShow(t *testing.T) {
	today := day(2025, 3, 20).Add(9 * time.Hour)

	if briefingShow(nil, today, true) != true {
		t.Error("never shown with content must show")
	}
	if briefingShow(nil, today, false) != false {
		t.Error("no content must never show")
	}

	sameDay := day(2025, 3, 20)
	if briefingShow(&sameDay, today, true) != false {
		t.Error("already shown today must not show again")
	}

	yesterday := day(2025, 3, 19)
	if briefingShow(&yesterday, today, true) != true {
		t.Error("shown yesterday must show again today")
	}
}

func TestFormatDigest(t *testing.T) {
	list := &models.AlertList{
		Alerts: []*models.RiskAlert{
			{
				CustomerName:     "Customer One",
				ProductName:      "Product A",
				Tier:             models.RiskTierCritical,
				DaysSinceDeposit: 15,
				Overdue:          true,
				OverdueBy:        11,
			},
			{
				CustomerName:     "Customer Two",
				ProductName:      "Product A",
				Tier:             models.RiskTierMedium,
				DaysSinceDeposit: 4,
			},
		},
		Summary: models.AlertSummary{Critical: 1, Medium: 1, Total: 2},
	}

	msg := FormatDigest(list, day(2025, 3, 20))
	if !strings.Contains(msg, "2025-03-20") {
		t.Errorf("digest missing date:\n%s", msg)
	}
	if !strings.Contains(msg, "At risk: 2 (critical 1, high 0, medium 1)") {
		t.Errorf("digest missing summary:\n%s", msg)
	}
	if !strings.Contains(msg, "Customer One / Product A: 15 days silent (overdue by 11)") {
		t.Errorf("digest missing critical line:\n%s", msg)
	}
	// Only critical pairs are itemized
	if strings.Contains(msg, "Customer Two") {
		t.Errorf("digest lists non-critical pair:\n%s", msg)
	}
}
