package services

import (
	"testing"
	"time"

	"crm-backend/internal/models"
)

func depositWith(id int, date time.Time, class models.DepositClass, total float64) *models.DepositRecord {
	r := rec(id, 1, 1, date, class)
	r.CustomerName = "Customer One"
	r.ProductName = "Product A"
	r.Total = total
	return r
}

func TestBuildProfileTwoDeposits(t *testing.T) {
	today := day(2025, 3, 6)
	records := []*models.DepositRecord{
		depositWith(1, day(2025, 3, 1), models.DepositClassNDP, 100),
		depositWith(2, day(2025, 3, 5), models.DepositClassRDP, 400),
	}

	p := buildProfile(records, today)

	if p.TotalDeposits != 2 {
		t.Errorf("TotalDeposits = %d, want 2", p.TotalDeposits)
	}
	if p.TotalOmset != 500 {
		t.Errorf("TotalOmset = %v, want 500", p.TotalOmset)
	}
	if p.AvgDeposit != 250 {
		t.Errorf("AvgDeposit = %v, want 250", p.AvgDeposit)
	}
	if p.UniqueDays != 2 {
		t.Errorf("UniqueDays = %d, want 2", p.UniqueDays)
	}
	if p.AvgDaysBetween != 4 {
		t.Errorf("AvgDaysBetween = %v, want 4", p.AvgDaysBetween)
	}
	if p.IsNDP {
		t.Error("pair with an RDP record must not be NDP")
	}
	if p.FirstDeposit == nil || !p.FirstDeposit.Equal(day(2025, 3, 1)) {
		t.Errorf("FirstDeposit = %v", p.FirstDeposit)
	}
	if p.LastDeposit == nil || !p.LastDeposit.Equal(day(2025, 3, 5)) {
		t.Errorf("LastDeposit = %v", p.LastDeposit)
	}
	// 2 deposits * 10 + recency bonus 30 (last deposit 1 day ago)
	if p.LoyaltyScore != 50 {
		t.Errorf("LoyaltyScore = %d, want 50", p.LoyaltyScore)
	}
	if p.LoyaltyTier != models.LoyaltyTierLoyal {
		t.Errorf("LoyaltyTier = %s, want Loyal", p.LoyaltyTier)
	}
}

func TestBuildProfileSingleDeposit(t *testing.T) {
	today := day(2025, 3, 20)
	records := []*models.DepositRecord{
		depositWith(1, day(2025, 3, 1), models.DepositClassNDP, 100),
	}

	p := buildProfile(records, today)

	if !p.IsNDP {
		t.Error("single NDP deposit must be NDP")
	}
	// Undefined below two deposits
	if p.AvgDaysBetween != 0 {
		t.Errorf("AvgDaysBetween = %v, want 0 (undefined)", p.AvgDaysBetween)
	}
	// 10 points, no recency bonus at 19 days
	if p.LoyaltyScore != 10 {
		t.Errorf("LoyaltyScore = %d, want 10", p.LoyaltyScore)
	}
	if p.LoyaltyTier != models.LoyaltyTierNew {
		t.Errorf("LoyaltyTier = %s, want New", p.LoyaltyTier)
	}
}

func TestBuildProfileEmpty(t *testing.T) {
	p := buildProfile(nil, day(2025, 3, 1))
	if p.TotalDeposits != 0 || p.FirstDeposit != nil || p.LastDeposit != nil {
		t.Errorf("empty profile = %+v", p)
	}
}

func TestBuildProfileSameDayDeposits(t *testing.T) {
	today := day(2025, 3, 2)
	records := []*models.DepositRecord{
		depositWith(1, day(2025, 3, 1), models.DepositClassNDP, 100),
		depositWith(2, day(2025, 3, 1), models.DepositClassRDP, 200),
	}

	p := buildProfile(records, today)
	if p.UniqueDays != 1 {
		t.Errorf("UniqueDays = %d, want 1", p.UniqueDays)
	}
	if p.AvgDaysBetween != 0 {
		t.Errorf("AvgDaysBetween same-day = %v, want 0", p.AvgDaysBetween)
	}
}

func TestLoyaltyScoreCapAndBonuses(t *testing.T) {
	today := day(2025, 3, 10)

	cases := []struct {
		deposits int
		last     time.Time
		want     int
	}{
		{1, day(2025, 3, 9), 40},   // 10 + 30 (1 day)
		{1, day(2025, 3, 5), 30},   // 10 + 20 (5 days)
		{1, day(2025, 3, 1), 20},   // 10 + 10 (9 days)
		{1, day(2025, 2, 1), 10},   // 10 + 0
		{12, day(2025, 3, 10), 100}, // capped
	}
	for _, c := range cases {
		if got := loyaltyScore(c.deposits, c.last, today); got != c.want {
			t.Errorf("loyaltyScore(%d, %s) = %d, want %d", c.deposits, c.last.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestLoyaltyTierBoundaries(t *testing.T) {
	cases := map[int]string{
		100: models.LoyaltyTierVIP,
		80:  models.LoyaltyTierVIP,
		79:  models.LoyaltyTierLoyal,
		50:  models.LoyaltyTierLoyal,
		49:  models.LoyaltyTierRegular,
		30:  models.LoyaltyTierRegular,
		29:  models.LoyaltyTierNew,
		0:   models.LoyaltyTierNew,
	}
	for score, want := range cases {
		if got := loyaltyTier(score); got != want {
			t.Errorf("loyaltyTier(%d) = %s, want %s", score, got, want)
		}
	}
}
