package services

import (
	"math"
	"time"

	"crm-backend/internal/models"
	"crm-backend/internal/timeutil"
)

// buildProfile folds one pair's records into a CustomerDepositProfile.
// The records must be in classification order and already scoped by the
// caller: windowed for retention scoring, all-time for risk arithmetic.
// Pure given its inputs; nothing is cached.
func buildProfile(records []*models.DepositRecord, today time.Time) *models.CustomerDepositProfile {
	if len(records) == 0 {
		return &models.CustomerDepositProfile{}
	}

	p := &models.CustomerDepositProfile{
		CustomerID:   records[0].CustomerID,
		CustomerName: records[0].CustomerName,
		ProductID:    records[0].ProductID,
		ProductName:  records[0].ProductName,
	}

	days := make(map[time.Time]bool)
	hasRDP := false
	for _, r := range records {
		p.TotalDeposits++
		p.TotalOmset += r.Total
		days[timeutil.StartOfDay(r.RecordDate)] = true
		if r.DepositClass == models.DepositClassRDP {
			hasRDP = true
		}
	}
	p.AvgDeposit = round2(p.TotalOmset / float64(p.TotalDeposits))
	p.UniqueDays = len(days)
	p.IsNDP = !hasRDP

	first := timeutil.StartOfDay(records[0].RecordDate)
	last := timeutil.StartOfDay(records[len(records)-1].RecordDate)
	p.FirstDeposit = &first
	p.LastDeposit = &last

	// Average gap between consecutive deposits. Undefined (left zero) below
	// two deposits; callers must not read it as a real gap in that case.
	if p.TotalDeposits >= 2 {
		var totalGap int
		for i := 1; i < len(records); i++ {
			totalGap += timeutil.DaysBetween(records[i-1].RecordDate, records[i].RecordDate)
		}
		p.AvgDaysBetween = round2(float64(totalGap) / float64(p.TotalDeposits-1))
	}

	p.LoyaltyScore = loyaltyScore(p.TotalDeposits, last, today)
	p.LoyaltyTier = loyaltyTier(p.LoyaltyScore)
	return p
}

// loyaltyScore is the uniform scoring heuristic: ten points per deposit plus
// a recency bonus, capped at 100. Monotonic in both deposit count and
// recency.
func loyaltyScore(deposits int, lastDeposit, today time.Time) int {
	score := deposits * 10

	switch since := timeutil.DaysBetween(lastDeposit, today); {
	case since <= 3:
		score += 30
	case since <= 7:
		score += 20
	case since <= 14:
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// loyaltyTier maps a score to its tier; boundaries inclusive at the lower bound
func loyaltyTier(score int) string {
	switch {
	case score >= 80:
		return models.LoyaltyTierVIP
	case score >= 50:
		return models.LoyaltyTierLoyal
	case score >= 30:
		return models.LoyaltyTierRegular
	default:
		return models.LoyaltyTierNew
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
