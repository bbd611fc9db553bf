package services

import (
	"context"
	"sort"
	"time"

	"crm-backend/internal/config"
	"crm-backend/internal/models"
	"crm-backend/internal/repositories"
	"crm-backend/internal/timeutil"
)

// RetentionService derives retention, loyalty and trend aggregates from the
// deposit ledger. Every answer is recomputed from a fresh ledger read; the
// only state here is configuration and the injected clock.
type RetentionService struct {
	Deposits *repositories.DepositRepository
	cfg      *config.Config

	// now returns "today" in the operational timezone; injected for tests
	now func() time.Time
}

func NewRetentionService(deposits *repositories.DepositRepository, cfg *config.Config) *RetentionService {
	return &RetentionService{
		Deposits: deposits,
		cfg:      cfg,
		now:      timeutil.Now,
	}
}

// Overview returns the top-level retention summary for a date window
func (s *RetentionService) Overview(ctx context.Context, start, end *time.Time, productID int) (*models.RetentionOverview, error) {
	records, err := s.Deposits.ListSurviving(ctx, productID)
	if err != nil {
		return nil, err
	}
	return computeOverview(filterWindow(records, start, end), start, end, s.now(), 5), nil
}

// Customers returns per-(customer, product) profiles for a window, filtered
// and sorted per the query
func (s *RetentionService) Customers(ctx context.Context, start, end *time.Time, productID int, filterType, sortBy string, limit int) ([]*models.CustomerDepositProfile, error) {
	records, err := s.Deposits.ListSurviving(ctx, productID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.cfg.Alerts.CustomerListLimit {
		limit = s.cfg.Alerts.CustomerListLimit
	}
	return computeCustomers(filterWindow(records, start, end), s.now(), filterType, sortBy, limit), nil
}

// Trend returns daily NDP vs RDP deposit counts for the N most recent days
func (s *RetentionService) Trend(ctx context.Context, days, productID int) (*models.RetentionTrend, error) {
	if days <= 0 {
		days = 30
	}
	if days > s.cfg.Alerts.TrendMaxDays {
		days = s.cfg.Alerts.TrendMaxDays
	}
	records, err := s.Deposits.ListSurviving(ctx, productID)
	if err != nil {
		return nil, err
	}
	return computeTrend(records, days, s.now()), nil
}

// ByProduct returns the per-product retention breakdown for a window
func (s *RetentionService) ByProduct(ctx context.Context, start, end *time.Time) ([]*models.ProductBreakdown, error) {
	records, err := s.Deposits.ListSurviving(ctx, 0)
	if err != nil {
		return nil, err
	}
	return computeProductBreakdown(filterWindow(records, start, end)), nil
}

// ByStaff returns the per-staff retention breakdown for a window
func (s *RetentionService) ByStaff(ctx context.Context, start, end *time.Time) ([]*models.StaffBreakdown, error) {
	records, err := s.Deposits.ListSurviving(ctx, 0)
	if err != nil {
		return nil, err
	}
	return computeStaffBreakdown(filterWindow(records, start, end)), nil
}

// ---- pure aggregation ----

// filterWindow keeps records whose record_date falls inside start..end
// inclusive; nil bounds are unbounded
func filterWindow(records []*models.DepositRecord, start, end *time.Time) []*models.DepositRecord {
	if start == nil && end == nil {
		return records
	}
	var out []*models.DepositRecord
	for _, r := range records {
		day := timeutil.StartOfDay(r.RecordDate)
		if start != nil && day.Before(timeutil.StartOfDay(*start)) {
			continue
		}
		if end != nil && day.After(timeutil.StartOfDay(*end)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// retentionRate guards the zero-customer case instead of dividing by zero
func retentionRate(rdpCustomers, totalCustomers int) float64 {
	if totalCustomers == 0 {
		return 0
	}
	return round2(float64(rdpCustomers) / float64(totalCustomers) * 100)
}

// customerSplit counts distinct customers in the records and how many of
// them redeposited (have at least one RDP-class record in scope)
func customerSplit(records []*models.DepositRecord) (total, ndp, rdp int) {
	seen := make(map[int]bool)
	redepo := make(map[int]bool)
	for _, r := range records {
		seen[r.CustomerID] = true
		if r.DepositClass == models.DepositClassRDP {
			redepo[r.CustomerID] = true
		}
	}
	total = len(seen)
	rdp = len(redepo)
	ndp = total - rdp
	return
}

func computeOverview(records []*models.DepositRecord, start, end *time.Time, today time.Time, topN int) *models.RetentionOverview {
	o := &models.RetentionOverview{
		TopLoyalCustomers: []*models.CustomerDepositProfile{},
	}
	if start != nil {
		o.StartDate = start.Format(timeutil.DateLayout)
	}
	if end != nil {
		o.EndDate = end.Format(timeutil.DateLayout)
	}

	o.TotalCustomers, o.NDPCustomers, o.RDPCustomers = customerSplit(records)
	o.RetentionRate = retentionRate(o.RDPCustomers, o.TotalCustomers)

	for _, r := range records {
		o.TotalDeposits++
		o.TotalOmset += r.Total
	}
	if o.TotalDeposits > 0 {
		o.AvgOmset = round2(o.TotalOmset / float64(o.TotalDeposits))
	}

	profiles := buildPairProfiles(records, today)
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].LoyaltyScore != profiles[j].LoyaltyScore {
			return profiles[i].LoyaltyScore > profiles[j].LoyaltyScore
		}
		return profiles[i].TotalOmset > profiles[j].TotalOmset
	})
	if len(profiles) > topN {
		profiles = profiles[:topN]
	}
	o.TopLoyalCustomers = profiles
	return o
}

// buildPairProfiles folds the records into one profile per (customer, product)
func buildPairProfiles(records []*models.DepositRecord, today time.Time) []*models.CustomerDepositProfile {
	pairs := groupByPair(records)

	keys := make([]pairKey, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	// Deterministic output order before any sort the caller applies
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CustomerID != keys[j].CustomerID {
			return keys[i].CustomerID < keys[j].CustomerID
		}
		return keys[i].ProductID < keys[j].ProductID
	})

	profiles := make([]*models.CustomerDepositProfile, 0, len(keys))
	for _, k := range keys {
		profiles = append(profiles, buildProfile(pairs[k], today))
	}
	return profiles
}

func computeCustomers(records []*models.DepositRecord, today time.Time, filterType, sortBy string, limit int) []*models.CustomerDepositProfile {
	profiles := buildPairProfiles(records, today)

	filtered := profiles[:0]
	for _, p := range profiles {
		switch filterType {
		case models.FilterNDP:
			if !p.IsNDP {
				continue
			}
		case models.FilterRDP:
			if p.IsNDP {
				continue
			}
		case models.FilterLoyal:
			if p.TotalDeposits < 3 {
				continue
			}
		}
		filtered = append(filtered, p)
	}

	switch sortBy {
	case models.SortByOmset:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].TotalOmset > filtered[j].TotalOmset })
	case models.SortByRecent:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].LastDeposit != nil && filtered[j].LastDeposit != nil &&
				filtered[i].LastDeposit.After(*filtered[j].LastDeposit)
		})
	default: // deposits
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].TotalDeposits > filtered[j].TotalDeposits })
	}

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

func computeTrend(records []*models.DepositRecord, days int, today time.Time) *models.RetentionTrend {
	type counts struct{ ndp, rdp int }
	byDay := make(map[string]*counts)

	startDay := timeutil.StartOfDay(today).AddDate(0, 0, -(days - 1))
	for _, r := range records {
		day := timeutil.StartOfDay(r.RecordDate)
		if day.Before(startDay) || day.After(timeutil.StartOfDay(today)) {
			continue
		}
		key := day.Format(timeutil.DateLayout)
		c := byDay[key]
		if c == nil {
			c = &counts{}
			byDay[key] = c
		}
		if r.DepositClass == models.DepositClassNDP {
			c.ndp++
		} else {
			c.rdp++
		}
	}

	t := &models.RetentionTrend{
		Trend:   make([]models.TrendPoint, 0, days),
		Summary: models.TrendSummary{Days: days},
	}
	for i := 0; i < days; i++ {
		key := startDay.AddDate(0, 0, i).Format(timeutil.DateLayout)
		point := models.TrendPoint{Date: key}
		if c := byDay[key]; c != nil {
			point.NDP = c.ndp
			point.RDP = c.rdp
		}
		t.Trend = append(t.Trend, point)
		t.Summary.TotalNDP += point.NDP
		t.Summary.TotalRDP += point.RDP
	}
	return t
}

func computeProductBreakdown(records []*models.DepositRecord) []*models.ProductBreakdown {
	byProduct := make(map[int][]*models.DepositRecord)
	for _, r := range records {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}

	ids := make([]int, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*models.ProductBreakdown, 0, len(ids))
	for _, id := range ids {
		group := byProduct[id]
		b := &models.ProductBreakdown{ProductID: id, ProductName: group[0].ProductName}
		b.TotalCustomers, b.NDPCustomers, b.RDPCustomers = customerSplit(group)
		b.RetentionRate = retentionRate(b.RDPCustomers, b.TotalCustomers)
		for _, r := range group {
			b.TotalDeposits++
			b.TotalOmset += r.Total
		}
		out = append(out, b)
	}
	return out
}

func computeStaffBreakdown(records []*models.DepositRecord) []*models.StaffBreakdown {
	byStaff := make(map[int][]*models.DepositRecord)
	for _, r := range records {
		byStaff[r.StaffID] = append(byStaff[r.StaffID], r)
	}

	ids := make([]int, 0, len(byStaff))
	for id := range byStaff {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*models.StaffBreakdown, 0, len(ids))
	for _, id := range ids {
		group := byStaff[id]
		b := &models.StaffBreakdown{StaffID: id, StaffName: group[0].StaffName}
		b.TotalCustomers, b.NDPCustomers, b.RDPCustomers = customerSplit(group)
		b.RetentionRate = retentionRate(b.RDPCustomers, b.TotalCustomers)
		for _, r := range group {
			b.TotalDeposits++
			b.TotalOmset += r.Total
		}
		out = append(out, b)
	}
	return out
}
