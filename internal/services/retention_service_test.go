package services

import (
	"testing"

	"crm-backend/internal/models"
)

// ledger builds a small two-customer, two-product fixture:
//   customer 1 / product 1: deposits on Mar 1 and Mar 5 (retained)
//   customer 2 / product 1: single deposit on Mar 3 (NDP)
//   customer 2 / product 2: single deposit on Mar 4 (NDP)
func ledger() []*models.DepositRecord {
	r1 := rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP)
	r1.Total = 100
	r1.StaffID = 10
	r2 := rec(2, 1, 1, day(2025, 3, 5), models.DepositClassRDP)
	r2.Total = 400
	r2.StaffID = 10
	r3 := rec(3, 2, 1, day(2025, 3, 3), models.DepositClassNDP)
	r3.Total = 50
	r3.StaffID = 11
	r4 := rec(4, 2, 2, day(2025, 3, 4), models.DepositClassNDP)
	r4.Total = 75
	r4.StaffID = 11
	return []*models.DepositRecord{r1, r2, r3, r4}
}

func TestRetentionRate(t *testing.T) {
	if got := retentionRate(0, 0); got != 0 {
		t.Errorf("empty ledger rate = %v, want 0", got)
	}
	if got := retentionRate(1, 3); got != 33.33 {
		t.Errorf("rate = %v, want 33.33", got)
	}
	if got := retentionRate(3, 3); got != 100 {
		t.Errorf("full retention = %v, want 100", got)
	}
}

func TestCustomerSplit(t *testing.T) {
	total, ndp, rdp := customerSplit(ledger())
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	// Customer 1 redeposited, customer 2 never did
	if rdp != 1 {
		t.Errorf("rdp = %d, want 1", rdp)
	}
	if ndp != 1 {
		t.Errorf("ndp = %d, want 1", ndp)
	}
	if ndp+rdp != total {
		t.Error("ndp + rdp must equal total")
	}
}

func TestComputeOverview(t *testing.T) {
	today := day(2025, 3, 6)
	o := computeOverview(ledger(), nil, nil, today, 5)

	if o.TotalCustomers != 2 || o.NDPCustomers != 1 || o.RDPCustomers != 1 {
		t.Errorf("split = %d/%d/%d", o.TotalCustomers, o.NDPCustomers, o.RDPCustomers)
	}
	if o.RetentionRate != 50 {
		t.Errorf("RetentionRate = %v, want 50", o.RetentionRate)
	}
	if o.TotalDeposits != 4 {
		t.Errorf("TotalDeposits = %d, want 4", o.TotalDeposits)
	}
	if o.TotalOmset != 625 {
		t.Errorf("TotalOmset = %v, want 625", o.TotalOmset)
	}
	if o.AvgOmset != 156.25 {
		t.Errorf("AvgOmset = %v, want 156.25", o.AvgOmset)
	}
	if len(o.TopLoyalCustomers) != 3 {
		t.Fatalf("top loyal = %d profiles, want 3", len(o.TopLoyalCustomers))
	}
	// Customer 1 has the most deposits and the freshest activity
	if o.TopLoyalCustomers[0].CustomerID != 1 {
		t.Errorf("top profile customer = %d, want 1", o.TopLoyalCustomers[0].CustomerID)
	}
}

func TestComputeOverviewEmpty(t *testing.T) {
	o := computeOverview(nil, nil, nil, day(2025, 3, 6), 5)
	if o.RetentionRate != 0 || o.TotalCustomers != 0 || o.AvgOmset != 0 {
		t.Errorf("empty overview = %+v", o)
	}
	if o.TopLoyalCustomers == nil {
		t.Error("TopLoyalCustomers must be empty, not nil")
	}
}

func TestFilterWindow(t *testing.T) {
	records := ledger()

	start := day(2025, 3, 3)
	end := day(2025, 3, 4)
	got := filterWindow(records, &start, &end)
	if len(got) != 2 {
		t.Fatalf("window kept %d records, want 2", len(got))
	}
	for _, r := range got {
		if r.ID != 3 && r.ID != 4 {
			t.Errorf("unexpected record %d in window", r.ID)
		}
	}

	if got := filterWindow(records, nil, nil); len(got) != 4 {
		t.Errorf("unbounded window kept %d records", len(got))
	}

	onlyStart := day(2025, 3, 5)
	if got := filterWindow(records, &onlyStart, nil); len(got) != 1 {
		t.Errorf("start-bounded window kept %d records, want 1", len(got))
	}
}

func TestComputeCustomersFilters(t *testing.T) {
	today := day(2025, 3, 6)
	records := ledger()

	all := computeCustomers(records, today, models.FilterAll, models.SortByDeposits, 50)
	if len(all) != 3 {
		t.Fatalf("all = %d profiles, want 3", len(all))
	}
	if all[0].CustomerID != 1 || all[0].TotalDeposits != 2 {
		t.Errorf("deposits sort top = %+v", all[0])
	}

	ndp := computeCustomers(records, today, models.FilterNDP, models.SortByDeposits, 50)
	if len(ndp) != 2 {
		t.Errorf("ndp = %d profiles, want 2", len(ndp))
	}
	for _, p := range ndp {
		if !p.IsNDP {
			t.Errorf("ndp filter leaked %+v", p)
		}
	}

	rdp := computeCustomers(records, today, models.FilterRDP, models.SortByDeposits, 50)
	if len(rdp) != 1 || rdp[0].CustomerID != 1 {
		t.Errorf("rdp = %+v", rdp)
	}

	loyal := computeCustomers(records, today, models.FilterLoyal, models.SortByDeposits, 50)
	if len(loyal) != 0 {
		t.Errorf("loyal (>=3 deposits) = %d profiles, want 0", len(loyal))
	}
}

func TestComputeCustomersSortAndLimit(t *testing.T) {
	today := day(2025, 3, 6)
	records := ledger()

	byOmset := computeCustomers(records, today, models.FilterAll, models.SortByOmset, 50)
	if byOmset[0].TotalOmset != 500 {
		t.Errorf("omset sort top = %v", byOmset[0].TotalOmset)
	}

	byRecent := computeCustomers(records, today, models.FilterAll, models.SortByRecent, 50)
	if !byRecent[0].LastDeposit.Equal(day(2025, 3, 5)) {
		t.Errorf("recent sort top = %v", byRecent[0].LastDeposit)
	}

	limited := computeCustomers(records, today, models.FilterAll, models.SortByDeposits, 2)
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d profiles", len(limited))
	}
}

func TestComputeTrend(t *testing.T) {
	today := day(2025, 3, 6)
	trend := computeTrend(ledger(), 7, today)

	if len(trend.Trend) != 7 {
		t.Fatalf("trend has %d points, want 7", len(trend.Trend))
	}
	if trend.Trend[0].Date != "2025-02-28" {
		t.Errorf("first point = %s, want 2025-02-28", trend.Trend[0].Date)
	}
	if trend.Trend[6].Date != "2025-03-06" {
		t.Errorf("last point = %s, want 2025-03-06", trend.Trend[6].Date)
	}
	if trend.Summary.TotalNDP != 3 || trend.Summary.TotalRDP != 1 {
		t.Errorf("summary = %+v", trend.Summary)
	}

	// Mar 5: the one RDP deposit
	var mar5 models.TrendPoint
	for _, p := range trend.Trend {
		if p.Date == "2025-03-05" {
			mar5 = p
		}
	}
	if mar5.NDP != 0 || mar5.RDP != 1 {
		t.Errorf("mar 5 = %+v", mar5)
	}
}

func TestComputeTrendExcludesOldRecords(t *testing.T) {
	today := day(2025, 3, 6)
	trend := computeTrend(ledger(), 2, today) // Mar 5..Mar 6 only
	if trend.Summary.TotalNDP != 0 || trend.Summary.TotalRDP != 1 {
		t.Errorf("short window summary = %+v", trend.Summary)
	}
}

func TestComputeProductBreakdown(t *testing.T) {
	out := computeProductBreakdown(ledger())
	if len(out) != 2 {
		t.Fatalf("got %d products, want 2", len(out))
	}

	p1 := out[0]
	if p1.ProductID != 1 || p1.TotalCustomers != 2 || p1.RDPCustomers != 1 {
		t.Errorf("product 1 = %+v", p1)
	}
	if p1.RetentionRate != 50 {
		t.Errorf("product 1 rate = %v, want 50", p1.RetentionRate)
	}
	if p1.TotalOmset != 550 {
		t.Errorf("product 1 omset = %v, want 550", p1.TotalOmset)
	}

	p2 := out[1]
	if p2.ProductID != 2 || p2.TotalCustomers != 1 || p2.RetentionRate != 0 {
		t.Errorf("product 2 = %+v", p2)
	}
}

func TestComputeStaffBreakdown(t *testing.T) {
	out := computeStaffBreakdown(ledger())
	if len(out) != 2 {
		t.Fatalf("got %d staff, want 2", len(out))
	}
	if out[0].StaffID != 10 || out[0].TotalDeposits != 2 || out[0].RDPCustomers != 1 {
		t.Errorf("staff 10 = %+v", out[0])
	}
	if out[1].StaffID != 11 || out[1].TotalDeposits != 2 || out[1].RDPCustomers != 0 {
		t.Errorf("staff 11 = %+v", out[1])
	}
}
