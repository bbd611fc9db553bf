package services

import (
	"testing"
	"time"

	"crm-backend/internal/models"
	"crm-backend/internal/timeutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, timeutil.WIB)
}

func rec(id, customerID, productID int, date time.Time, class models.DepositClass) *models.DepositRecord {
	return &models.DepositRecord{
		ID:           id,
		CustomerID:   customerID,
		ProductID:    productID,
		RecordDate:   date,
		CreatedAt:    date.Add(10 * time.Hour),
		DepositClass: class,
	}
}

func TestClassifyAgainstEmptyPair(t *testing.T) {
	got := classifyAgainst(nil, day(2025, 3, 1), day(2025, 3, 1).Add(9*time.Hour))
	if got != models.DepositClassNDP {
		t.Errorf("first deposit of a pair = %s, want NDP", got)
	}
}

func TestClassifyAgainstLaterDeposit(t *testing.T) {
	existing := []*models.DepositRecord{
		rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP),
	}
	got := classifyAgainst(existing, day(2025, 3, 5), day(2025, 3, 5).Add(9*time.Hour))
	if got != models.DepositClassRDP {
		t.Errorf("later deposit = %s, want RDP", got)
	}
}

func TestClassifyAgainstBackdatedDeposit(t *testing.T) {
	// A record dated before every existing one becomes the new NDP
	existing := []*models.DepositRecord{
		rec(1, 1, 1, day(2025, 3, 10), models.DepositClassNDP),
	}
	got := classifyAgainst(existing, day(2025, 3, 1), day(2025, 3, 12).Add(9*time.Hour))
	if got != models.DepositClassNDP {
		t.Errorf("backdated deposit = %s, want NDP", got)
	}
}

func TestClassifyAgainstSameDayTieBreak(t *testing.T) {
	// Equal record dates fall back to creation order
	first := rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP)
	first.CreatedAt = day(2025, 3, 1).Add(8 * time.Hour)

	got := classifyAgainst([]*models.DepositRecord{first}, day(2025, 3, 1), day(2025, 3, 1).Add(14*time.Hour))
	if got != models.DepositClassRDP {
		t.Errorf("same-day later creation = %s, want RDP", got)
	}

	got = classifyAgainst([]*models.DepositRecord{first}, day(2025, 3, 1), day(2025, 3, 1).Add(6*time.Hour))
	if got != models.DepositClassNDP {
		t.Errorf("same-day earlier creation = %s, want NDP", got)
	}
}

func TestReclassifyPairFirstIsNDP(t *testing.T) {
	records := []*models.DepositRecord{
		rec(1, 1, 1, day(2025, 3, 1), models.DepositClassRDP), // wrong label
		rec(2, 1, 1, day(2025, 3, 5), models.DepositClassNDP), // wrong label
		rec(3, 1, 1, day(2025, 3, 9), models.DepositClassRDP),
	}

	changes := reclassifyPair(records)
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].ID != 1 || changes[0].Class != models.DepositClassNDP {
		t.Errorf("change[0] = %+v", changes[0])
	}
	if changes[1].ID != 2 || changes[1].Class != models.DepositClassRDP {
		t.Errorf("change[1] = %+v", changes[1])
	}
	if records[0].DepositClass != models.DepositClassNDP {
		t.Error("in-memory record not updated")
	}
}

func TestReclassifyPairIdempotent(t *testing.T) {
	records := []*models.DepositRecord{
		rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP),
		rec(2, 1, 1, day(2025, 3, 5), models.DepositClassRDP),
	}
	if changes := reclassifyPair(records); len(changes) != 0 {
		t.Errorf("correctly labelled ledger produced %d changes", len(changes))
	}
}

func TestReclassifyPairEmpty(t *testing.T) {
	if changes := reclassifyPair(nil); len(changes) != 0 {
		t.Errorf("empty ledger produced %d changes", len(changes))
	}
}

func TestGroupByPair(t *testing.T) {
	records := []*models.DepositRecord{
		rec(1, 1, 1, day(2025, 3, 1), models.DepositClassNDP),
		rec(2, 1, 2, day(2025, 3, 1), models.DepositClassNDP),
		rec(3, 1, 1, day(2025, 3, 2), models.DepositClassRDP),
		rec(4, 2, 1, day(2025, 3, 2), models.DepositClassNDP),
	}

	pairs := groupByPair(records)
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	group := pairs[pairKey{CustomerID: 1, ProductID: 1}]
	if len(group) != 2 || group[0].ID != 1 || group[1].ID != 3 {
		t.Errorf("pair (1,1) group order wrong: %+v", group)
	}
}
