package services

import (
	"time"

	"crm-backend/internal/models"
	"crm-backend/internal/timeutil"
)

// pairKey identifies one (customer, product) ledger subset
type pairKey struct {
	CustomerID int
	ProductID  int
}

// classifyAgainst labels a deposit relative to the pair's existing surviving
// records. NDP when no other record has a strictly earlier record date, or an
// equal date with an earlier creation timestamp. The tie-break on equal dates
// is creation order, not record date.
func classifyAgainst(existing []*models.DepositRecord, recordDate, createdAt time.Time) models.DepositClass {
	day := timeutil.StartOfDay(recordDate)
	for _, r := range existing {
		other := timeutil.StartOfDay(r.RecordDate)
		if other.Before(day) {
			return models.DepositClassRDP
		}
		if other.Equal(day) && r.CreatedAt.Before(createdAt) {
			return models.DepositClassRDP
		}
	}
	return models.DepositClassNDP
}

// classChange records one label correction produced by a reclassification
type classChange struct {
	ID    int
	Class models.DepositClass
}

// reclassifyPair recomputes every label for one pair's surviving records,
// which must already be in classification order (record_date asc, created_at
// asc). The first record is NDP, everything after it RDP. Returns only the
// records whose stored label differs; an unchanged ledger yields no changes.
func reclassifyPair(records []*models.DepositRecord) []classChange {
	var changes []classChange
	for i, r := range records {
		want := models.DepositClassRDP
		if i == 0 {
			want = models.DepositClassNDP
		}
		if r.DepositClass != want {
			changes = append(changes, classChange{ID: r.ID, Class: want})
			r.DepositClass = want
		}
	}
	return changes
}

// groupByPair buckets records per (customer, product), preserving input order
func groupByPair(records []*models.DepositRecord) map[pairKey][]*models.DepositRecord {
	pairs := make(map[pairKey][]*models.DepositRecord)
	for _, r := range records {
		k := pairKey{CustomerID: r.CustomerID, ProductID: r.ProductID}
		pairs[k] = append(pairs[k], r)
	}
	return pairs
}
