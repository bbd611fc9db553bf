package repositories

import (
	"context"
	"time"

	"crm-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DismissalRepository struct {
	DB *pgxpool.Pool
}

func NewDismissalRepository(db *pgxpool.Pool) *DismissalRepository {
	return &DismissalRepository{DB: db}
}

// PairKey identifies one (customer, product) pair
type PairKey struct {
	CustomerID int
	ProductID  int
}

// Upsert records a dismissal. Re-dismissing the same pair refreshes the
// cooldown; last write wins.
func (r *DismissalRepository) Upsert(ctx context.Context, d *models.AlertDismissal) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO alert_dismissals(customer_id, product_id, dismissed_by, dismissed_until)
		 VALUES($1, $2, $3, $4)
		 ON CONFLICT (customer_id, product_id)
		 DO UPDATE SET dismissed_by=$3, dismissed_until=$4, updated_at=CURRENT_TIMESTAMP
		 RETURNING id, created_at, updated_at`,
		d.CustomerID, d.ProductID, d.DismissedBy, d.DismissedUntil,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// ActivePairs returns the set of pairs whose dismissal has not lapsed as of
// the given date. Lapsed rows are simply ignored; the pair reappears in the
// alert pool without any re-arm step.
func (r *DismissalRepository) ActivePairs(ctx context.Context, asOf time.Time) (map[PairKey]time.Time, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT customer_id, product_id, dismissed_until
		 FROM alert_dismissals WHERE dismissed_until > $1`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	active := make(map[PairKey]time.Time)
	for rows.Next() {
		var k PairKey
		var until time.Time
		if err := rows.Scan(&k.CustomerID, &k.ProductID, &until); err != nil {
			return nil, err
		}
		active[k] = until
	}
	return active, rows.Err()
}

// PurgeLapsed removes dismissals that expired before the cutoff. Housekeeping
// only; correctness never depends on it.
func (r *DismissalRepository) PurgeLapsed(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM alert_dismissals WHERE dismissed_until < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
