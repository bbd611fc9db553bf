package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BriefingRepository struct {
	DB *pgxpool.Pool
}

func NewBriefingRepository(db *pgxpool.Pool) *BriefingRepository {
	return &BriefingRepository{DB: db}
}

// LastShown returns the date the viewer last saw the briefing, or nil when
// they never have
func (r *BriefingRepository) LastShown(ctx context.Context, userID int) (*time.Time, error) {
	var last time.Time
	err := r.DB.QueryRow(ctx,
		`SELECT last_shown_date FROM briefing_states WHERE user_id = $1`, userID,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &last, nil
}

// MarkShown stamps the viewer's last-shown date. Idempotent per day.
func (r *BriefingRepository) MarkShown(ctx context.Context, userID int, date time.Time) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO briefing_states(user_id, last_shown_date)
		 VALUES($1, $2)
		 ON CONFLICT (user_id)
		 DO UPDATE SET last_shown_date=$2, updated_at=CURRENT_TIMESTAMP`,
		userID, date)
	return err
}
