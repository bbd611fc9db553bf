package repositories

import (
	"context"
	"fmt"
	"time"

	"crm-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DepositRepository struct {
	DB *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{DB: db}
}

// depositColumns is the SELECT list shared by every read, joining the
// directory tables for display names. Missing directory rows degrade to
// placeholder labels instead of dropping the record.
const depositColumns = `
	d.id, d.customer_id,
	COALESCE(c.name, d.customer_name, 'Unknown Customer') AS customer_name,
	d.product_id, COALESCE(p.name, 'Unknown Product') AS product_name,
	d.staff_id, COALESCE(u.name, 'Unknown Staff') AS staff_name,
	d.amount, d.multiplier, d.total, d.deposit_class,
	d.record_date, d.deleted_at, d.created_at, d.updated_at`

const depositJoins = `
	FROM omset_records d
	LEFT JOIN customers c ON c.id = d.customer_id
	LEFT JOIN products p ON p.id = d.product_id
	LEFT JOIN users u ON u.id = d.staff_id`

func scanDeposit(row interface{ Scan(...any) error }) (*models.DepositRecord, error) {
	var d models.DepositRecord
	err := row.Scan(
		&d.ID, &d.CustomerID, &d.CustomerName,
		&d.ProductID, &d.ProductName,
		&d.StaffID, &d.StaffName,
		&d.Amount, &d.Multiplier, &d.Total, &d.DepositClass,
		&d.RecordDate, &d.DeletedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepositRepository) Create(ctx context.Context, d *models.DepositRecord) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO omset_records(customer_id, customer_name, product_id, staff_id, amount, multiplier, total, deposit_class, record_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		d.CustomerID, d.CustomerName, d.ProductID, d.StaffID,
		d.Amount, d.Multiplier, d.Total, d.DepositClass, d.RecordDate,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DepositRepository) Get(ctx context.Context, id int) (*models.DepositRecord, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+depositColumns+depositJoins+` WHERE d.id = $1`, id)
	return scanDeposit(row)
}

// Update corrects amount, multiplier and record date of a surviving record
func (r *DepositRepository) Update(ctx context.Context, d *models.DepositRecord) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE omset_records
		 SET amount=$1, multiplier=$2, total=$3, record_date=$4, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$5 AND deleted_at IS NULL`,
		d.Amount, d.Multiplier, d.Total, d.RecordDate, d.ID)
	return err
}

// List returns surviving records matching the query, newest first
func (r *DepositRepository) List(ctx context.Context, q models.DepositListQuery) ([]*models.DepositRecord, error) {
	sql := `SELECT ` + depositColumns + depositJoins + ` WHERE d.deleted_at IS NULL`
	args := []any{}
	n := 0
	if q.Start != nil {
		n++
		sql += fmt.Sprintf(" AND d.record_date >= $%d", n)
		args = append(args, *q.Start)
	}
	if q.End != nil {
		n++
		sql += fmt.Sprintf(" AND d.record_date <= $%d", n)
		args = append(args, *q.End)
	}
	if q.ProductID > 0 {
		n++
		sql += fmt.Sprintf(" AND d.product_id = $%d", n)
		args = append(args, q.ProductID)
	}
	if q.StaffID > 0 {
		n++
		sql += fmt.Sprintf(" AND d.staff_id = $%d", n)
		args = append(args, q.StaffID)
	}
	sql += " ORDER BY d.record_date DESC, d.created_at DESC"
	if q.Limit > 0 {
		n++
		sql += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, q.Limit)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DepositRecord
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListPair returns all surviving records for one (customer, product) pair in
// classification order: record_date ascending, creation order breaking ties
func (r *DepositRepository) ListPair(ctx context.Context, customerID, productID int) ([]*models.DepositRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+depositColumns+depositJoins+`
		 WHERE d.deleted_at IS NULL AND d.customer_id = $1 AND d.product_id = $2
		 ORDER BY d.record_date ASC, d.created_at ASC, d.id ASC`,
		customerID, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DepositRecord
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListSurviving returns every non-deleted record, optionally filtered by
// product, in classification order. Feeds the profile builder and the risk
// alert generator.
func (r *DepositRepository) ListSurviving(ctx context.Context, productID int) ([]*models.DepositRecord, error) {
	sql := `SELECT ` + depositColumns + depositJoins + ` WHERE d.deleted_at IS NULL`
	args := []any{}
	if productID > 0 {
		sql += " AND d.product_id = $1"
		args = append(args, productID)
	}
	sql += " ORDER BY d.record_date ASC, d.created_at ASC, d.id ASC"

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DepositRecord
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateClass rewrites the NDP/RDP label of one record
func (r *DepositRepository) UpdateClass(ctx context.Context, id int, class models.DepositClass) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE omset_records SET deposit_class=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		class, id)
	return err
}

// SoftDelete moves a record to the trash
func (r *DepositRepository) SoftDelete(ctx context.Context, id int, at time.Time) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE omset_records SET deleted_at=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2 AND deleted_at IS NULL`,
		at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d not found or already deleted", id)
	}
	return nil
}

// Restore brings a trashed record back
func (r *DepositRepository) Restore(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE omset_records SET deleted_at=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=$1 AND deleted_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d not found in trash", id)
	}
	return nil
}

// ListTrash returns soft-deleted records, most recently deleted first
func (r *DepositRepository) ListTrash(ctx context.Context) ([]*models.DepositRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+depositColumns+depositJoins+`
		 WHERE d.deleted_at IS NOT NULL
		 ORDER BY d.deleted_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DepositRecord
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Purge permanently removes a trashed record
func (r *DepositRepository) Purge(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM omset_records WHERE id=$1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d not found in trash", id)
	}
	return nil
}
