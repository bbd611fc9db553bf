package repositories

import (
	"context"

	"crm-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO customers(name, phone, username, bank)
         VALUES($1, $2, $3, $4)
         RETURNING id, created_at, updated_at`,
		c.Name, c.Phone, c.Username, c.Bank,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, COALESCE(phone, '') as phone, COALESCE(username, '') as username, COALESCE(bank, '') as bank, created_at, updated_at
         FROM customers WHERE id=$1`, id)

	var customer models.Customer
	err := row.Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.Username,
		&customer.Bank, &customer.CreatedAt, &customer.UpdatedAt)
	return &customer, err
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, COALESCE(phone, '') as phone, COALESCE(username, '') as username, COALESCE(bank, '') as bank, created_at, updated_at
         FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var customer models.Customer
		err := rows.Scan(&customer.ID, &customer.Name, &customer.Phone, &customer.Username,
			&customer.Bank, &customer.CreatedAt, &customer.UpdatedAt)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}
	return customers, nil
}

// NameMap returns id -> name for joining into aggregate responses
func (r *CustomerRepository) NameMap(ctx context.Context) (map[int]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM customers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE customers SET name=$1, phone=$2, username=$3, bank=$4, updated_at=CURRENT_TIMESTAMP
         WHERE id=$5`,
		c.Name, c.Phone, c.Username, c.Bank, c.ID)
	return err
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	return err
}
