package repositories

import (
	"context"

	"crm-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO products(name, code, is_active)
         VALUES($1, $2, TRUE)
         RETURNING id, is_active, created_at, updated_at`,
		p.Name, p.Code,
	).Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, COALESCE(code, '') as code, is_active, created_at, updated_at
         FROM products WHERE id=$1`, id)

	var product models.Product
	err := row.Scan(&product.ID, &product.Name, &product.Code, &product.IsActive,
		&product.CreatedAt, &product.UpdatedAt)
	return &product, err
}

func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, COALESCE(code, '') as code, is_active, created_at, updated_at
         FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var product models.Product
		err := rows.Scan(&product.ID, &product.Name, &product.Code, &product.IsActive,
			&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, &product)
	}
	return products, nil
}

// NameMap returns id -> name for joining into aggregate responses
func (r *ProductRepository) NameMap(ctx context.Context) (map[int]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM products`)
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

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE products SET name=$1, code=$2, is_active=$3, updated_at=CURRENT_TIMESTAMP
         WHERE id=$4`,
		p.Name, p.Code, p.IsActive, p.ID)
	return err
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}
