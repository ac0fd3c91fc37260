package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/moto-store/internal/domain/product"
)

const (
	productColumns = `id, name, brand, category_id, price, old_price, description, image_url, stock, engine, color, warranty`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE ($1::bigint = 0 OR category_id = $1)
		  AND ($2::text = '' OR brand = $2)
		  AND ($3::text = '' OR name ILIKE '%' || $3 || '%')
		  AND ($4::numeric = 0 OR price <= $4)
		ORDER BY id`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`

	insertProductSQL = `INSERT INTO products (name, brand, category_id, price, old_price, description, image_url, stock, engine, color, warranty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	listCategoriesSQL = `SELECT id, name, description FROM categories ORDER BY id`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns the products matching the filter, ordered by ID.
func (r *ProductRepository) List(ctx context.Context, f product.Filter) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL, f.CategoryID, f.Brand, f.Query, f.MaxPrice)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Add inserts a new product and fills in its generated id.
func (r *ProductRepository) Add(ctx context.Context, p *product.Product) error {
	err := r.pool.QueryRow(ctx, insertProductSQL,
		p.Name, p.Brand, p.CategoryID, p.Price, p.OldPrice,
		p.Description, p.ImageURL, p.Stock, p.Engine, p.Color, p.Warranty,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("adding product %q: %w", p.Name, err)
	}
	return nil
}

// Remove deletes the product with the given id.
func (r *ProductRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("removing product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by ID.
func (r *ProductRepository) ListCategories(ctx context.Context) ([]product.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Category, error) {
		var c product.Category
		err := row.Scan(&c.ID, &c.Name, &c.Description)
		return c, err
	})
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.CategoryID, &p.Price, &p.OldPrice,
		&p.Description, &p.ImageURL, &p.Stock, &p.Engine, &p.Color, &p.Warranty,
	)
	return p, err
}
