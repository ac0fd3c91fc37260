package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/moto-store/internal/domain/order"
)

const (
	orderColumns = `id, code, customer_name, phone, address, email, notes, payment_method, lines,
		subtotal, shipping_fee, seasonal_discount, coupon_discount, discount_amount, total,
		coupon_id, coupon_code, promotion_name, message, status, placed_at`

	insertOrderSQL = `INSERT INTO orders (id, code, customer_name, phone, address, email, notes, payment_method, lines,
		subtotal, shipping_fee, seasonal_discount, coupon_discount, discount_amount, total,
		coupon_id, coupon_code, promotion_name, message, status, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderByCodeSQL = `SELECT ` + orderColumns + ` FROM orders WHERE UPPER(code) = UPPER($1)`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY id DESC`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	nextOrderIDSQL = `SELECT nextval('order_codes')`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The order lines are serialized to JSON for
// storage in the JSONB column.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	linesJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("marshaling order lines: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.Code, o.CustomerName, o.Phone, o.Address, o.Email, o.Notes, o.PaymentMethod, linesJSON,
		o.Subtotal, o.ShippingFee, o.SeasonalDiscount, o.CouponDiscount, o.DiscountAmount, o.Total,
		o.CouponID, o.CouponCode, o.PromotionName, o.Message, o.Status, o.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.Code, err)
	}
	return nil
}

// GetByID returns the order with the given id.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return collectOrder(rows)
}

// GetByCode returns the order with the given code, matched
// case-insensitively.
func (r *OrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", code, err)
	}
	return collectOrder(rows)
}

// List returns every order, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus advances the status of the order with the given id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// NextID allocates the next sequential order id from the database sequence.
func (r *OrderRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.pool.QueryRow(ctx, nextOrderIDSQL).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocating order id: %w", err)
	}
	return id, nil
}

func collectOrder(rows pgx.Rows) (*order.Order, error) {
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("collecting order: %w", err)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		linesJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerName, &o.Phone, &o.Address, &o.Email, &o.Notes, &o.PaymentMethod, &linesJSON,
		&o.Subtotal, &o.ShippingFee, &o.SeasonalDiscount, &o.CouponDiscount, &o.DiscountAmount, &o.Total,
		&o.CouponID, &o.CouponCode, &o.PromotionName, &o.Message, &o.Status, &o.PlacedAt,
	)
	if err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
		return order.Order{}, fmt.Errorf("unmarshaling order lines: %w", err)
	}
	return o, nil
}
