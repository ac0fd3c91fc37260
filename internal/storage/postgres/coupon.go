package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/moto-store/internal/domain/coupon"
)

const (
	couponColumns = `id, code, description, percent, amount, min_order_amount, max_discount_amount, start_at, end_at, usage_limit, used_count, active`

	listCouponsSQL = `SELECT ` + couponColumns + ` FROM coupons ORDER BY id`

	getCouponByIDSQL = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	getCouponByCodeSQL = `SELECT ` + couponColumns + ` FROM coupons WHERE UPPER(code) = UPPER($1)`

	insertCouponSQL = `INSERT INTO coupons (code, description, percent, amount, min_order_amount, max_discount_amount, start_at, end_at, usage_limit, used_count, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`

	updateCouponSQL = `UPDATE coupons SET code = $2, description = $3, percent = $4, amount = $5,
		min_order_amount = $6, max_discount_amount = $7, start_at = $8, end_at = $9,
		usage_limit = $10, used_count = $11, active = $12 WHERE id = $1`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`

	toggleCouponSQL = `UPDATE coupons SET active = NOT active WHERE id = $1`

	// The guard in the WHERE clause makes the increment atomic: a concurrent
	// checkout that would push used_count past the limit matches zero rows.
	incrementUsesSQL = `UPDATE coupons SET used_count = used_count + 1
		WHERE id = $1 AND (usage_limit = 0 OR used_count < usage_limit)`

	decrementUsesSQL = `UPDATE coupons SET used_count = GREATEST(used_count - 1, 0) WHERE id = $1`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// All returns every coupon ordered by ID.
func (r *CouponRepository) All(ctx context.Context) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, scanCoupon)
}

// GetByID returns the coupon with the given id.
func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, getCouponByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting coupon %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("getting coupon %d: %w", id, err)
	}
	return &c, nil
}

// FindByCode looks up a coupon by its code, case-insensitively.
// Returns coupon.ErrNotFound when no such coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &c, nil
}

// Add inserts a new coupon and fills in its generated id.
func (r *CouponRepository) Add(ctx context.Context, c *coupon.Coupon) error {
	err := r.pool.QueryRow(ctx, insertCouponSQL,
		c.Code, c.Description, c.Percent, c.Amount, c.MinOrderAmount, c.MaxDiscountAmount,
		c.StartAt, c.EndAt, c.UsageLimit, c.UsedCount, c.Active,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("adding coupon %q: %w", c.Code, err)
	}
	return nil
}

// Update replaces the stored coupon with the same id.
func (r *CouponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	tag, err := r.pool.Exec(ctx, updateCouponSQL,
		c.ID, c.Code, c.Description, c.Percent, c.Amount, c.MinOrderAmount, c.MaxDiscountAmount,
		c.StartAt, c.EndAt, c.UsageLimit, c.UsedCount, c.Active,
	)
	if err != nil {
		return fmt.Errorf("updating coupon %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// Remove deletes the coupon with the given id.
func (r *CouponRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		return fmt.Errorf("removing coupon %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// Toggle flips the active flag of the coupon with the given id.
func (r *CouponRepository) Toggle(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, toggleCouponSQL, id)
	if err != nil {
		return fmt.Errorf("toggling coupon %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// IncrementUses consumes one use of the coupon. Returns
// coupon.ErrUsageLimitReached when the limit is already exhausted.
func (r *CouponRepository) IncrementUses(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, incrementUsesSQL, id)
	if err != nil {
		return fmt.Errorf("incrementing coupon %d uses: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrUsageLimitReached
	}
	return nil
}

// DecrementUses rolls back one consumed use. It never drops below zero.
func (r *CouponRepository) DecrementUses(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, decrementUsesSQL, id)
	if err != nil {
		return fmt.Errorf("decrementing coupon %d uses: %w", id, err)
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.Percent, &c.Amount,
		&c.MinOrderAmount, &c.MaxDiscountAmount, &c.StartAt, &c.EndAt,
		&c.UsageLimit, &c.UsedCount, &c.Active,
	)
	return c, err
}
