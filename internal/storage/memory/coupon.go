package memory

import (
	"context"
	"strings"

	"github.com/xenking/moto-store/internal/domain/coupon"
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository over the in-memory store.
type CouponRepository struct {
	s *Store
}

// All returns every coupon in insertion order.
func (r *CouponRepository) All(_ context.Context) ([]coupon.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]coupon.Coupon, len(r.s.coupons))
	copy(out, r.s.coupons)
	return out, nil
}

// GetByID returns the coupon with the given id.
func (r *CouponRepository) GetByID(_ context.Context, id int64) (*coupon.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.coupons {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, coupon.ErrNotFound
}

// FindByCode returns the coupon matching the code, case-insensitively.
func (r *CouponRepository) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.coupons {
		if strings.EqualFold(c.Code, code) {
			cp := c
			return &cp, nil
		}
	}
	return nil, coupon.ErrNotFound
}

// Add stores a new coupon, assigning its id.
func (r *CouponRepository) Add(_ context.Context, c *coupon.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = r.s.nextCouponID
	r.s.nextCouponID++
	r.s.coupons = append(r.s.coupons, *c)
	return nil
}

// Update replaces the stored coupon with the same id.
func (r *CouponRepository) Update(_ context.Context, c *coupon.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.coupons {
		if r.s.coupons[i].ID == c.ID {
			r.s.coupons[i] = *c
			return nil
		}
	}
	return coupon.ErrNotFound
}

// Remove deletes the coupon with the given id.
func (r *CouponRepository) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, c := range r.s.coupons {
		if c.ID == id {
			r.s.coupons = append(r.s.coupons[:i], r.s.coupons[i+1:]...)
			return nil
		}
	}
	return coupon.ErrNotFound
}

// Toggle flips the active flag of the coupon with the given id.
func (r *CouponRepository) Toggle(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.coupons {
		if r.s.coupons[i].ID == id {
			r.s.coupons[i].Active = !r.s.coupons[i].Active
			return nil
		}
	}
	return coupon.ErrNotFound
}

// IncrementUses consumes one use of the coupon. The check against the usage
// limit and the increment happen under the write lock, so the limit can
// never be exceeded by concurrent checkouts.
func (r *CouponRepository) IncrementUses(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.coupons {
		if r.s.coupons[i].ID != id {
			continue
		}
		c := &r.s.coupons[i]
		if c.UsageLimit != 0 && c.UsedCount >= c.UsageLimit {
			return coupon.ErrUsageLimitReached
		}
		c.UsedCount++
		return nil
	}
	return coupon.ErrNotFound
}

// DecrementUses rolls back one consumed use. It never drops below zero.
func (r *CouponRepository) DecrementUses(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.coupons {
		if r.s.coupons[i].ID != id {
			continue
		}
		if r.s.coupons[i].UsedCount > 0 {
			r.s.coupons[i].UsedCount--
		}
		return nil
	}
	return coupon.ErrNotFound
}
