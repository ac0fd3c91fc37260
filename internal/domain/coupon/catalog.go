package coupon

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Catalog answers coupon eligibility queries and owns the usage counter
// mutations. It is the only component allowed to change UsedCount.
type Catalog struct {
	repo Repository
}

// NewCatalog creates a Catalog backed by the given repository.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// FindByCode resolves a user-entered code against the order amount at the
// given instant. The code match is case-insensitive and exact. On rejection
// it returns nil and one of the sentinel reasons (ErrNotFound, ErrInactive,
// ErrNotStarted, ErrExpired, ErrBelowMinimum, ErrUsageLimitReached).
func (c *Catalog) FindByCode(ctx context.Context, code string, now time.Time, orderAmount decimal.Decimal) (*Coupon, error) {
	found, err := c.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	if err := found.EligibleAt(now, orderAmount); err != nil {
		return nil, err
	}
	return found, nil
}

// BestAvailable returns the eligible coupon yielding the strictly greatest
// discount for the order amount, or nil when none is eligible. Ties keep the
// coupon appearing first in catalog order.
func (c *Catalog) BestAvailable(ctx context.Context, now time.Time, orderAmount decimal.Decimal) (*Coupon, error) {
	all, err := c.repo.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list coupons")
	}

	var (
		best         *Coupon
		bestDiscount = decimal.Zero
	)
	for i := range all {
		if all[i].EligibleAt(now, orderAmount) != nil {
			continue
		}
		if d := ComputeDiscount(all[i], orderAmount); d.GreaterThan(bestDiscount) {
			best = &all[i]
			bestDiscount = d
		}
	}
	return best, nil
}

// Available returns every eligible coupon for the order amount, best discount
// first. Order between equal discounts follows catalog order.
func (c *Catalog) Available(ctx context.Context, now time.Time, orderAmount decimal.Decimal) ([]Coupon, error) {
	all, err := c.repo.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list coupons")
	}

	type scored struct {
		c Coupon
		d decimal.Decimal
	}
	eligible := make([]scored, 0, len(all))
	for _, cp := range all {
		if cp.EligibleAt(now, orderAmount) == nil {
			eligible = append(eligible, scored{c: cp, d: ComputeDiscount(cp, orderAmount)})
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].d.GreaterThan(eligible[j].d)
	})

	out := make([]Coupon, len(eligible))
	for i, s := range eligible {
		out[i] = s.c
	}
	return out, nil
}

// Accept consumes one use of the coupon. It must be called at most once per
// finalized order and only for the coupon actually applied. The increment is
// atomic with respect to the usage limit.
func (c *Catalog) Accept(ctx context.Context, cp *Coupon) error {
	if err := c.repo.IncrementUses(ctx, cp.ID); err != nil {
		return errors.Wrap(err, "increment coupon uses")
	}
	cp.UsedCount++
	return nil
}

// Release undoes a previous Accept. It exists solely to roll back the usage
// increment when order persistence fails after the coupon was consumed.
func (c *Catalog) Release(ctx context.Context, cp *Coupon) error {
	if err := c.repo.DecrementUses(ctx, cp.ID); err != nil {
		return errors.Wrap(err, "decrement coupon uses")
	}
	if cp.UsedCount > 0 {
		cp.UsedCount--
	}
	return nil
}
