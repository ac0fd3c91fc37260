package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
)

// ErrEmptyCart is returned when Resolve is called with no cart lines.
// Checkout must refuse to proceed with an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

var hundred = decimal.NewFromInt(100)

// CartLine is a single cart entry: one unit of a product at a snapshotted
// price. Quantity is fixed at one; the storefront has no multi-quantity cart.
type CartLine struct {
	Product   product.Product
	UnitPrice decimal.Decimal
}

// Policy holds the configured shipping rules. Orders reaching the free
// shipping threshold ship for free; everything below pays the flat fee.
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// DefaultPolicy mirrors the storefront defaults: free shipping from
// 5,000,000₫, otherwise a 150,000₫ flat fee.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(5_000_000),
		ShippingFee:           decimal.NewFromInt(150_000),
	}
}

// PromotionSource answers per-product seasonal discount queries.
// *promotion.Catalog satisfies it.
type PromotionSource interface {
	BestDiscount(ctx context.Context, p product.Product, now time.Time) (promotion.Discount, error)
}

// CouponSource answers coupon eligibility queries. *coupon.Catalog satisfies
// it. The resolver only reads; accepting the coupon is the order flow's job.
type CouponSource interface {
	FindByCode(ctx context.Context, code string, now time.Time, orderAmount decimal.Decimal) (*coupon.Coupon, error)
	BestAvailable(ctx context.Context, now time.Time, orderAmount decimal.Decimal) (*coupon.Coupon, error)
}

// Result is the deterministic, auditable outcome of pricing a cart.
type Result struct {
	Subtotal         decimal.Decimal
	ShippingFee      decimal.Decimal
	SeasonalDiscount decimal.Decimal
	CouponDiscount   decimal.Decimal
	TotalDiscount    decimal.Decimal
	Total            decimal.Decimal

	// Coupon is the accepted coupon, nil when no coupon applied. The caller
	// must consume exactly one use of it when the order is finalized.
	Coupon *coupon.Coupon
	// PromotionName is the first matching promotion name in cart order,
	// display-only.
	PromotionName string
	// CouponRejection explains why a user-supplied code was not applied.
	// Empty when no code was supplied or the code was accepted.
	CouponRejection string
	// Message is a human-readable summary of the applied discounts.
	Message string
}

// Resolver computes the full price breakdown for a cart. It is stateless and
// safe for concurrent use; all reads go through the injected catalogs.
type Resolver struct {
	promotions PromotionSource
	coupons    CouponSource
	policy     Policy
}

// NewResolver creates a Resolver with the given catalogs and shipping policy.
func NewResolver(promotions PromotionSource, coupons CouponSource, policy Policy) *Resolver {
	return &Resolver{
		promotions: promotions,
		coupons:    coupons,
		policy:     policy,
	}
}

// Resolve prices the cart at the given instant.
//
// Seasonal and coupon discounts stack additively, and the total is not
// clamped at zero: aggressive discount combinations can in principle drive it
// negative, matching the storefront's behaviour. A user-supplied coupon code
// that fails any eligibility check silently falls back to the best available
// coupon; the rejection reason is still reported in the result.
func (r *Resolver) Resolve(ctx context.Context, lines []CartLine, couponCode string, now time.Time) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	res := &Result{}

	for _, line := range lines {
		res.Subtotal = res.Subtotal.Add(line.UnitPrice)
	}

	res.ShippingFee = decimal.Zero
	if res.Subtotal.LessThan(r.policy.FreeShippingThreshold) {
		res.ShippingFee = r.policy.ShippingFee
	}

	// Seasonal discount, accumulated per line. The first non-empty promotion
	// name in cart order is kept for the message.
	for _, line := range lines {
		d, err := r.promotions.BestDiscount(ctx, line.Product, now)
		if err != nil {
			return nil, errors.Wrap(err, "seasonal discount")
		}
		if d.Percent.IsPositive() {
			res.SeasonalDiscount = res.SeasonalDiscount.Add(line.UnitPrice.Mul(d.Percent).Div(hundred))
		}
		if res.PromotionName == "" && d.Name != "" {
			res.PromotionName = d.Name
		}
	}

	applied, err := r.pickCoupon(ctx, couponCode, now, res)
	if err != nil {
		return nil, err
	}
	if applied != nil {
		if d := coupon.ComputeDiscount(*applied, res.Subtotal); d.IsPositive() {
			res.Coupon = applied
			res.CouponDiscount = d
		}
	}

	res.TotalDiscount = res.SeasonalDiscount.Add(res.CouponDiscount)
	res.Total = res.Subtotal.Add(res.ShippingFee).Sub(res.TotalDiscount)
	res.Message = summarize(res)

	return res, nil
}

// pickCoupon resolves the candidate coupon: the user-supplied code when
// eligible, otherwise the best available one.
func (r *Resolver) pickCoupon(ctx context.Context, code string, now time.Time, res *Result) (*coupon.Coupon, error) {
	if code != "" {
		found, err := r.coupons.FindByCode(ctx, code, now, res.Subtotal)
		switch {
		case err == nil:
			return found, nil
		case coupon.IsRejection(err):
			res.CouponRejection = err.Error()
		default:
			return nil, errors.Wrap(err, "find coupon")
		}
	}

	best, err := r.coupons.BestAvailable(ctx, now, res.Subtotal)
	if err != nil {
		return nil, errors.Wrap(err, "best coupon")
	}
	return best, nil
}

// summarize builds the user-facing discount summary, e.g.
//
//	khuyến mãi 'Sale Xe Tay Ga' -7348500₫ + mã WELCOME10 -2000000₫
func summarize(res *Result) string {
	var parts []string
	if res.SeasonalDiscount.IsPositive() && res.PromotionName != "" {
		parts = append(parts, fmt.Sprintf("khuyến mãi %q -%s₫", res.PromotionName, res.SeasonalDiscount))
	}
	if res.Coupon != nil {
		parts = append(parts, fmt.Sprintf("mã %s -%s₫", res.Coupon.Code, res.CouponDiscount))
	}
	return strings.Join(parts, " + ")
}
