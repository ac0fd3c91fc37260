package coupon

import (
	"context"
	"regexp"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Rejection reasons for coupon eligibility checks. The checkout flow treats
// any of these as "no coupon" and falls back to auto-selection, but they are
// surfaced so the presentation layer can explain a rejected code.
var (
	ErrNotFound          = errors.New("coupon not found")
	ErrInactive          = errors.New("coupon is inactive")
	ErrNotStarted        = errors.New("coupon is not valid yet")
	ErrExpired           = errors.New("coupon expired")
	ErrBelowMinimum      = errors.New("order amount below coupon minimum")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// Admin validation errors.
var (
	ErrCodeRequired   = errors.New("coupon code is required")
	ErrCodeFormat     = errors.New("coupon code must contain only uppercase letters and digits")
	ErrCodeTaken      = errors.New("coupon code already exists")
	ErrInvalidPercent = errors.New("discount percent must be between 1 and 100")
	ErrEndNotFuture   = errors.New("end date must be after today")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// IsRejection reports whether err is one of the eligibility rejection
// reasons, as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInactive) ||
		errors.Is(err, ErrNotStarted) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrBelowMinimum) ||
		errors.Is(err, ErrUsageLimitReached)
}

// Coupon is a code-based discount with eligibility constraints. Percent and
// Amount are mutually exclusive by convention; Percent wins when both are set.
type Coupon struct {
	ID                int64
	Code              string // unique, matched case-insensitively
	Description       string
	Percent           decimal.Decimal // percentage discount, zero when unused
	Amount            decimal.Decimal // fixed discount, zero when unused
	MinOrderAmount    decimal.Decimal
	MaxDiscountAmount decimal.Decimal // cap for the percent path, zero = no cap
	StartAt           time.Time
	EndAt             time.Time
	UsageLimit        int // 0 = unlimited
	UsedCount         int
	Active            bool
}

// EligibleAt checks every constraint except the code match and returns the
// first violated one, or nil when the coupon can be applied to an order of
// the given amount at the given instant. Both window ends are inclusive.
func (c Coupon) EligibleAt(now time.Time, orderAmount decimal.Decimal) error {
	if !c.Active {
		return ErrInactive
	}
	if c.StartAt.After(now) {
		return ErrNotStarted
	}
	if c.EndAt.Before(now) {
		return ErrExpired
	}
	if orderAmount.LessThan(c.MinOrderAmount) {
		return ErrBelowMinimum
	}
	if c.UsageLimit != 0 && c.UsedCount >= c.UsageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

// ComputeDiscount returns the discount the coupon yields for the given order
// amount. The percent path is capped at MaxDiscountAmount when a cap is set
// and takes priority over the fixed amount. Eligibility is the caller's
// concern; this is pure arithmetic.
func ComputeDiscount(c Coupon, orderAmount decimal.Decimal) decimal.Decimal {
	if c.Percent.IsPositive() {
		d := orderAmount.Mul(c.Percent).Div(decimal.NewFromInt(100))
		if c.MaxDiscountAmount.IsPositive() && d.GreaterThan(c.MaxDiscountAmount) {
			return c.MaxDiscountAmount
		}
		return d
	}
	if c.Amount.IsPositive() {
		return c.Amount
	}
	return decimal.Zero
}

// ValidateNew checks admin-entered data for a new coupon. The exists func
// reports whether a code is already taken (case-insensitive).
func ValidateNew(code string, percent decimal.Decimal, endAt, today time.Time, exists func(code string) bool) error {
	if code == "" {
		return ErrCodeRequired
	}
	if !codePattern.MatchString(code) {
		return ErrCodeFormat
	}
	if exists != nil && exists(code) {
		return ErrCodeTaken
	}
	if !percent.IsPositive() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercent
	}
	if !endAt.Truncate(24 * time.Hour).After(today.Truncate(24 * time.Hour)) {
		return ErrEndNotFuture
	}
	return nil
}

// Repository defines persistence operations for coupons. All returns coupons
// in stable catalog order (insertion order). IncrementUses must be atomic:
// it fails with ErrUsageLimitReached instead of exceeding the limit.
type Repository interface {
	All(ctx context.Context) ([]Coupon, error)
	GetByID(ctx context.Context, id int64) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Add(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Remove(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) error
	IncrementUses(ctx context.Context, id int64) error
	DecrementUses(ctx context.Context, id int64) error
}
