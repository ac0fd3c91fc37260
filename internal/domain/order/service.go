package order

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/pricing"
	"github.com/xenking/moto-store/internal/domain/product"
)

// Sentinel errors for checkout validation.
var (
	ErrNameRequired    = errors.New("customer name is required")
	ErrPhoneInvalid    = errors.New("phone must contain 10 or 11 digits")
	ErrAddressRequired = errors.New("shipping address is required")
	ErrPaymentRequired = errors.New("payment method is required")
	ErrNotFound        = errors.New("order not found")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)

// ProductNotFoundError indicates a cart references a product that does not
// exist in the catalog.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// CheckoutRequest holds the input for placing an order: the cart product ids,
// the customer-entered fields, and an optional coupon code.
type CheckoutRequest struct {
	ProductIDs []int64
	CouponCode string

	CustomerName  string
	Phone         string
	Address       string
	Email         string
	Notes         string
	PaymentMethod string
}

// Validate checks the customer-entered fields.
func (r CheckoutRequest) Validate() error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return ErrNameRequired
	}
	if !phonePattern.MatchString(r.Phone) {
		return ErrPhoneInvalid
	}
	if strings.TrimSpace(r.Address) == "" {
		return ErrAddressRequired
	}
	if strings.TrimSpace(r.PaymentMethod) == "" {
		return ErrPaymentRequired
	}
	return nil
}

// Service assembles orders: it hydrates cart lines, runs the pricing
// resolver, consumes the accepted coupon, and persists the result.
type Service struct {
	products product.Repository
	coupons  *coupon.Catalog
	resolver *pricing.Resolver
	orders   Repository

	codePrefix string
	now        func() time.Time
}

// NewService creates an order Service. codePrefix is the order code prefix
// ("MB" yields codes like MB-20260830-0001).
func NewService(
	products product.Repository,
	coupons *coupon.Catalog,
	resolver *pricing.Resolver,
	orders Repository,
	codePrefix string,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		products:   products,
		coupons:    coupons,
		resolver:   resolver,
		orders:     orders,
		codePrefix: codePrefix,
		now:        now,
	}
}

// Checkout validates the request, prices the cart, consumes the accepted
// coupon exactly once, and persists the order. If persistence fails after the
// coupon was consumed, the usage increment is rolled back.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*Order, error) {
	if len(req.ProductIDs) == 0 {
		return nil, pricing.ErrEmptyCart
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lines, orderLines, err := s.hydrate(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	couponCode := req.CouponCode

	// A concurrent checkout may exhaust the chosen coupon between resolution
	// and acceptance; reprice without the code and let the resolver pick the
	// next best coupon, or none.
	for {
		res, err := s.resolver.Resolve(ctx, lines, couponCode, now)
		if err != nil {
			return nil, errors.Wrap(err, "resolve pricing")
		}

		if res.Coupon != nil {
			if err := s.coupons.Accept(ctx, res.Coupon); err != nil {
				if errors.Is(err, coupon.ErrUsageLimitReached) {
					couponCode = ""
					continue
				}
				return nil, errors.Wrap(err, "accept coupon")
			}
		}

		return s.persist(ctx, req, orderLines, res, now)
	}
}

// persist allocates the order id, builds the order record, and stores it.
// The consumed coupon use is released when persistence fails.
func (s *Service) persist(ctx context.Context, req CheckoutRequest, orderLines []Line, res *pricing.Result, now time.Time) (*Order, error) {
	id, err := s.orders.NextID(ctx)
	if err != nil {
		return nil, s.rollback(ctx, res, errors.Wrap(err, "allocate order id"))
	}

	o := &Order{
		ID:               id,
		Code:             fmt.Sprintf("%s-%s-%04d", s.codePrefix, now.Format("20060102"), id),
		CustomerName:     req.CustomerName,
		Phone:            req.Phone,
		Address:          req.Address,
		Email:            req.Email,
		Notes:            req.Notes,
		PaymentMethod:    req.PaymentMethod,
		Lines:            orderLines,
		Subtotal:         res.Subtotal,
		ShippingFee:      res.ShippingFee,
		SeasonalDiscount: res.SeasonalDiscount,
		CouponDiscount:   res.CouponDiscount,
		DiscountAmount:   res.TotalDiscount,
		Total:            res.Total,
		PromotionName:    res.PromotionName,
		Message:          res.Message,
		Status:           StatusPending,
		PlacedAt:         now,
	}
	if res.Coupon != nil {
		o.CouponID = res.Coupon.ID
		o.CouponCode = res.Coupon.Code
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, s.rollback(ctx, res, errors.Wrap(err, "create order"))
	}
	return o, nil
}

// rollback releases the consumed coupon use after a persistence failure and
// returns the original error.
func (s *Service) rollback(ctx context.Context, res *pricing.Result, cause error) error {
	if res.Coupon != nil {
		if relErr := s.coupons.Release(ctx, res.Coupon); relErr != nil {
			return errors.Wrapf(cause, "rollback coupon use: %v", relErr)
		}
	}
	return cause
}

// hydrate loads the cart's products and snapshots their prices.
func (s *Service) hydrate(ctx context.Context, ids []int64) ([]pricing.CartLine, []Line, error) {
	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get products")
	}

	byID := make(map[int64]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	lines := make([]pricing.CartLine, 0, len(ids))
	orderLines := make([]Line, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, nil, &ProductNotFoundError{ProductID: id}
		}
		lines = append(lines, pricing.CartLine{Product: p, UnitPrice: p.Price})
		orderLines = append(orderLines, Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    1,
		})
	}
	return lines, orderLines, nil
}

// Track finds an order by its code (case-insensitive) or, failing that, by
// numeric id.
func (s *Service) Track(ctx context.Context, ref string) (*Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}

	o, err := s.orders.GetByCode(ctx, ref)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrap(err, "get order by code")
	}

	id, parseErr := strconv.ParseInt(ref, 10, 64)
	if parseErr != nil {
		return nil, ErrNotFound
	}
	return s.orders.GetByID(ctx, id)
}
