package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses, advanced by the back office.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Order is a finalized customer order with its full price breakdown.
type Order struct {
	ID   int64
	Code string // e.g. MB-20260830-0001

	CustomerName  string
	Phone         string
	Address       string
	Email         string
	Notes         string
	PaymentMethod string

	Lines []Line

	Subtotal         decimal.Decimal
	ShippingFee      decimal.Decimal
	SeasonalDiscount decimal.Decimal
	CouponDiscount   decimal.Decimal
	DiscountAmount   decimal.Decimal // seasonal + coupon
	Total            decimal.Decimal

	CouponID      int64 // 0 when no coupon applied
	CouponCode    string
	PromotionName string
	Message       string

	Status   string
	PlacedAt time.Time
}

// Line is a single order line: one unit of a product at the price it was
// sold for.
type Line struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Repository defines persistence operations for orders. NextID allocates the
// sequential identifier embedded in the order code.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	NextID(ctx context.Context) (int64, error)
}
