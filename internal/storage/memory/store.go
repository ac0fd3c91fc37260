// Package memory provides the in-process storage backend: plain slices
// guarded by a read-write lock, with monotonic id counters. It backs the
// storefront when no database is configured and every unit test.
package memory

import (
	"sync"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
)

// Store holds every collection. Reads vastly outnumber writes, so a single
// RWMutex per store keeps things simple; the coupon usage counter mutation is
// a check-and-increment under the write lock.
type Store struct {
	mu sync.RWMutex

	products   []product.Product
	categories []product.Category
	promotions []promotion.Promotion
	coupons    []coupon.Coupon
	orders     []order.Order

	nextProductID   int64
	nextPromotionID int64
	nextCouponID    int64
	nextOrderID     int64
}

// NewStore creates an empty Store. Use Seed to load the sample storefront
// data.
func NewStore() *Store {
	return &Store{
		nextProductID:   1,
		nextPromotionID: 1,
		nextCouponID:    1,
		nextOrderID:     1,
	}
}

// Products returns the product repository view of the store.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// Promotions returns the promotion repository view of the store.
func (s *Store) Promotions() *PromotionRepository { return &PromotionRepository{s: s} }

// Coupons returns the coupon repository view of the store.
func (s *Store) Coupons() *CouponRepository { return &CouponRepository{s: s} }

// Orders returns the order repository view of the store.
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }
