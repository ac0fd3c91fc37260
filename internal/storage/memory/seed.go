package memory

import (
	"time"

	"github.com/xenking/moto-store/internal/seed"
)

// Seed loads the sample storefront data: categories, products, coupons, and
// seasonal promotions. It is a no-op when products already exist.
func (s *Store) Seed(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) > 0 {
		return
	}

	s.categories = seed.Categories()

	s.products = seed.Products()
	for i := range s.products {
		s.products[i].ID = s.nextProductID
		s.nextProductID++
	}

	s.coupons = seed.Coupons(now)
	for i := range s.coupons {
		s.coupons[i].ID = s.nextCouponID
		s.nextCouponID++
	}

	s.promotions = seed.Promotions(now)
	for i := range s.promotions {
		s.promotions[i].ID = s.nextPromotionID
		s.nextPromotionID++
	}
}
