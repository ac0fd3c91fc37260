package memory

import (
	"context"

	"github.com/xenking/moto-store/internal/domain/promotion"
)

var _ promotion.Repository = (*PromotionRepository)(nil)

// PromotionRepository implements promotion.Repository over the in-memory
// store.
type PromotionRepository struct {
	s *Store
}

// All returns every promotion in insertion order.
func (r *PromotionRepository) All(_ context.Context) ([]promotion.Promotion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]promotion.Promotion, len(r.s.promotions))
	copy(out, r.s.promotions)
	return out, nil
}

// Add stores a new promotion, assigning its id.
func (r *PromotionRepository) Add(_ context.Context, p *promotion.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.nextPromotionID
	r.s.nextPromotionID++
	r.s.promotions = append(r.s.promotions, *p)
	return nil
}

// Remove deletes the promotion with the given id.
func (r *PromotionRepository) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.promotions {
		if p.ID == id {
			r.s.promotions = append(r.s.promotions[:i], r.s.promotions[i+1:]...)
			return nil
		}
	}
	return promotion.ErrNotFound
}

// Toggle flips the active flag of the promotion with the given id.
func (r *PromotionRepository) Toggle(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.promotions {
		if r.s.promotions[i].ID == id {
			r.s.promotions[i].Active = !r.s.promotions[i].Active
			return nil
		}
	}
	return promotion.ErrNotFound
}
