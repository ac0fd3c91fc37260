package memory

import (
	"context"

	"github.com/xenking/moto-store/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository over the in-memory store.
type ProductRepository struct {
	s *Store
}

// List returns the products matching the filter, in catalog order.
func (r *ProductRepository) List(_ context.Context, f product.Filter) ([]product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]product.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID returns the product with the given id.
func (r *ProductRepository) GetByID(_ context.Context, id int64) (*product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, product.ErrNotFound
}

// GetByIDs returns the products whose ids appear in ids. Missing ids are
// skipped; the caller decides whether absence is an error.
func (r *ProductRepository) GetByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	out := make([]product.Product, 0, len(ids))
	for _, p := range r.s.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Add stores a new product, assigning its id.
func (r *ProductRepository) Add(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.nextProductID
	r.s.nextProductID++
	r.s.products = append(r.s.products, *p)
	return nil
}

// Remove deletes the product with the given id.
func (r *ProductRepository) Remove(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.products {
		if p.ID == id {
			r.s.products = append(r.s.products[:i], r.s.products[i+1:]...)
			return nil
		}
	}
	return product.ErrNotFound
}

// ListCategories returns all categories.
func (r *ProductRepository) ListCategories(_ context.Context) ([]product.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]product.Category, len(r.s.categories))
	copy(out, r.s.categories)
	return out, nil
}
