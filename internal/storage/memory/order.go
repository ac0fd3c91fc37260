package memory

import (
	"context"
	"strings"

	"github.com/xenking/moto-store/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository over the in-memory store.
type OrderRepository struct {
	s *Store
}

// Create stores a finalized order.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.orders = append(r.s.orders, *o)
	return nil
}

// GetByID returns the order with the given id.
func (r *OrderRepository) GetByID(_ context.Context, id int64) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, order.ErrNotFound
}

// GetByCode returns the order with the given code, matched
// case-insensitively.
func (r *OrderRepository) GetByCode(_ context.Context, code string) (*order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.orders {
		if strings.EqualFold(o.Code, code) {
			cp := o
			return &cp, nil
		}
	}
	return nil, order.ErrNotFound
}

// List returns every order, newest first.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]order.Order, len(r.s.orders))
	for i, o := range r.s.orders {
		out[len(r.s.orders)-1-i] = o
	}
	return out, nil
}

// UpdateStatus advances the status of the order with the given id.
func (r *OrderRepository) UpdateStatus(_ context.Context, id int64, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.orders {
		if r.s.orders[i].ID == id {
			r.s.orders[i].Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

// NextID allocates the next sequential order id.
func (r *OrderRepository) NextID(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := r.s.nextOrderID
	r.s.nextOrderID++
	return id, nil
}
