package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item: a motorbike or a spare part.
type Product struct {
	ID          int64
	Name        string
	Brand       string
	CategoryID  int64 // 0 when the product has no category
	Price       decimal.Decimal
	OldPrice    decimal.Decimal
	Description string
	ImageURL    string
	Stock       int
	Engine      string
	Color       string
	Warranty    string
}

// Category groups products for browsing and promotion scoping.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Filter narrows a catalog listing. Zero values match everything.
type Filter struct {
	CategoryID int64
	Brand      string
	Query      string
	MaxPrice   decimal.Decimal
}

// Matches reports whether p satisfies every non-zero criterion of f.
// Brand comparison is exact; the free-text query matches the product name
// case-insensitively.
func (f Filter) Matches(p Product) bool {
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
		return false
	}
	if f.MaxPrice.IsPositive() && p.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	return true
}

// Repository defines catalog operations for products and categories.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Add(ctx context.Context, p *Product) error
	Remove(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
}
