package promotion

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/product"
)

// Sentinel errors for promotion lookup and admin validation.
var (
	ErrNotFound       = errors.New("promotion not found")
	ErrNameRequired   = errors.New("promotion name is required")
	ErrInvalidPercent = errors.New("discount percent must be between 1 and 100")
	ErrInvalidWindow  = errors.New("end date must be after start date")
)

// WeekendMarker tags an all-scope promotion as weekend-only. A promotion whose
// name contains this substring applies only on Saturday and Sunday (UTC).
const WeekendMarker = "Cuối Tuần"

// ScopeKind discriminates the promotion scope variants.
type ScopeKind string

const (
	ScopeAll      ScopeKind = "all"
	ScopeCategory ScopeKind = "category"
	ScopeBrand    ScopeKind = "brand"
)

// Scope is a tagged variant describing which products a promotion discounts:
// every product, one category, or one brand. Exactly one variant applies.
type Scope struct {
	Kind       ScopeKind
	CategoryID int64  // set when Kind == ScopeCategory
	Brand      string // set when Kind == ScopeBrand
}

// AllScope matches every product.
func AllScope() Scope { return Scope{Kind: ScopeAll} }

// CategoryScope matches products in the given category.
func CategoryScope(categoryID int64) Scope {
	return Scope{Kind: ScopeCategory, CategoryID: categoryID}
}

// BrandScope matches products of the given brand (exact, case-sensitive).
func BrandScope(brand string) Scope { return Scope{Kind: ScopeBrand, Brand: brand} }

// Matches reports whether the scope covers the given product.
func (s Scope) Matches(p product.Product) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeCategory:
		return s.CategoryID == p.CategoryID
	case ScopeBrand:
		return s.Brand == p.Brand
	default:
		return false
	}
}

// Promotion is a time-bounded percentage discount scoped to a set of products.
type Promotion struct {
	ID          int64
	Name        string
	Description string
	Percent     decimal.Decimal
	StartAt     time.Time
	EndAt       time.Time
	Active      bool
	Scope       Scope
}

// ActiveAt reports whether the promotion is switched on and now falls inside
// its validity window. Both window ends are inclusive.
func (p Promotion) ActiveAt(now time.Time) bool {
	return p.Active && !p.StartAt.After(now) && !p.EndAt.Before(now)
}

// Validate checks admin-entered promotion data before it enters the catalog.
func (p Promotion) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if !p.Percent.IsPositive() || p.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidPercent
	}
	if !p.EndAt.After(p.StartAt) {
		return ErrInvalidWindow
	}
	return nil
}

// Repository defines persistence operations for promotions. All returns
// promotions in stable catalog order (insertion order).
type Repository interface {
	All(ctx context.Context) ([]Promotion, error)
	Add(ctx context.Context, p *Promotion) error
	Remove(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) error
}
