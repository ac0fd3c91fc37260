package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/moto-store/internal/domain/product"
)

// Catalog answers discount queries over the promotion repository. It never
// mutates promotions; admin writes go straight to the repository.
type Catalog struct {
	repo Repository
}

// NewCatalog creates a Catalog backed by the given repository.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// Discount is the outcome of matching a product against the catalog.
type Discount struct {
	// Percent is the maximum discount percent among matching promotions,
	// zero when nothing matches.
	Percent decimal.Decimal
	// Name is the name of the first matching promotion in catalog order.
	// It is display-only and may differ from the promotion that produced
	// Percent when several promotions match.
	Name string
}

// Active returns the promotions that are switched on and inside their
// validity window at the given instant, in catalog order.
func (c *Catalog) Active(ctx context.Context, now time.Time) ([]Promotion, error) {
	all, err := c.repo.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list promotions")
	}

	active := make([]Promotion, 0, len(all))
	for _, p := range all {
		if p.ActiveAt(now) {
			active = append(active, p)
		}
	}
	return active, nil
}

// BestDiscount returns the highest discount applicable to the product right
// now. All-scope promotions carrying the weekend marker in their name count
// only on Saturday and Sunday (UTC weekday).
func (c *Catalog) BestDiscount(ctx context.Context, p product.Product, now time.Time) (Discount, error) {
	active, err := c.Active(ctx, now)
	if err != nil {
		return Discount{}, err
	}

	var best Discount
	for _, promo := range active {
		if !promo.Scope.Matches(p) {
			continue
		}
		if promo.Scope.Kind == ScopeAll && isWeekendOnly(promo) && !isWeekend(now) {
			continue
		}
		if best.Name == "" {
			best.Name = promo.Name
		}
		if promo.Percent.GreaterThan(best.Percent) {
			best.Percent = promo.Percent
		}
	}
	return best, nil
}

func isWeekendOnly(p Promotion) bool {
	return strings.Contains(p.Name, WeekendMarker)
}

func isWeekend(now time.Time) bool {
	wd := now.UTC().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
