package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
)

var now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func TestSeed(t *testing.T) {
	s := NewStore()
	s.Seed(now)
	ctx := context.Background()

	products, err := s.Products().List(ctx, product.Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	categories, err := s.Products().ListCategories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)

	coupons, err := s.Coupons().All(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, coupons)

	promotions, err := s.Promotions().All(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, promotions)

	// Seeding twice must not duplicate anything.
	s.Seed(now)
	again, err := s.Products().List(ctx, product.Filter{})
	require.NoError(t, err)
	assert.Len(t, again, len(products))
}

func TestProductRepository(t *testing.T) {
	s := NewStore()
	repo := s.Products()
	ctx := context.Background()

	blade := &product.Product{Name: "Honda Air Blade 160", Brand: "Honda", CategoryID: 1, Price: decimal.NewFromInt(48_990_000)}
	oil := &product.Product{Name: "Nhớt Castrol Power 1", Brand: "Castrol", CategoryID: 3, Price: decimal.NewFromInt(185_000)}
	require.NoError(t, repo.Add(ctx, blade))
	require.NoError(t, repo.Add(ctx, oil))
	assert.Equal(t, int64(1), blade.ID)
	assert.Equal(t, int64(2), oil.ID)

	got, err := repo.GetByID(ctx, blade.ID)
	require.NoError(t, err)
	assert.Equal(t, "Honda Air Blade 160", got.Name)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, product.ErrNotFound)

	byBrand, err := repo.List(ctx, product.Filter{Brand: "Honda"})
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, blade.ID, byBrand[0].ID)

	byQuery, err := repo.List(ctx, product.Filter{Query: "castrol"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, oil.ID, byQuery[0].ID)

	some, err := repo.GetByIDs(ctx, []int64{1, 2, 99})
	require.NoError(t, err)
	assert.Len(t, some, 2, "missing ids are skipped")

	require.NoError(t, repo.Remove(ctx, oil.ID))
	assert.ErrorIs(t, repo.Remove(ctx, oil.ID), product.ErrNotFound)
}

func TestCouponRepository(t *testing.T) {
	s := NewStore()
	repo := s.Coupons()
	ctx := context.Background()

	cp := &coupon.Coupon{Code: "WELCOME10", Percent: decimal.NewFromInt(10), Active: true}
	require.NoError(t, repo.Add(ctx, cp))
	require.Equal(t, int64(1), cp.ID)

	found, err := repo.FindByCode(ctx, "welcome10")
	require.NoError(t, err)
	assert.Equal(t, cp.ID, found.ID)

	_, err = repo.FindByCode(ctx, "MISSING")
	assert.ErrorIs(t, err, coupon.ErrNotFound)

	cp.Description = "updated"
	require.NoError(t, repo.Update(ctx, cp))
	got, err := repo.GetByID(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)

	require.NoError(t, repo.Toggle(ctx, cp.ID))
	got, err = repo.GetByID(ctx, cp.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, repo.Remove(ctx, cp.ID))
	assert.ErrorIs(t, repo.Toggle(ctx, cp.ID), coupon.ErrNotFound)
}

func TestCouponRepository_UsageCounter(t *testing.T) {
	s := NewStore()
	repo := s.Coupons()
	ctx := context.Background()

	cp := &coupon.Coupon{Code: "LIMITED", Percent: decimal.NewFromInt(10), UsageLimit: 2, Active: true}
	require.NoError(t, repo.Add(ctx, cp))

	require.NoError(t, repo.IncrementUses(ctx, cp.ID))
	require.NoError(t, repo.IncrementUses(ctx, cp.ID))
	assert.ErrorIs(t, repo.IncrementUses(ctx, cp.ID), coupon.ErrUsageLimitReached)

	require.NoError(t, repo.DecrementUses(ctx, cp.ID))
	require.NoError(t, repo.IncrementUses(ctx, cp.ID))

	// Decrement floors at zero.
	require.NoError(t, repo.DecrementUses(ctx, cp.ID))
	require.NoError(t, repo.DecrementUses(ctx, cp.ID))
	require.NoError(t, repo.DecrementUses(ctx, cp.ID))
	got, err := repo.GetByID(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UsedCount)
}

func TestCouponRepository_UsageLimitUnderConcurrency(t *testing.T) {
	s := NewStore()
	repo := s.Coupons()
	ctx := context.Background()

	cp := &coupon.Coupon{Code: "RACE", Percent: decimal.NewFromInt(10), UsageLimit: 10, Active: true}
	require.NoError(t, repo.Add(ctx, cp))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementUses(ctx, cp.ID)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.UsedCount, "limit must never be exceeded")
}

func TestPromotionRepository(t *testing.T) {
	s := NewStore()
	repo := s.Promotions()
	ctx := context.Background()

	p := &promotion.Promotion{
		Name:    "Sale Xe Tay Ga",
		Percent: decimal.NewFromInt(15),
		StartAt: now.AddDate(0, -1, 0),
		EndAt:   now.AddDate(0, 1, 0),
		Active:  true,
		Scope:   promotion.CategoryScope(1),
	}
	require.NoError(t, repo.Add(ctx, p))
	require.Equal(t, int64(1), p.ID)

	require.NoError(t, repo.Toggle(ctx, p.ID))
	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	require.NoError(t, repo.Remove(ctx, p.ID))
	assert.ErrorIs(t, repo.Remove(ctx, p.ID), promotion.ErrNotFound)
}

func TestOrderRepository(t *testing.T) {
	s := NewStore()
	repo := s.Orders()
	ctx := context.Background()

	first, err := repo.NextID(ctx)
	require.NoError(t, err)
	second, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	require.NoError(t, repo.Create(ctx, &order.Order{ID: first, Code: "MB-20260304-0001", Status: order.StatusPending}))
	require.NoError(t, repo.Create(ctx, &order.Order{ID: second, Code: "MB-20260304-0002", Status: order.StatusPending}))

	byCode, err := repo.GetByCode(ctx, "mb-20260304-0001")
	require.NoError(t, err)
	assert.Equal(t, first, byCode.ID)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, order.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID, "newest first")

	require.NoError(t, repo.UpdateStatus(ctx, first, order.StatusConfirmed))
	got, err := repo.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 99, order.StatusShipped), order.ErrNotFound)
}
