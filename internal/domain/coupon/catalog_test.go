package coupon

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	coupons []Coupon
	allErr  error
	incErr  error
}

func (f *fakeRepo) All(_ context.Context) ([]Coupon, error) {
	return f.coupons, f.allErr
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Coupon, error) {
	for i := range f.coupons {
		if f.coupons[i].ID == id {
			return &f.coupons[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindByCode(_ context.Context, code string) (*Coupon, error) {
	for i := range f.coupons {
		if strings.EqualFold(f.coupons[i].Code, code) {
			cp := f.coupons[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Add(_ context.Context, _ *Coupon) error    { return nil }
func (f *fakeRepo) Update(_ context.Context, _ *Coupon) error { return nil }
func (f *fakeRepo) Remove(_ context.Context, _ int64) error   { return nil }
func (f *fakeRepo) Toggle(_ context.Context, _ int64) error   { return nil }

func (f *fakeRepo) IncrementUses(_ context.Context, id int64) error {
	if f.incErr != nil {
		return f.incErr
	}
	for i := range f.coupons {
		if f.coupons[i].ID != id {
			continue
		}
		c := &f.coupons[i]
		if c.UsageLimit != 0 && c.UsedCount >= c.UsageLimit {
			return ErrUsageLimitReached
		}
		c.UsedCount++
		return nil
	}
	return ErrNotFound
}

func (f *fakeRepo) DecrementUses(_ context.Context, id int64) error {
	for i := range f.coupons {
		if f.coupons[i].ID == id {
			if f.coupons[i].UsedCount > 0 {
				f.coupons[i].UsedCount--
			}
			return nil
		}
	}
	return ErrNotFound
}

func testCoupon(id int64, code string, percent, minOrder int64) Coupon {
	return Coupon{
		ID:             id,
		Code:           code,
		Percent:        decimal.NewFromInt(percent),
		MinOrderAmount: decimal.NewFromInt(minOrder),
		StartAt:        now.AddDate(0, -1, 0),
		EndAt:          now.AddDate(0, 1, 0),
		Active:         true,
	}
}

func TestCatalogFindByCode(t *testing.T) {
	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		testCoupon(1, "WELCOME10", 10, 5_000_000),
	}})

	found, err := c.FindByCode(context.Background(), "WELCOME10", now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", found.Code)

	// Code match is case-insensitive.
	found, err = c.FindByCode(context.Background(), "welcome10", now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", found.Code)
}

func TestCatalogFindByCode_Rejections(t *testing.T) {
	expired := testCoupon(1, "OLDCODE", 10, 0)
	expired.EndAt = now.Add(-time.Hour)

	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		expired,
		testCoupon(2, "BIGMIN", 10, 50_000_000),
	}})
	amount := decimal.NewFromInt(10_000_000)

	_, err := c.FindByCode(context.Background(), "MISSING", now, amount)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.FindByCode(context.Background(), "OLDCODE", now, amount)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = c.FindByCode(context.Background(), "BIGMIN", now, amount)
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestBestAvailable_GreatestDiscountWins(t *testing.T) {
	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		testCoupon(1, "SMALL", 5, 0),
		testCoupon(2, "BIG", 15, 0),
	}})

	best, err := c.BestAvailable(context.Background(), now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "BIG", best.Code)
}

func TestBestAvailable_TieKeepsCatalogOrder(t *testing.T) {
	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		testCoupon(1, "FIRST", 10, 0),
		testCoupon(2, "SECOND", 10, 0),
	}})

	best, err := c.BestAvailable(context.Background(), now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "FIRST", best.Code)
}

func TestBestAvailable_SkipsIneligible(t *testing.T) {
	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		testCoupon(1, "BIGMIN", 50, 100_000_000),
		testCoupon(2, "OK", 5, 0),
	}})

	best, err := c.BestAvailable(context.Background(), now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "OK", best.Code)
}

func TestBestAvailable_NoneEligible(t *testing.T) {
	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		testCoupon(1, "BIGMIN", 50, 100_000_000),
	}})

	best, err := c.BestAvailable(context.Background(), now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestAvailable_SortedByDiscount(t *testing.T) {
	c := NewCatalog(&fakeRepo{coupons: []Coupon{
		testCoupon(1, "SMALL", 5, 0),
		testCoupon(2, "BIG", 15, 0),
		testCoupon(3, "BIGMIN", 50, 100_000_000),
		testCoupon(4, "MID", 10, 0),
	}})

	available, err := c.Available(context.Background(), now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
	require.Len(t, available, 3)
	assert.Equal(t, "BIG", available[0].Code)
	assert.Equal(t, "MID", available[1].Code)
	assert.Equal(t, "SMALL", available[2].Code)
}

func TestAcceptAndRelease(t *testing.T) {
	cp := testCoupon(1, "CODE", 10, 0)
	cp.UsageLimit = 1
	repo := &fakeRepo{coupons: []Coupon{cp}}
	c := NewCatalog(repo)
	ctx := context.Background()

	got, err := c.FindByCode(ctx, "CODE", now, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)

	require.NoError(t, c.Accept(ctx, got))
	assert.Equal(t, 1, got.UsedCount)
	assert.Equal(t, 1, repo.coupons[0].UsedCount)

	// Second accept hits the limit.
	err = c.Accept(ctx, got)
	assert.ErrorIs(t, err, ErrUsageLimitReached)

	require.NoError(t, c.Release(ctx, got))
	assert.Equal(t, 0, repo.coupons[0].UsedCount)
}
