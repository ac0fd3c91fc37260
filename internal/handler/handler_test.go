package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/pricing"
	"github.com/xenking/moto-store/internal/domain/promotion"
	"github.com/xenking/moto-store/internal/storage/memory"
)

// A Wednesday, so the weekend-only flash sale is out of play unless a test
// shifts the clock.
var now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

const adminToken = "test-admin-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	store.Seed(now)

	promoCatalog := promotion.NewCatalog(store.Promotions())
	couponCatalog := coupon.NewCatalog(store.Coupons())
	resolver := pricing.NewResolver(promoCatalog, couponCatalog, pricing.DefaultPolicy())
	orderSvc := order.NewService(
		store.Products(), couponCatalog, resolver, store.Orders(),
		"MB", func() time.Time { return now },
	)

	srv := NewServer(Config{
		Products:      store.Products(),
		Promotions:    promoCatalog,
		PromotionRepo: store.Promotions(),
		Coupons:       couponCatalog,
		CouponRepo:    store.Coupons(),
		Orders:        orderSvc,
		OrderRepo:     store.Orders(),
		AdminToken:    adminToken,
		Now:           func() time.Time { return now },
	})
	return srv.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": adminToken}
}

func TestListProducts(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]productResponse](t, rec)
	assert.Len(t, products, 7)

	rec = doJSON(t, h, http.MethodGet, "/api/products?brand=Honda", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	honda := decode[[]productResponse](t, rec)
	require.Len(t, honda, 2)
	for _, p := range honda {
		assert.Equal(t, "Honda", p.Brand)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/products?category=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/products/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[productResponse](t, rec)
	assert.Equal(t, "Honda Air Blade 160", p.Name)

	rec = doJSON(t, h, http.MethodGet, "/api/products/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCategories(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]categoryResponse](t, rec)
	assert.Len(t, categories, 4)
}

func TestActivePromotions(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/promotions/active", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	active := decode[[]promotionResponse](t, rec)
	assert.Len(t, active, 3)
}

func TestValidateCoupon(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/coupons/validate", map[string]any{
		"code":         "welcome10",
		"order_amount": "10000000",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[validateCouponResponse](t, rec)
	assert.True(t, res.Valid)
	assert.Equal(t, "WELCOME10", res.Code)
	assert.True(t, decimal.NewFromInt(1_000_000).Equal(res.Discount))
}

func TestValidateCoupon_Rejected(t *testing.T) {
	h := newTestRouter(t)

	// Below the 5,000,000 minimum: still a 200, with the reason spelled out.
	rec := doJSON(t, h, http.MethodPost, "/api/coupons/validate", map[string]any{
		"code":         "WELCOME10",
		"order_amount": "1000000",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[validateCouponResponse](t, rec)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Reason)

	rec = doJSON(t, h, http.MethodPost, "/api/coupons/validate", map[string]any{
		"code": "NOSUCHCODE",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[validateCouponResponse](t, rec)
	assert.False(t, res.Valid)
}

func TestAvailableCoupons(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/coupons/available?orderAmount=40000000", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	available := decode[[]availableCouponResponse](t, rec)
	require.Len(t, available, 3)

	// Best discount first: VIP15 capped at 5M, WELCOME10 capped at 2M,
	// SUMMER2024 fixed 1M.
	assert.Equal(t, "VIP15", available[0].Code)
	assert.Equal(t, "WELCOME10", available[1].Code)
	assert.Equal(t, "SUMMER2024", available[2].Code)

	rec = doJSON(t, h, http.MethodGet, "/api/coupons/available?orderAmount=-5", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func checkoutBody() map[string]any {
	return map[string]any{
		"product_ids":    []int64{1},
		"customer_name":  "Nguyễn Văn An",
		"phone":          "0912345678",
		"address":        "12 Lý Thường Kiệt, Hà Nội",
		"payment_method": "cod",
	}
}

func TestCheckout(t *testing.T) {
	h := newTestRouter(t)

	body := checkoutBody()
	body["coupon_code"] = "WELCOME10"

	rec := doJSON(t, h, http.MethodPost, "/api/checkout", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o := decode[orderResponse](t, rec)

	assert.Equal(t, "MB-20260304-0001", o.Code)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.True(t, decimal.NewFromInt(48_990_000).Equal(o.Subtotal))
	assert.True(t, o.ShippingFee.IsZero())
	// 15% scooter-category promotion on a Wednesday; the weekend flash sale
	// stays out.
	assert.True(t, decimal.NewFromInt(7_348_500).Equal(o.SeasonalDiscount))
	assert.True(t, decimal.NewFromInt(2_000_000).Equal(o.CouponDiscount))
	assert.True(t, decimal.NewFromInt(39_641_500).Equal(o.Total))
	assert.Equal(t, "Sale Xe Tay Ga", o.PromotionName)
	assert.Equal(t, "WELCOME10", o.CouponCode)
}

func TestCheckout_ValidationErrors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"empty cart", func(b map[string]any) { b["product_ids"] = []int64{} }},
		{"missing name", func(b map[string]any) { delete(b, "customer_name") }},
		{"bad email", func(b map[string]any) { b["email"] = "not-an-email" }},
		{"unknown field", func(b map[string]any) { b["quantity"] = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := checkoutBody()
			tt.mutate(body)
			rec := doJSON(t, h, http.MethodPost, "/api/checkout", body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckout_UnknownProduct(t *testing.T) {
	h := newTestRouter(t)

	body := checkoutBody()
	body["product_ids"] = []int64{999}

	rec := doJSON(t, h, http.MethodPost, "/api/checkout", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackOrder(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/checkout", checkoutBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	placed := decode[orderResponse](t, rec)

	rec = doJSON(t, h, http.MethodGet, "/api/orders/track/"+placed.Code, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tracked := decode[orderResponse](t, rec)
	assert.Equal(t, placed.ID, tracked.ID)

	rec = doJSON(t, h, http.MethodGet, "/api/orders/track/MB-19990101-0042", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/admin/coupons", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/admin/coupons", nil, map[string]string{"X-Admin-Token": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/admin/coupons", nil, adminHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_DisabledWithoutToken(t *testing.T) {
	srv := NewServer(Config{
		Products: memory.NewStore().Products(),
		Now:      func() time.Time { return now },
	})
	h := srv.Routes()

	rec := doJSON(t, h, http.MethodGet, "/api/admin/coupons", nil, adminHeaders())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_CreateCoupon(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/admin/coupons", map[string]any{
		"code":    "newyear26",
		"percent": "20",
		"end_at":  now.AddDate(0, 1, 0),
	}, adminHeaders())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[couponResponse](t, rec)
	assert.Equal(t, "NEWYEAR26", created.Code, "code is normalized to upper case")
	assert.True(t, created.Active)

	// Same code again is rejected.
	rec = doJSON(t, h, http.MethodPost, "/api/admin/coupons", map[string]any{
		"code":    "NEWYEAR26",
		"percent": "20",
		"end_at":  now.AddDate(0, 1, 0),
	}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_UpdateAndToggleCoupon(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPut, "/api/admin/coupons/1", map[string]any{
		"usage_limit": 5,
	}, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[couponResponse](t, rec)
	assert.Equal(t, 5, updated.UsageLimit)
	assert.Equal(t, "WELCOME10", updated.Code, "untouched fields keep their values")

	rec = doJSON(t, h, http.MethodPost, "/api/admin/coupons/1/toggle", nil, adminHeaders())
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/admin/coupons/999", nil, adminHeaders())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_CreatePromotion(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/admin/promotions", map[string]any{
		"name":    "Brembo Sale",
		"percent": "5",
		"end_at":  now.AddDate(0, 1, 0),
		"scope":   "brand",
		"brand":   "Brembo",
	}, adminHeaders())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[promotionResponse](t, rec)
	assert.Equal(t, "brand", created.Scope)
	assert.Equal(t, "Brembo", created.Brand)

	rec = doJSON(t, h, http.MethodPost, "/api/admin/promotions", map[string]any{
		"name":    "Broken",
		"percent": "0",
		"end_at":  now.AddDate(0, 1, 0),
	}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_Orders(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/checkout", checkoutBody(), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/admin/orders", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]orderResponse](t, rec)
	require.Len(t, orders, 1)

	rec = doJSON(t, h, http.MethodPut, "/api/admin/orders/1/status", map[string]any{
		"status": order.StatusConfirmed,
	}, adminHeaders())
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/admin/orders/1/status", map[string]any{
		"status": "Lost",
	}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
