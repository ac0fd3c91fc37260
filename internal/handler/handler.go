// Package handler exposes the storefront over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
	"github.com/xenking/moto-store/pkg/health"
)

// Server holds the handler dependencies and builds the router.
type Server struct {
	products   product.Repository
	promotions *promotion.Catalog
	promoRepo  promotion.Repository
	coupons    *coupon.Catalog
	couponRepo coupon.Repository
	orders     *order.Service
	orderRepo  order.Repository
	health     *health.Health

	adminToken string
	now        func() time.Time
	validate   *validator.Validate
}

// Config collects the Server dependencies.
type Config struct {
	Products       product.Repository
	Promotions     *promotion.Catalog
	PromotionRepo  promotion.Repository
	Coupons        *coupon.Catalog
	CouponRepo     coupon.Repository
	Orders         *order.Service
	OrderRepo      order.Repository
	Health         *health.Health
	AdminToken     string
	Now            func() time.Time
}

// NewServer creates a Server. Now defaults to time.Now.
func NewServer(cfg Config) *Server {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		products:   cfg.Products,
		promotions: cfg.Promotions,
		promoRepo:  cfg.PromotionRepo,
		coupons:    cfg.Coupons,
		couponRepo: cfg.CouponRepo,
		orders:     cfg.Orders,
		orderRepo:  cfg.OrderRepo,
		health:     cfg.Health,
		adminToken: cfg.AdminToken,
		now:        now,
		validate:   validator.New(),
	}
}

// Routes builds the HTTP router. Admin routes are mounted only when an admin
// token is configured.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/categories", s.listCategories)

		r.Get("/promotions/active", s.activePromotions)

		r.Post("/coupons/validate", s.validateCoupon)
		r.Get("/coupons/available", s.availableCoupons)

		r.Post("/checkout", s.checkout)
		r.Get("/orders/track/{ref}", s.trackOrder)

		if s.adminToken != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/coupons", s.adminListCoupons)
				r.Post("/coupons", s.adminCreateCoupon)
				r.Put("/coupons/{id}", s.adminUpdateCoupon)
				r.Delete("/coupons/{id}", s.adminDeleteCoupon)
				r.Post("/coupons/{id}/toggle", s.adminToggleCoupon)

				r.Post("/promotions", s.adminCreatePromotion)
				r.Delete("/promotions/{id}", s.adminDeletePromotion)
				r.Post("/promotions/{id}/toggle", s.adminTogglePromotion)

				r.Get("/orders", s.adminListOrders)
				r.Put("/orders/{id}/status", s.adminUpdateOrderStatus)
			})
		}
	})

	if s.health != nil {
		r.Get("/livez", s.health.LiveEndpoint)
		r.Get("/readyz", s.health.ReadyEndpoint)
	}

	return r
}

// requireAdmin gates admin routes behind a static token check.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Admin-Token") != s.adminToken {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
