// Package app wires the storefront together and runs the HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/moto-store/internal/domain/coupon"
	"github.com/xenking/moto-store/internal/domain/order"
	"github.com/xenking/moto-store/internal/domain/pricing"
	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/domain/promotion"
	"github.com/xenking/moto-store/internal/handler"
	"github.com/xenking/moto-store/internal/storage/memory"
	"github.com/xenking/moto-store/internal/storage/postgres"
	"github.com/xenking/moto-store/pkg/health"
	"github.com/xenking/moto-store/pkg/httpmiddleware"
)

// repositories groups the storage implementations behind the domain
// interfaces, regardless of backend.
type repositories struct {
	products   product.Repository
	promotions promotion.Repository
	coupons    coupon.Repository
	orders     order.Repository
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var repos repositories
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.DatabasePingCheck(pool))

		repos = repositories{
			products:   postgres.NewProductRepository(pool),
			promotions: postgres.NewPromotionRepository(pool),
			coupons:    postgres.NewCouponRepository(pool),
			orders:     postgres.NewOrderRepository(pool),
		}
	} else {
		lg.Info("No database URL configured, using the seeded in-memory store")
		store := memory.NewStore()
		store.Seed(time.Now().UTC())
		repos = repositories{
			products:   store.Products(),
			promotions: store.Promotions(),
			coupons:    store.Coupons(),
			orders:     store.Orders(),
		}
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services.
	promoCatalog := promotion.NewCatalog(repos.promotions)
	couponCatalog := coupon.NewCatalog(repos.coupons)
	resolver := pricing.NewResolver(promoCatalog, couponCatalog, pricing.Policy{
		FreeShippingThreshold: decimal.NewFromInt(cfg.Shipping.FreeThreshold),
		ShippingFee:           decimal.NewFromInt(cfg.Shipping.Fee),
	})
	orderService := order.NewService(
		repos.products, couponCatalog, resolver, repos.orders,
		cfg.Order.CodePrefix, nil,
	)

	srv := handler.NewServer(handler.Config{
		Products:      repos.products,
		Promotions:    promoCatalog,
		PromotionRepo: repos.promotions,
		Coupons:       couponCatalog,
		CouponRepo:    repos.coupons,
		Orders:        orderService,
		OrderRepo:     repos.orders,
		Health:        healthSvc,
		AdminToken:    cfg.AdminToken,
	})

	routes := otelhttp.NewHandler(srv.Routes(), "moto-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(routes,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type", "X-Admin-Token"},
				MaxAge:       86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
