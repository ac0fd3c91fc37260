package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/moto-store/internal/domain/product"
	"github.com/xenking/moto-store/internal/seed"
	"github.com/xenking/moto-store/internal/storage/postgres"
)

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products := postgres.NewProductRepository(pool)

	existing, err := products.List(ctx, product.Filter{})
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	if len(existing) > 0 {
		slog.Info("catalog already seeded, nothing to do", slog.Int("products", len(existing)))
		return nil
	}

	if err := seedCategories(ctx, pool); err != nil {
		return errors.Wrap(err, "seed categories")
	}

	slog.Info("seeding products")
	for _, p := range seed.Products() {
		if err := products.Add(ctx, &p); err != nil {
			return errors.Wrapf(err, "add product %q", p.Name)
		}
		slog.Info("added product", slog.Int64("id", p.ID), slog.String("name", p.Name))
	}

	now := time.Now().UTC()

	slog.Info("seeding coupons")
	coupons := postgres.NewCouponRepository(pool)
	for _, c := range seed.Coupons(now) {
		if err := coupons.Add(ctx, &c); err != nil {
			return errors.Wrapf(err, "add coupon %s", c.Code)
		}
		slog.Info("added coupon", slog.String("code", c.Code))
	}

	slog.Info("seeding promotions")
	promotions := postgres.NewPromotionRepository(pool)
	for _, p := range seed.Promotions(now) {
		if err := promotions.Add(ctx, &p); err != nil {
			return errors.Wrapf(err, "add promotion %q", p.Name)
		}
		slog.Info("added promotion", slog.String("name", p.Name))
	}

	return nil
}

func seedCategories(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding categories")

	const insertSQL = `INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`

	for _, c := range seed.Categories() {
		if _, err := pool.Exec(ctx, insertSQL, c.ID, c.Name, c.Description); err != nil {
			return errors.Wrapf(err, "insert category %q", c.Name)
		}
	}

	// Keep the sequence ahead of the fixed ids.
	_, err := pool.Exec(ctx, `SELECT setval('categories_id_seq', (SELECT MAX(id) FROM categories))`)
	return err
}
