package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/moto-store/internal/domain/promotion"
)

const (
	promotionColumns = `id, name, description, percent, start_at, end_at, active, scope_kind, scope_category, scope_brand`

	listPromotionsSQL = `SELECT ` + promotionColumns + ` FROM promotions ORDER BY id`

	insertPromotionSQL = `INSERT INTO promotions (name, description, percent, start_at, end_at, active, scope_kind, scope_category, scope_brand)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	deletePromotionSQL = `DELETE FROM promotions WHERE id = $1`

	togglePromotionSQL = `UPDATE promotions SET active = NOT active WHERE id = $1`
)

var _ promotion.Repository = (*PromotionRepository)(nil)

// PromotionRepository implements promotion.Repository backed by PostgreSQL.
type PromotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository returns a PromotionRepository that uses the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// All returns every promotion ordered by ID, which preserves catalog
// insertion order.
func (r *PromotionRepository) All(ctx context.Context) ([]promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx, listPromotionsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing promotions: %w", err)
	}
	return pgx.CollectRows(rows, scanPromotion)
}

// Add inserts a new promotion and fills in its generated id.
func (r *PromotionRepository) Add(ctx context.Context, p *promotion.Promotion) error {
	err := r.pool.QueryRow(ctx, insertPromotionSQL,
		p.Name, p.Description, p.Percent, p.StartAt, p.EndAt, p.Active,
		string(p.Scope.Kind), p.Scope.CategoryID, p.Scope.Brand,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("adding promotion %q: %w", p.Name, err)
	}
	return nil
}

// Remove deletes the promotion with the given id.
func (r *PromotionRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deletePromotionSQL, id)
	if err != nil {
		return fmt.Errorf("removing promotion %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

// Toggle flips the active flag of the promotion with the given id.
func (r *PromotionRepository) Toggle(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, togglePromotionSQL, id)
	if err != nil {
		return fmt.Errorf("toggling promotion %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

func scanPromotion(row pgx.CollectableRow) (promotion.Promotion, error) {
	var (
		p    promotion.Promotion
		kind string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Percent, &p.StartAt, &p.EndAt,
		&p.Active, &kind, &p.Scope.CategoryID, &p.Scope.Brand,
	)
	p.Scope.Kind = promotion.ScopeKind(kind)
	return p, err
}
