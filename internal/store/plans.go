/**
 * @description
 * This file implements the data access layer for the plan catalog. Plans are
 * read-only reference data fetched once per process; the catalog schema keeps
 * prepaid options in a child table keyed by plan id and tenure.
 */
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashva/checkout-service/internal/domain"
)

// PlanRepository handles database reads for the plan catalog.
type PlanRepository struct {
	db *pgxpool.Pool
}

// NewPlanRepository creates a new repository.
func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

// GetActivePlans retrieves all active plans with their prepaid options,
// ordered for display.
func (r *PlanRepository) GetActivePlans(ctx context.Context) ([]domain.Plan, error) {
	query := `
        SELECT id, name, short_description, best_for, monthly_price,
               original_price, deposit_amount, lock_in_months, is_popular, is_active
        FROM plans
        WHERE is_active = TRUE
        ORDER BY monthly_price ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.ShortDescription,
			&p.BestFor,
			&p.MonthlyPrice,
			&p.OriginalPrice,
			&p.DepositAmount,
			&p.LockInMonths,
			&p.IsPopular,
			&p.IsActive,
		); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		options, err := r.getPrepaidOptions(ctx, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].PrepaidOptions = options
	}
	return plans, nil
}

func (r *PlanRepository) getPrepaidOptions(ctx context.Context, planID string) ([]domain.PrepaidOption, error) {
	query := `
        SELECT months, discount_percent, total_price, savings_amount
        FROM plan_prepaid_options
        WHERE plan_id = $1
        ORDER BY months ASC
    `
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []domain.PrepaidOption
	for rows.Next() {
		var o domain.PrepaidOption
		if err := rows.Scan(&o.Months, &o.DiscountPercent, &o.TotalPrice, &o.SavingsAmount); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
