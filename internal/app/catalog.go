/**
 * @description
 * This file implements the plan catalog service. The catalog is fetched from
 * the plans database once per process; when the source is missing or fails,
 * the static fallback catalog keeps checkout completable. Falling back is a
 * resilience contract of the storefront, not an error path.
 */
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ashva/checkout-service/internal/domain"
)

// PlanSource supplies the plan reference data, typically backed by Postgres.
type PlanSource interface {
	GetActivePlans(ctx context.Context) ([]domain.Plan, error)
}

// Catalog caches the plan reference data for the lifetime of the process.
type Catalog struct {
	source PlanSource
	logger *slog.Logger

	once  sync.Once
	plans []domain.Plan
}

// NewCatalog creates a catalog over the given source. A nil source means the
// static fallback catalog is used unconditionally.
func NewCatalog(source PlanSource, logger *slog.Logger) *Catalog {
	return &Catalog{source: source, logger: logger}
}

// Plans returns the active plan catalog, fetching it on first use.
func (c *Catalog) Plans(ctx context.Context) []domain.Plan {
	c.once.Do(func() {
		if c.source == nil {
			c.plans = domain.FallbackPlans()
			return
		}
		plans, err := c.source.GetActivePlans(ctx)
		if err != nil || len(plans) == 0 {
			c.logger.Warn("plan catalog fetch failed, using fallback catalog", "error", err)
			c.plans = domain.FallbackPlans()
			return
		}
		c.plans = plans
	})
	return c.plans
}

// PlanByID returns the plan with the given id.
func (c *Catalog) PlanByID(ctx context.Context, id string) (domain.Plan, bool) {
	for _, p := range c.Plans(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Plan{}, false
}

// PlanOrDefault resolves a plan id, falling back to the default plan when the
// id is unknown so a stale or mistyped link still lands on a sellable plan.
func (c *Catalog) PlanOrDefault(ctx context.Context, id string) domain.Plan {
	if p, ok := c.PlanByID(ctx, id); ok {
		return p
	}
	if p, ok := c.PlanByID(ctx, domain.DefaultPlanID); ok {
		return p
	}
	// Catalog without the default plan: take the first entry.
	return c.Plans(ctx)[0]
}
