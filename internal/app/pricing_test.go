package app

import (
	"fmt"
	"testing"

	"github.com/ashva/checkout-service/internal/domain"
)

func TestQuote_MonthlyMode(t *testing.T) {
	plan := domain.Plan{
		ID:            "basic-ro",
		MonthlyPrice:  399,
		OriginalPrice: 499,
		BestFor:       "Municipal water with TDS below 500 ppm",
	}

	q := Quote(plan, BillingMonthly, 1)

	if q.DisplayMonthly != 399 {
		t.Fatalf("expected display monthly 399, got %d", q.DisplayMonthly)
	}
	if q.StrikeMonthly != 499 {
		t.Fatalf("expected strike monthly 499, got %d", q.StrikeMonthly)
	}
	if q.TenureLabel != "Monthly" {
		t.Fatalf("expected Monthly tenure label, got %q", q.TenureLabel)
	}
	if q.Subtitle != plan.BestFor {
		t.Fatalf("expected best-for subtitle, got %q", q.Subtitle)
	}
}

func TestQuote_MonthlyMode_NoStrikeWhenNotDiscounted(t *testing.T) {
	plan := domain.Plan{ID: "flat", MonthlyPrice: 500, OriginalPrice: 500}

	q := Quote(plan, BillingMonthly, 1)

	if q.StrikeMonthly != 0 {
		t.Fatalf("expected no strike price when original equals monthly, got %d", q.StrikeMonthly)
	}
}

func TestQuote_PrepaidConsistencyAcrossCatalog(t *testing.T) {
	// For every plan and configured tenure, the quoted effective monthly must
	// equal the half-away-from-zero rounding of totalPrice/months, and the
	// advertised savings must reconcile with the full-price total.
	for _, plan := range domain.FallbackPlans() {
		for _, option := range plan.PrepaidOptions {
			t.Run(fmt.Sprintf("%s/%dm", plan.ID, option.Months), func(t *testing.T) {
				q := Quote(plan, BillingPrepaid, option.Months)

				want := divRound(option.TotalPrice, int64(option.Months))
				if q.DisplayMonthly != want {
					t.Fatalf("expected display monthly %d, got %d", want, q.DisplayMonthly)
				}
				if q.StrikeMonthly != plan.MonthlyPrice {
					t.Fatalf("expected strike monthly %d, got %d", plan.MonthlyPrice, q.StrikeMonthly)
				}
				if got := plan.MonthlyPrice*int64(option.Months) - option.TotalPrice; got != option.SavingsAmount {
					t.Fatalf("catalog savings mismatch: computed %d, recorded %d", got, option.SavingsAmount)
				}
				wantSubtitle := fmt.Sprintf("Save ₹%d (%d%%)", option.SavingsAmount, option.DiscountPercent)
				if q.Subtitle != wantSubtitle {
					t.Fatalf("expected subtitle %q, got %q", wantSubtitle, q.Subtitle)
				}
			})
		}
	}
}

func TestQuote_PrepaidFallbackWithoutMatchingOption(t *testing.T) {
	plan := domain.Plan{
		ID:           "basic-ro",
		MonthlyPrice: 399,
		PrepaidOptions: []domain.PrepaidOption{
			{Months: 3, DiscountPercent: 5, TotalPrice: 1137, SavingsAmount: 60},
		},
	}

	// 9 months is not a configured tenure; the quote degrades to the plain
	// monthly price with no discount messaging.
	q := Quote(plan, BillingPrepaid, 9)

	if q.DisplayMonthly != 399 {
		t.Fatalf("expected fallback to monthly price 399, got %d", q.DisplayMonthly)
	}
	if q.StrikeMonthly != 0 {
		t.Fatalf("expected no strike price on fallback, got %d", q.StrikeMonthly)
	}
	if q.Subtitle != "Prepaid for 9 months" {
		t.Fatalf("expected neutral prepaid subtitle, got %q", q.Subtitle)
	}
}

func TestDivRound_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		total, parts, want int64
	}{
		{1137, 3, 379},
		{2154, 6, 359},
		{4069, 12, 339}, // 339.08...
		{5600, 12, 467}, // 466.67 rounds up
		{7, 2, 4},       // exact half rounds away from zero
		{9, 3, 3},
	}
	for _, tt := range tests {
		if got := divRound(tt.total, tt.parts); got != tt.want {
			t.Fatalf("divRound(%d, %d): expected %d, got %d", tt.total, tt.parts, tt.want, got)
		}
	}
}
