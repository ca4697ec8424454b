/**
 * @description
 * This file implements the pricing engine for the checkout-service. Given a
 * plan and a billing selection it computes the effective monthly price, the
 * strike-through reference price, and the display subtitle. The engine is a
 * pure function over catalog data and is safe to call on every request.
 */
package app

import (
	"fmt"

	"github.com/ashva/checkout-service/internal/domain"
)

// BillingMode selects between rolling monthly billing and a prepaid tenure.
type BillingMode string

const (
	BillingMonthly BillingMode = "monthly"
	BillingPrepaid BillingMode = "prepaid"
)

// IsValid reports whether m is a known billing mode.
func (m BillingMode) IsValid() bool {
	return m == BillingMonthly || m == BillingPrepaid
}

// PricingQuote is the computed display pricing for one plan + billing
// selection. All amounts are whole rupees. A zero StrikeMonthly means no
// strike-through price is shown.
type PricingQuote struct {
	DisplayMonthly int64  `json:"display_monthly"`
	StrikeMonthly  int64  `json:"strike_monthly,omitempty"`
	Subtitle       string `json:"subtitle"`
	TenureLabel    string `json:"tenure_label"`
}

// Quote computes the effective pricing for a plan under the given billing
// selection.
//
// In prepaid mode a plan may lack an option for the requested tenure; that is
// a catalog inconsistency, not an error, and the quote degrades to the plain
// monthly price so the purchase stays completable.
func Quote(plan domain.Plan, mode BillingMode, tenureMonths int) PricingQuote {
	if mode == BillingPrepaid && tenureMonths > 1 {
		option, ok := plan.PrepaidOptionFor(tenureMonths)
		totalPrice := plan.MonthlyPrice * int64(tenureMonths)
		subtitle := fmt.Sprintf("Prepaid for %d months", tenureMonths)
		var strike int64
		if ok {
			totalPrice = option.TotalPrice
			subtitle = fmt.Sprintf("Save ₹%d (%d%%)", option.SavingsAmount, option.DiscountPercent)
			strike = plan.MonthlyPrice
		}
		return PricingQuote{
			DisplayMonthly: divRound(totalPrice, int64(tenureMonths)),
			StrikeMonthly:  strike,
			Subtitle:       subtitle,
			TenureLabel:    fmt.Sprintf("%d months prepaid", tenureMonths),
		}
	}

	quote := PricingQuote{
		DisplayMonthly: plan.MonthlyPrice,
		Subtitle:       plan.BestFor,
		TenureLabel:    "Monthly",
	}
	if plan.OriginalPrice > plan.MonthlyPrice {
		quote.StrikeMonthly = plan.OriginalPrice
	}
	return quote
}

// divRound divides total by parts rounding half away from zero. Amounts are
// always positive, so integer arithmetic avoids accumulating float error.
func divRound(total, parts int64) int64 {
	return (2*total + parts) / (2 * parts)
}
