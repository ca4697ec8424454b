/**
 * @description
 * This file defines the plan catalog domain models for the checkout-service.
 * Plans are immutable reference data: a monthly price plus a set of prepaid
 * options carrying tiered discounts for longer tenures.
 */
package domain

// PrepaidOption is a discounted lump-sum price for committing to a tenure
// longer than one month. TotalPrice and SavingsAmount are denominated in
// whole rupees, like every money value in this service.
type PrepaidOption struct {
	Months          int   `json:"months"`
	DiscountPercent int   `json:"discount_percent"`
	TotalPrice      int64 `json:"total_price"`
	SavingsAmount   int64 `json:"savings_amount"`
}

// Plan represents a purifier subscription plan from the catalog.
type Plan struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"short_description"`
	BestFor          string          `json:"best_for"`
	MonthlyPrice     int64           `json:"monthly_price"`
	OriginalPrice    int64           `json:"original_price"`
	DepositAmount    int64           `json:"deposit_amount"`
	LockInMonths     int             `json:"lock_in_months"`
	IsPopular        bool            `json:"is_popular"`
	IsActive         bool            `json:"is_active"`
	PrepaidOptions   []PrepaidOption `json:"prepaid_options"`
}

// PrepaidOptionFor returns the prepaid option matching the given tenure.
func (p Plan) PrepaidOptionFor(months int) (PrepaidOption, bool) {
	for _, o := range p.PrepaidOptions {
		if o.Months == months {
			return o, true
		}
	}
	return PrepaidOption{}, false
}

// PrepaidTenures is the fixed set of tenures the storefront sells prepaid.
var PrepaidTenures = []int{3, 6, 12}

// DefaultPlanID is used when checkout is entered with an unknown plan id.
const DefaultPlanID = "advanced-ro-uv"

// FallbackPlans returns the static catalog used when the plan-service is
// unreachable. Keeping checkout completable without the catalog DB is a
// deliberate resilience contract.
func FallbackPlans() []Plan {
	return []Plan{
		{
			ID:               "basic-ro",
			Name:             "Basic RO",
			ShortDescription: "5-stage RO purification for municipal water",
			BestFor:          "Municipal water with TDS below 500 ppm",
			MonthlyPrice:     399,
			OriginalPrice:    499,
			DepositAmount:    0,
			LockInMonths:     6,
			IsActive:         true,
			PrepaidOptions: []PrepaidOption{
				{Months: 3, DiscountPercent: 5, TotalPrice: 1137, SavingsAmount: 60},
				{Months: 6, DiscountPercent: 10, TotalPrice: 2154, SavingsAmount: 240},
				{Months: 12, DiscountPercent: 15, TotalPrice: 4069, SavingsAmount: 719},
			},
		},
		{
			ID:               "advanced-ro-uv",
			Name:             "Advanced RO+UV",
			ShortDescription: "7-stage RO+UV for borewell & tanker water",
			BestFor:          "Borewell & tanker water with high TDS",
			MonthlyPrice:     549,
			OriginalPrice:    699,
			DepositAmount:    0,
			LockInMonths:     6,
			IsPopular:        true,
			IsActive:         true,
			PrepaidOptions: []PrepaidOption{
				{Months: 3, DiscountPercent: 5, TotalPrice: 1565, SavingsAmount: 82},
				{Months: 6, DiscountPercent: 10, TotalPrice: 2965, SavingsAmount: 329},
				{Months: 12, DiscountPercent: 15, TotalPrice: 5600, SavingsAmount: 988},
			},
		},
		{
			ID:               "premium-copper",
			Name:             "Premium Copper+",
			ShortDescription: "8-stage RO+UV+Copper for health-conscious families",
			BestFor:          "Health-conscious families seeking copper benefits",
			MonthlyPrice:     749,
			OriginalPrice:    999,
			DepositAmount:    0,
			LockInMonths:     6,
			IsActive:         true,
			PrepaidOptions: []PrepaidOption{
				{Months: 3, DiscountPercent: 5, TotalPrice: 2135, SavingsAmount: 112},
				{Months: 6, DiscountPercent: 10, TotalPrice: 4045, SavingsAmount: 449},
				{Months: 12, DiscountPercent: 15, TotalPrice: 7640, SavingsAmount: 1348},
			},
		},
		{
			ID:               "alkaline-pro",
			Name:             "Alkaline Pro",
			ShortDescription: "7-stage RO+Alkaline for wellness enthusiasts",
			BestFor:          "Those seeking alkaline water health benefits",
			MonthlyPrice:     649,
			OriginalPrice:    849,
			DepositAmount:    0,
			LockInMonths:     6,
			IsActive:         true,
			PrepaidOptions: []PrepaidOption{
				{Months: 3, DiscountPercent: 5, TotalPrice: 1850, SavingsAmount: 97},
				{Months: 6, DiscountPercent: 10, TotalPrice: 3505, SavingsAmount: 389},
				{Months: 12, DiscountPercent: 15, TotalPrice: 6620, SavingsAmount: 1168},
			},
		},
	}
}
