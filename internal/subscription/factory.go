package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/subtrackhq/subtrack-go/internal/plan"
	"github.com/subtrackhq/subtrack-go/pkg/enums"
)

// UsageFromUsageRate opens a fresh usage window for a plan usage rate.
func UsageFromUsageRate(rate plan.UsageRate, now time.Time) Usage {
	return Usage{
		Title:          rate.Title,
		Code:           rate.Code,
		Unit:           rate.Unit,
		AvailableUnits: rate.AvailableUnits,
		RenewCycle:     rate.RenewCycle,
		UsedUnits:      decimal.Zero,
		LastRenew:      now,
	}
}

// NewFromPlan assembles the create projection for subscribing a user to a
// plan: the plan snapshot, a billing window opened now, and zeroed usages.
func NewFromPlan(subscriberID string, p plan.Plan, now time.Time) Create {
	usages := make([]Usage, 0, len(p.UsageRates))
	for _, rate := range p.UsageRates {
		usages = append(usages, UsageFromUsageRate(rate, now))
	}
	return Create{
		SubscriberID: subscriberID,
		PlanInfo: PlanInfo{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Level:       p.Level,
			Features:    p.Features,
		},
		BillingInfo: BillingInfo{
			Price:        p.Price,
			Currency:     p.Currency,
			BillingCycle: p.BillingCycle,
			LastBilling:  now,
		},
		Status:    enums.SubscriptionStatusActive,
		Autorenew: true,
		Usages:    usages,
		Discounts: append([]plan.Discount(nil), p.Discounts...),
		Fields:    cloneFields(p.Fields),
	}
}

// NextBillingDate is the end of the current billing window. Lifetime plans
// never bill again and report the zero time.
func NextBillingDate(b BillingInfo) time.Time {
	if b.BillingCycle == enums.PeriodLifetime {
		return time.Time{}
	}
	return b.LastBilling.AddDate(0, 0, b.BillingCycle.Days())
}

// DaysToNextBilling counts whole days until the next billing date, never
// negative. Lifetime plans report zero.
func DaysToNextBilling(b BillingInfo, now time.Time) int {
	next := NextBillingDate(b)
	if next.IsZero() || !next.After(now) {
		return 0
	}
	return int(next.Sub(now).Hours() / 24)
}
