package domain

import "time"

// SubscriptionPlan names a client plan.
type SubscriptionPlan string

// List of subscription plans
const (
	PlanFree    SubscriptionPlan = "free"
	PlanStarter SubscriptionPlan = "starter"
	PlanPremium SubscriptionPlan = "premium"
)

// PlanTerms are the static commercial terms of a plan.
type PlanTerms struct {
	Plan                  SubscriptionPlan `json:"plan"`
	MonthlyPriceCents     int64            `json:"monthly_price_cents"`
	InsuranceDiscountBps  int              `json:"insurance_discount_bps"`
	FreeInsuranceUpToCent int64            `json:"free_insurance_up_to_cents"`
}

var planTerms = map[SubscriptionPlan]PlanTerms{
	PlanFree:    {Plan: PlanFree},
	PlanStarter: {Plan: PlanStarter, MonthlyPriceCents: 990, InsuranceDiscountBps: 500, FreeInsuranceUpToCent: 11500},
	PlanPremium: {Plan: PlanPremium, MonthlyPriceCents: 1990, InsuranceDiscountBps: 900, FreeInsuranceUpToCent: 300000},
}

// Terms returns the commercial terms for the plan.
func (p SubscriptionPlan) Terms() (PlanTerms, bool) {
	t, ok := planTerms[p]
	return t, ok
}

// Valid checks if the plan is known.
func (p SubscriptionPlan) Valid() bool {
	_, ok := planTerms[p]
	return ok
}

// Subscription is the plan currently held by a user.
type Subscription struct {
	UserID    int64            `json:"user_id"`
	Plan      SubscriptionPlan `json:"plan"`
	StartedAt time.Time        `json:"started_at"`
}
