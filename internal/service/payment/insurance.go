package payment

import (
	"fmt"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
)

var insuranceTiers = [...]domain.InsuranceTier{
	{ID: domain.InsuranceNone, Name: "No insurance"},
	{ID: domain.InsuranceBasic, Name: "Basic", CoverageCents: 11500},
	{ID: domain.InsurancePremium, Name: "Premium", CoverageCents: 300000, PriceCents: 299},
	{ID: domain.InsuranceMax, Name: "Max", CoverageCents: 600000, PriceCents: 599},
}

// InsurancePlans returns every coverage tier, cheapest first.
func InsurancePlans() []domain.InsuranceTier {
	out := make([]domain.InsuranceTier, len(insuranceTiers))
	copy(out, insuranceTiers[:])
	return out
}

// InsurancePlan looks a tier up by id.
func InsurancePlan(id domain.InsuranceTierID) (domain.InsuranceTier, error) {
	for _, t := range insuranceTiers {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.InsuranceTier{}, fmt.Errorf("%w: insurance tier %q", apperr.ErrNotFound, id)
}
