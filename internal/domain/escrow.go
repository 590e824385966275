package domain

import "time"

// Escrow holds a client's funds until the delivery is validated.
type Escrow struct {
	ID          int64
	DeliveryID  int64
	PayerID     int64
	AmountCents int64
	Currency    string
	ProviderRef string
	Status      EscrowStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InsuranceTierID names a coverage tier.
type InsuranceTierID string

// List of insurance tiers
const (
	InsuranceNone    InsuranceTierID = "none"
	InsuranceBasic   InsuranceTierID = "basic"
	InsurancePremium InsuranceTierID = "premium"
	InsuranceMax     InsuranceTierID = "max"
)

// Valid checks if the tier is known.
func (t InsuranceTierID) Valid() bool {
	switch t {
	case InsuranceNone, InsuranceBasic, InsurancePremium, InsuranceMax:
		return true
	}
	return false
}

// InsuranceTier describes the coverage bought for one delivery.
type InsuranceTier struct {
	ID            InsuranceTierID `json:"id"`
	Name          string          `json:"name"`
	CoverageCents int64           `json:"coverage_cents"`
	PriceCents    int64           `json:"price_cents"`
}

// EscrowConfig is the static escrow configuration exposed to clients.
type EscrowConfig struct {
	Currency        string `json:"currency"`
	PlatformFeeBps  int    `json:"platform_fee_bps"`
	HoldDays        int    `json:"hold_days"`
	MinAmountCents  int64  `json:"min_amount_cents"`
	PublishableKey  string `json:"publishable_key"`
	ReleaseOnCodeOK bool   `json:"release_on_code_ok"`
}

// PaymentStatus is the provider-side state of a payment.
type PaymentStatus struct {
	ProviderRef string       `json:"payment_id"`
	Provider    string       `json:"provider_status"`
	AmountCents int64        `json:"amount_cents"`
	Currency    string       `json:"currency"`
	Escrow      EscrowStatus `json:"escrow_status,omitempty"`
}
