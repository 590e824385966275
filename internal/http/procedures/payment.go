package procedures

import (
	"context"

	"ecodeli/internal/domain"
	"ecodeli/internal/rpc"
	"ecodeli/internal/service/payment"
)

type insurancePlanIn struct {
	ID string `json:"id" validate:"required,oneof=none basic premium max"`
}

type paymentStatusIn struct {
	PaymentID string `json:"payment_id" validate:"required,max=255"`
}

// Payment returns the escrow, insurance and payment status procedures.
func Payment(uc paymentUsecase) []rpc.Endpoint {
	return []rpc.Endpoint{
		rpc.Procedure[struct{}, []domain.InsuranceTier]{
			Name:        "insurance.plans",
			Description: "Coverage tiers with caps and prices",
			Access:      rpc.Public,
			Handle: func(context.Context, rpc.Caller, struct{}) ([]domain.InsuranceTier, error) {
				return payment.InsurancePlans(), nil
			},
		},
		rpc.Procedure[insurancePlanIn, domain.InsuranceTier]{
			Name:        "insurance.plan",
			Description: "One coverage tier",
			Access:      rpc.Public,
			Handle: func(_ context.Context, _ rpc.Caller, in insurancePlanIn) (domain.InsuranceTier, error) {
				return payment.InsurancePlan(domain.InsuranceTierID(in.ID))
			},
		},
		rpc.Procedure[struct{}, domain.EscrowConfig]{
			Name:        "payment.escrowConfig",
			Description: "Escrow constants and the publishable payment key",
			Access:      rpc.Public,
			Handle: func(context.Context, rpc.Caller, struct{}) (domain.EscrowConfig, error) {
				return uc.EscrowConfig(), nil
			},
		},
		rpc.Procedure[paymentStatusIn, domain.PaymentStatus]{
			Name:        "payment.status",
			Description: "Provider status of a payment the caller made",
			Access:      rpc.Authenticated,
			Handle: func(ctx context.Context, c rpc.Caller, in paymentStatusIn) (domain.PaymentStatus, error) {
				return uc.Status(ctx, c.UserID(), in.PaymentID)
			},
		},
	}
}
