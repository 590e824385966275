package payment

import (
	"context"

	"ecodeli/internal/domain"
	"ecodeli/internal/gateway/payment"
)

type escrowRepository interface {
	GetByProviderRef(ctx context.Context, ref string) (*domain.Escrow, error)
	SetStatusByProviderRef(ctx context.Context, ref string, status domain.EscrowStatus) (int64, error)
}

// Gateway is the payment provider API.
type Gateway interface {
	GetIntent(ctx context.Context, id string) (*payment.Intent, error)
	Capture(ctx context.Context, id string) (*payment.Intent, error)
	Cancel(ctx context.Context, id string) (*payment.Intent, error)
}

// Notifier informs users about payment events.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}
