package merchant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

const maxItems = 50

// CartDropInput is a merchant's request to deliver an in-store purchase.
type CartDropInput struct {
	CustomerName string
	Address      string
	TimeSlot     string
	Items        []string
}

// Service serves merchant cart drops and the merchant overview.
type Service struct {
	drops            cartDropRepository
	users            userRepository
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a merchant Service.
func NewService(drops cartDropRepository, users userRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{drops: drops, users: users, operationTimeout: timeout, logger: logger}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// CreateCartDrop stores a pending cart drop.
func (s *Service) CreateCartDrop(ctx context.Context, merchantID int64, in CartDropInput) (*domain.CartDrop, error) {
	items := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	c := &domain.CartDrop{
		MerchantID:   merchantID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Address:      strings.TrimSpace(in.Address),
		TimeSlot:     strings.TrimSpace(in.TimeSlot),
		Items:        items,
		Status:       domain.CartDropPending,
	}
	switch {
	case c.CustomerName == "" || c.Address == "" || c.TimeSlot == "":
		return nil, fmt.Errorf("%w: customer, address and time slot are required", apperr.ErrInvalid)
	case len(items) == 0:
		return nil, fmt.Errorf("%w: at least one item is required", apperr.ErrInvalid)
	case len(items) > maxItems:
		return nil, fmt.Errorf("%w: at most %d items", apperr.ErrInvalid, maxItems)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.drops.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("cart drop created",
		logx.Int64("cart_drop_id", c.ID),
		logx.Int64("merchant_id", merchantID),
		logx.Int("items", len(items)),
	)
	return c, nil
}

// CartDrops lists the merchant's cart drops.
func (s *Service) CartDrops(ctx context.Context, merchantID int64) ([]domain.CartDrop, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.drops.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CartDrop{}
	}
	return out, nil
}

// Overview returns the merchant profile with cart drop counts per status.
func (s *Service) Overview(ctx context.Context, merchantID int64) (*domain.MerchantOverview, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.Get(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: merchant %d", apperr.ErrNotFound, merchantID)
	}

	counts, err := s.drops.CountByStatus(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	all := map[domain.CartDropStatus]int64{
		domain.CartDropPending:   0,
		domain.CartDropScheduled: 0,
		domain.CartDropDelivered: 0,
		domain.CartDropCancelled: 0,
	}
	for k, v := range counts {
		all[k] = v
	}

	return &domain.MerchantOverview{
		MerchantID: u.ID,
		Name:       u.Name,
		Email:      u.Email,
		CartDrops:  all,
	}, nil
}
