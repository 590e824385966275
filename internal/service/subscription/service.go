package subscription

import (
	"context"
	"fmt"
	"time"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

// View is a subscription with the terms of its plan.
type View struct {
	domain.Subscription
	Terms domain.PlanTerms `json:"terms"`
}

// Service reads and changes client plans.
type Service struct {
	repo             subscriptionRepository
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a subscription Service.
func NewService(repo subscriptionRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func view(sub domain.Subscription) View {
	terms, _ := sub.Plan.Terms()
	return View{Subscription: sub, Terms: terms}
}

// Get returns the user's plan; users who never subscribed are on free.
func (s *Service) Get(ctx context.Context, userID int64) (View, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sub, err := s.repo.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	if sub == nil {
		return view(domain.Subscription{UserID: userID, Plan: domain.PlanFree}), nil
	}
	return view(*sub), nil
}

// Change switches the user to plan. Re-selecting the current plan keeps its start date.
func (s *Service) Change(ctx context.Context, userID int64, plan domain.SubscriptionPlan) (View, error) {
	if !plan.Valid() {
		return View{}, fmt.Errorf("%w: unknown plan %q", apperr.ErrInvalid, plan)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cur, err := s.repo.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	if cur != nil && cur.Plan == plan {
		return view(*cur), nil
	}

	sub := &domain.Subscription{UserID: userID, Plan: plan, StartedAt: s.now()}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return View{}, err
	}

	from := domain.PlanFree
	if cur != nil {
		from = cur.Plan
	}
	s.logger.Info("subscription changed",
		logx.Int64("user_id", userID),
		logx.String("from", string(from)),
		logx.String("to", string(plan)),
	)
	return view(*sub), nil
}

// Plans lists every plan with its terms.
func Plans() []domain.PlanTerms {
	out := make([]domain.PlanTerms, 0, 3)
	for _, p := range []domain.SubscriptionPlan{domain.PlanFree, domain.PlanStarter, domain.PlanPremium} {
		t, _ := p.Terms()
		out = append(out, t)
	}
	return out
}
