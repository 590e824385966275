package purchase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

const maxQuantity = 20

// Input is an international purchase request.
type Input struct {
	ProductName     string
	ProductURL      string
	Country         string
	Quantity        int
	MaxPriceCents   int64
	DeliveryAddress string
}

// Service records international purchase requests.
type Service struct {
	repo             purchaseRepository
	operationTimeout time.Duration
	logger           logx.Logger
	newRef           func() string
}

// NewService creates a purchase Service.
func NewService(repo purchaseRepository, timeout time.Duration, logger logx.Logger) *Service {
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
		newRef:           func() string { return uuid.NewString() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validate(in *Input) error {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))

	if in.ProductName == "" || in.DeliveryAddress == "" {
		return fmt.Errorf("%w: product name and delivery address are required", apperr.ErrInvalid)
	}
	if u, err := url.Parse(in.ProductURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: product url must be absolute http(s)", apperr.ErrInvalid)
	}
	if len(in.Country) != 2 {
		return fmt.Errorf("%w: country must be an ISO 3166 alpha-2 code", apperr.ErrInvalid)
	}
	if in.Quantity < 1 || in.Quantity > maxQuantity {
		return fmt.Errorf("%w: quantity must be 1..%d", apperr.ErrInvalid, maxQuantity)
	}
	if in.MaxPriceCents <= 0 {
		return fmt.Errorf("%w: max price must be positive", apperr.ErrInvalid)
	}
	return nil
}

// Create stores a new request in the requested state.
func (s *Service) Create(ctx context.Context, clientID int64, in Input) (*domain.InternationalPurchase, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := &domain.InternationalPurchase{
		Reference:       s.newRef(),
		ClientID:        clientID,
		ProductName:     in.ProductName,
		ProductURL:      in.ProductURL,
		Country:         in.Country,
		Quantity:        in.Quantity,
		MaxPriceCents:   in.MaxPriceCents,
		DeliveryAddress: in.DeliveryAddress,
		Status:          domain.PurchaseRequested,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("purchase requested",
		logx.String("event", "purchase_requested"),
		logx.String("reference", p.Reference),
		logx.Int64("client_id", clientID),
	)
	return p, nil
}

// List returns the client's requests.
func (s *Service) List(ctx context.Context, clientID int64) ([]domain.InternationalPurchase, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.InternationalPurchase{}
	}
	return out, nil
}
