package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

type stubRepo struct {
	createFn func(ctx context.Context, p *domain.InternationalPurchase) error
	listFn   func(ctx context.Context, clientID int64) ([]domain.InternationalPurchase, error)
}

func (s *stubRepo) Create(ctx context.Context, p *domain.InternationalPurchase) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, p)
}

func (s *stubRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.InternationalPurchase, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, clientID)
}

func validInput() Input {
	return Input{
		ProductName:     "Matcha",
		ProductURL:      "https://shop.example.jp/matcha",
		Country:         "jp",
		Quantity:        2,
		MaxPriceCents:   4500,
		DeliveryAddress: "1 rue de Rivoli, Paris",
	}
}

func TestNewService_ZeroTimeoutUsesDefault(t *testing.T) {
	t.Parallel()

	s := NewService(&stubRepo{}, 0, nil)
	require.Equal(t, 3*time.Second, s.operationTimeout)
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	var stored *domain.InternationalPurchase
	repo := &stubRepo{createFn: func(_ context.Context, p *domain.InternationalPurchase) error {
		p.ID = 11
		stored = p
		return nil
	}}
	s := NewService(repo, time.Second, logx.Nop())

	p, err := s.Create(context.Background(), 5, validInput())
	require.NoError(t, err)
	require.Equal(t, int64(11), p.ID)
	require.Equal(t, "JP", p.Country)
	require.Equal(t, domain.PurchaseRequested, p.Status)
	require.Equal(t, int64(5), p.ClientID)
	_, err = uuid.Parse(p.Reference)
	require.NoError(t, err)
	require.Same(t, stored, p)
}

func TestService_Create_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]func(in *Input){
		"relative url":  func(in *Input) { in.ProductURL = "/matcha" },
		"ftp url":       func(in *Input) { in.ProductURL = "ftp://shop.example.jp/x" },
		"long country":  func(in *Input) { in.Country = "JPN" },
		"zero quantity": func(in *Input) { in.Quantity = 0 },
		"too many":      func(in *Input) { in.Quantity = 21 },
		"no price":      func(in *Input) { in.MaxPriceCents = 0 },
		"no address":    func(in *Input) { in.DeliveryAddress = "  " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := NewService(&stubRepo{createFn: func(context.Context, *domain.InternationalPurchase) error {
				t.Fatal("repository must not be called")
				return nil
			}}, time.Second, logx.Nop())
			in := validInput()
			mutate(&in)
			_, err := s.Create(context.Background(), 5, in)
			require.ErrorIs(t, err, apperr.ErrInvalid)
		})
	}
}

func TestService_Create_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	s := NewService(&stubRepo{createFn: func(context.Context, *domain.InternationalPurchase) error { return boom }}, time.Second, logx.Nop())

	_, err := s.Create(context.Background(), 5, validInput())
	require.ErrorIs(t, err, boom)
}

func TestService_List_NeverNil(t *testing.T) {
	t.Parallel()

	s := NewService(&stubRepo{}, time.Second, logx.Nop())
	out, err := s.List(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, out)
}
