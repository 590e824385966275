package procedures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/rpc"
	"ecodeli/internal/service/merchant"
	"ecodeli/internal/session"

	"github.com/stretchr/testify/require"
)

type stubDelivery struct {
	deliveryUsecase
	validateFn func(ctx context.Context, courierID, deliveryID int64, code string) (domain.ValidationResult, error)
	listFn     func(ctx context.Context, courierID int64, status *domain.DeliveryStatus, limit, offset int) ([]domain.CourierDelivery, error)
	acceptFn   func(ctx context.Context, courierID, announcementID int64) (*domain.CourierDelivery, error)
}

func (s stubDelivery) Validate(ctx context.Context, courierID, deliveryID int64, code string) (domain.ValidationResult, error) {
	return s.validateFn(ctx, courierID, deliveryID, code)
}

func (s stubDelivery) List(ctx context.Context, courierID int64, status *domain.DeliveryStatus, limit, offset int) ([]domain.CourierDelivery, error) {
	return s.listFn(ctx, courierID, status, limit, offset)
}

func (s stubDelivery) Accept(ctx context.Context, courierID, announcementID int64) (*domain.CourierDelivery, error) {
	return s.acceptFn(ctx, courierID, announcementID)
}

type stubProvider struct {
	providerUsecase
	setFn func(ctx context.Context, providerID int64, weekday int, start, end string) (*domain.Schedule, error)
}

func (s stubProvider) SetSchedule(ctx context.Context, providerID int64, weekday int, start, end string) (*domain.Schedule, error) {
	return s.setFn(ctx, providerID, weekday, start, end)
}

type stubMerchant struct {
	createFn func(ctx context.Context, merchantID int64, in merchant.CartDropInput) (*domain.CartDrop, error)
}

func (s stubMerchant) CreateCartDrop(ctx context.Context, merchantID int64, in merchant.CartDropInput) (*domain.CartDrop, error) {
	return s.createFn(ctx, merchantID, in)
}

func (stubMerchant) CartDrops(context.Context, int64) ([]domain.CartDrop, error) {
	return nil, nil
}

func caller(id int64, role domain.Role) rpc.Caller {
	return rpc.Caller{Session: &session.Session{UserID: id, Role: role}}
}

func newRouter(eps ...[]rpc.Endpoint) *rpc.Router {
	r := rpc.NewRouter(nil, nil)
	for _, e := range eps {
		r.Register(e...)
	}
	return r
}

func TestDeliveryValidate(t *testing.T) {
	t.Parallel()

	validatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := stubDelivery{
		validateFn: func(_ context.Context, courierID, deliveryID int64, code string) (domain.ValidationResult, error) {
			require.Equal(t, int64(7), courierID)
			if code != "K7M2QX" {
				return domain.ValidationResult{}, fmt.Errorf("delivery %d: %w", deliveryID, apperr.ErrInvalidCode)
			}
			return domain.ValidationResult{
				DeliveryID:  deliveryID,
				Status:      domain.DeliveryCompleted,
				ValidatedAt: validatedAt,
				Escrow:      domain.EscrowReleased,
			}, nil
		},
	}
	r := newRouter(Delivery(uc))

	tests := []struct {
		name     string
		caller   rpc.Caller
		body     string
		wantHTTP int
		wantCode string
	}{
		{"no session", rpc.Caller{}, `{"delivery_id":1,"code":"K7M2QX"}`, http.StatusUnauthorized, rpc.CodeUnauthorized},
		{"client role", caller(7, domain.RoleClient), `{"delivery_id":1,"code":"K7M2QX"}`, http.StatusForbidden, rpc.CodeForbidden},
		{"short code", caller(7, domain.RoleCourier), `{"delivery_id":1,"code":"K7M2Q"}`, http.StatusUnprocessableEntity, rpc.CodeValidation},
		{"long code", caller(7, domain.RoleCourier), `{"delivery_id":1,"code":"K7M2QXX"}`, http.StatusUnprocessableEntity, rpc.CodeValidation},
		{"wrong code", caller(7, domain.RoleCourier), `{"delivery_id":1,"code":"k7m2qx"}`, http.StatusBadRequest, rpc.CodeInvalidCode},
		{"ok", caller(7, domain.RoleCourier), `{"delivery_id":1,"code":"K7M2QX"}`, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, res := r.Call(context.Background(), "delivery.validate", tt.caller, strings.NewReader(tt.body))
			require.Equal(t, tt.wantHTTP, status)
			require.Equal(t, tt.wantCode, res.Code)
		})
	}
}

func TestDeliveryValidate_Payload(t *testing.T) {
	t.Parallel()

	uc := stubDelivery{
		validateFn: func(_ context.Context, _, deliveryID int64, _ string) (domain.ValidationResult, error) {
			return domain.ValidationResult{DeliveryID: deliveryID, Status: domain.DeliveryCompleted, Escrow: domain.EscrowReleased}, nil
		},
	}
	r := newRouter(Delivery(uc))

	_, res := r.Call(context.Background(), "delivery.validate", caller(7, domain.RoleCourier), strings.NewReader(`{"delivery_id":3,"code":"K7M2QX"}`))
	require.True(t, res.Success)

	out, ok := res.Data.(validationOut)
	require.True(t, ok)
	require.Equal(t, int64(3), out.DeliveryID)
	require.Equal(t, "completed", out.Status)
	require.Equal(t, "released", out.Escrow)
}

func TestDeliveryList_NeverExposesCode(t *testing.T) {
	t.Parallel()

	var gotStatus *domain.DeliveryStatus
	uc := stubDelivery{
		listFn: func(_ context.Context, _ int64, status *domain.DeliveryStatus, _, _ int) ([]domain.CourierDelivery, error) {
			gotStatus = status
			return []domain.CourierDelivery{{ID: 1, CourierID: 7, Status: domain.DeliveryActive, ValidationCode: "K7M2QX"}}, nil
		},
	}
	r := newRouter(Delivery(uc))

	status, res := r.Call(context.Background(), "delivery.list", caller(7, domain.RoleCourier), strings.NewReader(`{"status":"active"}`))
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, gotStatus)
	require.Equal(t, domain.DeliveryActive, *gotStatus)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "K7M2QX")
}

func TestDeliveryList_UnknownStatus(t *testing.T) {
	t.Parallel()

	r := newRouter(Delivery(stubDelivery{}))

	status, res := r.Call(context.Background(), "delivery.list", caller(7, domain.RoleCourier), strings.NewReader(`{"status":"lost"}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, rpc.CodeValidation, res.Code)
	require.Len(t, res.Details, 1)
	require.Equal(t, "status", res.Details[0].Field)
}

func TestDeliveryAccept_ConflictPassesThrough(t *testing.T) {
	t.Parallel()

	uc := stubDelivery{
		acceptFn: func(context.Context, int64, int64) (*domain.CourierDelivery, error) {
			return nil, fmt.Errorf("announcement 9 is taken: %w", apperr.ErrConflict)
		},
	}
	r := newRouter(Delivery(uc))

	status, res := r.Call(context.Background(), "delivery.accept", caller(7, domain.RoleCourier), strings.NewReader(`{"announcement_id":9}`))
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, rpc.CodeConflict, res.Code)
}

func TestScheduleSet(t *testing.T) {
	t.Parallel()

	var gotWeekday int
	uc := stubProvider{
		setFn: func(_ context.Context, providerID int64, weekday int, start, end string) (*domain.Schedule, error) {
			gotWeekday = weekday
			return &domain.Schedule{ID: 1, ProviderID: providerID, Weekday: weekday, Start: start, End: end}, nil
		},
	}
	r := newRouter(Provider(uc))
	c := caller(4, domain.RoleProvider)

	status, _ := r.Call(context.Background(), "schedule.set", c, strings.NewReader(`{"weekday":0,"start":"09:00","end":"17:30"}`))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, gotWeekday)

	status, res := r.Call(context.Background(), "schedule.set", c, strings.NewReader(`{"start":"09:00","end":"17:30"}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "weekday", res.Details[0].Field)

	status, res = r.Call(context.Background(), "schedule.set", c, strings.NewReader(`{"weekday":1,"start":"9am","end":"17:30"}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "start", res.Details[0].Field)

	status, _ = r.Call(context.Background(), "schedule.set", caller(4, domain.RoleClient), strings.NewReader(`{"weekday":1,"start":"09:00","end":"17:30"}`))
	require.Equal(t, http.StatusForbidden, status)
}

func TestCartDropCreate(t *testing.T) {
	t.Parallel()

	uc := stubMerchant{
		createFn: func(_ context.Context, merchantID int64, in merchant.CartDropInput) (*domain.CartDrop, error) {
			return &domain.CartDrop{ID: 1, MerchantID: merchantID, Items: in.Items}, nil
		},
	}
	r := newRouter(Merchant(uc))
	c := caller(5, domain.RoleMerchant)

	status, res := r.Call(context.Background(), "cartdrop.create", c, strings.NewReader(
		`{"customer_name":"Ana","address":"1 rue de Paris","time_slot":"18:00-20:00","items":["bread","milk"]}`))
	require.Equal(t, http.StatusOK, status)
	drop, ok := res.Data.(*domain.CartDrop)
	require.True(t, ok)
	require.Equal(t, int64(5), drop.MerchantID)
	require.Equal(t, []string{"bread", "milk"}, drop.Items)

	status, res = r.Call(context.Background(), "cartdrop.create", c, strings.NewReader(
		`{"customer_name":"Ana","address":"1 rue de Paris","time_slot":"18:00-20:00","items":[]}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, rpc.CodeValidation, res.Code)
}

func TestPublicCatalogProcedures(t *testing.T) {
	t.Parallel()

	r := newRouter(Payment(nil), Subscription(nil))

	status, res := r.Call(context.Background(), "insurance.plans", rpc.Caller{}, nil)
	require.Equal(t, http.StatusOK, status)
	plans, ok := res.Data.([]domain.InsuranceTier)
	require.True(t, ok)
	require.NotEmpty(t, plans)

	status, res = r.Call(context.Background(), "insurance.plan", rpc.Caller{}, strings.NewReader(`{"id":"gold"}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, rpc.CodeValidation, res.Code)

	status, _ = r.Call(context.Background(), "subscription.plans", rpc.Caller{}, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = r.Call(context.Background(), "subscription.get", rpc.Caller{}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestCatalogNamesAreUnique(t *testing.T) {
	t.Parallel()

	r := newRouter(
		Delivery(nil), Payment(nil), Notification(nil), Purchase(nil),
		Subscription(nil), Provider(nil), Merchant(nil),
	)
	require.Len(t, r.Catalog(), 29)
}
